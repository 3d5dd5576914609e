package formats

import (
	"fmt"
	"strings"

	"github.com/aretw0/corpus/pkg/domain"
)

// SpansFromIOB converts per-token IOB labels ("B-PER", "I-PER", "O") into spans.
// An "I-" label that does not continue a span of the same type starts a new one,
// which is how IOB1 corpora mark entity starts. Labels are passed through mapType,
// which may return "" to drop the entity.
func SpansFromIOB(labels []string, mapType func(string) string) ([]domain.Span, error) {
	var (
		spans   []domain.Span
		open    = -1
		curType string
	)
	closeSpan := func(end int) {
		if open >= 0 {
			if t := mapType(curType); t != "" {
				spans = append(spans, domain.Span{Start: open, End: end, Type: t})
			}
		}
		open, curType = -1, ""
	}

	for i, label := range labels {
		switch {
		case label == "" || label == "O":
			closeSpan(i)
		case label == "B-" || label == "I-":
			return nil, fmt.Errorf("token %d has IOB label %q without an entity type", i, label)
		case strings.HasPrefix(label, "B-"):
			closeSpan(i)
			open, curType = i, label[2:]
		case strings.HasPrefix(label, "I-"):
			if open < 0 || curType != label[2:] {
				closeSpan(i)
				open, curType = i, label[2:]
			}
		default:
			return nil, fmt.Errorf("token %d has malformed IOB label %q", i, label)
		}
	}
	closeSpan(len(labels))
	return spans, nil
}

// TypeFilter returns a mapper for SpansFromIOB that keeps only the listed types
// (all types when the list is empty) and optionally lower-cases them.
func TypeFilter(types []string, lowercase bool) func(string) string {
	allowed := make(map[string]bool, len(types))
	for _, t := range types {
		allowed[strings.ToLower(strings.TrimSpace(t))] = true
	}
	return func(t string) string {
		if len(allowed) > 0 && !allowed[strings.ToLower(t)] {
			return ""
		}
		if lowercase {
			return strings.ToLower(t)
		}
		return t
	}
}
