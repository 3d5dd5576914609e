package domain

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Span is a half-open range of token offsets [Start, End) labeled with an entity type.
// An empty Type means the span is untyped.
type Span struct {
	Start int    `json:"start" yaml:"start" mapstructure:"start"`
	End   int    `json:"end" yaml:"end" mapstructure:"end"`
	Type  string `json:"type,omitempty" yaml:"type,omitempty" mapstructure:"type"`
}

// Length returns the number of tokens covered by the span.
func (s Span) Length() int {
	return s.End - s.Start
}

// Intersects reports whether both spans share at least one token.
func (s Span) Intersects(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

// Native format span tags.
const (
	TagStart       = "<START>"
	TagStartPrefix = "<START:"
	TagEnd         = "<END>"
)

// IsTag reports whether tok is one of the reserved native-format span tags.
func IsTag(tok string) bool {
	return tok == TagStart || tok == TagEnd ||
		(strings.HasPrefix(tok, TagStartPrefix) && strings.HasSuffix(tok, ">"))
}

// NameSample is one annotated sentence: its tokens and the name spans over them.
// A NameSample is immutable; accessors return copies.
type NameSample struct {
	tokens            []string
	spans             []Span
	clearAdaptiveData bool
}

// NewNameSample validates and copies its inputs into a NameSample.
// Spans are sorted by start offset and must not overlap.
func NewNameSample(tokens []string, spans []Span, clearAdaptiveData bool) (NameSample, error) {
	if len(tokens) == 0 {
		return NameSample{}, fmt.Errorf("%w: sample has no tokens", ErrInvalidSample)
	}

	toks := make([]string, len(tokens))
	for i, tok := range tokens {
		if tok == "" || strings.ContainsFunc(tok, unicode.IsSpace) {
			return NameSample{}, fmt.Errorf("%w: token %d (%q) is empty or contains whitespace", ErrInvalidSample, i, tok)
		}
		if IsTag(tok) {
			return NameSample{}, fmt.Errorf("%w: token %d (%q) is a reserved span tag", ErrInvalidSample, i, tok)
		}
		toks[i] = tok
	}

	sorted := make([]Span, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	for i, s := range sorted {
		if s.Start < 0 || s.End > len(toks) || s.Start >= s.End {
			return NameSample{}, fmt.Errorf("%w: span [%d,%d) out of range for %d tokens", ErrInvalidSample, s.Start, s.End, len(toks))
		}
		if strings.ContainsAny(s.Type, "<>") || strings.ContainsFunc(s.Type, unicode.IsSpace) {
			return NameSample{}, fmt.Errorf("%w: span type %q contains reserved characters", ErrInvalidSample, s.Type)
		}
		if i > 0 && sorted[i-1].Intersects(s) {
			return NameSample{}, fmt.Errorf("%w: spans [%d,%d) and [%d,%d) overlap", ErrInvalidSample,
				sorted[i-1].Start, sorted[i-1].End, s.Start, s.End)
		}
	}

	return NameSample{
		tokens:            toks,
		spans:             sorted,
		clearAdaptiveData: clearAdaptiveData,
	}, nil
}

// Tokens returns a copy of the sample tokens.
func (s NameSample) Tokens() []string {
	out := make([]string, len(s.tokens))
	copy(out, s.tokens)
	return out
}

// Spans returns a copy of the name spans, ordered by start offset.
func (s NameSample) Spans() []Span {
	out := make([]Span, len(s.spans))
	copy(out, s.spans)
	return out
}

// ClearAdaptiveData reports whether the sample starts a new document.
func (s NameSample) ClearAdaptiveData() bool {
	return s.clearAdaptiveData
}

// Len returns the number of tokens.
func (s NameSample) Len() int {
	return len(s.tokens)
}

// Equal reports whether both samples carry the same tokens, spans and boundary flag.
func (s NameSample) Equal(other NameSample) bool {
	if s.clearAdaptiveData != other.clearAdaptiveData ||
		len(s.tokens) != len(other.tokens) ||
		len(s.spans) != len(other.spans) {
		return false
	}
	for i := range s.tokens {
		if s.tokens[i] != other.tokens[i] {
			return false
		}
	}
	for i := range s.spans {
		if s.spans[i] != other.spans[i] {
			return false
		}
	}
	return true
}

// String renders the sample as a single native-format line, without the
// document boundary marker.
func (s NameSample) String() string {
	var b strings.Builder
	next := 0
	for i, tok := range s.tokens {
		if next < len(s.spans) && s.spans[next].Start == i {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			if s.spans[next].Type == "" {
				b.WriteString(TagStart)
			} else {
				b.WriteString(TagStartPrefix)
				b.WriteString(s.spans[next].Type)
				b.WriteByte('>')
			}
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(tok)
		if next < len(s.spans) && s.spans[next].End == i+1 {
			b.WriteString(" " + TagEnd)
			next++
		}
	}
	return b.String()
}
