// Package native implements the canonical name-finder training format.
//
// One sample is written per line. Tokens are separated by a single space and
// names are enclosed in "<START:type>" and "<END>" tags ("<START>" for untyped
// names). An empty line before a sample marks the start of a new document, for
// which a trainer clears its adaptive data.
//
//	<START:person> Pierre Vinken <END> , 61 years old , will join the board .
//
//	<START:organization> Elsevier N.V. <END> is a Dutch publishing group .
package native

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/corpus/pkg/domain"
)

// Parse decodes one native-format line.
func Parse(line string, clearAdaptiveData bool) (domain.NameSample, error) {
	fields := strings.Fields(line)

	tokens := make([]string, 0, len(fields))
	var spans []domain.Span

	open := -1
	var curType string

	for _, f := range fields {
		switch {
		case f == domain.TagStart || (strings.HasPrefix(f, domain.TagStartPrefix) && strings.HasSuffix(f, ">")):
			if open >= 0 {
				return domain.NameSample{}, errors.New("nested <START> tag")
			}
			open = len(tokens)
			curType = ""
			if f != domain.TagStart {
				curType = f[len(domain.TagStartPrefix) : len(f)-1]
				if curType == "" {
					return domain.NameSample{}, fmt.Errorf("empty type in %q", f)
				}
			}
		case f == domain.TagEnd:
			if open < 0 {
				return domain.NameSample{}, errors.New("<END> without matching <START>")
			}
			if open == len(tokens) {
				return domain.NameSample{}, errors.New("name span without tokens")
			}
			spans = append(spans, domain.Span{Start: open, End: len(tokens), Type: curType})
			open = -1
		default:
			tokens = append(tokens, f)
		}
	}
	if open >= 0 {
		return domain.NameSample{}, errors.New("missing <END> tag")
	}

	return domain.NewNameSample(tokens, spans, clearAdaptiveData)
}

// AppendSample appends the encoded sample, including its trailing newline and the
// preceding empty line of a document boundary, to buf.
func AppendSample(buf []byte, s domain.NameSample) []byte {
	if s.ClearAdaptiveData() {
		buf = append(buf, '\n')
	}
	buf = append(buf, s.String()...)
	return append(buf, '\n')
}
