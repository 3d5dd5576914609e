package formats

import (
	"fmt"

	"github.com/aretw0/corpus/pkg/domain"
)

// Record is the shape of one sample in the structured interchange formats.
// Names may be given as explicit spans, as per-token IOB tags, or both.
type Record struct {
	Tokens            []string      `json:"tokens" yaml:"tokens"`
	Spans             []domain.Span `json:"spans,omitempty" yaml:"spans,omitempty"`
	Tags              []string      `json:"tags,omitempty" yaml:"tags,omitempty"`
	ClearAdaptiveData bool          `json:"clear_adaptive_data,omitempty" yaml:"clear_adaptive_data,omitempty"`
}

// IsEmpty reports whether the record carries no data at all.
func (r Record) IsEmpty() bool {
	return len(r.Tokens) == 0 && len(r.Spans) == 0 && len(r.Tags) == 0 && !r.ClearAdaptiveData
}

// Sample validates the record and converts it into a NameSample.
func (r Record) Sample() (domain.NameSample, error) {
	spans := append([]domain.Span(nil), r.Spans...)
	if len(r.Tags) > 0 {
		if len(r.Tags) != len(r.Tokens) {
			return domain.NameSample{}, fmt.Errorf("%d tags for %d tokens", len(r.Tags), len(r.Tokens))
		}
		tagged, err := SpansFromIOB(r.Tags, func(t string) string { return t })
		if err != nil {
			return domain.NameSample{}, err
		}
		spans = append(spans, tagged...)
	}
	return domain.NewNameSample(r.Tokens, spans, r.ClearAdaptiveData)
}

// NewRecord converts a sample into its interchange record, with explicit spans.
func NewRecord(s domain.NameSample) Record {
	return Record{
		Tokens:            s.Tokens(),
		Spans:             s.Spans(),
		ClearAdaptiveData: s.ClearAdaptiveData(),
	}
}
