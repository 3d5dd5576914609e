package native

import (
	"io"

	"github.com/aretw0/corpus/pkg/domain"
	"github.com/aretw0/corpus/pkg/formats"
	"github.com/aretw0/corpus/pkg/ports"
)

// FormatID is the registry identifier of the native format.
const FormatID = "native"

// Factory reads native-format input back, which normalizes whitespace and
// validates a corpus that is already in the canonical format.
type Factory struct{}

var _ ports.StreamFactory = Factory{}

// CreateInputStream opens the source named by the "data" parameter.
func (Factory) CreateInputStream(params ports.Params) (ports.SampleStream, error) {
	var src formats.Source
	if err := formats.DecodeParams(params, &src); err != nil {
		return nil, &domain.InputError{Format: FormatID, Err: err}
	}
	rc, err := formats.OpenSource(FormatID, src)
	if err != nil {
		return nil, err
	}
	return NewReader(rc), nil
}

// CreateOutputWriter returns a native writer.
func (Factory) CreateOutputWriter(dst io.Writer) ports.SampleWriter {
	return NewWriter(dst)
}

// Describe implements ports.Describer.
func (Factory) Describe() string {
	return "native name finder format, one sentence per line with <START:type> ... <END> tags"
}
