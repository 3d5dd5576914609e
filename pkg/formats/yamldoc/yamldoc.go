// Package yamldoc reads samples from a multi-document YAML stream, one
// formats.Record per document.
//
//	tokens: [Pierre, Vinken, joined]
//	spans:
//	  - {start: 0, end: 2, type: person}
//	---
//	tokens: [He, left, Madrid]
//	tags: [O, O, B-location]
//	clear_adaptive_data: true
package yamldoc

import (
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/corpus/pkg/domain"
	"github.com/aretw0/corpus/pkg/formats"
	"github.com/aretw0/corpus/pkg/formats/native"
	"github.com/aretw0/corpus/pkg/ports"
	"gopkg.in/yaml.v3"
)

// FormatID is the registry identifier of the YAML adapter.
const FormatID = "yaml"

// Factory builds YAML sample streams.
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
	return NewStream(rc), nil
}

// CreateOutputWriter returns a native writer.
func (Factory) CreateOutputWriter(dst io.Writer) ports.SampleWriter {
	return native.NewWriter(dst)
}

// Describe implements ports.Describer.
func (Factory) Describe() string {
	return "multi-document YAML, one {tokens, spans|tags, clear_adaptive_data} mapping per document"
}

// Stream decodes one record per YAML document. Empty documents are skipped.
type Stream struct {
	src     io.ReadCloser
	decoder *yaml.Decoder
	doc     int
	done    bool
}

// NewStream wraps src; the stream owns src.
func NewStream(src io.ReadCloser) *Stream {
	dec := yaml.NewDecoder(src)
	dec.KnownFields(true)
	return &Stream{src: src, decoder: dec}
}

// Read returns the next sample, or io.EOF.
func (s *Stream) Read() (domain.NameSample, error) {
	for !s.done {
		var rec formats.Record
		err := s.decoder.Decode(&rec)
		if errors.Is(err, io.EOF) {
			s.done = true
			break
		}
		s.doc++
		if err != nil {
			// The decoder cannot resynchronize after a syntax error.
			s.done = true
			return domain.NameSample{}, &domain.ParseError{Msg: fmt.Sprintf("document %d: malformed YAML", s.doc), Err: err}
		}
		if rec.IsEmpty() {
			continue
		}
		sample, err := rec.Sample()
		if err != nil {
			return domain.NameSample{}, &domain.ParseError{Msg: fmt.Sprintf("document %d: invalid record", s.doc), Err: err}
		}
		return sample, nil
	}
	return domain.NameSample{}, io.EOF
}

// Close releases the underlying source.
func (s *Stream) Close() error {
	s.done = true
	return s.src.Close()
}
