// Package jsonl reads samples from JSON Lines input, one formats.Record per line.
//
//	{"tokens":["Pierre","Vinken","joined"],"spans":[{"start":0,"end":2,"type":"person"}]}
//	{"tokens":["He","left","Madrid"],"tags":["O","O","B-location"],"clear_adaptive_data":true}
package jsonl

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"

	"github.com/aretw0/corpus/pkg/domain"
	"github.com/aretw0/corpus/pkg/formats"
	"github.com/aretw0/corpus/pkg/formats/native"
	"github.com/aretw0/corpus/pkg/ports"
)

// FormatID is the registry identifier of the JSON Lines adapter.
const FormatID = "jsonl"

// Factory builds JSON Lines sample streams.
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
	return "JSON Lines, one {tokens, spans|tags, clear_adaptive_data} object per line"
}

// Stream decodes one record per non-blank line.
type Stream struct {
	src     io.ReadCloser
	scanner *bufio.Scanner
	line    int
}

// NewStream wraps src; the stream owns src.
func NewStream(src io.ReadCloser) *Stream {
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), native.MaxLineSize)
	return &Stream{src: src, scanner: scanner}
}

// Read returns the next sample, or io.EOF.
func (s *Stream) Read() (domain.NameSample, error) {
	for s.scanner.Scan() {
		s.line++
		raw := bytes.TrimSpace(s.scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		var rec formats.Record
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&rec); err != nil {
			return domain.NameSample{}, &domain.ParseError{Line: s.line, Msg: "malformed JSON record", Err: err}
		}
		sample, err := rec.Sample()
		if err != nil {
			return domain.NameSample{}, &domain.ParseError{Line: s.line, Msg: "invalid record", Err: err}
		}
		return sample, nil
	}
	if err := s.scanner.Err(); err != nil {
		return domain.NameSample{}, &domain.ParseError{Line: s.line + 1, Msg: "read failed", Err: err}
	}
	return domain.NameSample{}, io.EOF
}

// Close releases the underlying source.
func (s *Stream) Close() error {
	return s.src.Close()
}
