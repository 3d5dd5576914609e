// Package text turns raw text into silver-annotated samples.
//
// Each non-blank input line is one sentence. Tokens, and the IOB entity labels
// marking names, come from the prose statistical pipeline. A blank line starts a
// new document.
package text

import (
	"bufio"
	"io"
	"strings"

	"github.com/aretw0/corpus/pkg/domain"
	"github.com/aretw0/corpus/pkg/formats"
	"github.com/aretw0/corpus/pkg/formats/native"
	"github.com/aretw0/corpus/pkg/ports"
	"github.com/jdkato/prose/v2"
)

// FormatID is the registry identifier of the raw text adapter.
const FormatID = "text"

// Config holds the text adapter parameters.
type Config struct {
	formats.Source `mapstructure:",squash"`

	// Types keeps only the listed entity labels; all labels are kept when empty.
	Types []string `mapstructure:"types"`
	// LowercaseTypes maps labels such as PERSON to person.
	LowercaseTypes bool `mapstructure:"lowercase_types"`
}

// Factory builds text sample streams.
type Factory struct{}

var _ ports.StreamFactory = Factory{}

// CreateInputStream opens the source named by the "data" parameter.
func (Factory) CreateInputStream(params ports.Params) (ports.SampleStream, error) {
	cfg := Config{LowercaseTypes: true}
	if err := formats.DecodeParams(params, &cfg); err != nil {
		return nil, &domain.InputError{Format: FormatID, Err: err}
	}
	rc, err := formats.OpenSource(FormatID, cfg.Source)
	if err != nil {
		return nil, err
	}
	return NewStream(rc, formats.TypeFilter(cfg.Types, cfg.LowercaseTypes)), nil
}

// CreateOutputWriter returns a native writer.
func (Factory) CreateOutputWriter(dst io.Writer) ports.SampleWriter {
	return native.NewWriter(dst)
}

// Describe implements ports.Describer.
func (Factory) Describe() string {
	return "raw text, one sentence per line, names found by the prose entity extractor"
}

// Stream tags one line at a time.
type Stream struct {
	src     io.ReadCloser
	scanner *bufio.Scanner
	mapType func(string) string
	model   *prose.Model
	line    int
}

// NewStream wraps src; the stream owns src. mapType filters and renames entity labels.
func NewStream(src io.ReadCloser, mapType func(string) string) *Stream {
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), native.MaxLineSize)
	return &Stream{src: src, scanner: scanner, mapType: mapType}
}

// Read returns the next sample, or io.EOF.
func (s *Stream) Read() (domain.NameSample, error) {
	clear := false
	for s.scanner.Scan() {
		s.line++
		line := strings.TrimSpace(s.scanner.Text())
		if line == "" {
			clear = true
			continue
		}

		opts := []prose.DocOpt{prose.WithSegmentation(false)}
		if s.model != nil {
			opts = append(opts, prose.UsingModel(s.model))
		}
		doc, err := prose.NewDocument(line, opts...)
		if err != nil {
			return domain.NameSample{}, &domain.ParseError{Line: s.line, Msg: "tagging failed", Err: err}
		}
		// Loading the model is the expensive part; reuse it for the rest of the stream.
		s.model = doc.Model

		toks := doc.Tokens()
		if len(toks) == 0 {
			continue
		}
		tokens := make([]string, 0, len(toks))
		labels := make([]string, 0, len(toks))
		for _, tok := range toks {
			tokens = append(tokens, tok.Text)
			labels = append(labels, tok.Label)
		}

		spans, err := formats.SpansFromIOB(labels, s.mapType)
		if err != nil {
			return domain.NameSample{}, &domain.ParseError{Line: s.line, Msg: "bad entity labels", Err: err}
		}
		sample, err := domain.NewNameSample(tokens, spans, clear)
		if err != nil {
			return domain.NameSample{}, &domain.ParseError{Line: s.line, Msg: "invalid sample", Err: err}
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
