package formats

import (
	"fmt"
	"io"

	"github.com/aretw0/corpus/pkg/ports"
	"github.com/mitchellh/mapstructure"
)

// Parameter keys understood by every adapter.
const (
	ParamData     = "data"
	ParamEncoding = "encoding"
	ParamReader   = "reader"
)

// DefaultEncoding is assumed when no charset is given.
const DefaultEncoding = "UTF-8"

// Source describes where an adapter reads from. Reader takes precedence over Data,
// which lets HTTP handlers and tests stream a body without a file.
type Source struct {
	Data     string    `mapstructure:"data"`
	Encoding string    `mapstructure:"encoding"`
	Reader   io.Reader `mapstructure:"reader"`
}

// Name returns a printable name for the source.
func (s Source) Name() string {
	if s.Reader != nil && s.Data == "" {
		return "<stream>"
	}
	return s.Data
}

// DecodeParams decodes raw factory parameters into out, which must be a pointer
// to a struct with mapstructure tags. Unknown keys are rejected so that typos
// surface before any input is read. Comma-separated strings decode into slices.
func DecodeParams(params ports.Params, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
	})
	if err != nil {
		return fmt.Errorf("failed to build parameter decoder: %w", err)
	}
	if err := decoder.Decode(map[string]any(params)); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	return nil
}
