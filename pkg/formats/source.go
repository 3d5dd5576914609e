package formats

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/corpus/pkg/domain"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// StdinPath selects standard input as the source.
const StdinPath = "-"

type sourceCloser struct {
	io.Reader
	closer io.Closer
}

func (s *sourceCloser) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// OpenSource opens the source and decodes it from its charset to UTF-8.
// All failures are reported as *domain.InputError so callers can tell them apart
// from parse errors found later. The returned closer never closes a caller
// supplied Reader or standard input.
func OpenSource(format string, src Source) (io.ReadCloser, error) {
	enc := src.Encoding
	if enc == "" {
		enc = DefaultEncoding
	}
	charset, err := htmlindex.Get(enc)
	if err != nil {
		return nil, &domain.InputError{Format: format, Source: src.Name(), Err: fmt.Errorf("unknown encoding %q: %w", enc, err)}
	}

	var (
		raw    io.Reader
		closer io.Closer
	)
	switch {
	case src.Reader != nil:
		raw = src.Reader
	case src.Data == StdinPath:
		raw = os.Stdin
	case strings.TrimSpace(src.Data) == "":
		return nil, &domain.InputError{Format: format, Err: errors.New("no input source: parameter \"data\" is required")}
	default:
		f, err := os.Open(src.Data)
		if err != nil {
			return nil, &domain.InputError{Format: format, Source: src.Data, Err: err}
		}
		info, err := f.Stat()
		if err == nil && info.IsDir() {
			_ = f.Close()
			return nil, &domain.InputError{Format: format, Source: src.Data, Err: errors.New("source is a directory")}
		}
		raw, closer = f, f
	}

	if charset != unicode.UTF8 {
		raw = charset.NewDecoder().Reader(raw)
	}
	return &sourceCloser{Reader: raw, closer: closer}, nil
}
