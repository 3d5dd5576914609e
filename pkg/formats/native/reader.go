package native

import (
	"bufio"
	"io"
	"strings"

	"github.com/aretw0/corpus/pkg/domain"
)

// MaxLineSize bounds the length of a single sample line.
const MaxLineSize = 1 << 20

// Reader is a lazy SampleStream over native-format input.
// Empty lines preceding a sample set its ClearAdaptiveData flag.
type Reader struct {
	src     io.ReadCloser
	scanner *bufio.Scanner
	line    int
	done    bool
}

// NewReader wraps src. The reader owns src and closes it on Close.
func NewReader(src io.ReadCloser) *Reader {
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	return &Reader{src: src, scanner: scanner}
}

// Read returns the next sample, or io.EOF.
func (r *Reader) Read() (domain.NameSample, error) {
	if r.done {
		return domain.NameSample{}, io.EOF
	}

	clear := false
	for r.scanner.Scan() {
		r.line++
		text := r.scanner.Text()
		if strings.TrimSpace(text) == "" {
			clear = true
			continue
		}

		sample, err := Parse(text, clear)
		if err != nil {
			return domain.NameSample{}, &domain.ParseError{Line: r.line, Msg: "malformed native sample", Err: err}
		}
		return sample, nil
	}

	r.done = true
	if err := r.scanner.Err(); err != nil {
		return domain.NameSample{}, &domain.ParseError{Line: r.line + 1, Msg: "read failed", Err: err}
	}
	return domain.NameSample{}, io.EOF
}

// Close releases the underlying source.
func (r *Reader) Close() error {
	r.done = true
	return r.src.Close()
}
