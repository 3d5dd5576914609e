package native

import (
	"errors"
	"io"

	"github.com/aretw0/corpus/pkg/domain"
)

// DefaultBufferSize is the amount of encoded output held before it is written out.
const DefaultBufferSize = 64 * 1024

// ErrWriterClosed is returned by Write after Close.
var ErrWriterClosed = errors.New("native writer is closed")

// Writer encodes samples in the native format.
//
// Output is buffered in whole samples: a sample is encoded completely before it
// joins the buffer, and the buffer is handed to the destination in one Write, so a
// sample is never split across writes. After a failed write the writer keeps
// returning the same error.
type Writer struct {
	dst    io.Writer
	buf    []byte
	limit  int
	err    error
	closed bool
}

// NewWriter creates a writer appending to dst. It does not take ownership of dst.
func NewWriter(dst io.Writer) *Writer {
	return NewWriterSize(dst, DefaultBufferSize)
}

// NewWriterSize creates a writer that flushes once size bytes are pending.
// A size of zero or less writes every sample through immediately.
func NewWriterSize(dst io.Writer, size int) *Writer {
	if size < 0 {
		size = 0
	}
	return &Writer{dst: dst, limit: size, buf: make([]byte, 0, size)}
}

// Write encodes one sample.
func (w *Writer) Write(s domain.NameSample) error {
	if w.closed {
		return ErrWriterClosed
	}
	if w.err != nil {
		return w.err
	}

	mark := len(w.buf)
	w.buf = AppendSample(w.buf, s)
	if len(w.buf) <= w.limit {
		return nil
	}

	// Flush the complete samples held so far first, then this one, so a failure
	// never leaves a fragment of the new sample at the destination.
	if mark > 0 {
		pending := append([]byte(nil), w.buf[mark:]...)
		w.buf = w.buf[:mark]
		if err := w.Flush(); err != nil {
			return err
		}
		w.buf = append(w.buf, pending...)
		if len(w.buf) <= w.limit {
			return nil
		}
	}
	return w.Flush()
}

// Flush writes all buffered samples to the destination.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	if len(w.buf) == 0 {
		return nil
	}
	n, err := w.dst.Write(w.buf)
	if err == nil && n < len(w.buf) {
		err = io.ErrShortWrite
	}
	if err != nil {
		w.err = err
		return err
	}
	w.buf = w.buf[:0]
	return nil
}

// Close flushes pending output. It is safe to call more than once.
func (w *Writer) Close() error {
	if w.closed {
		return w.err
	}
	w.closed = true
	return w.Flush()
}
