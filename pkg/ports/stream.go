package ports

import (
	"errors"
	"io"
	"iter"

	"github.com/aretw0/corpus/pkg/domain"
)

// SampleStream is a lazy, finite, forward-only sequence of samples.
// Read returns io.EOF once the stream is exhausted. A stream cannot be restarted
// and must be closed by its creator.
type SampleStream interface {
	Read() (domain.NameSample, error)
	Close() error
}

// SampleWriter appends samples to a destination in the native format.
// Close flushes buffered output; it does not close the destination.
type SampleWriter interface {
	Write(sample domain.NameSample) error
	Close() error
}

// All adapts a stream to a range function. Iteration stops after the first error
// is yielded. The caller keeps ownership of the stream and must still close it.
func All(stream SampleStream) iter.Seq2[domain.NameSample, error] {
	return func(yield func(domain.NameSample, error) bool) {
		for {
			sample, err := stream.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(domain.NameSample{}, err)
				return
			}
			if !yield(sample, nil) {
				return
			}
		}
	}
}
