package ports

import "io"

// Params carries format-specific construction parameters, such as the input
// path ("data") and its charset ("encoding"). Factories decode it into their own
// typed configuration.
type Params map[string]any

// StreamFactory builds the input stream for one corpus format and the writer for
// the native format. Implementations hold no mutable state.
type StreamFactory interface {
	// CreateInputStream opens the source described by params. It fails with a
	// *domain.InputError when the source cannot be opened.
	CreateInputStream(params Params) (SampleStream, error)

	// CreateOutputWriter returns a native-format writer appending to dst.
	CreateOutputWriter(dst io.Writer) SampleWriter
}

// Describer is implemented by factories that provide a one-line description for listings.
type Describer interface {
	Describe() string
}
