package domain

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is returned when a format identifier is not registered.
var ErrUnsupportedFormat = errors.New("unsupported format")

// ErrInvalidSample is returned when a sample violates the NameSample invariants.
var ErrInvalidSample = errors.New("invalid sample")

// ErrArtifactNotFound is returned when an artifact name cannot be found in a store.
var ErrArtifactNotFound = errors.New("artifact not found")

// ErrInvalidTrainingConfiguration is returned when the trainer policy rejects a parameter set.
var ErrInvalidTrainingConfiguration = errors.New("training parameters file is invalid")

// ErrSequenceTrainingNotSupported is returned when a parameter set requests sequence
// training in a context that only allows event training.
var ErrSequenceTrainingNotSupported = errors.New("sequence training is not supported")

// InputError reports that the backing source of a sample stream could not be opened.
// It is distinct from a ParseError found while reading.
type InputError struct {
	Format string
	Source string
	Err    error
}

func (e *InputError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("cannot create %s input stream: %v", e.Format, e.Err)
	}
	return fmt.Sprintf("cannot open %s input %q: %v", e.Format, e.Source, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// Conversion stages reported by ConversionError.
const (
	OpRead  = "read"
	OpWrite = "write"
	OpFlush = "flush"
)

// ConversionError reports a failure after a conversion started.
// Index is the number of samples transcoded before the failure, which is also
// the zero-based index of the sample that failed.
type ConversionError struct {
	Format string
	Index  int
	Op     string
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("%s conversion failed to %s sample %d: %v", e.Format, e.Op, e.Index, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// ArtifactError reports a failure to write or read a model artifact.
// After a write failure the target path must not be considered valid.
type ArtifactError struct {
	Path string
	Op   string
	Err  error
}

func (e *ArtifactError) Error() string {
	return fmt.Sprintf("artifact %s %q: %v", e.Op, e.Path, e.Err)
}

func (e *ArtifactError) Unwrap() error { return e.Err }

// InitializationError is the single error type returned while loading training parameters.
// Err is either the underlying I/O or decoding failure, or one of the policy sentinels.
type InitializationError struct {
	Path string
	// Setting names the rejected parameter when the policy can point at one.
	Setting string
	Err     error
}

func (e *InitializationError) Error() string {
	if e.Setting != "" {
		return fmt.Sprintf("training parameters %q: setting %s: %v", e.Path, e.Setting, e.Err)
	}
	return fmt.Sprintf("training parameters %q: %v", e.Path, e.Err)
}

func (e *InitializationError) Unwrap() error { return e.Err }

// ParseError reports malformed input content. Line is zero when the format has
// no line structure (e.g. YAML documents); Msg then carries the position.
type ParseError struct {
	Line int
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	msg := e.Msg
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// ErrInvalidArtifactName is returned when an artifact name cannot be used as a store key.
var ErrInvalidArtifactName = errors.New("invalid artifact name")
