package convert

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/corpus/internal/atomicfile"
	"github.com/aretw0/corpus/internal/logging"
	"github.com/aretw0/corpus/pkg/domain"
	"github.com/aretw0/corpus/pkg/observability"
	"github.com/aretw0/corpus/pkg/ports"
	"github.com/google/uuid"
)

// Resolver looks up stream factories by format identifier.
// *registry.Registry satisfies it.
type Resolver interface {
	Resolve(id string) (ports.StreamFactory, bool)
}

// Result summarizes a finished conversion.
type Result struct {
	RunID    string        `json:"run_id"`
	Format   string        `json:"format"`
	Samples  int           `json:"samples"`
	Duration time.Duration `json:"duration"`
}

// Converter copies samples from a registered format into the native format.
// A Converter is safe for concurrent use; each call owns its streams.
type Converter struct {
	resolver Resolver
	logger   *slog.Logger
	hooks    domain.ConversionHooks
	metrics  *observability.Metrics
}

// New creates a Converter resolving formats through r.
func New(r Resolver, opts ...Option) *Converter {
	c := &Converter{
		resolver: r,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert reads every sample of format described by params and writes it to dst
// in the native format, in source order.
//
// Nothing is written to dst when the format is unknown or its input cannot be opened.
// When transcoding fails midway dst holds exactly the samples before the failing one.
func (c *Converter) Convert(format string, params ports.Params, dst io.Writer) (Result, error) {
	return c.run(format, params, writerSink{dst})
}

// ConvertFile converts into the file at path. The file is replaced atomically:
// after a failure path keeps its previous content, or does not exist.
func (c *Converter) ConvertFile(format string, params ports.Params, path string) (Result, error) {
	return c.run(format, params, &fileSink{path: path})
}

// sink is the destination of a run. open is only called once the input is ready.
type sink interface {
	open() (io.Writer, error)
	finish(failed bool) error
}

type writerSink struct{ w io.Writer }

func (s writerSink) open() (io.Writer, error) { return s.w, nil }
func (s writerSink) finish(bool) error        { return nil }

type fileSink struct {
	path string
	out  *atomicfile.File
}

func (s *fileSink) open() (io.Writer, error) {
	f, err := atomicfile.Create(s.path)
	if err != nil {
		return nil, err
	}
	s.out = f
	return f, nil
}

func (s *fileSink) finish(failed bool) error {
	if failed {
		s.out.Abort()
		return nil
	}
	return s.out.Commit()
}

// errAborted stands in for the error of a run left by a panic.
var errAborted = errors.New("conversion aborted")

func (c *Converter) run(format string, params ports.Params, dst sink) (res Result, err error) {
	res = Result{RunID: uuid.NewString(), Format: format}
	start := time.Now()
	logger := c.logger.With("run_id", res.RunID, "format", format)
	completed := false

	defer func() {
		res.Duration = time.Since(start)
		outcome := err
		if !completed && outcome == nil {
			outcome = errAborted
		}
		c.metrics.ObserveConversion(format, outcome, res.Duration)
		c.fire(c.hooks.OnFinish, domain.EventConversionFinish, res, res.Samples, outcome)
		if outcome != nil {
			logger.Error("conversion failed", "samples", res.Samples, "err", outcome)
			return
		}
		logger.Info("conversion finished", "samples", res.Samples, "duration", res.Duration)
	}()

	factory, ok := c.resolver.Resolve(format)
	if !ok {
		return res, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
	}

	stream, err := factory.CreateInputStream(params)
	if err != nil {
		var inErr *domain.InputError
		if !errors.As(err, &inErr) {
			err = &domain.InputError{Format: format, Err: err}
		}
		return res, err
	}

	// Close errors only surface when nothing failed before them.
	streamOpen := true
	closeStream := func() {
		if !streamOpen {
			return
		}
		streamOpen = false
		if cerr := stream.Close(); cerr != nil {
			if err == nil {
				err = &domain.ConversionError{Format: format, Index: res.Samples, Op: domain.OpRead, Err: cerr}
			} else {
				logger.Debug("input close failed", "err", cerr)
			}
		}
	}
	defer closeStream()

	w, err := dst.open()
	if err != nil {
		return res, &domain.ConversionError{Format: format, Index: 0, Op: domain.OpWrite, Err: err}
	}
	writer := factory.CreateOutputWriter(w)

	defer func() {
		// The input goes first so that its close error can still abort the destination.
		closeStream()
		// Close flushes the samples written so far, also after a failure.
		if cerr := writer.Close(); cerr != nil {
			if err == nil {
				err = &domain.ConversionError{Format: format, Index: res.Samples, Op: domain.OpFlush, Err: cerr}
			} else {
				logger.Debug("output close failed", "err", cerr)
			}
		}
		if cerr := dst.finish(err != nil || !completed); cerr != nil && err == nil {
			err = &domain.ConversionError{Format: format, Index: res.Samples, Op: domain.OpFlush, Err: cerr}
		}
	}()

	logger.Debug("conversion started")
	c.fire(c.hooks.OnStart, domain.EventConversionStart, res, 0, nil)

	res.Samples, err = c.drain(format, res, stream, writer)
	completed = true
	return res, err
}

func (c *Converter) drain(format string, res Result, stream ports.SampleStream, writer ports.SampleWriter) (int, error) {
	n := 0
	for {
		sample, err := stream.Read()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, &domain.ConversionError{Format: format, Index: n, Op: domain.OpRead, Err: err}
		}
		if err := writer.Write(sample); err != nil {
			return n, &domain.ConversionError{Format: format, Index: n, Op: domain.OpWrite, Err: err}
		}
		n++
		c.metrics.ObserveSample(format)
		c.fire(c.hooks.OnSample, domain.EventSampleWritten, res, n, nil)
	}
}

func (c *Converter) fire(hook func(*domain.ConversionEvent), typ domain.EventType, res Result, index int, err error) {
	if hook == nil {
		return
	}
	hook(&domain.ConversionEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      typ,
			RunID:     res.RunID,
		},
		Format:   res.Format,
		Index:    index,
		Duration: res.Duration,
		Err:      err,
	})
}

