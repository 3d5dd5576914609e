package corpus

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/corpus/internal/logging"
	"github.com/aretw0/corpus/pkg/adapters/memory"
	"github.com/aretw0/corpus/pkg/artifact"
	"github.com/aretw0/corpus/pkg/convert"
	"github.com/aretw0/corpus/pkg/domain"
	"github.com/aretw0/corpus/pkg/formats/jsonl"
	"github.com/aretw0/corpus/pkg/formats/native"
	"github.com/aretw0/corpus/pkg/formats/text"
	"github.com/aretw0/corpus/pkg/formats/yamldoc"
	"github.com/aretw0/corpus/pkg/observability"
	"github.com/aretw0/corpus/pkg/params"
	"github.com/aretw0/corpus/pkg/ports"
	"github.com/aretw0/corpus/pkg/registry"
)

// DefaultRegistry returns the registry of the formats shipped with the toolkit.
func DefaultRegistry() *registry.Registry {
	return registry.New(map[string]ports.StreamFactory{
		native.FormatID:  native.Factory{},
		jsonl.FormatID:   jsonl.Factory{},
		yamldoc.FormatID: yamldoc.Factory{},
		text.FormatID:    text.Factory{},
	})
}

// Toolkit is the high-level entry point of the library.
// It wires the registry, the converter, the parameter loader and an artifact store.
type Toolkit struct {
	registry  *registry.Registry
	converter *convert.Converter
	loader    params.Loader
	store     ports.ArtifactStore
	cache     *artifact.ResourceCache
	cacheSize int
	metrics   *observability.Metrics
	hooks     domain.ConversionHooks
	logger    *slog.Logger
}

// Option defines a functional option for configuring the Toolkit.
type Option func(*Toolkit)

// WithRegistry replaces the default format registry.
func WithRegistry(r *registry.Registry) Option {
	return func(t *Toolkit) {
		t.registry = r
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Toolkit) {
		t.logger = logger
	}
}

// WithConversionHooks registers conversion lifecycle hooks.
func WithConversionHooks(hooks domain.ConversionHooks) Option {
	return func(t *Toolkit) {
		t.hooks = hooks
	}
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *observability.Metrics) Option {
	return func(t *Toolkit) {
		t.metrics = m
	}
}

// WithStore sets the artifact store (default: in memory).
func WithStore(s ports.ArtifactStore) Option {
	return func(t *Toolkit) {
		t.store = s
	}
}

// WithPolicy sets the trainer policy used to validate parameter files.
func WithPolicy(p ports.TrainerPolicy) Option {
	return func(t *Toolkit) {
		t.loader.Policy = p
	}
}

// WithResourceCacheSize sets how many resource files LoadResource keeps in memory.
func WithResourceCacheSize(n int) Option {
	return func(t *Toolkit) {
		t.cacheSize = n
	}
}

// New creates a Toolkit.
func New(opts ...Option) (*Toolkit, error) {
	t := &Toolkit{}
	for _, opt := range opts {
		opt(t)
	}

	if t.logger == nil {
		t.logger = logging.NewNop()
	}
	if t.registry == nil {
		t.registry = DefaultRegistry()
	}
	if t.store == nil {
		t.store = memory.NewStore()
	}
	if t.loader.Policy == nil {
		t.loader.Policy = params.DefaultPolicy
	}

	cache, err := artifact.NewResourceCache(t.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize toolkit: %w", err)
	}
	t.cache = cache

	t.converter = convert.New(t.registry,
		convert.WithLogger(t.logger),
		convert.WithHooks(t.hooks),
		convert.WithMetrics(t.metrics),
	)
	return t, nil
}

// Registry returns the format registry.
func (t *Toolkit) Registry() *registry.Registry { return t.registry }

// Store returns the artifact store.
func (t *Toolkit) Store() ports.ArtifactStore { return t.store }

// Formats returns the registered format identifiers, sorted.
func (t *Toolkit) Formats() []string { return t.registry.Formats() }

// Describe returns the human readable description of a format, if it has one.
func (t *Toolkit) Describe(format string) string { return t.registry.Description(format) }

// Convert converts a registered format into the native format on dst.
func (t *Toolkit) Convert(format string, p ports.Params, dst io.Writer) (convert.Result, error) {
	return t.converter.Convert(format, p, dst)
}

// ConvertFile converts a registered format into the file at path, atomically.
func (t *Toolkit) ConvertFile(format string, p ports.Params, path string) (convert.Result, error) {
	return t.converter.ConvertFile(format, p, path)
}

// LoadParams loads and validates a training parameter file; an empty path yields the defaults.
func (t *Toolkit) LoadParams(path string, sequenceAllowed bool) (params.Parameters, error) {
	p, err := t.loader.Load(path, sequenceAllowed)
	t.metrics.ObserveParams(err)
	if err != nil {
		t.logger.Warn("training parameters rejected", "path", path, "err", err)
		return p, err
	}
	t.logger.Debug("training parameters loaded", "path", path, "settings", p.Len())
	return p, nil
}

// ReadParams validates a parameter file read from r. name selects the decoder by extension.
func (t *Toolkit) ReadParams(r io.Reader, name string, sequenceAllowed bool) (params.Parameters, error) {
	p, err := t.loader.Read(r, name, sequenceAllowed)
	t.metrics.ObserveParams(err)
	return p, err
}

// Serialize writes model to path atomically.
func (t *Toolkit) Serialize(model ports.Model, path string) error {
	counted := &countingModel{model: model}
	if err := artifact.Serialize(counted, path); err != nil {
		t.logger.Error("artifact write failed", "path", path, "err", err)
		return err
	}
	t.metrics.ObserveArtifact("write", counted.n)
	t.logger.Info("artifact written", "path", path, "bytes", counted.n)
	return nil
}

// LoadResource returns the content of a resource file through the toolkit cache.
func (t *Toolkit) LoadResource(path string) ([]byte, error) {
	data, err := t.cache.Load(path)
	if err != nil {
		return nil, err
	}
	t.metrics.ObserveArtifact("read", len(data))
	return data, nil
}

// SaveArtifact stores model under name in the configured store.
func (t *Toolkit) SaveArtifact(ctx context.Context, name string, model ports.Model) error {
	counted := &countingModel{model: model}
	if err := t.store.Save(ctx, name, counted); err != nil {
		return err
	}
	t.metrics.ObserveArtifact("write", counted.n)
	return nil
}

// LoadArtifact loads the artifact stored under name.
func (t *Toolkit) LoadArtifact(ctx context.Context, name string) ([]byte, error) {
	data, err := t.store.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	t.metrics.ObserveArtifact("read", len(data))
	return data, nil
}

// countingModel counts the bytes a model serializes.
type countingModel struct {
	model ports.Model
	n     int
}

func (c *countingModel) Serialize(w io.Writer) error {
	if c.model == nil {
		return fmt.Errorf("nil model")
	}
	return c.model.Serialize(&countingWriter{w: w, n: &c.n})
}

type countingWriter struct {
	w io.Writer
	n *int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	*c.n += n
	return n, err
}
