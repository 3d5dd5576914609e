package observability

import (
	"errors"
	"time"

	"github.com/aretw0/corpus/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels.
const (
	OutcomeOK                = "ok"
	OutcomeUnsupportedFormat = "unsupported_format"
	OutcomeInputError        = "input_error"
	OutcomeConversionError   = "conversion_error"
	OutcomeInvalidConfig     = "invalid_configuration"
	OutcomeSequenceRejected  = "sequence_rejected"
	OutcomeIOError           = "io_error"
	OutcomeError             = "error"
)

// Metrics groups the toolkit collectors.
type Metrics struct {
	samples     *prometheus.CounterVec
	conversions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	artifacts   *prometheus.CounterVec
	params      *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
// It panics if a collector with the same name is already registered, like prometheus.MustRegister.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		samples: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "corpus_samples_converted_total",
				Help: "Total number of samples written in the native format",
			},
			[]string{"format"},
		),
		conversions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "corpus_conversions_total",
				Help: "Conversions by format and outcome",
			},
			[]string{"format", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "corpus_conversion_duration_seconds",
				Help:    "Duration of conversions",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
			},
			[]string{"format"},
		),
		artifacts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "corpus_artifact_bytes_total",
				Help: "Bytes of model artifacts written or loaded",
			},
			[]string{"op"},
		),
		params: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "corpus_parameter_loads_total",
				Help: "Training parameter loads by outcome",
			},
			[]string{"outcome"},
		),
	}
	reg.MustRegister(m.samples, m.conversions, m.duration, m.artifacts, m.params)
	return m
}

// ObserveSample counts one written sample.
func (m *Metrics) ObserveSample(format string) {
	if m == nil {
		return
	}
	m.samples.WithLabelValues(format).Inc()
}

// ObserveConversion records the outcome of a finished conversion.
func (m *Metrics) ObserveConversion(format string, err error, d time.Duration) {
	if m == nil {
		return
	}
	m.conversions.WithLabelValues(format, Outcome(err)).Inc()
	m.duration.WithLabelValues(format).Observe(d.Seconds())
}

// ObserveArtifact adds n bytes to the artifact traffic of op ("write" or "read").
func (m *Metrics) ObserveArtifact(op string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.artifacts.WithLabelValues(op).Add(float64(n))
}

// ObserveParams records a training parameter load.
func (m *Metrics) ObserveParams(err error) {
	if m == nil {
		return
	}
	m.params.WithLabelValues(Outcome(err)).Inc()
}

// Outcome maps an error of the toolkit taxonomy to a metric label.
func Outcome(err error) string {
	var (
		inErr   *domain.InputError
		convErr *domain.ConversionError
		initErr *domain.InitializationError
	)
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return OutcomeUnsupportedFormat
	case errors.As(err, &inErr):
		return OutcomeInputError
	case errors.As(err, &convErr):
		return OutcomeConversionError
	case errors.Is(err, domain.ErrSequenceTrainingNotSupported):
		return OutcomeSequenceRejected
	case errors.Is(err, domain.ErrInvalidTrainingConfiguration):
		return OutcomeInvalidConfig
	case errors.As(err, &initErr):
		return OutcomeIOError
	default:
		return OutcomeError
	}
}
