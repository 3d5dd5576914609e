package convert

import (
	"log/slog"

	"github.com/aretw0/corpus/pkg/domain"
	"github.com/aretw0/corpus/pkg/observability"
)

// Option defines a functional option for configuring the Converter.
type Option func(*Converter)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHooks registers lifecycle callbacks.
// Hooks run synchronously on the converting goroutine.
func WithHooks(hooks domain.ConversionHooks) Option {
	return func(c *Converter) {
		c.hooks = hooks
	}
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Converter) {
		c.metrics = m
	}
}
