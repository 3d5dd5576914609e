package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/corpus"
	httpAdapter "github.com/aretw0/corpus/pkg/adapters/http"
	"github.com/aretw0/corpus/pkg/adapters/mcp"
	"github.com/aretw0/corpus/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// ServeOptions contains the configuration of the serve command.
type ServeOptions struct {
	Addr        string
	MaxBodySize int64
}

// NewServeHandler builds the HTTP handler with metrics and the event stream wired in.
func NewServeHandler(cfg Config, opts ServeOptions) (http.Handler, func() error, error) {
	logger := cfg.Logger()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)
	streams := httpAdapter.NewStreamManager(logger)

	kit, closeStore, err := cfg.NewToolkit(
		corpus.WithMetrics(metrics),
		corpus.WithConversionHooks(streams.Hooks()),
	)
	if err != nil {
		return nil, nil, err
	}

	handlerOpts := []httpAdapter.Option{
		httpAdapter.WithLogger(logger),
		httpAdapter.WithGatherer(reg),
		httpAdapter.WithStreams(streams),
		httpAdapter.WithVersion(corpus.Version),
	}
	if opts.MaxBodySize > 0 {
		handlerOpts = append(handlerOpts, httpAdapter.WithMaxBodySize(opts.MaxBodySize))
	}
	return httpAdapter.NewHandler(kit, handlerOpts...), closeStore, nil
}

// RunServe serves the HTTP API until ctx is cancelled.
func RunServe(ctx context.Context, cfg Config, opts ServeOptions) error {
	logger := cfg.Logger()

	handler, closeStore, err := NewServeHandler(cfg, opts)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		printSystemMessage(cfg, "Serving corpus %s on %s", corpus.Version, srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		sig := signalOf(ctx)
		logger.Info("Stopping HTTP server", "signal", sig)
		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("graceful shutdown did not complete: %w", err)
		}
		if sig != nil {
			printSystemMessage(cfg, "Server stopped gracefully (%s)", sig)
		} else {
			printSystemMessage(cfg, "Server stopped gracefully")
		}
		return nil
	}
}

// MCPOptions contains the configuration of the mcp command.
type MCPOptions struct {
	Transport string
	Addr      string
	BaseURL   string
}

// RunMCP starts the MCP server on the selected transport.
func RunMCP(ctx context.Context, cfg Config, opts MCPOptions) error {
	kit, closeStore, err := cfg.NewToolkit()
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	srv := mcp.NewServer(kit, corpus.Version, cfg.Logger())
	switch opts.Transport {
	case "", "stdio":
		return srv.ServeStdio()
	case "sse":
		baseURL := opts.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost" + opts.Addr
		}
		err := srv.ServeSSE(ctx, opts.Addr, baseURL)
		if sig := signalOf(ctx); sig != nil {
			cfg.Logger().Info("MCP server stopped", "signal", sig)
		}
		return err
	default:
		return fmt.Errorf("unknown transport %q (supported: stdio, sse)", opts.Transport)
	}
}
