// Package http exposes the toolkit over HTTP: format listing, conversion of
// uploaded corpora, parameter validation, conversion events and metrics.
package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/aretw0/corpus/internal/logging"
	"github.com/aretw0/corpus/pkg/convert"
	"github.com/aretw0/corpus/pkg/domain"
	"github.com/aretw0/corpus/pkg/formats"
	"github.com/aretw0/corpus/pkg/params"
	"github.com/aretw0/corpus/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultMaxBodySize bounds uploaded corpora and parameter files.
const DefaultMaxBodySize = 64 << 20

// Toolkit defines the operations the server exposes.
// *corpus.Toolkit satisfies it.
type Toolkit interface {
	Formats() []string
	Describe(format string) string
	Convert(format string, p ports.Params, dst io.Writer) (convert.Result, error)
	ReadParams(r io.Reader, name string, sequenceAllowed bool) (params.Parameters, error)
}

// Server serves the toolkit HTTP API.
type Server struct {
	Toolkit Toolkit
	Streams *StreamManager
	Version string

	gatherer    prometheus.Gatherer
	logger      *slog.Logger
	maxBodySize int64
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithGatherer exposes the given registry on GET /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithStreams shares a StreamManager, typically the one fed by conversion hooks.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithVersion sets the version reported by GET /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.Version = v
	}
}

// WithMaxBodySize bounds request bodies.
func WithMaxBodySize(n int64) Option {
	return func(s *Server) {
		s.maxBodySize = n
	}
}

// NewHandler creates a new HTTP handler for the toolkit.
func NewHandler(kit Toolkit, opts ...Option) http.Handler {
	s := &Server{
		Toolkit:     kit,
		Version:     "dev",
		logger:      logging.NewNop(),
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Streams == nil {
		s.Streams = NewStreamManager(s.logger)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/formats", s.ListFormats)
	r.Post("/convert/{format}", s.Convert)
	r.Post("/params/validate", s.ValidateParams)
	r.Get("/events", s.SubscribeEvents)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Format describes one registered format.
type Format struct {
	ID          string `json:"id"`
	Description string `json:"description,omitempty"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	// Index is the failing sample of a conversion error.
	Index   *int   `json:"index,omitempty"`
	Setting string `json:"setting,omitempty"`
}

// ValidationResponse is the body of POST /params/validate.
type ValidationResponse struct {
	Valid    bool              `json:"valid"`
	Settings map[string]string `json:"settings,omitempty"`
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "corpus-http",
		"version": strings.TrimSpace(s.Version),
	})
}

// ListFormats handles the GET /formats request.
func (s *Server) ListFormats(w http.ResponseWriter, r *http.Request) {
	ids := s.Toolkit.Formats()
	out := make([]Format, 0, len(ids))
	for _, id := range ids {
		out = append(out, Format{ID: id, Description: s.Toolkit.Describe(id)})
	}
	s.writeJSON(w, http.StatusOK, out)
}

// Convert handles the POST /convert/{format} request. The body is the input corpus;
// query parameters become factory parameters. The response is the native output,
// buffered so that a failed conversion returns an error instead of a partial corpus.
func (s *Server) Convert(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")

	p := ports.Params{}
	for key, values := range r.URL.Query() {
		if key == formats.ParamData || key == formats.ParamReader {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("parameter %q is not allowed over http", key))
			return
		}
		p[key] = strings.Join(values, ",")
	}
	p[formats.ParamReader] = http.MaxBytesReader(w, r.Body, s.maxBodySize)

	var out bytes.Buffer
	res, err := s.Toolkit.Convert(format, p, &out)
	if err != nil {
		s.logger.Warn("conversion request failed", "format", format, "err", err)
		s.writeError(w, StatusFor(err), err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Corpus-Run-Id", res.RunID)
	w.Header().Set("X-Corpus-Samples", strconv.Itoa(res.Samples))
	w.WriteHeader(http.StatusOK)
	if _, err := out.WriteTo(w); err != nil {
		s.logger.Error("convert response write failed", "err", err)
	}
}

// ValidateParams handles the POST /params/validate request. The body is a parameter
// file; "name" selects its syntax by extension (default properties) and
// "sequence" allows sequence training.
func (s *Server) ValidateParams(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sequence := false
	if raw := q.Get("sequence"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid sequence flag: %w", err))
			return
		}
		sequence = v
	}
	name := q.Get("name")
	if name == "" {
		name = "request.properties"
	}

	p, err := s.Toolkit.ReadParams(http.MaxBytesReader(w, r.Body, s.maxBodySize), name, sequence)
	if err != nil {
		s.writeError(w, StatusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, ValidationResponse{Valid: true, Settings: p.Settings()})
}

// StatusFor maps the error taxonomy to HTTP status codes.
func StatusFor(err error) int {
	var (
		inErr    *domain.InputError
		convErr  *domain.ConversionError
		initErr  *domain.InitializationError
		parseErr *domain.ParseError
		maxErr   *http.MaxBytesError
	)
	switch {
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return http.StatusNotFound
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &inErr):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidTrainingConfiguration),
		errors.Is(err, domain.ErrSequenceTrainingNotSupported),
		errors.As(err, &parseErr),
		errors.As(err, &convErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &initErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	resp := ErrorResponse{Error: err.Error(), Kind: kindOf(err)}
	var convErr *domain.ConversionError
	if errors.As(err, &convErr) {
		resp.Index = &convErr.Index
	}
	var initErr *domain.InitializationError
	if errors.As(err, &initErr) {
		resp.Setting = initErr.Setting
	}
	s.writeJSON(w, status, resp)
}

func kindOf(err error) string {
	var (
		inErr   *domain.InputError
		convErr *domain.ConversionError
	)
	switch {
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return "unsupported_format"
	case errors.As(err, &inErr):
		return "input"
	case errors.As(err, &convErr):
		return "conversion"
	case errors.Is(err, domain.ErrSequenceTrainingNotSupported):
		return "sequence_training_not_supported"
	case errors.Is(err, domain.ErrInvalidTrainingConfiguration):
		return "invalid_training_configuration"
	default:
		return "error"
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
