// Package mcp exposes the toolkit as a Model Context Protocol server so agents can
// list formats, convert corpora and check training parameters.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/corpus/internal/logging"
	"github.com/aretw0/corpus/pkg/convert"
	"github.com/aretw0/corpus/pkg/formats"
	"github.com/aretw0/corpus/pkg/params"
	"github.com/aretw0/corpus/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// FormatsURI is the resource listing the registered formats.
const FormatsURI = "corpus://formats"

// Toolkit defines the operations exposed over MCP.
// *corpus.Toolkit satisfies it.
type Toolkit interface {
	Formats() []string
	Describe(format string) string
	ConvertFile(format string, p ports.Params, path string) (convert.Result, error)
	LoadParams(path string, sequenceAllowed bool) (params.Parameters, error)
	ReadParams(r io.Reader, name string, sequenceAllowed bool) (params.Parameters, error)
}

// Format describes a registered format.
type Format struct {
	ID          string `json:"id" jsonschema_description:"Format identifier accepted by convert_file"`
	Description string `json:"description,omitempty" jsonschema_description:"What the format reads"`
}

// FormatsResponse is the output of list_formats.
type FormatsResponse struct {
	Formats []Format `json:"formats"`
}

// ConvertFileArgs are the arguments of convert_file.
type ConvertFileArgs struct {
	Format   string         `json:"format"`
	Data     string         `json:"data"`
	Output   string         `json:"output"`
	Encoding string         `json:"encoding,omitempty"`
	Params   map[string]any `json:"params,omitempty"`
}

// ConvertFileResponse is the output of convert_file.
type ConvertFileResponse struct {
	RunID    string `json:"run_id" jsonschema_description:"Identifier of the conversion run"`
	Format   string `json:"format"`
	Output   string `json:"output" jsonschema_description:"Path of the written native corpus"`
	Samples  int    `json:"samples" jsonschema_description:"Number of samples written"`
	Duration string `json:"duration"`
}

// ValidateParamsArgs are the arguments of validate_params.
type ValidateParamsArgs struct {
	Path     string `json:"path,omitempty"`
	Content  string `json:"content,omitempty"`
	Name     string `json:"name,omitempty"`
	Sequence bool   `json:"sequence,omitempty"`
}

// ValidateParamsResponse is the output of validate_params.
type ValidateParamsResponse struct {
	Valid    bool              `json:"valid"`
	Defaults bool              `json:"defaults" jsonschema_description:"True when no file was given and the defaults apply"`
	Settings map[string]string `json:"settings"`
}

// Server wraps the Toolkit and exposes it as an MCP Server.
type Server struct {
	kit       Toolkit
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance.
func NewServer(kit Toolkit, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		kit:       kit,
		mcpServer: server.NewMCPServer("corpus-mcp", strings.TrimSpace(version)),
		logger:    logger,
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on addr until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: list_formats
	s.mcpServer.AddTool(mcp.NewTool("list_formats",
		mcp.WithDescription("List the corpus formats that can be converted into the native name finder format."),
		mcp.WithOutputSchema[FormatsResponse](),
	), mcp.NewStructuredToolHandler(s.handleListFormats))

	// TOOL: convert_file
	s.mcpServer.AddTool(mcp.NewTool("convert_file",
		mcp.WithDescription("Convert a corpus file into the native name finder format. The output file is replaced atomically."),
		mcp.WithString("format", mcp.Required(), mcp.Description("Format identifier, see list_formats")),
		mcp.WithString("data", mcp.Required(), mcp.Description("Path of the input corpus")),
		mcp.WithString("output", mcp.Required(), mcp.Description("Path of the native output file")),
		mcp.WithString("encoding", mcp.Description("Input charset (default UTF-8)")),
		mcp.WithObject("params", mcp.Description("Additional format specific parameters")),
		mcp.WithOutputSchema[ConvertFileResponse](),
	), mcp.NewStructuredToolHandler(s.handleConvertFile))

	// TOOL: validate_params
	s.mcpServer.AddTool(mcp.NewTool("validate_params",
		mcp.WithDescription("Load and validate a training parameters file, given by path or inline content. Without either, the defaults are returned."),
		mcp.WithString("path", mcp.Description("Path of the parameters file")),
		mcp.WithString("content", mcp.Description("Inline parameters file content")),
		mcp.WithString("name", mcp.Description("File name of inline content; .yaml/.yml selects YAML, anything else properties")),
		mcp.WithBoolean("sequence", mcp.Description("Whether sequence training is allowed")),
		mcp.WithOutputSchema[ValidateParamsResponse](),
	), mcp.NewStructuredToolHandler(s.handleValidateParams))
}

func (s *Server) handleListFormats(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (FormatsResponse, error) {
	return FormatsResponse{Formats: s.formats()}, nil
}

func (s *Server) formats() []Format {
	ids := s.kit.Formats()
	out := make([]Format, 0, len(ids))
	for _, id := range ids {
		out = append(out, Format{ID: id, Description: s.kit.Describe(id)})
	}
	return out
}

func (s *Server) handleConvertFile(ctx context.Context, request mcp.CallToolRequest, args ConvertFileArgs) (ConvertFileResponse, error) {
	if args.Format == "" || args.Data == "" || args.Output == "" {
		return ConvertFileResponse{}, errors.New("format, data and output are required")
	}

	p := ports.Params{}
	for k, v := range args.Params {
		p[k] = v
	}
	if _, ok := p[formats.ParamReader]; ok {
		return ConvertFileResponse{}, fmt.Errorf("parameter %q is not allowed", formats.ParamReader)
	}
	p[formats.ParamData] = args.Data
	if args.Encoding != "" {
		p[formats.ParamEncoding] = args.Encoding
	}

	res, err := s.kit.ConvertFile(args.Format, p, args.Output)
	if err != nil {
		s.logger.Warn("MCP convert_file failed", "format", args.Format, "err", err)
		return ConvertFileResponse{}, fmt.Errorf("convert failed: %w", err)
	}
	return ConvertFileResponse{
		RunID:    res.RunID,
		Format:   res.Format,
		Output:   args.Output,
		Samples:  res.Samples,
		Duration: res.Duration.String(),
	}, nil
}

func (s *Server) handleValidateParams(ctx context.Context, request mcp.CallToolRequest, args ValidateParamsArgs) (ValidateParamsResponse, error) {
	var (
		p   params.Parameters
		err error
	)
	switch {
	case args.Path != "" && args.Content != "":
		return ValidateParamsResponse{}, errors.New("path and content are mutually exclusive")
	case args.Content != "":
		name := args.Name
		if name == "" {
			name = "inline.properties"
		}
		p, err = s.kit.ReadParams(strings.NewReader(args.Content), name, args.Sequence)
	default:
		p, err = s.kit.LoadParams(args.Path, args.Sequence)
	}
	if err != nil {
		return ValidateParamsResponse{}, fmt.Errorf("invalid parameters: %w", err)
	}
	return ValidateParamsResponse{
		Valid:    true,
		Defaults: args.Path == "" && args.Content == "",
		Settings: p.Settings(),
	}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: corpus://formats
	s.mcpServer.AddResource(mcp.NewResource(FormatsURI, "Registered corpus formats",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.formats())
		if err != nil {
			return nil, fmt.Errorf("failed to encode formats: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      FormatsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
