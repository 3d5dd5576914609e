package mcp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/corpus"
	"github.com/aretw0/corpus/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	kit, err := corpus.New()
	require.NoError(t, err)
	return NewServer(kit, "0.0.0-test", nil)
}

func TestListFormats(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.handleListFormats(context.Background(), mcp.CallToolRequest{}, nil)
	require.NoError(t, err)

	ids := make([]string, 0, len(resp.Formats))
	for _, f := range resp.Formats {
		ids = append(ids, f.ID)
		assert.NotEmpty(t, f.Description)
	}
	assert.Equal(t, []string{"jsonl", "native", "text", "yaml"}, ids)
}

func TestConvertFile(t *testing.T) {
	s := newTestServer(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "in.yaml")
	out := filepath.Join(dir, "out.train")
	require.NoError(t, os.WriteFile(in, []byte("tokens: [Lula, visitou, Paris]\ntags: [B-person, O, B-location]\n"), 0644))

	resp, err := s.handleConvertFile(context.Background(), mcp.CallToolRequest{}, ConvertFileArgs{
		Format: "yaml",
		Data:   in,
		Output: out,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Samples)
	assert.NotEmpty(t, resp.RunID)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "<START:person> Lula <END> visitou <START:location> Paris <END>\n", string(data))
}

func TestConvertFile_Errors(t *testing.T) {
	s := newTestServer(t)
	dir := t.TempDir()

	_, err := s.handleConvertFile(context.Background(), mcp.CallToolRequest{}, ConvertFileArgs{Format: "native"})
	assert.Error(t, err)

	_, err = s.handleConvertFile(context.Background(), mcp.CallToolRequest{}, ConvertFileArgs{
		Format: "leipzig", Data: "x", Output: filepath.Join(dir, "o"),
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)

	_, err = s.handleConvertFile(context.Background(), mcp.CallToolRequest{}, ConvertFileArgs{
		Format: "native", Data: filepath.Join(dir, "missing"), Output: filepath.Join(dir, "o"),
	})
	var inErr *domain.InputError
	assert.ErrorAs(t, err, &inErr)

	_, err = s.handleConvertFile(context.Background(), mcp.CallToolRequest{}, ConvertFileArgs{
		Format: "native", Data: "x", Output: filepath.Join(dir, "o"), Params: map[string]any{"reader": "stdin"},
	})
	assert.Error(t, err)
}

func TestValidateParams(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	resp, err := s.handleValidateParams(ctx, mcp.CallToolRequest{}, ValidateParamsArgs{})
	require.NoError(t, err)
	assert.True(t, resp.Defaults)
	assert.Equal(t, "MAXENT", resp.Settings["Algorithm"])

	resp, err = s.handleValidateParams(ctx, mcp.CallToolRequest{}, ValidateParamsArgs{Content: "Algorithm=PERCEPTRON\n"})
	require.NoError(t, err)
	assert.False(t, resp.Defaults)
	assert.Equal(t, map[string]string{"Algorithm": "PERCEPTRON"}, resp.Settings)

	_, err = s.handleValidateParams(ctx, mcp.CallToolRequest{}, ValidateParamsArgs{Content: "Algorithm: PERCEPTRON_SEQUENCE\n", Name: "p.yml"})
	assert.ErrorIs(t, err, domain.ErrSequenceTrainingNotSupported)

	path := filepath.Join(t.TempDir(), "ok.params")
	require.NoError(t, os.WriteFile(path, []byte("Algorithm=PERCEPTRON_SEQUENCE\n"), 0644))
	resp, err = s.handleValidateParams(ctx, mcp.CallToolRequest{}, ValidateParamsArgs{Path: path, Sequence: true})
	require.NoError(t, err)
	assert.True(t, resp.Valid)

	_, err = s.handleValidateParams(ctx, mcp.CallToolRequest{}, ValidateParamsArgs{Path: path, Content: "x"})
	assert.Error(t, err)
}
