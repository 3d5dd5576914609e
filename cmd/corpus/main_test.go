package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "corpus version ")
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	require.NoError(t, os.WriteFile(in, []byte("<START:person> Ada <END> wrote notes\n"), 0644))

	out, err := execute(t, "convert", "native", "--data", in, "--quiet", "--store", "memory")
	require.NoError(t, err)
	assert.Equal(t, "<START:person> Ada <END> wrote notes\n", out)
}

func TestParamsShowCommand(t *testing.T) {
	out, err := execute(t, "params", "show", "--store", "memory")
	require.NoError(t, err)
	assert.Contains(t, out, "Iterations=100")
}
