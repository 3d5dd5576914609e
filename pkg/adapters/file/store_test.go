package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/corpus/pkg/adapters/file"
	"github.com/aretw0/corpus/pkg/artifact"
	"github.com/aretw0/corpus/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	store := file.New(t.TempDir())
	ports.RunArtifactStoreContract(t, store)
}

func TestFileStore_Layout(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "artifacts")
	store := file.New(dir)
	ctx := context.Background()

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names, "missing directory lists as empty")

	require.NoError(t, store.Save(ctx, "pt-ner", artifact.Bytes("model")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".tmp-x.bin-123"), []byte("ignored"), 0644))

	data, err := os.ReadFile(filepath.Join(dir, "pt-ner.bin"))
	require.NoError(t, err)
	assert.Equal(t, "model", string(data))

	names, err = store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"pt-ner"}, names)
}

func TestFileStore_DefaultPath(t *testing.T) {
	assert.Equal(t, filepath.Join(".corpus", "artifacts"), file.New("").BasePath)
}
