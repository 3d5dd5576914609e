package memory_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/aretw0/corpus/pkg/adapters/memory"
	"github.com/aretw0/corpus/pkg/artifact"
	"github.com/aretw0/corpus/pkg/domain"
	"github.com/aretw0/corpus/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunArtifactStoreContract(t, store)
}

func TestMemoryStore_Isolation(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	payload := []byte("weights")

	require.NoError(t, store.Save(ctx, "m", artifact.Bytes(payload)))
	payload[0] = 'X'

	loaded, err := store.Load(ctx, "m")
	require.NoError(t, err)
	assert.Equal(t, "weights", string(loaded))

	loaded[0] = 'Y'
	again, _ := store.Load(ctx, "m")
	assert.True(t, bytes.Equal([]byte("weights"), again))
}

func TestMemoryStore_InvalidName(t *testing.T) {
	err := memory.NewStore().Save(context.Background(), "../up", artifact.Bytes("x"))
	assert.ErrorIs(t, err, domain.ErrInvalidArtifactName)
}
