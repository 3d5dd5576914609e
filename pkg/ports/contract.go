package ports

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aretw0/corpus/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contractModel []byte

func (m contractModel) Serialize(w io.Writer) error {
	_, err := w.Write(m)
	return err
}

type brokenModel struct{}

func (brokenModel) Serialize(w io.Writer) error {
	_, _ = w.Write([]byte("half a model"))
	return errors.New("serializer exploded")
}

// RunArtifactStoreContract runs a suite of tests to verify that an ArtifactStore implementation
// adheres to the defined interface contract.
func RunArtifactStoreContract(t *testing.T, store ArtifactStore) {
	ctx := context.Background()
	name := "contract-model-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		payload := contractModel{0x00, 0x01, 0xfe, 0xff, 'm', 'a', 'x', 'e', 'n', 't'}

		err := store.Save(ctx, name, payload)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, []byte(payload), loaded)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, contractModel("v1")))
		require.NoError(t, store.Save(ctx, name, contractModel("v2")))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, []byte("v2"), loaded)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+name)
		assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
	})

	t.Run("Failed Save Leaves Nothing", func(t *testing.T) {
		broken := name + "-broken"
		err := store.Save(ctx, broken, brokenModel{})
		require.Error(t, err)

		_, err = store.Load(ctx, broken)
		assert.ErrorIs(t, err, domain.ErrArtifactNotFound, "a failed Save must not produce a readable artifact")
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, contractModel("bye")))

		err := store.Delete(ctx, name)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, name)
		assert.ErrorIs(t, err, domain.ErrArtifactNotFound, "Load after Delete should return ErrArtifactNotFound")

		assert.NoError(t, store.Delete(ctx, name), "Delete of a missing artifact is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := name + "-1"
		id2 := name + "-2"
		_ = store.Save(ctx, id1, contractModel("one"))
		_ = store.Save(ctx, id2, contractModel("two"))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, id1)
		assert.Contains(t, names, id2)
	})
}
