package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/corpus/pkg/adapters/redis"
	"github.com/aretw0/corpus/pkg/artifact"
	"github.com/aretw0/corpus/pkg/domain"
	"github.com/aretw0/corpus/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, opts ...redis.Option) (*redis.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	store := redis.NewFromClient(client, opts...)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStore_Contract(t *testing.T) {
	store, _ := newStore(t)
	ports.RunArtifactStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	store, mr := newStore(t, redis.WithTTL(1*time.Second))
	ctx := context.Background()
	name := "en-ner-location.bin"

	require.NoError(t, store.Save(ctx, name, artifact.Bytes("weights")))

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, name)

	// Key expiration in miniredis.
	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, name)
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)

	// Index pruning relies on time.Now() against the stored score.
	time.Sleep(1200 * time.Millisecond)

	names, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestRedisStore_Prefix(t *testing.T) {
	store, mr := newStore(t, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "index", artifact.Bytes{0x00, 0xff}))

	assert.True(t, mr.Exists("custom:app:blob:index"), "artifact key should use the custom prefix")
	assert.True(t, mr.Exists("custom:app:index"), "index should use the custom prefix")

	data, err := store.Load(ctx, "index")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xff}, data)

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"index"}, names)
}

func TestRedisStore_BackendDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	store := redis.NewFromClient(backend.NewClient(&backend.Options{Addr: mr.Addr()}))
	defer store.Close()
	mr.Close()

	err = store.Save(context.Background(), "m", artifact.Bytes("x"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrArtifactNotFound)
}
