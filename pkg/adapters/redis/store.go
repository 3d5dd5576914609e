// Package redis stores model artifacts in Redis so several workers can share them.
package redis

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/corpus/pkg/artifact"
	"github.com/aretw0/corpus/pkg/domain"
	"github.com/aretw0/corpus/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces artifact keys.
const DefaultPrefix = "corpus:artifact:"

// farFuture is the index score of artifacts without TTL.
const farFuture = 4102444800 // 2100-01-01

// Store implements ports.ArtifactStore using Redis.
// Artifacts are plain string values; a sorted set indexes names by expiry.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

var _ ports.ArtifactStore = (*Store)(nil)

type Option func(*Store)

// WithTTL sets the expiration for artifacts.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for artifacts.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(name string) string {
	return s.prefix + "blob:" + name
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save serializes the model in memory and stores it with its index entry in one transaction.
func (s *Store) Save(ctx context.Context, name string, model ports.Model) error {
	if err := artifact.ValidateName(name); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := model.Serialize(&buf); err != nil {
		return &domain.ArtifactError{Path: name, Op: artifact.OpSerialize, Err: err}
	}

	score := float64(farFuture)
	if s.ttl > 0 {
		score = float64(time.Now().Add(s.ttl).Unix())
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(name), buf.Bytes(), s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: name,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save artifact to redis: %w", err)
	}
	return nil
}

// Load retrieves the artifact bytes.
func (s *Store) Load(ctx context.Context, name string) ([]byte, error) {
	val, err := s.client.Get(ctx, s.key(name)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, name)
		}
		return nil, fmt.Errorf("failed to get artifact from redis: %w", err)
	}
	return val, nil
}

// Delete removes the artifact and its index entry.
func (s *Store) Delete(ctx context.Context, name string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(name))
	pipe.ZRem(ctx, s.indexKey(), name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete artifact from redis: %w", err)
	}
	return nil
}

// List prunes expired index entries and returns the remaining names.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired artifacts: %w", err)
	}

	names, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	return names, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
