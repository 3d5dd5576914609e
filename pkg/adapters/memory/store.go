// Package memory provides an in-process artifact store, mainly for tests and
// short lived servers.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/aretw0/corpus/pkg/artifact"
	"github.com/aretw0/corpus/pkg/domain"
	"github.com/aretw0/corpus/pkg/ports"
)

// Store implements ports.ArtifactStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string][]byte
	mu   sync.RWMutex
}

var _ ports.ArtifactStore = (*Store)(nil)

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string][]byte),
	}
}

// Save serializes the model and keeps the bytes. A failed serialization stores nothing.
func (s *Store) Save(ctx context.Context, name string, model ports.Model) error {
	if err := artifact.ValidateName(name); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := model.Serialize(&buf); err != nil {
		return &domain.ArtifactError{Path: name, Op: artifact.OpSerialize, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = buf.Bytes()
	return nil
}

// Load returns a copy of the stored bytes.
func (s *Store) Load(ctx context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.data[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, name)
	}
	return bytes.Clone(data), nil
}

// Delete removes the artifact. Missing artifacts are ignored.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, name)
	return nil
}

// List returns the artifact names in sorted order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.data)), nil
}
