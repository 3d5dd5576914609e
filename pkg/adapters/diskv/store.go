// Package diskv stores model artifacts gzip compressed in a diskv key/value directory,
// with a bounded in-memory read cache in front of it.
package diskv

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/aretw0/corpus/pkg/artifact"
	"github.com/aretw0/corpus/pkg/domain"
	"github.com/aretw0/corpus/pkg/ports"
	"github.com/peterbourgon/diskv"
)

// DefaultCacheSize bounds the in-memory cache of decompressed artifacts, in bytes.
const DefaultCacheSize = 64 * 1024 * 1024

// Store implements ports.ArtifactStore on top of diskv.
type Store struct {
	d *diskv.Diskv
}

var _ ports.ArtifactStore = (*Store)(nil)

type Option func(*diskv.Options)

// WithCacheSize sets the in-memory cache bound in bytes. Zero disables the cache.
func WithCacheSize(n uint64) Option {
	return func(o *diskv.Options) {
		o.CacheSizeMax = n
	}
}

// WithBlockTransform spreads keys over nested directories of blockSize characters.
func WithBlockTransform(blockSize int) Option {
	return func(o *diskv.Options) {
		o.Transform = BlockTransform(blockSize)
	}
}

// New creates a store rooted at basePath. Writes go through basePath+".tmp"
// and are renamed into place.
func New(basePath string, opts ...Option) *Store {
	o := diskv.Options{
		BasePath:     basePath,
		TempDir:      basePath + ".tmp",
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: DefaultCacheSize,
		Compression:  diskv.NewGzipCompression(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store{d: diskv.New(o)}
}

// BlockTransform determines how diskv partitions folders: the key is cut into
// blockSize character chunks and complete chunks become directories. Partitioning
// stops at the first chunk that is a relative path element ("." or "..").
func BlockTransform(blockSize int) func(string) []string {
	return func(s string) []string {
		if blockSize <= 0 {
			return []string{}
		}
		n := len(s) / blockSize
		path := make([]string, 0, n)
		for i := 0; i < n; i++ {
			chunk := s[i*blockSize : (i+1)*blockSize]
			if chunk == "." || chunk == ".." {
				break
			}
			path = append(path, chunk)
		}
		return path
	}
}

// Save serializes the model and writes it compressed.
func (s *Store) Save(ctx context.Context, name string, model ports.Model) error {
	if err := artifact.ValidateName(name); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := model.Serialize(&buf); err != nil {
		return &domain.ArtifactError{Path: name, Op: artifact.OpSerialize, Err: err}
	}
	if err := s.d.Write(name, buf.Bytes()); err != nil {
		return &domain.ArtifactError{Path: name, Op: artifact.OpSerialize, Err: err}
	}
	return nil
}

// Load returns the decompressed artifact.
func (s *Store) Load(ctx context.Context, name string) ([]byte, error) {
	if err := artifact.ValidateName(name); err != nil {
		return nil, err
	}
	if !s.d.Has(name) {
		return nil, fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, name)
	}
	data, err := s.d.Read(name)
	if err != nil {
		return nil, &domain.ArtifactError{Path: name, Op: artifact.OpLoad, Err: err}
	}
	return data, nil
}

// Delete erases the artifact. Missing artifacts are ignored.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := artifact.ValidateName(name); err != nil {
		return err
	}
	if !s.d.Has(name) {
		return nil
	}
	if err := s.d.Erase(name); err != nil {
		return fmt.Errorf("failed to erase artifact: %w", err)
	}
	return nil
}

// List walks the store and returns the artifact names, sorted.
// Walking stops early when ctx is cancelled.
func (s *Store) List(ctx context.Context) ([]string, error) {
	names := []string{}
	for key := range s.d.Keys(ctx.Done()) {
		names = append(names, key)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}
