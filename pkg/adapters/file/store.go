// Package file stores model artifacts as files in a local directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/corpus/pkg/artifact"
	"github.com/aretw0/corpus/pkg/domain"
	"github.com/aretw0/corpus/pkg/ports"
)

// Ext is appended to artifact names on disk.
const Ext = ".bin"

// Store implements ports.ArtifactStore using the local filesystem.
// Writes are atomic through artifact.Serialize.
type Store struct {
	BasePath string
}

var _ ports.ArtifactStore = (*Store)(nil)

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".corpus/artifacts".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".corpus", "artifacts")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(name string) string {
	return filepath.Join(s.BasePath, name+Ext)
}

// Save writes the model to <BasePath>/<name>.bin.
func (s *Store) Save(ctx context.Context, name string, model ports.Model) error {
	if err := artifact.ValidateName(name); err != nil {
		return err
	}
	return artifact.Serialize(model, s.path(name))
}

// Load reads the artifact file.
func (s *Store) Load(ctx context.Context, name string) ([]byte, error) {
	if err := artifact.ValidateName(name); err != nil {
		return nil, err
	}
	data, err := artifact.LoadBytes(s.path(name))
	if err != nil {
		if errors.Is(err, domain.ErrArtifactNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, name)
		}
		return nil, err
	}
	return data, nil
}

// Delete removes the artifact file.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := artifact.ValidateName(name); err != nil {
		return err
	}
	err := os.Remove(s.path(name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete artifact file: %w", err)
	}
	return nil
}

// List returns the names of the stored artifacts, sorted.
// Temporary files of in-flight writes are skipped.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read artifact directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if name, ok := strings.CutSuffix(e.Name(), Ext); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}
