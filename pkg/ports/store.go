package ports

import "context"

// ArtifactStore persists serialized model artifacts by name.
type ArtifactStore interface {
	// Save serializes the model under the given name, replacing any previous artifact.
	// A failed Save must not leave a readable partial artifact behind.
	Save(ctx context.Context, name string, model Model) error

	// Load returns the serialized bytes of an artifact.
	// Returns domain.ErrArtifactNotFound if the name does not exist.
	Load(ctx context.Context, name string) ([]byte, error)

	// Delete removes an artifact. Deleting a missing artifact is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names of all stored artifacts.
	List(ctx context.Context) ([]string, error)
}
