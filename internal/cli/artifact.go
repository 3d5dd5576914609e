package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/corpus/pkg/artifact"
)

// PutArtifact stores the file at path under name.
func PutArtifact(ctx context.Context, cfg Config, name, path string) error {
	kit, closeStore, err := cfg.NewToolkit()
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	data, err := kit.LoadResource(path)
	if err != nil {
		return err
	}
	return kit.SaveArtifact(ctx, name, artifact.Bytes(data))
}

// GetArtifact writes the artifact name to path, or to stdout when path is empty or "-".
func GetArtifact(ctx context.Context, cfg Config, name, path string, std Streams) error {
	kit, closeStore, err := cfg.NewToolkit()
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	data, err := kit.LoadArtifact(ctx, name)
	if err != nil {
		return err
	}
	if path == "" || path == "-" {
		_, err = std.Out.Write(data)
		return err
	}
	return kit.Serialize(artifact.Bytes(data), path)
}

// ListArtifacts prints one artifact name per line.
func ListArtifacts(ctx context.Context, cfg Config, std Streams) error {
	kit, closeStore, err := cfg.NewToolkit()
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	names, err := kit.Store().List(ctx)
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Fprintln(std.Out, n)
	}
	return nil
}

// DeleteArtifact removes the artifact name. Missing artifacts are not an error.
func DeleteArtifact(ctx context.Context, cfg Config, name string) error {
	kit, closeStore, err := cfg.NewToolkit()
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	if err := kit.Store().Delete(ctx, name); err != nil {
		return fmt.Errorf("failed to delete %q: %w", name, err)
	}
	return nil
}
