// Package atomicfile writes files through a temporary sibling that only replaces
// the destination on Commit. Readers never observe a partially written file.
package atomicfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ErrFinished is returned when writing to a file that was already committed or aborted.
var ErrFinished = errors.New("atomic file already finished")

// File is a pending replacement of a destination path.
type File struct {
	tmp  *os.File
	dest string
	done bool
}

// Create opens a temporary file next to dest, creating the parent directory if needed.
// The temp file lives in the same directory so the final rename stays on one filesystem.
func Create(dest string) (*File, error) {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to ensure directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(dest)+"-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	// CreateTemp uses 0600; committed files get the usual permissions.
	if err := tmp.Chmod(0644); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to chmod temp file: %w", err)
	}
	return &File{tmp: tmp, dest: dest}, nil
}

// Name returns the destination path.
func (f *File) Name() string { return f.dest }

func (f *File) Write(p []byte) (int, error) {
	if f.done {
		return 0, ErrFinished
	}
	return f.tmp.Write(p)
}

// Commit syncs the temp file and renames it over the destination.
// On failure the destination is left untouched and the temp file removed.
func (f *File) Commit() error {
	if f.done {
		return ErrFinished
	}
	f.done = true
	tmpPath := f.tmp.Name()
	defer func() {
		_ = f.tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if err := f.tmp.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := f.tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if runtime.GOOS == "windows" {
		// os.Rename does not replace an existing file there.
		if err := os.Remove(f.dest); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove existing file for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, f.dest); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Abort discards the temp file. It is a no-op after Commit.
func (f *File) Abort() {
	if f.done {
		return
	}
	f.done = true
	_ = f.tmp.Close()
	_ = os.Remove(f.tmp.Name())
}
