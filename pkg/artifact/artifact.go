// Package artifact persists trained model artifacts and loads opaque resource files.
//
// Writes go through a buffered temporary file that replaces the target only after
// the whole serialization succeeded, so a failed Serialize never leaves a truncated
// model behind under the target name.
package artifact

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/aretw0/corpus/internal/atomicfile"
	"github.com/aretw0/corpus/pkg/domain"
	"github.com/aretw0/corpus/pkg/ports"
)

// Operations reported in domain.ArtifactError.
const (
	OpSerialize = "serialize"
	OpLoad      = "load"
)

// BufferSize is the write buffer placed in front of the artifact file.
const BufferSize = 64 * 1024

// Serialize writes model to path. The bytes on disk are exactly the bytes the model
// produced. Any failure is returned as *domain.ArtifactError.
func Serialize(model ports.Model, path string) error {
	if model == nil {
		return &domain.ArtifactError{Path: path, Op: OpSerialize, Err: errors.New("nil model")}
	}
	f, err := atomicfile.Create(path)
	if err != nil {
		return &domain.ArtifactError{Path: path, Op: OpSerialize, Err: err}
	}
	// No-op once committed.
	defer f.Abort()

	w := bufio.NewWriterSize(f, BufferSize)
	if err := model.Serialize(w); err != nil {
		return &domain.ArtifactError{Path: path, Op: OpSerialize, Err: err}
	}
	if err := w.Flush(); err != nil {
		return &domain.ArtifactError{Path: path, Op: OpSerialize, Err: err}
	}
	if err := f.Commit(); err != nil {
		return &domain.ArtifactError{Path: path, Op: OpSerialize, Err: err}
	}
	return nil
}

// LoadBytes returns the full content of the file at path.
// A missing file wraps both os.ErrNotExist and domain.ErrArtifactNotFound.
func LoadBytes(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = errors.Join(domain.ErrArtifactNotFound, err)
		}
		return nil, &domain.ArtifactError{Path: path, Op: OpLoad, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &domain.ArtifactError{Path: path, Op: OpLoad, Err: err}
	}
	if info.IsDir() {
		return nil, &domain.ArtifactError{Path: path, Op: OpLoad, Err: errors.New("is a directory")}
	}

	var buf bytes.Buffer
	buf.Grow(int(info.Size()))
	if _, err := io.Copy(&buf, f); err != nil {
		return nil, &domain.ArtifactError{Path: path, Op: OpLoad, Err: err}
	}
	return buf.Bytes(), nil
}

// Bytes adapts already serialized content to ports.Model.
type Bytes []byte

// Serialize writes the bytes unchanged.
func (b Bytes) Serialize(w io.Writer) error {
	_, err := w.Write(b)
	return err
}
