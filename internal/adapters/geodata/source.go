package geodata

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// fileExt is appended to source ids by FileSource.
const fileExt = ".geojson"

// Source returns the raw bytes of a collection by id.
type Source interface {
	Fetch(ctx context.Context, id string) ([]byte, error)
}

// FileSource reads <dir>/<id>.geojson.
type FileSource struct {
	dir string
}

// NewFileSource returns a source rooted at dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

// Fetch implements Source.
func (s *FileSource) Fetch(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSourceID, id)
	}
	b, err := os.ReadFile(filepath.Join(s.dir, id+fileExt))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetch, id, err)
	}
	return b, nil
}
