package audit

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore writes each entry to its own file in a directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating audit directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Name() string { return "file" }

// Put writes the body to a temp file and links it into place, so readers
// never see a partial entry and an existing key is never replaced.
func (s *FileStore) Put(ctx context.Context, e Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("error creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(e.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("error writing %s: %w", e.Key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error closing %s: %w", e.Key, err)
	}

	if err := os.Link(tmp.Name(), filepath.Join(s.dir, e.Key)); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return ErrDuplicate
		}
		return fmt.Errorf("error storing %s: %w", e.Key, err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
