package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FSStore stores blobs as files under a base directory. Used in development
// and tests where no S3 bucket is configured.
type FSStore struct {
	base string
}

// NewFSStore returns an FSStore rooted at base, creating it if needed.
func NewFSStore(base string) (*FSStore, error) {
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("storage.NewFSStore: %w", err)
	}
	return &FSStore{base: base}, nil
}

// Put writes the blob to <base>/<key>. The write goes to a temp file first
// and is renamed into place, so a failed upload never leaves a readable
// partial file under the final key.
func (s *FSStore) Put(ctx context.Context, key, contentType string, r io.Reader) (int64, error) {
	_ = contentType // recorded in the database, not on disk

	dst := filepath.Join(s.base, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, fmt.Errorf("storage.FSStore.Put: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("storage.FSStore.Put: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, fmt.Errorf("storage.FSStore.Put: write: %w", err)
	}

	if err := os.Rename(tmp.Name(), dst); err != nil {
		return 0, fmt.Errorf("storage.FSStore.Put: rename: %w", err)
	}
	return n, nil
}
