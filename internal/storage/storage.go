// Package storage provides the blob store the attachment upload writes
// file bytes into. The store hands back an opaque key; the database row
// records that key and is only written after the bytes are safely stored,
// so an abandoned upload never leaves a row without its file.
package storage

import (
	"context"
	"io"
)

// BlobStore stores raw file bytes under caller-chosen keys.
type BlobStore interface {
	// Put writes everything from r under key with the given content type
	// and returns the number of bytes written.
	Put(ctx context.Context, key, contentType string, r io.Reader) (int64, error)
}
