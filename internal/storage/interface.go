package storage

import (
	"context"
	"io"
)

// ObjectStorage is the interface generated assets (meal images, ingredient
// images) are written through.
type ObjectStorage interface {
	// Upload writes an object to storage
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// Download reads an object from storage
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// GetURL returns the public URL for accessing an object
	GetURL(key string) string

	// Delete removes an object from storage
	Delete(ctx context.Context, key string) error

	// Exists checks whether an object exists
	Exists(ctx context.Context, key string) (bool, error)
}
