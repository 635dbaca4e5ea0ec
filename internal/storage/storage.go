package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrObjectNotFound indicates the requested object does not exist.
var ErrObjectNotFound = errors.New("object not found")

// ObjectInfo describes a stored object as returned by listings.
type ObjectInfo struct {
	Key        string
	URL        string
	Size       int64
	UploadedAt time.Time
}

// Page is one page of a prefix listing. An empty Cursor means the listing is
// exhausted; otherwise the caller passes it back to continue.
type Page struct {
	Objects []ObjectInfo
	Cursor  string
}

// Backend defines the interface for blob storage backends.
type Backend interface {
	// Upload stores the object and returns its public URL.
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)

	// Delete removes a single object.
	Delete(ctx context.Context, key string) error

	// DeleteBatch removes the given objects. Objects are independent, so
	// implementations may fan out within a batch. Returns the number of
	// objects removed before any failure.
	DeleteBatch(ctx context.Context, keys []string) (int, error)

	// List returns one page of objects under prefix, starting at cursor
	// (empty for the first page).
	List(ctx context.Context, prefix, cursor string) (Page, error)
}
