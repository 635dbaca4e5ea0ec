package memory

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Flame174reg/SiteSerenity-sub000/internal/storage"
)

type object struct {
	data       []byte
	uploadedAt time.Time
}

// MemoryBackend is an in-memory implementation of the storage.Backend
// interface, used in tests.
type MemoryBackend struct {
	mu       sync.RWMutex
	objects  map[string]object
	pageSize int
}

// NewMemoryBackend creates a new in-memory storage backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		objects:  make(map[string]object),
		pageSize: 1000,
	}
}

// SetPageSize overrides the listing page size so tests can exercise the
// cursor loop with small object counts.
func (b *MemoryBackend) SetPageSize(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pageSize = n
}

// Upload stores content in memory
func (b *MemoryBackend) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.objects[key] = object{data: data, uploadedAt: time.Now()}
	return "memory://" + key, nil
}

// Delete deletes an object
func (b *MemoryBackend) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[key]; !exists {
		return storage.ErrObjectNotFound
	}

	delete(b.objects, key)
	return nil
}

// DeleteBatch deletes the given objects sequentially
func (b *MemoryBackend) DeleteBatch(ctx context.Context, keys []string) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	deleted := 0
	for _, key := range keys {
		if _, exists := b.objects[key]; !exists {
			return deleted, storage.ErrObjectNotFound
		}
		delete(b.objects, key)
		deleted++
	}
	return deleted, nil
}

// List returns one page of objects under prefix in key order. The cursor is
// the last key of the previous page, so pages stay stable when objects are
// deleted between calls, like real continuation tokens.
func (b *MemoryBackend) List(ctx context.Context, prefix, cursor string) (storage.Page, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	keys := make([]string, 0, len(b.objects))
	for key := range b.objects {
		if strings.HasPrefix(key, prefix) && key > cursor {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	end := b.pageSize
	if end > len(keys) {
		end = len(keys)
	}

	var page storage.Page
	for _, key := range keys[:end] {
		obj := b.objects[key]
		page.Objects = append(page.Objects, storage.ObjectInfo{
			Key:        key,
			URL:        "memory://" + key,
			Size:       int64(len(obj.data)),
			UploadedAt: obj.uploadedAt,
		})
	}
	if end < len(keys) {
		page.Cursor = keys[end-1]
	}

	return page, nil
}

// Has reports whether an object exists, for test assertions.
func (b *MemoryBackend) Has(key string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.objects[key]
	return ok
}

// Len returns the number of stored objects, for test assertions.
func (b *MemoryBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.objects)
}
