package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Flame174reg/SiteSerenity-sub000/internal/domain"
)

// CaptionRepository is an in-memory implementation of repository.CaptionRepository
type CaptionRepository struct {
	mu     sync.RWMutex
	photos map[string]domain.PhotoCaption
	albums map[string]domain.AlbumCaption

	// FailWith, when set, makes every call return this error. Tests use it
	// to verify caption outages are swallowed by listings.
	FailWith error
}

// NewCaptionRepository creates a new in-memory caption repository
func NewCaptionRepository() *CaptionRepository {
	return &CaptionRepository{
		photos: make(map[string]domain.PhotoCaption),
		albums: make(map[string]domain.AlbumCaption),
	}
}

func (r *CaptionRepository) GetPhotoCaptions(ctx context.Context, keys []string) (map[string]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.FailWith != nil {
		return nil, r.FailWith
	}

	captions := make(map[string]string)
	for _, key := range keys {
		if row, ok := r.photos[key]; ok && row.Caption != nil {
			captions[key] = *row.Caption
		}
	}
	return captions, nil
}

func (r *CaptionRepository) UpsertPhotoCaption(ctx context.Context, cap domain.PhotoCaption) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailWith != nil {
		return r.FailWith
	}

	cap.UpdatedAt = time.Now()
	if existing, ok := r.photos[cap.Key]; ok {
		existing.Caption = cap.Caption
		existing.UpdatedAt = cap.UpdatedAt
		r.photos[cap.Key] = existing
		return nil
	}
	r.photos[cap.Key] = cap
	return nil
}

func (r *CaptionRepository) DeletePhotoCaption(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailWith != nil {
		return r.FailWith
	}

	delete(r.photos, key)
	return nil
}

func (r *CaptionRepository) DeletePhotoCaptionsByPrefix(ctx context.Context, prefix string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailWith != nil {
		return r.FailWith
	}

	for key := range r.photos {
		if strings.HasPrefix(key, prefix) {
			delete(r.photos, key)
		}
	}
	return nil
}

func (r *CaptionRepository) GetAlbumCaption(ctx context.Context, safe string) (*domain.AlbumCaption, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.FailWith != nil {
		return nil, r.FailWith
	}

	if row, ok := r.albums[safe]; ok {
		return &row, nil
	}
	return nil, nil
}

func (r *CaptionRepository) ListAlbumCaptions(ctx context.Context) (map[string]domain.AlbumCaption, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.FailWith != nil {
		return nil, r.FailWith
	}

	albums := make(map[string]domain.AlbumCaption, len(r.albums))
	for safe, row := range r.albums {
		albums[safe] = row
	}
	return albums, nil
}

func (r *CaptionRepository) UpsertAlbumCaption(ctx context.Context, cap domain.AlbumCaption) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailWith != nil {
		return r.FailWith
	}

	cap.UpdatedAt = time.Now()
	r.albums[cap.Safe] = cap
	return nil
}

func (r *CaptionRepository) DeleteAlbumCaption(ctx context.Context, safe string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailWith != nil {
		return r.FailWith
	}

	delete(r.albums, safe)
	return nil
}

// HasPhotoCaption reports whether a caption row exists, for test assertions.
func (r *CaptionRepository) HasPhotoCaption(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.photos[key]
	return ok
}
