package memory

import (
	"context"
	"sync"

	"github.com/Flame174reg/SiteSerenity-sub000/internal/domain"
)

// SiteContentRepository is an in-memory implementation of
// repository.SiteContentRepository
type SiteContentRepository struct {
	mu      sync.RWMutex
	content *domain.SiteContent

	// FailWith, when set, makes every call return this error.
	FailWith error
}

// NewSiteContentRepository creates a new in-memory site content repository
func NewSiteContentRepository() *SiteContentRepository {
	return &SiteContentRepository{}
}

func (r *SiteContentRepository) Get(ctx context.Context) (*domain.SiteContent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.FailWith != nil {
		return nil, r.FailWith
	}
	if r.content == nil {
		return nil, nil
	}

	copied := *r.content
	return &copied, nil
}

func (r *SiteContentRepository) Save(ctx context.Context, content domain.SiteContent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailWith != nil {
		return r.FailWith
	}

	r.content = &content
	return nil
}
