package repository

import (
	"context"

	"github.com/Flame174reg/SiteSerenity-sub000/internal/domain"
)

// RoleRepository persists elevated roles in the uploaders table.
type RoleRepository interface {
	// Get returns the stored role for a user, RoleNone if absent.
	Get(ctx context.Context, discordID string) (domain.Role, error)

	// GetBatch returns stored roles for the given IDs. IDs without a row
	// are absent from the result.
	GetBatch(ctx context.Context, discordIDs []string) (map[string]domain.Role, error)

	// Upsert writes a role row, last-writer-wins on conflict.
	Upsert(ctx context.Context, discordID string, role domain.Role) error

	// DeleteIfRole removes the row only if it currently holds the given
	// role. Used to revoke admin without touching a super-admin row.
	DeleteIfRole(ctx context.Context, discordID string, role domain.Role) error
}

// CaptionRepository persists photo and album captions.
type CaptionRepository interface {
	// GetPhotoCaptions bulk-fetches captions for the given keys; keys with
	// no caption (or a cleared one) are absent from the result.
	GetPhotoCaptions(ctx context.Context, keys []string) (map[string]string, error)

	// UpsertPhotoCaption writes a caption row keyed by exact blob key. A
	// nil caption clears the caption but keeps the row.
	UpsertPhotoCaption(ctx context.Context, cap domain.PhotoCaption) error

	// DeletePhotoCaption removes a caption row; a missing row is not an error.
	DeletePhotoCaption(ctx context.Context, key string) error

	// DeletePhotoCaptionsByPrefix removes all caption rows whose key
	// starts with prefix.
	DeletePhotoCaptionsByPrefix(ctx context.Context, prefix string) error

	// GetAlbumCaption returns the album caption row, nil if absent.
	GetAlbumCaption(ctx context.Context, safe string) (*domain.AlbumCaption, error)

	// ListAlbumCaptions returns all album caption rows keyed by safe name.
	ListAlbumCaptions(ctx context.Context) (map[string]domain.AlbumCaption, error)

	// UpsertAlbumCaption writes an album caption row keyed by safe name.
	UpsertAlbumCaption(ctx context.Context, cap domain.AlbumCaption) error

	// DeleteAlbumCaption removes an album caption row; missing is not an error.
	DeleteAlbumCaption(ctx context.Context, safe string) error
}

// UserRepository persists known signed-in users.
type UserRepository interface {
	// Upsert records a user profile, refreshing last_login_at.
	Upsert(ctx context.Context, user domain.User) error

	// List returns all known users, most recently seen first.
	List(ctx context.Context) ([]domain.User, error)
}

// SiteContentRepository persists the singleton site content document.
type SiteContentRepository interface {
	// Get returns the stored document, nil if none has been saved.
	Get(ctx context.Context) (*domain.SiteContent, error)

	// Save overwrites the stored document.
	Save(ctx context.Context, content domain.SiteContent) error
}
