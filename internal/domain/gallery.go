package domain

import "time"

// SentinelName is the zero-byte placeholder written under a folder prefix so
// an empty folder stays visible in listings.
const SentinelName = ".keep"

// Folder is a computed view over a blob listing, not a stored entity. Only
// its caption lives in the relational store.
type Folder struct {
	Safe      string    `json:"safe"`
	Name      string    `json:"name"`
	Count     int       `json:"count"`
	CoverURL  string    `json:"coverUrl,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
	Caption   *string   `json:"caption,omitempty"`
}

// PhotoItem is a single stored blob as returned in listings.
type PhotoItem struct {
	Key        string    `json:"key"`
	URL        string    `json:"url"`
	Category   string    `json:"category"`
	UploadedAt time.Time `json:"uploadedAt,omitempty"`
	Size       int64     `json:"size"`
	Caption    *string   `json:"caption,omitempty"`
}

// PhotoCaption is a row in the weekly_photos table, keyed by the exact blob
// key. A nil Caption means the caption was cleared but the row kept.
type PhotoCaption struct {
	Key       string    `json:"key"`
	URL       string    `json:"url,omitempty"`
	DiscordID string    `json:"discord_id,omitempty"`
	Caption   *string   `json:"caption"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AlbumCaption is a row in the weekly_albums table, keyed by the folder's
// safe name. It also stores the human name so listings can avoid decoding.
type AlbumCaption struct {
	Safe      string    `json:"safe"`
	Name      string    `json:"name"`
	Caption   *string   `json:"caption"`
	UpdatedAt time.Time `json:"updated_at"`
}
