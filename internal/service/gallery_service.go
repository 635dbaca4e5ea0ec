package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Flame174reg/SiteSerenity-sub000/internal/domain"
	"github.com/Flame174reg/SiteSerenity-sub000/internal/repository"
	"github.com/Flame174reg/SiteSerenity-sub000/internal/storage"
)

const (
	// DefaultCategory receives uploads without a category.
	DefaultCategory = "general"

	// maxFolderNameLen bounds human folder names, in runes.
	maxFolderNameLen = 64

	defaultExtension = "jpg"
)

var extensionPattern = regexp.MustCompile(`^[a-z0-9]{1,5}$`)

// UploadParams describes an upload request.
type UploadParams struct {
	ActorID string

	// Category is the human folder name; ForcedSafe, when set, is an
	// already percent-encoded safe name used verbatim.
	Category   string
	ForcedSafe string

	FileName    string
	ContentType string
	Body        io.Reader
}

// UploadResult is the outcome of a successful upload.
type UploadResult struct {
	Key          string `json:"key"`
	URL          string `json:"url"`
	CategorySafe string `json:"categorySafe"`
}

// GalleryService manages the folder namespace and orchestrates uploads and
// deletes across the blob store and the caption tables.
type GalleryService struct {
	store    storage.Backend
	captions repository.CaptionRepository
	roles    *RoleService
	root     string
}

// NewGalleryService creates a new gallery service. root is the top-level
// storage prefix folders live under.
func NewGalleryService(store storage.Backend, captions repository.CaptionRepository, roles *RoleService, root string) *GalleryService {
	if root == "" {
		root = "weekly"
	}
	return &GalleryService{
		store:    store,
		captions: captions,
		roles:    roles,
		root:     strings.Trim(root, "/"),
	}
}

// Root returns the top-level storage prefix.
func (s *GalleryService) Root() string {
	return s.root
}

// SafeName percent-encodes a human folder name into a URL-safe path segment.
// Names with a path separator or over 64 runes are rejected.
func (s *GalleryService) SafeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsRune(name, '/') {
		return "", ErrInvalidFolderName
	}
	if len([]rune(name)) > maxFolderNameLen {
		return "", ErrInvalidFolderName
	}
	return url.PathEscape(name), nil
}

func (s *GalleryService) requireUploader(ctx context.Context, actorID string) error {
	if actorID == "" {
		return ErrUnauthenticated
	}
	if flags := s.roles.Resolve(ctx, actorID); !flags.IsAdmin {
		return ErrForbidden
	}
	return nil
}

func (s *GalleryService) folderPrefix(safe string) string {
	return s.root + "/" + safe + "/"
}

func (s *GalleryService) sentinelKey(safe string) string {
	return s.root + "/" + safe + "/" + domain.SentinelName
}

// CreateFolder validates and encodes the folder name, then writes the
// sentinel object so the empty folder stays discoverable.
func (s *GalleryService) CreateFolder(ctx context.Context, actorID, name string) (string, error) {
	if err := s.requireUploader(ctx, actorID); err != nil {
		return "", err
	}

	safe, err := s.SafeName(name)
	if err != nil {
		return "", err
	}

	if _, err := s.store.Upload(ctx, s.sentinelKey(safe), bytes.NewReader(nil), ""); err != nil {
		return "", fmt.Errorf("create folder sentinel: %w", err)
	}

	return safe, nil
}

// listAll walks every page of a prefix listing.
func (s *GalleryService) listAll(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	var objects []storage.ObjectInfo
	cursor := ""
	for {
		page, err := s.store.List(ctx, prefix, cursor)
		if err != nil {
			return nil, fmt.Errorf("list %q: %w", prefix, err)
		}
		objects = append(objects, page.Objects...)
		if page.Cursor == "" {
			return objects, nil
		}
		cursor = page.Cursor
	}
}

// ListFolders aggregates the root listing into folder summaries and joins
// album captions. A caption-store outage degrades to nil captions.
func (s *GalleryService) ListFolders(ctx context.Context) ([]domain.Folder, error) {
	objects, err := s.listAll(ctx, s.root+"/")
	if err != nil {
		return nil, err
	}

	folders := AggregateFolders(objects)

	albums, err := s.captions.ListAlbumCaptions(ctx)
	if err != nil {
		slog.Warn("Album caption join failed, listing without captions", "err", err)
		return folders, nil
	}
	for i := range folders {
		if album, ok := albums[folders[i].Safe]; ok {
			folders[i].Caption = album.Caption
			if album.Name != "" {
				folders[i].Name = album.Name
			}
		}
	}

	return folders, nil
}

// ListPhotos lists the blobs in one folder with captions joined by exact
// key. Keys with fewer than three path segments and the sentinel object are
// skipped. The second return value is the album's caption, if any.
func (s *GalleryService) ListPhotos(ctx context.Context, safe string) ([]domain.PhotoItem, *string, error) {
	objects, err := s.listAll(ctx, s.folderPrefix(safe))
	if err != nil {
		return nil, nil, err
	}

	items := make([]domain.PhotoItem, 0, len(objects))
	keys := make([]string, 0, len(objects))
	for _, obj := range objects {
		segments := strings.Split(obj.Key, "/")
		if len(segments) < 3 {
			continue
		}
		if segments[len(segments)-1] == domain.SentinelName {
			continue
		}
		items = append(items, domain.PhotoItem{
			Key:        obj.Key,
			URL:        obj.URL,
			Category:   segments[1],
			UploadedAt: obj.UploadedAt,
			Size:       obj.Size,
		})
		keys = append(keys, obj.Key)
	}

	var albumCaption *string
	if album, err := s.captions.GetAlbumCaption(ctx, safe); err != nil {
		slog.Warn("Album caption lookup failed", "safe", safe, "err", err)
	} else if album != nil {
		albumCaption = album.Caption
	}

	captions, err := s.captions.GetPhotoCaptions(ctx, keys)
	if err != nil {
		slog.Warn("Photo caption join failed, listing without captions", "err", err)
		return items, albumCaption, nil
	}
	for i := range items {
		if caption, ok := captions[items[i].Key]; ok {
			c := caption
			items[i].Caption = &c
		}
	}

	return items, albumCaption, nil
}

// Upload stores a photo and records its metadata row. The folder sentinel
// is re-written best-effort afterwards; its failure never fails the upload.
func (s *GalleryService) Upload(ctx context.Context, params UploadParams) (UploadResult, error) {
	if err := s.requireUploader(ctx, params.ActorID); err != nil {
		return UploadResult{}, err
	}

	if params.Body == nil {
		return UploadResult{}, ErrEmptyUpload
	}
	if !strings.HasPrefix(params.ContentType, "image/") {
		return UploadResult{}, ErrNotAnImage
	}

	safe, err := s.resolveSafe(params.Category, params.ForcedSafe)
	if err != nil {
		return UploadResult{}, err
	}

	key := fmt.Sprintf("%s/%s/%d-%s.%s",
		s.root, safe,
		time.Now().UnixMilli(),
		shortSuffix(),
		sanitizeExtension(params.FileName))

	publicURL, err := s.store.Upload(ctx, key, params.Body, params.ContentType)
	if err != nil {
		return UploadResult{}, fmt.Errorf("upload object: %w", err)
	}

	// Metadata row and sentinel rewrite are advisory; the object is stored.
	if err := s.captions.UpsertPhotoCaption(ctx, domain.PhotoCaption{
		Key:       key,
		URL:       publicURL,
		DiscordID: params.ActorID,
	}); err != nil {
		slog.Warn("Photo metadata row not recorded", "key", key, "err", err)
	}
	if _, err := s.store.Upload(ctx, s.sentinelKey(safe), bytes.NewReader(nil), ""); err != nil {
		slog.Warn("Sentinel rewrite failed", "safe", safe, "err", err)
	}

	return UploadResult{Key: key, URL: publicURL, CategorySafe: safe}, nil
}

func (s *GalleryService) resolveSafe(category, forcedSafe string) (string, error) {
	if forcedSafe != "" {
		if strings.ContainsRune(forcedSafe, '/') {
			return "", ErrInvalidFolderName
		}
		if _, err := url.PathUnescape(forcedSafe); err != nil {
			return "", ErrInvalidFolderName
		}
		return forcedSafe, nil
	}

	category = strings.TrimSpace(category)
	if category == "" {
		category = DefaultCategory
	}
	return s.SafeName(category)
}

// DeletePhoto removes a photo object and, best-effort, its caption row.
// Deleting an already-deleted object succeeds so retries are safe.
func (s *GalleryService) DeletePhoto(ctx context.Context, actorID, key, rawURL string) error {
	if err := s.requireUploader(ctx, actorID); err != nil {
		return err
	}

	if key == "" {
		key = s.keyFromURL(rawURL)
	}
	if key == "" {
		return ErrMissingKey
	}

	if err := s.store.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		return fmt.Errorf("delete object: %w", err)
	}

	if err := s.captions.DeletePhotoCaption(ctx, key); err != nil {
		slog.Warn("Caption row not deleted", "key", key, "err", err)
	}

	return nil
}

// keyFromURL recovers the storage key from a public object URL by locating
// the root prefix in its path.
func (s *GalleryService) keyFromURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	p := strings.TrimPrefix(u.Path, "/")
	if u.Opaque != "" {
		p = u.Opaque
	}
	marker := s.root + "/"
	if idx := strings.Index(p, marker); idx >= 0 {
		return p[idx:]
	}
	return ""
}

// DeleteFolder removes every object under the folder prefix, paging in
// strict cursor order, then drops the caption rows under that prefix and
// the album caption row. Already-deleted objects stay deleted on partial
// failure; the count reflects what was removed.
func (s *GalleryService) DeleteFolder(ctx context.Context, actorID, safe string) (int, error) {
	if err := s.requireUploader(ctx, actorID); err != nil {
		return 0, err
	}
	if safe == "" || strings.ContainsRune(safe, '/') {
		return 0, ErrInvalidFolderName
	}

	prefix := s.folderPrefix(safe)
	deleted := 0
	cursor := ""
	for {
		page, err := s.store.List(ctx, prefix, cursor)
		if err != nil {
			return deleted, fmt.Errorf("list %q: %w", prefix, err)
		}
		if len(page.Objects) > 0 {
			keys := make([]string, 0, len(page.Objects))
			for _, obj := range page.Objects {
				keys = append(keys, obj.Key)
			}
			n, err := s.store.DeleteBatch(ctx, keys)
			deleted += n
			if err != nil {
				return deleted, fmt.Errorf("delete page: %w", err)
			}
		}
		if page.Cursor == "" {
			break
		}
		cursor = page.Cursor
	}

	if err := s.captions.DeletePhotoCaptionsByPrefix(ctx, prefix); err != nil {
		return deleted, fmt.Errorf("delete caption rows: %w", err)
	}
	if err := s.captions.DeleteAlbumCaption(ctx, safe); err != nil {
		return deleted, fmt.Errorf("delete album caption: %w", err)
	}

	return deleted, nil
}

// SetPhotoCaption upserts a caption keyed by exact blob key. A nil caption
// clears the stored caption but keeps the row.
func (s *GalleryService) SetPhotoCaption(ctx context.Context, actorID, key string, caption *string) error {
	if err := s.requireUploader(ctx, actorID); err != nil {
		return err
	}
	if key == "" {
		return ErrMissingKey
	}

	caption = normalizeCaption(caption)
	if err := s.captions.UpsertPhotoCaption(ctx, domain.PhotoCaption{
		Key:       key,
		DiscordID: actorID,
		Caption:   caption,
	}); err != nil {
		return fmt.Errorf("set photo caption: %w", err)
	}
	return nil
}

// SetAlbumCaption upserts the folder caption row, storing the human name
// alongside it. Empty or whitespace captions store null.
func (s *GalleryService) SetAlbumCaption(ctx context.Context, actorID, safe, name string, caption *string) error {
	if err := s.requireUploader(ctx, actorID); err != nil {
		return err
	}
	if safe == "" || strings.ContainsRune(safe, '/') {
		return ErrInvalidFolderName
	}
	if name == "" {
		if decoded, err := url.PathUnescape(safe); err == nil {
			name = decoded
		} else {
			name = safe
		}
	}

	if err := s.captions.UpsertAlbumCaption(ctx, domain.AlbumCaption{
		Safe:    safe,
		Name:    name,
		Caption: normalizeCaption(caption),
	}); err != nil {
		return fmt.Errorf("set album caption: %w", err)
	}
	return nil
}

func normalizeCaption(caption *string) *string {
	if caption == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*caption)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// sanitizeExtension reduces a file name to a 1-5 character alphanumeric
// extension, defaulting to jpg.
func sanitizeExtension(fileName string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(fileName), "."))
	if !extensionPattern.MatchString(ext) {
		return defaultExtension
	}
	return ext
}

// shortSuffix returns 8 hex characters to keep generated keys unique within
// a millisecond.
func shortSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
