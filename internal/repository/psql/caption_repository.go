package psql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Flame174reg/SiteSerenity-sub000/internal/domain"
)

// CaptionRepository implements repository.CaptionRepository using PostgreSQL.
// Photo captions live in weekly_photos keyed by blob key; album captions in
// weekly_albums keyed by safe name.
type CaptionRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewCaptionRepository creates a new PostgreSQL caption repository
func NewCaptionRepository(db DBTX) *CaptionRepository {
	return &CaptionRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *CaptionRepository) ensurePhotos(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS weekly_photos (
			key        TEXT PRIMARY KEY,
			url        TEXT,
			discord_id TEXT,
			caption    TEXT,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("ensure weekly_photos table: %w", err)
	}
	return nil
}

func (r *CaptionRepository) ensureAlbums(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS weekly_albums (
			safe       TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			caption    TEXT,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("ensure weekly_albums table: %w", err)
	}
	return nil
}

func (r *CaptionRepository) GetPhotoCaptions(ctx context.Context, keys []string) (map[string]string, error) {
	if err := r.ensurePhotos(ctx); err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return map[string]string{}, nil
	}

	query, args, err := r.sb.Select("key", "caption").
		From("weekly_photos").
		Where(squirrel.Eq{"key": keys}).
		Where("caption IS NOT NULL").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build caption query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get photo captions: %w", err)
	}
	defer rows.Close()

	captions := make(map[string]string)
	for rows.Next() {
		var key, caption string
		if err := rows.Scan(&key, &caption); err != nil {
			return nil, fmt.Errorf("scan caption row: %w", err)
		}
		captions[key] = caption
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate caption rows: %w", err)
	}

	return captions, nil
}

func (r *CaptionRepository) UpsertPhotoCaption(ctx context.Context, cap domain.PhotoCaption) error {
	if err := r.ensurePhotos(ctx); err != nil {
		return err
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO weekly_photos (key, url, discord_id, caption, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (key)
		DO UPDATE SET caption = EXCLUDED.caption, updated_at = now()`,
		cap.Key, nullIfEmpty(cap.URL), nullIfEmpty(cap.DiscordID), cap.Caption)
	if err != nil {
		return fmt.Errorf("upsert photo caption: %w", err)
	}

	return nil
}

func (r *CaptionRepository) DeletePhotoCaption(ctx context.Context, key string) error {
	if err := r.ensurePhotos(ctx); err != nil {
		return err
	}

	_, err := r.db.Exec(ctx, `DELETE FROM weekly_photos WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("delete photo caption: %w", err)
	}

	return nil
}

func (r *CaptionRepository) DeletePhotoCaptionsByPrefix(ctx context.Context, prefix string) error {
	if err := r.ensurePhotos(ctx); err != nil {
		return err
	}

	query, args, err := r.sb.Delete("weekly_photos").
		Where(squirrel.Like{"key": escapeLike(prefix) + "%"}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build prefix delete: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("delete photo captions by prefix: %w", err)
	}

	return nil
}

func (r *CaptionRepository) GetAlbumCaption(ctx context.Context, safe string) (*domain.AlbumCaption, error) {
	if err := r.ensureAlbums(ctx); err != nil {
		return nil, err
	}

	var cap domain.AlbumCaption
	err := r.db.QueryRow(ctx,
		`SELECT safe, name, caption, updated_at FROM weekly_albums WHERE safe = $1`, safe,
	).Scan(&cap.Safe, &cap.Name, &cap.Caption, &cap.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get album caption: %w", err)
	}

	return &cap, nil
}

func (r *CaptionRepository) ListAlbumCaptions(ctx context.Context) (map[string]domain.AlbumCaption, error) {
	if err := r.ensureAlbums(ctx); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT safe, name, caption, updated_at FROM weekly_albums`)
	if err != nil {
		return nil, fmt.Errorf("list album captions: %w", err)
	}
	defer rows.Close()

	albums := make(map[string]domain.AlbumCaption)
	for rows.Next() {
		var cap domain.AlbumCaption
		if err := rows.Scan(&cap.Safe, &cap.Name, &cap.Caption, &cap.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan album row: %w", err)
		}
		albums[cap.Safe] = cap
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate album rows: %w", err)
	}

	return albums, nil
}

func (r *CaptionRepository) UpsertAlbumCaption(ctx context.Context, cap domain.AlbumCaption) error {
	if err := r.ensureAlbums(ctx); err != nil {
		return err
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO weekly_albums (safe, name, caption, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (safe)
		DO UPDATE SET name = EXCLUDED.name, caption = EXCLUDED.caption, updated_at = now()`,
		cap.Safe, cap.Name, cap.Caption)
	if err != nil {
		return fmt.Errorf("upsert album caption: %w", err)
	}

	return nil
}

func (r *CaptionRepository) DeleteAlbumCaption(ctx context.Context, safe string) error {
	if err := r.ensureAlbums(ctx); err != nil {
		return err
	}

	_, err := r.db.Exec(ctx, `DELETE FROM weekly_albums WHERE safe = $1`, safe)
	if err != nil {
		return fmt.Errorf("delete album caption: %w", err)
	}

	return nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// escapeLike escapes LIKE metacharacters so a key prefix matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
