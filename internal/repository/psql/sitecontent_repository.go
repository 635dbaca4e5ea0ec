package psql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Flame174reg/SiteSerenity-sub000/internal/domain"
)

// siteContentRowID pins the site content to a single row; the document is a
// singleton replaced whole on every save.
const siteContentRowID = 1

// SiteContentRepository implements repository.SiteContentRepository using
// PostgreSQL, storing the document as a JSONB column.
type SiteContentRepository struct {
	db DBTX
}

// NewSiteContentRepository creates a new PostgreSQL site content repository
func NewSiteContentRepository(db DBTX) *SiteContentRepository {
	return &SiteContentRepository{db: db}
}

func (r *SiteContentRepository) ensure(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS site_content (
			id         INT PRIMARY KEY,
			content    JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("ensure site_content table: %w", err)
	}
	return nil
}

func (r *SiteContentRepository) Get(ctx context.Context) (*domain.SiteContent, error) {
	if err := r.ensure(ctx); err != nil {
		return nil, err
	}

	var raw []byte
	err := r.db.QueryRow(ctx,
		`SELECT content FROM site_content WHERE id = $1`, siteContentRowID,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get site content: %w", err)
	}

	var content domain.SiteContent
	if err := json.Unmarshal(raw, &content); err != nil {
		return nil, fmt.Errorf("decode site content: %w", err)
	}

	return &content, nil
}

func (r *SiteContentRepository) Save(ctx context.Context, content domain.SiteContent) error {
	if err := r.ensure(ctx); err != nil {
		return err
	}

	raw, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("encode site content: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO site_content (id, content, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id)
		DO UPDATE SET content = EXCLUDED.content, updated_at = now()`,
		siteContentRowID, raw)
	if err != nil {
		return fmt.Errorf("save site content: %w", err)
	}

	return nil
}
