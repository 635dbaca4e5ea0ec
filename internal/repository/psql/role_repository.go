package psql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Flame174reg/SiteSerenity-sub000/internal/domain"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// RoleRepository implements repository.RoleRepository using PostgreSQL
type RoleRepository struct {
	db DBTX
}

// NewRoleRepository creates a new PostgreSQL role repository
func NewRoleRepository(db DBTX) *RoleRepository {
	return &RoleRepository{db: db}
}

// ensure creates the uploaders table if it does not exist yet. Run before
// each query so a fresh database works without a migration step.
func (r *RoleRepository) ensure(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS uploaders (
			discord_id TEXT PRIMARY KEY,
			role       TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("ensure uploaders table: %w", err)
	}
	return nil
}

func (r *RoleRepository) Get(ctx context.Context, discordID string) (domain.Role, error) {
	if err := r.ensure(ctx); err != nil {
		return domain.RoleNone, err
	}

	var role string
	err := r.db.QueryRow(ctx,
		`SELECT role FROM uploaders WHERE discord_id = $1`, discordID,
	).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.RoleNone, nil
		}
		return domain.RoleNone, fmt.Errorf("get role: %w", err)
	}

	return domain.Role(role), nil
}

func (r *RoleRepository) GetBatch(ctx context.Context, discordIDs []string) (map[string]domain.Role, error) {
	if err := r.ensure(ctx); err != nil {
		return nil, err
	}
	if len(discordIDs) == 0 {
		return map[string]domain.Role{}, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT discord_id, role FROM uploaders WHERE discord_id = ANY($1)`, discordIDs)
	if err != nil {
		return nil, fmt.Errorf("get roles batch: %w", err)
	}
	defer rows.Close()

	roles := make(map[string]domain.Role, len(discordIDs))
	for rows.Next() {
		var id, role string
		if err := rows.Scan(&id, &role); err != nil {
			return nil, fmt.Errorf("scan role row: %w", err)
		}
		roles[id] = domain.Role(role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate role rows: %w", err)
	}

	return roles, nil
}

func (r *RoleRepository) Upsert(ctx context.Context, discordID string, role domain.Role) error {
	if err := r.ensure(ctx); err != nil {
		return err
	}

	// Last-writer-wins: concurrent toggles converge on whichever lands last.
	_, err := r.db.Exec(ctx, `
		INSERT INTO uploaders (discord_id, role, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (discord_id)
		DO UPDATE SET role = EXCLUDED.role, updated_at = now()`,
		discordID, string(role))
	if err != nil {
		return fmt.Errorf("upsert role: %w", err)
	}

	return nil
}

func (r *RoleRepository) DeleteIfRole(ctx context.Context, discordID string, role domain.Role) error {
	if err := r.ensure(ctx); err != nil {
		return err
	}

	_, err := r.db.Exec(ctx,
		`DELETE FROM uploaders WHERE discord_id = $1 AND role = $2`,
		discordID, string(role))
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}

	return nil
}
