package psql

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/Flame174reg/SiteSerenity-sub000/internal/domain"
)

// UserRepository implements repository.UserRepository using PostgreSQL
type UserRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *UserRepository) ensure(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			discord_id    TEXT PRIMARY KEY,
			name          TEXT NOT NULL DEFAULT '',
			email         TEXT NOT NULL DEFAULT '',
			avatar_url    TEXT NOT NULL DEFAULT '',
			last_login_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("ensure users table: %w", err)
	}
	return nil
}

func (r *UserRepository) Upsert(ctx context.Context, user domain.User) error {
	if err := r.ensure(ctx); err != nil {
		return err
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO users (discord_id, name, email, avatar_url, last_login_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (discord_id)
		DO UPDATE SET
			name = EXCLUDED.name,
			email = CASE WHEN EXCLUDED.email <> '' THEN EXCLUDED.email ELSE users.email END,
			avatar_url = EXCLUDED.avatar_url,
			last_login_at = now()`,
		user.DiscordID, user.Name, user.Email, user.AvatarURL)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}

	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	if err := r.ensure(ctx); err != nil {
		return nil, err
	}

	query, args, err := r.sb.Select("discord_id", "name", "email", "avatar_url", "last_login_at").
		From("users").
		OrderBy("last_login_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build user query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.DiscordID, &u.Name, &u.Email, &u.AvatarURL, &u.LastLoginAt); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}

	return users, nil
}
