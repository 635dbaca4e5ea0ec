package psql

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Flame174reg/SiteSerenity-sub000/internal/domain"
)

func TestUserRepository_UpsertAndList(t *testing.T) {
	RunTest(t, func(t *testing.T, db *TestDB) {
		repo := NewUserRepository(db.Pool)
		ctx := context.Background()

		require.NoError(t, repo.Upsert(ctx, domain.User{
			DiscordID: "1", Name: "alice", Email: "alice@example.com",
		}))
		time.Sleep(10 * time.Millisecond)
		require.NoError(t, repo.Upsert(ctx, domain.User{
			DiscordID: "2", Name: "bob",
		}))

		users, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)

		// Most recently seen first.
		assert.Equal(t, "2", users[0].DiscordID)
		assert.Equal(t, "1", users[1].DiscordID)
		assert.False(t, users[0].LastLoginAt.IsZero())
	})
}

func TestUserRepository_UpsertPreservesEmail(t *testing.T) {
	RunTest(t, func(t *testing.T, db *TestDB) {
		repo := NewUserRepository(db.Pool)
		ctx := context.Background()

		require.NoError(t, repo.Upsert(ctx, domain.User{
			DiscordID: "1", Name: "alice", Email: "alice@example.com",
		}))

		// A later login without an email keeps the stored one; the name is
		// refreshed.
		require.NoError(t, repo.Upsert(ctx, domain.User{
			DiscordID: "1", Name: "alice2",
		}))

		users, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "alice2", users[0].Name)
		assert.Equal(t, "alice@example.com", users[0].Email)
	})
}
