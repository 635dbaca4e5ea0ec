package psql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Flame174reg/SiteSerenity-sub000/internal/domain"
)

func TestRoleRepository_GetMissing(t *testing.T) {
	RunTest(t, func(t *testing.T, db *TestDB) {
		repo := NewRoleRepository(db.Pool)
		ctx := context.Background()

		role, err := repo.Get(ctx, "100000000000000001")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleNone, role)
	})
}

func TestRoleRepository_UpsertOverwrites(t *testing.T) {
	RunTest(t, func(t *testing.T, db *TestDB) {
		repo := NewRoleRepository(db.Pool)
		ctx := context.Background()
		id := "100000000000000001"

		require.NoError(t, repo.Upsert(ctx, id, domain.RoleAdmin))
		role, err := repo.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, role)

		// Last writer wins.
		require.NoError(t, repo.Upsert(ctx, id, domain.RoleSuperAdmin))
		role, err = repo.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleSuperAdmin, role)
	})
}

func TestRoleRepository_GetBatch(t *testing.T) {
	RunTest(t, func(t *testing.T, db *TestDB) {
		repo := NewRoleRepository(db.Pool)
		ctx := context.Background()

		require.NoError(t, repo.Upsert(ctx, "1", domain.RoleAdmin))
		require.NoError(t, repo.Upsert(ctx, "2", domain.RoleSuperAdmin))

		roles, err := repo.GetBatch(ctx, []string{"1", "2", "3"})
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, roles["1"])
		assert.Equal(t, domain.RoleSuperAdmin, roles["2"])
		_, ok := roles["3"]
		assert.False(t, ok, "IDs without a row get no entry")
	})
}

func TestRoleRepository_DeleteIfRole(t *testing.T) {
	RunTest(t, func(t *testing.T, db *TestDB) {
		repo := NewRoleRepository(db.Pool)
		ctx := context.Background()

		require.NoError(t, repo.Upsert(ctx, "1", domain.RoleSuperAdmin))

		// Role mismatch leaves the row alone.
		require.NoError(t, repo.DeleteIfRole(ctx, "1", domain.RoleAdmin))
		role, err := repo.Get(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleSuperAdmin, role)

		require.NoError(t, repo.DeleteIfRole(ctx, "1", domain.RoleSuperAdmin))
		role, err = repo.Get(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleNone, role)
	})
}
