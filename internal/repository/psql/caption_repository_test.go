package psql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Flame174reg/SiteSerenity-sub000/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestCaptionRepository_PhotoCaptions(t *testing.T) {
	RunTest(t, func(t *testing.T, db *TestDB) {
		repo := NewCaptionRepository(db.Pool)
		ctx := context.Background()

		require.NoError(t, repo.UpsertPhotoCaption(ctx, domain.PhotoCaption{
			Key:       "weekly/general/1.jpg",
			URL:       "https://cdn.example.com/weekly/general/1.jpg",
			DiscordID: "100000000000000001",
			Caption:   strPtr("the pier"),
		}))
		// Metadata-only row; must not surface in the caption join.
		require.NoError(t, repo.UpsertPhotoCaption(ctx, domain.PhotoCaption{
			Key:       "weekly/general/2.jpg",
			DiscordID: "100000000000000001",
		}))

		captions, err := repo.GetPhotoCaptions(ctx, []string{
			"weekly/general/1.jpg", "weekly/general/2.jpg", "weekly/general/3.jpg",
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"weekly/general/1.jpg": "the pier"}, captions)
	})
}

func TestCaptionRepository_GetPhotoCaptionsEmptyKeys(t *testing.T) {
	RunTest(t, func(t *testing.T, db *TestDB) {
		repo := NewCaptionRepository(db.Pool)

		captions, err := repo.GetPhotoCaptions(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, captions)
	})
}

func TestCaptionRepository_DeleteByPrefix(t *testing.T) {
	RunTest(t, func(t *testing.T, db *TestDB) {
		repo := NewCaptionRepository(db.Pool)
		ctx := context.Background()

		for _, key := range []string{
			"weekly/Apr%202025/1.jpg",
			"weekly/Apr%202025/2.jpg",
			"weekly/general/1.jpg",
		} {
			require.NoError(t, repo.UpsertPhotoCaption(ctx, domain.PhotoCaption{
				Key: key, DiscordID: "1", Caption: strPtr("c"),
			}))
		}

		require.NoError(t, repo.DeletePhotoCaptionsByPrefix(ctx, "weekly/Apr%202025/"))

		captions, err := repo.GetPhotoCaptions(ctx, []string{
			"weekly/Apr%202025/1.jpg", "weekly/Apr%202025/2.jpg", "weekly/general/1.jpg",
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"weekly/general/1.jpg": "c"}, captions)
	})
}

func TestCaptionRepository_DeleteByPrefixEscapesWildcards(t *testing.T) {
	RunTest(t, func(t *testing.T, db *TestDB) {
		repo := NewCaptionRepository(db.Pool)
		ctx := context.Background()

		// A literal underscore in the prefix must not match arbitrary runes.
		require.NoError(t, repo.UpsertPhotoCaption(ctx, domain.PhotoCaption{
			Key: "weekly/a_b/1.jpg", DiscordID: "1", Caption: strPtr("keep-or-drop"),
		}))
		require.NoError(t, repo.UpsertPhotoCaption(ctx, domain.PhotoCaption{
			Key: "weekly/aXb/1.jpg", DiscordID: "1", Caption: strPtr("survivor"),
		}))

		require.NoError(t, repo.DeletePhotoCaptionsByPrefix(ctx, "weekly/a_b/"))

		captions, err := repo.GetPhotoCaptions(ctx, []string{
			"weekly/a_b/1.jpg", "weekly/aXb/1.jpg",
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"weekly/aXb/1.jpg": "survivor"}, captions)
	})
}

func TestCaptionRepository_AlbumCaptions(t *testing.T) {
	RunTest(t, func(t *testing.T, db *TestDB) {
		repo := NewCaptionRepository(db.Pool)
		ctx := context.Background()

		album, err := repo.GetAlbumCaption(ctx, "Apr%202025")
		require.NoError(t, err)
		assert.Nil(t, album)

		require.NoError(t, repo.UpsertAlbumCaption(ctx, domain.AlbumCaption{
			Safe: "Apr%202025", Name: "Apr 2025", Caption: strPtr("spring"),
		}))

		album, err = repo.GetAlbumCaption(ctx, "Apr%202025")
		require.NoError(t, err)
		require.NotNil(t, album)
		assert.Equal(t, "Apr 2025", album.Name)
		require.NotNil(t, album.Caption)
		assert.Equal(t, "spring", *album.Caption)

		albums, err := repo.ListAlbumCaptions(ctx)
		require.NoError(t, err)
		assert.Len(t, albums, 1)

		require.NoError(t, repo.DeleteAlbumCaption(ctx, "Apr%202025"))
		album, err = repo.GetAlbumCaption(ctx, "Apr%202025")
		require.NoError(t, err)
		assert.Nil(t, album)
	})
}
