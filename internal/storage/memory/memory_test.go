package memory_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Flame174reg/SiteSerenity-sub000/internal/storage"
	"github.com/Flame174reg/SiteSerenity-sub000/internal/storage/memory"
)

func TestMemoryBackend_UploadDownloadDelete(t *testing.T) {
	backend := memory.NewMemoryBackend()
	ctx := context.Background()

	url, err := backend.Upload(ctx, "weekly/misc/1.jpg", strings.NewReader("data"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "memory://weekly/misc/1.jpg", url)
	assert.True(t, backend.Has("weekly/misc/1.jpg"))

	err = backend.Delete(ctx, "weekly/misc/1.jpg")
	require.NoError(t, err)

	err = backend.Delete(ctx, "weekly/misc/1.jpg")
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)
}

func TestMemoryBackend_ListPaginates(t *testing.T) {
	backend := memory.NewMemoryBackend()
	backend.SetPageSize(2)
	ctx := context.Background()

	keys := []string{
		"weekly/a/1.jpg",
		"weekly/a/2.jpg",
		"weekly/a/3.jpg",
		"weekly/b/1.jpg",
		"other/x/1.jpg",
	}
	for _, key := range keys {
		_, err := backend.Upload(ctx, key, strings.NewReader("x"), "")
		require.NoError(t, err)
	}

	var listed []string
	cursor := ""
	pages := 0
	for {
		page, err := backend.List(ctx, "weekly/", cursor)
		require.NoError(t, err)
		pages++
		for _, obj := range page.Objects {
			listed = append(listed, obj.Key)
		}
		if page.Cursor == "" {
			break
		}
		cursor = page.Cursor
	}

	assert.Equal(t, 2, pages)
	assert.Equal(t, []string{
		"weekly/a/1.jpg",
		"weekly/a/2.jpg",
		"weekly/a/3.jpg",
		"weekly/b/1.jpg",
	}, listed)
}

func TestMemoryBackend_ListStableUnderDeletes(t *testing.T) {
	backend := memory.NewMemoryBackend()
	backend.SetPageSize(2)
	ctx := context.Background()

	for _, key := range []string{"p/a/1", "p/a/2", "p/a/3", "p/a/4", "p/a/5"} {
		_, err := backend.Upload(ctx, key, strings.NewReader("x"), "")
		require.NoError(t, err)
	}

	// Delete each page's objects before fetching the next, as prefix
	// deletion does.
	deleted := 0
	cursor := ""
	for {
		page, err := backend.List(ctx, "p/", cursor)
		require.NoError(t, err)
		for _, obj := range page.Objects {
			require.NoError(t, backend.Delete(ctx, obj.Key))
			deleted++
		}
		if page.Cursor == "" {
			break
		}
		cursor = page.Cursor
	}

	assert.Equal(t, 5, deleted)
	assert.Equal(t, 0, backend.Len())
}
