package service

import (
	"net/url"
	"sort"
	"strings"

	"github.com/Flame174reg/SiteSerenity-sub000/internal/domain"
	"github.com/Flame174reg/SiteSerenity-sub000/internal/storage"
)

// AggregateFolders computes folder summaries from a flat object listing.
// Folders are grouped by the second path segment (the safe name); objects
// without one are skipped. Count includes the sentinel object; cover is the
// first non-sentinel object URL; updatedAt is the max upload timestamp. Results are
// sorted by updatedAt descending with zero timestamps last.
//
// Pure function over an already-fetched listing so it can be tested without
// a storage backend.
func AggregateFolders(objects []storage.ObjectInfo) []domain.Folder {
	bySafe := make(map[string]*domain.Folder)
	var order []string

	for _, obj := range objects {
		segments := strings.Split(obj.Key, "/")
		if len(segments) < 2 || segments[1] == "" {
			continue
		}
		safe := segments[1]

		folder, ok := bySafe[safe]
		if !ok {
			name := safe
			if decoded, err := url.PathUnescape(safe); err == nil {
				name = decoded
			}
			folder = &domain.Folder{Safe: safe, Name: name}
			bySafe[safe] = folder
			order = append(order, safe)
		}

		folder.Count++
		if folder.CoverURL == "" && !strings.HasSuffix(obj.Key, "/"+domain.SentinelName) {
			folder.CoverURL = obj.URL
		}
		if obj.UploadedAt.After(folder.UpdatedAt) {
			folder.UpdatedAt = obj.UploadedAt
		}
	}

	folders := make([]domain.Folder, 0, len(bySafe))
	for _, safe := range order {
		folders = append(folders, *bySafe[safe])
	}
	sort.SliceStable(folders, func(i, j int) bool {
		return folders[i].UpdatedAt.After(folders[j].UpdatedAt)
	})

	return folders
}
