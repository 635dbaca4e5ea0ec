package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Flame174reg/SiteSerenity-sub000/internal/api/middleware"
	"github.com/Flame174reg/SiteSerenity-sub000/internal/repository/memory"
	"github.com/Flame174reg/SiteSerenity-sub000/internal/service"
	memorystorage "github.com/Flame174reg/SiteSerenity-sub000/internal/storage/memory"
)

const (
	ownerID = "100000000000000001"
	aliceID = "100000000000000002"
	bobID   = "100000000000000003"
)

// testEnv wires the handlers against in-memory repositories.
type testEnv struct {
	store    *memorystorage.MemoryBackend
	roleRepo *memory.RoleRepository
	captions *memory.CaptionRepository
	users    *memory.UserRepository
	content  *memory.SiteContentRepository

	roles   *service.RoleService
	gallery *service.GalleryService
	site    *service.SiteContentService
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		store:    memorystorage.NewMemoryBackend(),
		roleRepo: memory.NewRoleRepository(),
		captions: memory.NewCaptionRepository(),
		users:    memory.NewUserRepository(),
		content:  memory.NewSiteContentRepository(),
	}
	env.roles = service.NewRoleService(env.roleRepo, ownerID, nil)
	env.gallery = service.NewGalleryService(env.store, env.captions, env.roles, "weekly")
	env.site = service.NewSiteContentService(env.content)
	return env
}

// doJSON sends a JSON request through the handler, optionally signed in as
// the given user, and decodes the JSON response body.
func doJSON(t *testing.T, h http.Handler, method, target string, body interface{}, as string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if as != "" {
		req = req.WithContext(middleware.WithIdentity(req.Context(), middleware.Identity{
			DiscordID: as,
			Name:      "user-" + as,
		}))
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if rec.Body.Len() > 0 && json.Unmarshal(rec.Body.Bytes(), &decoded) == nil {
		return rec, decoded
	}
	return rec, nil
}

// requireLegacyFail asserts the 200-with-ok:false failure contract.
func requireLegacyFail(t *testing.T, rec *httptest.ResponseRecorder, body map[string]interface{}, reason string) {
	t.Helper()

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, body)
	require.Equal(t, false, body["ok"])
	require.Equal(t, reason, body["reason"])
}
