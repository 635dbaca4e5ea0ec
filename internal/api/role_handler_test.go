package api_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Flame174reg/SiteSerenity-sub000/internal/api"
	"github.com/Flame174reg/SiteSerenity-sub000/internal/domain"
)

func TestRoleHandler_ResolveBatchRequiresSignIn(t *testing.T) {
	env := setupEnv(t)
	h := api.NewRoleHandler(env.roles).Routes()

	rec, body := doJSON(t, h, http.MethodPost, "/resolve", map[string]interface{}{
		"ids": []string{ownerID},
	}, "")
	requireLegacyFail(t, rec, body, "unauthenticated")
}

func TestRoleHandler_ResolveBatch(t *testing.T) {
	env := setupEnv(t)
	require.NoError(t, env.roles.SetAdmin(context.Background(), ownerID, aliceID, true))
	h := api.NewRoleHandler(env.roles).Routes()

	rec, body := doJSON(t, h, http.MethodPost, "/resolve", map[string]interface{}{
		"ids": []string{ownerID, aliceID, bobID},
	}, bobID)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, body["ok"])

	roles, ok := body["roles"].(map[string]interface{})
	require.True(t, ok)
	require.Len(t, roles, 3)

	owner := roles[ownerID].(map[string]interface{})
	assert.Equal(t, true, owner["isSuperAdmin"])
	alice := roles[aliceID].(map[string]interface{})
	assert.Equal(t, true, alice["isAdmin"])
	assert.Equal(t, false, alice["isSuperAdmin"])
	bob := roles[bobID].(map[string]interface{})
	assert.Equal(t, false, bob["isAdmin"])
}

func TestRoleHandler_ToggleAdminOwnerOnly(t *testing.T) {
	env := setupEnv(t)
	h := api.NewRoleHandler(env.roles).AdminRoutes()

	rec, body := doJSON(t, h, http.MethodPost, "/toggle", map[string]interface{}{
		"id": aliceID, "admin": true,
	}, bobID)
	requireLegacyFail(t, rec, body, "forbidden")

	rec, body = doJSON(t, h, http.MethodPost, "/toggle", map[string]interface{}{
		"id": aliceID, "admin": true,
	}, "")
	requireLegacyFail(t, rec, body, "unauthenticated")

	rec, body = doJSON(t, h, http.MethodPost, "/toggle", map[string]interface{}{
		"id": aliceID, "admin": true,
	}, ownerID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["ok"])

	flags := env.roles.Resolve(context.Background(), aliceID)
	assert.True(t, flags.IsAdmin)
}

func TestRoleHandler_ToggleAdminRejectsEmptyID(t *testing.T) {
	env := setupEnv(t)
	h := api.NewRoleHandler(env.roles).AdminRoutes()

	rec, body := doJSON(t, h, http.MethodPost, "/toggle", map[string]interface{}{
		"admin": true,
	}, ownerID)
	requireLegacyFail(t, rec, body, "bad_request")
}

func TestRoleHandler_ToggleSuperAdminUsesStatusCodes(t *testing.T) {
	env := setupEnv(t)
	h := api.NewRoleHandler(env.roles).AdminRoutes()

	payload := map[string]interface{}{"id": aliceID, "super": true}

	rec, _ := doJSON(t, h, http.MethodPost, "/super", payload, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = doJSON(t, h, http.MethodPost, "/super", payload, bobID)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, body := doJSON(t, h, http.MethodPost, "/super", payload, ownerID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, string(domain.RoleSuperAdmin), body["role"])

	flags := env.roles.Resolve(context.Background(), aliceID)
	assert.True(t, flags.IsSuperAdmin)
}
