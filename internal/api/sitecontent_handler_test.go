package api_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Flame174reg/SiteSerenity-sub000/internal/api"
	"github.com/Flame174reg/SiteSerenity-sub000/internal/service"
)

func TestSiteContentHandler_RequiresSuperAdmin(t *testing.T) {
	env := setupEnv(t)
	h := api.NewSiteContentHandler(env.site, env.roles).Routes()

	rec, _ := doJSON(t, h, http.MethodGet, "/", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = doJSON(t, h, http.MethodGet, "/", nil, bobID)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// A plain admin is still not enough.
	require.NoError(t, env.roles.SetAdmin(context.Background(), ownerID, aliceID, true))
	rec, _ = doJSON(t, h, http.MethodGet, "/", nil, aliceID)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = doJSON(t, h, http.MethodGet, "/", nil, ownerID)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSiteContentHandler_GetServesDefault(t *testing.T) {
	env := setupEnv(t)
	h := api.NewSiteContentHandler(env.site, env.roles).Routes()

	rec, body := doJSON(t, h, http.MethodGet, "/", nil, ownerID)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, body["ok"])

	content := body["content"].(map[string]interface{})
	home := content["home"].(map[string]interface{})
	assert.Equal(t, service.DefaultSiteContent().Home.HeroTitle, home["heroTitle"])
}

func TestSiteContentHandler_SaveSanitizesAndStamps(t *testing.T) {
	env := setupEnv(t)
	h := api.NewSiteContentHandler(env.site, env.roles).Routes()

	doc := service.DefaultSiteContent()
	doc.Home.HeroSubtitleHTML = `Welcome <script>alert(1)</script><strong>back</strong>`

	rec, body := doJSON(t, h, http.MethodPut, "/", map[string]interface{}{
		"content": doc,
	}, ownerID)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, body["ok"])

	content := body["content"].(map[string]interface{})
	home := content["home"].(map[string]interface{})
	html := home["heroSubtitleHtml"].(string)
	assert.Contains(t, html, "<strong>back</strong>")
	assert.NotContains(t, html, "script")
	assert.Equal(t, ownerID, content["updatedBy"])

	stored := env.site.Get(context.Background())
	assert.Equal(t, ownerID, stored.UpdatedBy)
}
