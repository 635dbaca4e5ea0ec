package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/Flame174reg/SiteSerenity-sub000/internal/api/middleware"
	"github.com/Flame174reg/SiteSerenity-sub000/internal/domain"
	"github.com/Flame174reg/SiteSerenity-sub000/internal/service"
)

// SiteContentHandler handles the home-page content document endpoints.
// Both directions require super-admin and use real status codes.
type SiteContentHandler struct {
	content *service.SiteContentService
	roles   *service.RoleService
}

// NewSiteContentHandler creates a new site content handler
func NewSiteContentHandler(content *service.SiteContentService, roles *service.RoleService) *SiteContentHandler {
	return &SiteContentHandler{content: content, roles: roles}
}

// Routes returns the router for site content endpoints
func (h *SiteContentHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Get)
	r.Put("/", h.Save)
	return r
}

func (h *SiteContentHandler) requireSuperAdmin(w http.ResponseWriter, r *http.Request) (middleware.Identity, bool) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return middleware.Identity{}, false
	}
	if flags := h.roles.Resolve(r.Context(), identity.DiscordID); !flags.IsSuperAdmin {
		http.Error(w, "Super-admin access required", http.StatusForbidden)
		return middleware.Identity{}, false
	}
	return identity, true
}

// Get returns the stored document, normalized, or the fallback.
func (h *SiteContentHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireSuperAdmin(w, r); !ok {
		return
	}

	content := h.content.Get(r.Context())
	render.JSON(w, r, okBody{"ok": true, "content": content})
}

// SaveRequest carries the replacement document
type SaveRequest struct {
	Content domain.SiteContent `json:"content"`
}

// Save normalizes and persists the document by full overwrite.
func (h *SiteContentHandler) Save(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.requireSuperAdmin(w, r)
	if !ok {
		return
	}

	var req SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Fail to decode request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	saved, err := h.content.Save(r.Context(), req.Content, identity.DiscordID)
	if err != nil {
		slog.Error("Fail to save site content", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	slog.Info("Site content saved", "by", identity.DiscordID)

	render.JSON(w, r, okBody{"ok": true, "content": saved})
}
