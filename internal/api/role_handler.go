package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/Flame174reg/SiteSerenity-sub000/internal/api/middleware"
	"github.com/Flame174reg/SiteSerenity-sub000/internal/service"
)

// RoleHandler handles role resolution and role toggle endpoints
type RoleHandler struct {
	roles *service.RoleService
}

// NewRoleHandler creates a new role handler
func NewRoleHandler(roles *service.RoleService) *RoleHandler {
	return &RoleHandler{roles: roles}
}

// Routes returns the router for role resolution endpoints
func (h *RoleHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/resolve", h.ResolveBatch)
	return r
}

// AdminRoutes returns the router for the role toggle endpoints
func (h *RoleHandler) AdminRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/toggle", h.ToggleAdmin)
	r.Post("/super", h.ToggleSuperAdmin)
	return r
}

// ResolveBatchRequest asks for the effective roles of a set of users
type ResolveBatchRequest struct {
	IDs []string `json:"ids"`
}

// ResolveBatch resolves role flags for a batch of IDs in one call.
// Requires a signed-in caller; legacy ok:false failure style.
func (h *RoleHandler) ResolveBatch(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		legacyFail(w, r, "unauthenticated")
		return
	}

	var req ResolveBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Fail to decode request", "error", err)
		legacyFail(w, r, "bad_request")
		return
	}

	roles := h.roles.ResolveBatch(r.Context(), req.IDs)
	slog.Info("Resolved roles", "caller", identity.DiscordID, "count", len(roles))

	render.JSON(w, r, okBody{"ok": true, "roles": roles})
}

// ToggleAdminRequest grants or revokes the admin role
type ToggleAdminRequest struct {
	ID    string `json:"id"`
	Admin bool   `json:"admin"`
}

// ToggleAdmin grants or revokes admin. Owner only; legacy failure style.
func (h *RoleHandler) ToggleAdmin(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())

	var req ToggleAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Fail to decode request", "error", err)
		legacyFail(w, r, "bad_request")
		return
	}
	if req.ID == "" {
		legacyFail(w, r, "bad_request")
		return
	}

	if err := h.roles.SetAdmin(r.Context(), identity.DiscordID, req.ID, req.Admin); err != nil {
		slog.Error("Fail to toggle admin", "id", req.ID, "error", err)
		legacyError(w, r, err)
		return
	}

	render.JSON(w, r, okBody{"ok": true})
}

// ToggleSuperAdminRequest grants or revokes the super-admin role
type ToggleSuperAdminRequest struct {
	ID    string `json:"id"`
	Super bool   `json:"super"`
}

// ToggleSuperAdmin grants or revokes super-admin. Owner or super-admin
// callers; uses real status codes, unlike the legacy admin toggle.
func (h *RoleHandler) ToggleSuperAdmin(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var req ToggleSuperAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Fail to decode request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}

	role, err := h.roles.SetSuperAdmin(r.Context(), identity.DiscordID, req.ID, req.Super)
	if err != nil {
		slog.Error("Fail to toggle super admin", "id", req.ID, "error", err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	render.JSON(w, r, okBody{"ok": true, "id": req.ID, "super": req.Super, "role": role})
}
