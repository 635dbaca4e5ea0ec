package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/Flame174reg/SiteSerenity-sub000/internal/api/middleware"
	"github.com/Flame174reg/SiteSerenity-sub000/internal/domain"
	"github.com/Flame174reg/SiteSerenity-sub000/internal/repository"
	"github.com/Flame174reg/SiteSerenity-sub000/internal/service"
)

// UserHandler handles the known-user directory endpoints
type UserHandler struct {
	users repository.UserRepository
	roles *service.RoleService
}

// NewUserHandler creates a new user handler
func NewUserHandler(users repository.UserRepository, roles *service.RoleService) *UserHandler {
	return &UserHandler{users: users, roles: roles}
}

// Routes returns the router for user endpoints
func (h *UserHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/seen", h.Seen)
	return r
}

// UserEntry is one row in the known-user listing
type UserEntry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar,omitempty"`
	LastSeen string `json:"lastSeen"`
	IsAdmin  bool   `json:"isAdmin"`
	IsOwner  bool   `json:"isOwner"`
}

// List returns every known user with role flags joined. Owner only.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	if !h.roles.IsOwner(identity.DiscordID) {
		http.Error(w, "Owner access required", http.StatusForbidden)
		return
	}

	users, err := h.users.List(r.Context())
	if err != nil {
		slog.Error("Fail to list users", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.DiscordID)
	}
	flags := h.roles.ResolveBatch(r.Context(), ids)

	entries := make([]UserEntry, 0, len(users))
	for _, u := range users {
		entries = append(entries, UserEntry{
			ID:       u.DiscordID,
			Name:     u.Name,
			Avatar:   u.AvatarURL,
			LastSeen: u.LastLoginAt.Format("2006-01-02T15:04:05Z07:00"),
			IsAdmin:  flags[u.DiscordID].IsAdmin,
			IsOwner:  h.roles.IsOwner(u.DiscordID),
		})
	}

	render.JSON(w, r, okBody{"users": entries})
}

// Seen records the signed-in caller's profile, refreshing last seen.
func (h *UserHandler) Seen(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	err := h.users.Upsert(r.Context(), domain.User{
		DiscordID: identity.DiscordID,
		Name:      identity.Name,
		AvatarURL: identity.AvatarURL,
	})
	if err != nil {
		slog.Error("Fail to record user", "id", identity.DiscordID, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, okBody{"ok": true})
}
