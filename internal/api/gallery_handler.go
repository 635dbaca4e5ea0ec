package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/Flame174reg/SiteSerenity-sub000/internal/api/middleware"
	"github.com/Flame174reg/SiteSerenity-sub000/internal/service"
)

// maxUploadMemory bounds the in-memory part of multipart parsing.
const maxUploadMemory = 32 << 20

// GalleryHandler handles folder, photo and caption endpoints
type GalleryHandler struct {
	gallery *service.GalleryService
}

// NewGalleryHandler creates a new gallery handler
func NewGalleryHandler(gallery *service.GalleryService) *GalleryHandler {
	return &GalleryHandler{gallery: gallery}
}

// FolderRoutes returns the router for folder endpoints
func (h *GalleryHandler) FolderRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListFolders)
	r.Post("/", h.CreateFolder)
	r.Delete("/", h.DeleteFolder)
	return r
}

// PhotoRoutes returns the router for photo endpoints
func (h *GalleryHandler) PhotoRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListPhotos)
	r.Post("/", h.Upload)
	r.Delete("/", h.DeletePhoto)
	r.Post("/caption", h.SetPhotoCaption)
	return r
}

// AlbumRoutes returns the router for album caption endpoints
func (h *GalleryHandler) AlbumRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/caption", h.SetAlbumCaption)
	return r
}

func actorID(r *http.Request) string {
	identity, _ := middleware.IdentityFrom(r.Context())
	return identity.DiscordID
}

// ListFolders returns folder summaries. Public; a caption outage degrades
// to captionless listings inside the service, never a failure here.
func (h *GalleryHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := h.gallery.ListFolders(r.Context())
	if err != nil {
		slog.Error("Fail to list folders", "error", err)
		legacyError(w, r, err)
		return
	}

	render.JSON(w, r, okBody{"ok": true, "folders": folders})
}

// CreateFolderRequest names a new folder
type CreateFolderRequest struct {
	Name string `json:"name"`
}

// CreateFolder creates a folder by writing its sentinel. Admin or owner;
// legacy failure style.
func (h *GalleryHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req CreateFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Fail to decode request", "error", err)
		legacyFail(w, r, "bad_request")
		return
	}

	safe, err := h.gallery.CreateFolder(r.Context(), actorID(r), req.Name)
	if err != nil {
		slog.Error("Fail to create folder", "name", req.Name, "error", err)
		legacyError(w, r, err)
		return
	}

	render.JSON(w, r, okBody{"ok": true, "name": strings.TrimSpace(req.Name), "safe": safe})
}

// DeleteFolderRequest targets a folder by safe name or full prefix
type DeleteFolderRequest struct {
	Safe   string `json:"safe,omitempty"`
	Prefix string `json:"prefix,omitempty"`
}

// DeleteFolder removes every blob under the folder prefix plus its caption
// rows. Admin or owner; legacy failure style.
func (h *GalleryHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	var req DeleteFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Fail to decode request", "error", err)
		legacyFail(w, r, "bad_request")
		return
	}

	safe := req.Safe
	if safe == "" && req.Prefix != "" {
		// Prefix form is root/safe/; pull out the folder segment.
		segments := strings.Split(strings.Trim(req.Prefix, "/"), "/")
		if len(segments) >= 2 {
			safe = segments[1]
		}
	}

	deleted, err := h.gallery.DeleteFolder(r.Context(), actorID(r), safe)
	if err != nil {
		slog.Error("Fail to delete folder", "safe", safe, "deleted", deleted, "error", err)
		legacyError(w, r, err)
		return
	}

	render.JSON(w, r, okBody{"ok": true, "deleted": deleted})
}

// ListPhotos returns the blobs in one folder. Public. The folder comes from
// the safe query param verbatim, or the category param re-encoded.
func (h *GalleryHandler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	safe := r.URL.Query().Get("safe")
	if safe == "" {
		category := r.URL.Query().Get("category")
		if category == "" {
			legacyFail(w, r, "bad_request")
			return
		}
		encoded, err := h.gallery.SafeName(category)
		if err != nil {
			legacyError(w, r, err)
			return
		}
		safe = encoded
	}

	items, albumCaption, err := h.gallery.ListPhotos(r.Context(), safe)
	if err != nil {
		slog.Error("Fail to list photos", "safe", safe, "error", err)
		legacyError(w, r, err)
		return
	}

	render.JSON(w, r, okBody{"ok": true, "items": items, "albumCaption": albumCaption})
}

// Upload stores a photo from a multipart form. Admin or owner; legacy
// failure style.
func (h *GalleryHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		slog.Error("Fail to parse multipart form", "error", err)
		legacyFail(w, r, "bad_request")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		legacyError(w, r, service.ErrEmptyUpload)
		return
	}
	defer file.Close()

	result, err := h.gallery.Upload(r.Context(), service.UploadParams{
		ActorID:     actorID(r),
		Category:    r.FormValue("category"),
		ForcedSafe:  r.FormValue("forcedCategorySafe"),
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	})
	if err != nil {
		slog.Error("Fail to upload photo", "error", err)
		legacyError(w, r, err)
		return
	}
	slog.Info("Photo uploaded", "key", result.Key, "by", actorID(r))

	render.JSON(w, r, okBody{
		"ok":           true,
		"key":          result.Key,
		"url":          result.URL,
		"categorySafe": result.CategorySafe,
	})
}

// DeletePhotoRequest targets a photo by key and/or URL
type DeletePhotoRequest struct {
	Key string `json:"key,omitempty"`
	URL string `json:"url,omitempty"`
}

// DeletePhoto removes a photo object and its caption row. Admin or owner;
// legacy failure style.
func (h *GalleryHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	var req DeletePhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Fail to decode request", "error", err)
		legacyFail(w, r, "bad_request")
		return
	}

	if err := h.gallery.DeletePhoto(r.Context(), actorID(r), req.Key, req.URL); err != nil {
		slog.Error("Fail to delete photo", "key", req.Key, "error", err)
		legacyError(w, r, err)
		return
	}

	render.JSON(w, r, okBody{"ok": true, "key": req.Key})
}

// SetPhotoCaptionRequest sets or clears a photo caption
type SetPhotoCaptionRequest struct {
	Key     string  `json:"key"`
	Caption *string `json:"caption"`
}

// SetPhotoCaption upserts a photo caption. Admin or owner; legacy style.
func (h *GalleryHandler) SetPhotoCaption(w http.ResponseWriter, r *http.Request) {
	var req SetPhotoCaptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Fail to decode request", "error", err)
		legacyFail(w, r, "bad_request")
		return
	}

	if err := h.gallery.SetPhotoCaption(r.Context(), actorID(r), req.Key, req.Caption); err != nil {
		slog.Error("Fail to set photo caption", "key", req.Key, "error", err)
		legacyError(w, r, err)
		return
	}

	render.JSON(w, r, okBody{"ok": true, "key": req.Key, "caption": req.Caption})
}

// SetAlbumCaptionRequest sets or clears an album caption
type SetAlbumCaptionRequest struct {
	Safe    string  `json:"safe"`
	Name    string  `json:"name"`
	Caption *string `json:"caption"`
}

// SetAlbumCaption upserts an album caption row. Admin or owner; legacy style.
func (h *GalleryHandler) SetAlbumCaption(w http.ResponseWriter, r *http.Request) {
	var req SetAlbumCaptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Fail to decode request", "error", err)
		legacyFail(w, r, "bad_request")
		return
	}

	if err := h.gallery.SetAlbumCaption(r.Context(), actorID(r), req.Safe, req.Name, req.Caption); err != nil {
		slog.Error("Fail to set album caption", "safe", req.Safe, "error", err)
		legacyError(w, r, err)
		return
	}

	render.JSON(w, r, okBody{"ok": true, "safe": req.Safe, "name": req.Name, "caption": req.Caption})
}
