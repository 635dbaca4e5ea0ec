package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/Flame174reg/SiteSerenity-sub000/internal/service"
)

// Legacy handlers answer failures with HTTP 200 and an ok:false body;
// callers inspect the ok field, not the status code. Newer handlers use
// real 4xx/5xx codes. Both styles are part of the existing contract.

type okBody map[string]interface{}

func legacyFail(w http.ResponseWriter, r *http.Request, reason string) {
	render.JSON(w, r, okBody{"ok": false, "reason": reason})
}

func legacyError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		legacyFail(w, r, "unauthenticated")
	case errors.Is(err, service.ErrForbidden):
		legacyFail(w, r, "forbidden")
	case errors.Is(err, service.ErrInvalidFolderName),
		errors.Is(err, service.ErrEmptyUpload),
		errors.Is(err, service.ErrNotAnImage),
		errors.Is(err, service.ErrMissingKey):
		render.JSON(w, r, okBody{"ok": false, "reason": "bad_request", "error": err.Error()})
	default:
		render.JSON(w, r, okBody{"ok": false, "error": err.Error()})
	}
}

// statusFor maps service errors to status codes for the strict handlers.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrInvalidFolderName),
		errors.Is(err, service.ErrEmptyUpload),
		errors.Is(err, service.ErrNotAnImage),
		errors.Is(err, service.ErrMissingKey):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
