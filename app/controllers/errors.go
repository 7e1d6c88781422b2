// Package controllers adapts HTTP requests to the services and writes the
// response envelope.
package controllers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/farmermarket/backend/app/services"
	"github.com/farmermarket/backend/pkg/logger"
	"github.com/farmermarket/backend/pkg/response"
)

// fail writes the envelope for err's kind. notFound is the 404 message.
func fail(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		response.ValidationError(w, verr.Fields)
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrNoImage):
		response.NotFound(w, notFound)
	case errors.Is(err, services.ErrValidation):
		response.BadRequest(w, "Invalid request")
	case errors.Is(err, services.ErrConflict):
		response.BadRequest(w, "Already exists")
	case errors.Is(err, services.ErrUnauthorized):
		response.Unauthorized(w, "Unauthorized")
	default:
		logger.WithCtx(r.Context()).Error("request failed", "path", r.URL.Path, "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}

// param returns the unescaped chi URL parameter.
func param(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}
