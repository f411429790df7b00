package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"devevents/internal/delivery/http/helpers"
	"devevents/internal/domain"
)

// writeServiceError maps a classified service error to its HTTP status and error code.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, fallback string) {
	msg := domain.PublicMessage(err, fallback)
	switch {
	case errors.Is(err, domain.ErrValidation):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, msg)
	case errors.Is(err, domain.ErrConflict):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, msg)
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, msg)
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, msg)
	}
}
