package common

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/akuan1997/concertweb/api/internal/public/domain"
)

const internalErrorMessage = "internal server error"

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Message string `json:"message"`
}

// WriteJSON serializes payload to JSON with status and logs on failure.
func WriteJSON(logger *slog.Logger, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Error("encode json response", "error", err)
	}
}

// WriteMessage writes an ErrorResponse with status.
func WriteMessage(logger *slog.Logger, w http.ResponseWriter, status int, message string) {
	WriteJSON(logger, w, status, ErrorResponse{Message: message})
}

// WriteError maps err onto a status code: validation errors become 400 with their
// message, not-found errors 404, and everything else a logged, generic 500.
func WriteError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		WriteMessage(logger, w, http.StatusBadRequest, ValidationMessage(err))
	case errors.Is(err, domain.ErrNotFound):
		WriteMessage(logger, w, http.StatusNotFound, "concert not found")
	default:
		if logger != nil {
			logger.ErrorContext(r.Context(), "request failed",
				"path", r.URL.Path,
				"request_id", middleware.GetReqID(r.Context()),
				"error", err,
			)
		}
		WriteMessage(logger, w, http.StatusInternalServerError, internalErrorMessage)
	}
}

// ValidationMessage returns the client-facing part of a validation error.
func ValidationMessage(err error) string {
	msg := err.Error()
	marker := domain.ErrValidation.Error() + ": "
	if i := strings.Index(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return msg
}
