package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/avogt/rxminder/internal/domain"
)

// errorResponse is the JSON error envelope for every non-2xx body.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondNotFound writes a 404 body. The caller supplies the human-readable
// message (e.g. "prescription not found") because the handler is the layer
// that knows what was being looked up.
func respondNotFound(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusNotFound, errorResponse{
		Error: errorDetail{Code: "not_found", Message: message},
	})
}

// respondValidation writes a 422 body with the message extracted from a
// wrapped domain.ErrValidation error.
func respondValidation(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
		Error: errorDetail{Code: "validation_error", Message: unwrapMessage(err)},
	})
}

// respondBadRequest writes a 422 body for a request rejected before reaching
// the service layer (e.g. missing or malformed body).
func respondBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
		Error: errorDetail{Code: "validation_error", Message: message},
	})
}

// respondError maps a service error to its HTTP representation. Unexpected
// errors become a generic 500 so internals never leak to the client.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondNotFound(w, "not found")
	case errors.Is(err, domain.ErrValidation):
		respondValidation(w, err)
	default:
		slog.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: errorDetail{Code: "internal_error", Message: "internal server error"},
		})
	}
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.PrescriptionService.Create: validation error: name is required"
// → "name is required"
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if i := strings.LastIndex(msg, "validation error: "); i >= 0 {
		return msg[i+len("validation error: "):]
	}
	return msg
}
