package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"toolcrib-backend/internal/domain"
	"toolcrib-backend/internal/logger"
	"toolcrib-backend/internal/service"
)

var validate = validator.New()

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

// respondError translates domain errors to HTTP status codes. Unknown
// errors become a 500 with a generic message so internals never leak.
func respondError(w http.ResponseWriter, err error) {
	var status int
	var message string

	switch {
	case errors.Is(err, domain.ErrNotFound):
		status, message = http.StatusNotFound, "resource not found"
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrAccessDenied):
		status, message = http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidInterval),
		errors.Is(err, domain.ErrIllegalTransition):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrToolExhausted),
		errors.Is(err, domain.ErrToolUnavailable),
		errors.Is(err, domain.ErrNotCurrentUser),
		errors.Is(err, domain.ErrConflict):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrInvalidCredentials):
		status, message = http.StatusUnauthorized, "invalid credentials"
	default:
		status, message = http.StatusInternalServerError, "internal server error"
		logger.Error("unhandled request error", "error", err)
	}

	respondJSON(w, status, errorResponse{Error: message})
}

// decodeJSON parses and validates a request body into dst, which must
// carry validator tags.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}

func respondValidationError(w http.ResponseWriter, err error) {
	respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
}
