package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"toolcrib-backend/internal/domain"
	"toolcrib-backend/internal/service"
)

func TestRespondError_StatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", domain.ErrNotFound, http.StatusNotFound},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"access denied", domain.ErrAccessDenied, http.StatusForbidden},
		{"invalid quantity", domain.ErrInvalidQuantity, http.StatusBadRequest},
		{"invalid interval", domain.ErrInvalidInterval, http.StatusBadRequest},
		{"illegal transition", domain.ErrIllegalTransition, http.StatusBadRequest},
		{"tool exhausted", domain.ErrToolExhausted, http.StatusConflict},
		{"tool unavailable", domain.ErrToolUnavailable, http.StatusConflict},
		{"not current user", domain.ErrNotCurrentUser, http.StatusConflict},
		{"conflict", domain.ErrConflict, http.StatusConflict},
		{"bad credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"unknown", fmt.Errorf("database exploded"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondError(rec, fmt.Errorf("handler: %w", tc.err))

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body errorResponse
			assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestRespondError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, fmt.Errorf("pq: connection refused on 10.0.0.5"))

	var body errorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal server error", body.Error)
}
