package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ktanaka/careerlog/internal/pipeline"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"email conflict", &ErrEmailAlreadyExists{Email: "a@example.com"}, http.StatusConflict},
		{"invalid credentials", &ErrInvalidCredentials{}, http.StatusUnauthorized},
		{"user not found", &ErrUserNotFound{UserID: uuid.New()}, http.StatusNotFound},
		{"resource not found", &ErrNotFound{Resource: "digest"}, http.StatusNotFound},
		{"validation", &ErrValidation{Field: "title", Message: "required"}, http.StatusBadRequest},
		{"candidate not found", pipeline.ErrCandidateNotFound, http.StatusNotFound},
		{"wrapped candidate not found", fmt.Errorf("accept: %w", pipeline.ErrCandidateNotFound), http.StatusNotFound},
		{"candidate already reviewed", pipeline.ErrCandidateReviewed, http.StatusConflict},
		{"no achievements selected", pipeline.ErrNoAchievements, http.StatusBadRequest},
		{"incomplete profile", pipeline.ErrProfileIncomplete, http.StatusBadRequest},
		{"wrapped incomplete profile", fmt.Errorf("generate: %w", pipeline.ErrProfileIncomplete), http.StatusBadRequest},
		{"unknown error", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestErrorDetail_KeepsMessageShort(t *testing.T) {
	s := &Server{logger: slog.Default()}
	rec := httptest.NewRecorder()

	wrapped := fmt.Errorf("activity collection failed: %w", fmt.Errorf("GET https://api.github.com/search/issues: 403 rate limited"))
	s.errorDetail(rec, http.StatusInternalServerError, "Failed to collect activity", wrapped)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Failed to collect activity", body["error"])
	assert.Contains(t, body["details"], "403 rate limited")
}
