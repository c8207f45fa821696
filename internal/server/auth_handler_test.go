package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ktanaka/careerlog/internal/types"
)

func newTestAuthHandler(store UserStore) *AuthHandler {
	return NewAuthHandler(newTestUserService(store), newTestJWTService("test-secret"))
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestAuthHandler_Register(t *testing.T) {
	handler := newTestAuthHandler(newFakeUserStore())

	rec := postJSON(t, handler.Register, "/auth/register", map[string]string{
		"name":     "田中 健",
		"email":    "tanaka@example.com",
		"password": "s3cure-pass",
	})

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp types.LoginResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "tanaka@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.Token)

	claims, err := newTestJWTService("test-secret").ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	handler := newTestAuthHandler(newFakeUserStore())

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing name", map[string]string{"email": "a@example.com", "password": "s3cure-pass"}},
		{"bad email", map[string]string{"name": "A", "email": "not-an-email", "password": "s3cure-pass"}},
		{"short password", map[string]string{"name": "A", "email": "a@example.com", "password": "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, handler.Register, "/auth/register", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "validation error")
		})
	}
}

func TestAuthHandler_Register_InvalidBody(t *testing.T) {
	handler := newTestAuthHandler(newFakeUserStore())

	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	handler.Register(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	handler := newTestAuthHandler(newFakeUserStore())
	body := map[string]string{"name": "田中 健", "email": "tanaka@example.com", "password": "s3cure-pass"}

	rec := postJSON(t, handler.Register, "/auth/register", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, handler.Register, "/auth/register", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	store := newFakeUserStore()
	handler := newTestAuthHandler(store)

	_, err := newTestUserService(store).Register(context.Background(), &types.CreateUserRequest{
		Name:     "田中 健",
		Email:    "tanaka@example.com",
		Password: "s3cure-pass",
	})
	require.NoError(t, err)

	rec := postJSON(t, handler.Login, "/auth/login", map[string]string{
		"email":    "tanaka@example.com",
		"password": "s3cure-pass",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp types.LoginResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp.Token)

	rec = postJSON(t, handler.Login, "/auth/login", map[string]string{
		"email":    "tanaka@example.com",
		"password": "wrong-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
