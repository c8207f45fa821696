package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/ktanaka/careerlog/internal/activity"
	"github.com/ktanaka/careerlog/internal/db"
	"github.com/ktanaka/careerlog/internal/server/middleware"
	"github.com/ktanaka/careerlog/internal/types"
)

// githubConfig is the plaintext shape of the GitHub connection settings.
// It is stored encrypted and never returned to clients.
type githubConfig struct {
	Token string   `json:"token"`
	Repos []string `json:"repos"`
}

// saveConnectionRequest is the body of PUT /connections/github. An empty
// token keeps the stored one so repos can be updated without re-entering it.
type saveConnectionRequest struct {
	Label string   `json:"label,omitempty"`
	Token string   `json:"token,omitempty"`
	Repos []string `json:"repos"`
}

// connectionView is the client-facing shape of a connection. The token never
// leaves the server.
type connectionView struct {
	Service    string                 `json:"service"`
	Label      string                 `json:"label,omitempty"`
	Repos      []string               `json:"repos"`
	Status     types.ConnectionStatus `json:"status"`
	LastSyncAt any                    `json:"last_sync_at,omitempty"`
}

// loadGitHubConfig fetches and decrypts the user's GitHub connection.
func (s *Server) loadGitHubConfig(ctx context.Context, userID uuid.UUID) (*githubConfig, *db.ServiceConnection, error) {
	conn, err := s.db.GetConnection(ctx, userID, activity.Source)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load connection: %w", err)
	}
	if conn == nil {
		return nil, nil, &ErrNotFound{Resource: "GitHub connection"}
	}

	plaintext, err := s.secretBox.Decrypt(conn.EncryptedConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decrypt connection config: %w", err)
	}
	var cfg githubConfig
	if err := json.Unmarshal([]byte(plaintext), &cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to parse connection config: %w", err)
	}
	return &cfg, conn, nil
}

func (s *Server) connectionToView(conn *db.ServiceConnection, cfg *githubConfig) connectionView {
	view := connectionView{
		Service: conn.Service,
		Label:   conn.Label,
		Repos:   cfg.Repos,
		Status:  conn.Status,
	}
	if conn.LastSyncAt != nil {
		view.LastSyncAt = conn.LastSyncAt
	}
	return view
}

// handleGetConnection returns the connection metadata without the token.
func (s *Server) handleGetConnection(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	cfg, conn, err := s.loadGitHubConfig(r.Context(), userID)
	if err != nil {
		s.errorDetail(w, HTTPStatus(err), "Failed to load GitHub connection", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.connectionToView(conn, cfg))
}

// handleSaveConnection stores the GitHub token and repository list encrypted.
func (s *Server) handleSaveConnection(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req saveConnectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Repos) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "at least one repository is required")
		return
	}

	cfg := githubConfig{Token: req.Token, Repos: req.Repos}
	if cfg.Token == "" {
		existing, _, err := s.loadGitHubConfig(r.Context(), userID)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "token is required")
			return
		}
		cfg.Token = existing.Token
	}

	plaintext, err := json.Marshal(cfg)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to encode connection config")
		return
	}
	encrypted, err := s.secretBox.Encrypt(string(plaintext))
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to encrypt connection config")
		return
	}

	conn, err := s.db.UpsertConnection(r.Context(), userID, activity.Source, req.Label, encrypted, types.ConnectionActive)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to save connection")
		return
	}
	s.jsonResponse(w, http.StatusOK, s.connectionToView(conn, &cfg))
}

// handleTestConnection verifies the stored token against the GitHub API.
func (s *Server) handleTestConnection(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	cfg, conn, err := s.loadGitHubConfig(r.Context(), userID)
	if err != nil {
		s.errorDetail(w, HTTPStatus(err), "Failed to load GitHub connection", err)
		return
	}

	collector := activity.New(r.Context(), cfg.Token)
	login, err := collector.Verify(r.Context())
	if err != nil {
		if touchErr := s.db.TouchConnectionSync(r.Context(), conn.ID, types.ConnectionError); touchErr != nil {
			s.logger.Warn("failed to update connection status", "error", touchErr)
		}
		s.jsonResponse(w, http.StatusOK, map[string]any{"ok": false, "error": err.Error()})
		return
	}

	if err := s.db.TouchConnectionSync(r.Context(), conn.ID, types.ConnectionActive); err != nil {
		s.logger.Warn("failed to update connection status", "error", err)
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"ok": true, "login": login})
}

// maxListedRepos caps the repo-selection listing.
const maxListedRepos = 200

// handleListRepos lists repositories the stored token can see, for the repo
// selection UI backing the connection settings.
func (s *Server) handleListRepos(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	cfg, _, err := s.loadGitHubConfig(r.Context(), userID)
	if err != nil {
		s.errorDetail(w, HTTPStatus(err), "Failed to load GitHub connection", err)
		return
	}

	collector := activity.New(r.Context(), cfg.Token)
	repos, err := collector.ListRepos(r.Context(), maxListedRepos)
	if err != nil {
		s.errorDetail(w, http.StatusBadGateway, "Failed to list repositories", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"repos": repos})
}

// handleDeleteConnection removes the GitHub connection.
func (s *Server) handleDeleteConnection(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	deleted, err := s.db.DeleteConnection(r.Context(), userID, activity.Source)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to delete connection")
		return
	}
	if !deleted {
		s.errorResponse(w, http.StatusNotFound, "GitHub connection not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
