package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ktanaka/careerlog/internal/activity"
	"github.com/ktanaka/careerlog/internal/db"
	"github.com/ktanaka/careerlog/internal/pipeline"
	"github.com/ktanaka/careerlog/internal/server/middleware"
	"github.com/ktanaka/careerlog/internal/types"
)

// collectRequest is the body of POST /collect.
type collectRequest struct {
	Date        string `json:"date,omitempty"` // YYYY-MM-DD, defaults to today (UTC)
	ManualNotes string `json:"manual_notes,omitempty"`
}

// handleCollect runs collection and digestion for one day using the user's
// stored GitHub connection.
func (s *Server) handleCollect(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req collectRequest
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	if req.Date == "" {
		req.Date = time.Now().UTC().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	cfg, conn, err := s.loadGitHubConfig(r.Context(), userID)
	token, repos, err := resolveCollectRepos(cfg, err)
	if err != nil {
		s.errorDetail(w, HTTPStatus(err), "Failed to load GitHub connection", err)
		return
	}

	collector := activity.New(r.Context(), token)
	outcome, err := s.collectSvc.Run(r.Context(), collector, s.digestEngine, pipeline.CollectRequest{
		UserID:      userID,
		Date:        req.Date,
		Repos:       repos,
		ManualNotes: req.ManualNotes,
	})
	if err != nil {
		s.touchConnection(r.Context(), conn, types.ConnectionError)
		s.errorDetail(w, HTTPStatus(err), "Failed to collect activity", err)
		return
	}

	s.touchConnection(r.Context(), conn, types.ConnectionActive)
	s.jsonResponse(w, http.StatusOK, outcome)
}

// resolveCollectRepos turns the stored-connection lookup into the token and
// repository list for a collect run. A missing connection or an empty repo
// selection is not an error: the run proceeds with no repositories so manual
// notes alone can still produce a digest.
func resolveCollectRepos(cfg *githubConfig, err error) (string, []string, error) {
	var notFound *ErrNotFound
	if errors.As(err, &notFound) {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, err
	}
	return cfg.Token, cfg.Repos, nil
}

// touchConnection records the run outcome on the connection, if one exists.
func (s *Server) touchConnection(ctx context.Context, conn *db.ServiceConnection, status types.ConnectionStatus) {
	if conn == nil {
		return
	}
	if err := s.db.TouchConnectionSync(ctx, conn.ID, status); err != nil {
		s.logger.Warn("failed to update connection status", "error", err)
	}
}

// handleListDigests returns the user's digests, newest first.
func (s *Server) handleListDigests(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit := 30
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 365 {
			s.errorResponse(w, http.StatusBadRequest, "limit must be between 1 and 365")
			return
		}
		limit = n
	}

	digests, err := s.db.ListDigests(r.Context(), userID, limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list digests")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"digests": digests})
}

// handleGetDigest returns one digest by date.
func (s *Server) handleGetDigest(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	date := r.PathValue("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	dg, err := s.db.GetDigestByDate(r.Context(), userID, date)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get digest")
		return
	}
	if dg == nil {
		s.errorResponse(w, http.StatusNotFound, "digest not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, dg)
}

// handleListCandidates returns the user's pending candidates.
func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	candidates, err := s.db.ListPendingCandidates(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list candidates")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"candidates": candidates})
}

// handleAcceptCandidate accepts a pending candidate, optionally with edits.
func (s *Server) handleAcceptCandidate(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	candidateID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid candidate ID")
		return
	}

	var override pipeline.AcceptOverride
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&override); err != nil && !errors.Is(err, io.EOF) {
			s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	achievement, err := s.reviewSvc.Accept(r.Context(), candidateID, userID, override)
	if err != nil {
		s.errorDetail(w, HTTPStatus(err), "Failed to accept candidate", err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, achievement)
}

// handleRejectCandidate rejects a pending candidate.
func (s *Server) handleRejectCandidate(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	candidateID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid candidate ID")
		return
	}

	if err := s.reviewSvc.Reject(r.Context(), candidateID, userID); err != nil {
		s.errorDetail(w, HTTPStatus(err), "Failed to reject candidate", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "rejected"})
}
