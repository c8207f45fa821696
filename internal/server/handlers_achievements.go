package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/ktanaka/careerlog/internal/db"
	"github.com/ktanaka/careerlog/internal/server/middleware"
	"github.com/ktanaka/careerlog/internal/types"
)

// achievementRequest is the body of POST/PUT /achievements.
type achievementRequest struct {
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Category     types.Category `json:"category"`
	Technologies []string       `json:"technologies"`
	Period       string         `json:"period,omitempty"`
	ProjectID    *uuid.UUID     `json:"project_id,omitempty"`
	SortOrder    int            `json:"sort_order,omitempty"`
}

func (req *achievementRequest) validate() error {
	if req.Title == "" {
		return &ErrValidation{Field: "title", Message: "required"}
	}
	if !req.Category.Valid() {
		return &ErrValidation{Field: "category", Message: "unknown category"}
	}
	return nil
}

func (req *achievementRequest) params() db.AchievementParams {
	return db.AchievementParams{
		ProjectID:    req.ProjectID,
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Technologies: req.Technologies,
		Period:       req.Period,
		SortOrder:    req.SortOrder,
	}
}

// handleListAchievements returns the user's achievements.
func (s *Server) handleListAchievements(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	achievements, err := s.db.ListAchievements(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list achievements")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"achievements": achievements})
}

// handleCreateAchievement creates a manually entered achievement.
func (s *Server) handleCreateAchievement(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req achievementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	achievement, err := s.db.CreateAchievement(r.Context(), userID, req.params())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to create achievement")
		return
	}
	s.jsonResponse(w, http.StatusCreated, achievement)
}

// handleGetAchievement returns one achievement.
func (s *Server) handleGetAchievement(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	achievementID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid achievement ID")
		return
	}

	achievement, err := s.db.GetAchievement(r.Context(), achievementID, userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get achievement")
		return
	}
	if achievement == nil {
		s.errorResponse(w, http.StatusNotFound, "achievement not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, achievement)
}

// handleUpdateAchievement updates an achievement.
func (s *Server) handleUpdateAchievement(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	achievementID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid achievement ID")
		return
	}

	var req achievementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	achievement, err := s.db.UpdateAchievement(r.Context(), achievementID, userID, req.params())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to update achievement")
		return
	}
	if achievement == nil {
		s.errorResponse(w, http.StatusNotFound, "achievement not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, achievement)
}

// handleDeleteAchievement deletes an achievement.
func (s *Server) handleDeleteAchievement(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	achievementID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid achievement ID")
		return
	}

	deleted, err := s.db.DeleteAchievement(r.Context(), achievementID, userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to delete achievement")
		return
	}
	if !deleted {
		s.errorResponse(w, http.StatusNotFound, "achievement not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// projectRequest is the body of POST/PUT /projects.
type projectRequest struct {
	Name        string `json:"name"`
	Company     string `json:"company,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Description string `json:"description,omitempty"`
	Role        string `json:"role,omitempty"`
	TeamSize    string `json:"team_size,omitempty"`
}

func (req *projectRequest) params() db.ProjectParams {
	return db.ProjectParams{
		Name:        req.Name,
		Company:     req.Company,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Description: req.Description,
		Role:        req.Role,
		TeamSize:    req.TeamSize,
	}
}

// handleListProjects returns the user's projects.
func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	projects, err := s.db.ListProjects(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list projects")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"projects": projects})
}

// handleCreateProject creates a project.
func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		s.errorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	project, err := s.db.CreateProject(r.Context(), userID, req.params())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to create project")
		return
	}
	s.jsonResponse(w, http.StatusCreated, project)
}

// handleGetProject returns one project.
func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	projectID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid project ID")
		return
	}

	project, err := s.db.GetProject(r.Context(), projectID, userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get project")
		return
	}
	if project == nil {
		s.errorResponse(w, http.StatusNotFound, "project not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, project)
}

// handleUpdateProject updates a project.
func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	projectID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid project ID")
		return
	}

	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		s.errorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	project, err := s.db.UpdateProject(r.Context(), projectID, userID, req.params())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to update project")
		return
	}
	if project == nil {
		s.errorResponse(w, http.StatusNotFound, "project not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, project)
}

// handleDeleteProject deletes a project. Linked achievements survive with
// the project reference cleared.
func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	projectID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid project ID")
		return
	}

	deleted, err := s.db.DeleteProject(r.Context(), projectID, userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to delete project")
		return
	}
	if !deleted {
		s.errorResponse(w, http.StatusNotFound, "project not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
