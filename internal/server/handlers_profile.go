package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/ktanaka/careerlog/internal/db"
	"github.com/ktanaka/careerlog/internal/server/middleware"
)

// profileID resolves the caller's profile, creating an empty one on first
// access.
func (s *Server) profileID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	profile, err := s.db.GetOrCreateProfile(ctx, userID)
	if err != nil {
		return uuid.Nil, err
	}
	return profile.ID, nil
}

// handleGetProfile returns the user's profile with its child collections.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	profile, err := s.db.GetOrCreateProfile(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	workHistories, err := s.db.ListWorkHistories(r.Context(), profile.ID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list work histories")
		return
	}
	skills, err := s.db.ListSkills(r.Context(), profile.ID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list skills")
		return
	}
	certifications, err := s.db.ListCertifications(r.Context(), profile.ID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list certifications")
		return
	}
	educations, err := s.db.ListEducations(r.Context(), profile.ID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list educations")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"profile":        profile,
		"work_histories": workHistories,
		"skills":         skills,
		"certifications": certifications,
		"educations":     educations,
	})
}

// handleUpdateProfile overwrites the user's profile fields.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var params db.ProfileParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// First access creates the row the update targets.
	if _, err := s.db.GetOrCreateProfile(r.Context(), userID); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}
	profile, err := s.db.UpdateProfile(r.Context(), userID, params)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}

// handleListWorkHistories returns the profile's work history entries.
func (s *Server) handleListWorkHistories(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	profileID, err := s.profileID(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}
	entries, err := s.db.ListWorkHistories(r.Context(), profileID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list work histories")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"work_histories": entries})
}

// handleCreateWorkHistory adds a work history entry.
func (s *Server) handleCreateWorkHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var params db.WorkHistoryParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if params.CompanyName == "" || params.StartDate == "" {
		s.errorResponse(w, http.StatusBadRequest, "company_name and start_date are required")
		return
	}

	profileID, err := s.profileID(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}
	entry, err := s.db.CreateWorkHistory(r.Context(), profileID, params)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to create work history")
		return
	}
	s.jsonResponse(w, http.StatusCreated, entry)
}

// handleUpdateWorkHistory updates a work history entry.
func (s *Server) handleUpdateWorkHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	entryID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid work history ID")
		return
	}

	var params db.WorkHistoryParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	profileID, err := s.profileID(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}
	entry, err := s.db.UpdateWorkHistory(r.Context(), entryID, profileID, params)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to update work history")
		return
	}
	if entry == nil {
		s.errorResponse(w, http.StatusNotFound, "work history not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, entry)
}

// handleDeleteWorkHistory removes a work history entry.
func (s *Server) handleDeleteWorkHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	entryID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid work history ID")
		return
	}

	profileID, err := s.profileID(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}
	deleted, err := s.db.DeleteWorkHistory(r.Context(), entryID, profileID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to delete work history")
		return
	}
	if !deleted {
		s.errorResponse(w, http.StatusNotFound, "work history not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListSkills returns the profile's skills.
func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	profileID, err := s.profileID(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}
	skills, err := s.db.ListSkills(r.Context(), profileID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list skills")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"skills": skills})
}

// handleCreateSkill adds a skill.
func (s *Server) handleCreateSkill(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var params db.SkillParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if params.Name == "" {
		s.errorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	profileID, err := s.profileID(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}
	skill, err := s.db.CreateSkill(r.Context(), profileID, params)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to create skill")
		return
	}
	s.jsonResponse(w, http.StatusCreated, skill)
}

// handleDeleteSkill removes a skill.
func (s *Server) handleDeleteSkill(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	skillID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid skill ID")
		return
	}

	profileID, err := s.profileID(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}
	deleted, err := s.db.DeleteSkill(r.Context(), skillID, profileID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to delete skill")
		return
	}
	if !deleted {
		s.errorResponse(w, http.StatusNotFound, "skill not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListCertifications returns the profile's certifications.
func (s *Server) handleListCertifications(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	profileID, err := s.profileID(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}
	certifications, err := s.db.ListCertifications(r.Context(), profileID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list certifications")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"certifications": certifications})
}

// handleCreateCertification adds a certification.
func (s *Server) handleCreateCertification(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var params db.CertificationParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if params.Name == "" {
		s.errorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	profileID, err := s.profileID(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}
	certification, err := s.db.CreateCertification(r.Context(), profileID, params)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to create certification")
		return
	}
	s.jsonResponse(w, http.StatusCreated, certification)
}

// handleDeleteCertification removes a certification.
func (s *Server) handleDeleteCertification(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	certificationID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid certification ID")
		return
	}

	profileID, err := s.profileID(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}
	deleted, err := s.db.DeleteCertification(r.Context(), certificationID, profileID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to delete certification")
		return
	}
	if !deleted {
		s.errorResponse(w, http.StatusNotFound, "certification not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListEducations returns the profile's education entries.
func (s *Server) handleListEducations(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	profileID, err := s.profileID(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}
	educations, err := s.db.ListEducations(r.Context(), profileID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list educations")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"educations": educations})
}

// handleCreateEducation adds an education entry.
func (s *Server) handleCreateEducation(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var params db.EducationParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if params.SchoolName == "" {
		s.errorResponse(w, http.StatusBadRequest, "school_name is required")
		return
	}

	profileID, err := s.profileID(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}
	education, err := s.db.CreateEducation(r.Context(), profileID, params)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to create education")
		return
	}
	s.jsonResponse(w, http.StatusCreated, education)
}

// handleDeleteEducation removes an education entry.
func (s *Server) handleDeleteEducation(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	educationID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid education ID")
		return
	}

	profileID, err := s.profileID(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}
	deleted, err := s.db.DeleteEducation(r.Context(), educationID, profileID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to delete education")
		return
	}
	if !deleted {
		s.errorResponse(w, http.StatusNotFound, "education not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
