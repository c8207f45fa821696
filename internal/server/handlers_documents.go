package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/ktanaka/careerlog/internal/pipeline"
	"github.com/ktanaka/careerlog/internal/server/middleware"
	"github.com/ktanaka/careerlog/internal/types"
)

// generateDocumentRequest is the body of POST /documents/generate.
type generateDocumentRequest struct {
	Format         types.ResumeFormat `json:"format"`
	Title          string             `json:"title,omitempty"`
	AchievementIDs []uuid.UUID        `json:"achievement_ids"`
	TargetCompany  string             `json:"target_company,omitempty"`
	TargetPosition string             `json:"target_position,omitempty"`
}

func (r generateDocumentRequest) validate() error {
	if !r.Format.Valid() {
		return &ErrValidation{Field: "format", Message: "must be reverse_chronological, chronological, or career_based"}
	}
	if len(r.AchievementIDs) == 0 {
		return &ErrValidation{Field: "achievement_ids", Message: "at least one achievement is required"}
	}
	return nil
}

// handleGenerateDocument generates a new resume document.
func (s *Server) handleGenerateDocument(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req generateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	doc, err := s.generateSvc.Run(r.Context(), s.resumeEngine, pipeline.GenerateRequest{
		UserID:         userID,
		Format:         req.Format,
		Title:          req.Title,
		AchievementIDs: req.AchievementIDs,
		TargetCompany:  req.TargetCompany,
		TargetPosition: req.TargetPosition,
	})
	if err != nil {
		s.errorDetail(w, HTTPStatus(err), "Failed to generate document", err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, doc)
}

// handleListDocuments returns the user's documents, newest first.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	docs, err := s.db.ListDocuments(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list documents")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"documents": docs})
}

// handleGetDocument returns one document with its content.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	documentID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid document ID")
		return
	}

	doc, err := s.db.GetDocument(r.Context(), documentID, userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get document")
		return
	}
	if doc == nil {
		s.errorResponse(w, http.StatusNotFound, "document not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, doc)
}

// handleDeleteDocument deletes a document.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	documentID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid document ID")
		return
	}

	deleted, err := s.db.DeleteDocument(r.Context(), documentID, userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to delete document")
		return
	}
	if !deleted {
		s.errorResponse(w, http.StatusNotFound, "document not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleFinalizeDocument marks a draft document as finalized.
func (s *Server) handleFinalizeDocument(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	documentID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid document ID")
		return
	}

	doc, err := s.db.FinalizeDocument(r.Context(), documentID, userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to finalize document")
		return
	}
	if doc == nil {
		s.errorResponse(w, http.StatusNotFound, "document not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, doc)
}

// handleExportDocumentPDF renders a document's content as PDF.
func (s *Server) handleExportDocumentPDF(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	documentID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid document ID")
		return
	}

	doc, err := s.db.GetDocument(r.Context(), documentID, userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get document")
		return
	}
	if doc == nil {
		s.errorResponse(w, http.StatusNotFound, "document not found")
		return
	}

	pdfBytes, err := s.renderer.Render(r.Context(), doc.Content)
	if err != nil {
		s.logger.Error("PDF rendering failed", "document_id", documentID, "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to render PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Title+".pdf"))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdfBytes); err != nil {
		s.logger.Error("failed to write PDF response", "error", err)
	}
}
