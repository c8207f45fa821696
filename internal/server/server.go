// Package server provides the HTTP REST API for the career log.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ktanaka/careerlog/internal/config"
	"github.com/ktanaka/careerlog/internal/db"
	"github.com/ktanaka/careerlog/internal/digest"
	"github.com/ktanaka/careerlog/internal/llm"
	"github.com/ktanaka/careerlog/internal/pdf"
	"github.com/ktanaka/careerlog/internal/pipeline"
	"github.com/ktanaka/careerlog/internal/resume"
	"github.com/ktanaka/careerlog/internal/server/middleware"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	db         *db.DB
	logger     *slog.Logger
	llm        llm.Client
	secretBox  *config.SecretBox

	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler

	digestEngine *digest.Engine
	resumeEngine *resume.Engine
	collectSvc   *pipeline.CollectService
	reviewSvc    *pipeline.ReviewService
	generateSvc  *pipeline.GenerateService
	renderer     *pdf.Renderer
}

// Config holds server configuration
type Config struct {
	Port         int
	DatabaseURL  string
	GeminiAPIKey string
	Logger       *slog.Logger
}

// New creates a new server instance
func New(ctx context.Context, cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Server{
		db:     database,
		logger: logger,
	}

	s.secretBox, err = config.NewSecretBox()
	if err != nil {
		return nil, fmt.Errorf("failed to create secret box: %w", err)
	}

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	s.userService = NewUserService(database, passwordConfig)

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	s.jwtService = NewJWTService(jwtConfig)
	s.authHandler = NewAuthHandler(s.userService, s.jwtService)

	s.llm, err = llm.NewClient(ctx, llm.DefaultConfig(), cfg.GeminiAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	s.digestEngine = digest.NewEngine(s.llm)
	s.resumeEngine = resume.NewEngine(s.llm)

	s.collectSvc = pipeline.NewCollectService(database, logger)
	s.reviewSvc = pipeline.NewReviewService(database, logger)
	s.generateSvc = pipeline.NewGenerateService(database, logger)
	s.renderer = pdf.NewRenderer()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)
	mux.HandleFunc("GET /health", s.handleHealth)

	auth := middleware.Auth(s.jwtService.AsTokenValidator())
	protected := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, auth(h))
	}

	// Collection and digests
	protected("POST /collect", s.handleCollect)
	protected("GET /digests", s.handleListDigests)
	protected("GET /digests/{date}", s.handleGetDigest)

	// Candidate review
	protected("GET /candidates", s.handleListCandidates)
	protected("POST /candidates/{id}/accept", s.handleAcceptCandidate)
	protected("POST /candidates/{id}/reject", s.handleRejectCandidate)

	// Achievements
	protected("GET /achievements", s.handleListAchievements)
	protected("POST /achievements", s.handleCreateAchievement)
	protected("GET /achievements/{id}", s.handleGetAchievement)
	protected("PUT /achievements/{id}", s.handleUpdateAchievement)
	protected("DELETE /achievements/{id}", s.handleDeleteAchievement)

	// Projects
	protected("GET /projects", s.handleListProjects)
	protected("POST /projects", s.handleCreateProject)
	protected("GET /projects/{id}", s.handleGetProject)
	protected("PUT /projects/{id}", s.handleUpdateProject)
	protected("DELETE /projects/{id}", s.handleDeleteProject)

	// Profile and its child collections
	protected("GET /profile", s.handleGetProfile)
	protected("PUT /profile", s.handleUpdateProfile)
	protected("GET /profile/work-histories", s.handleListWorkHistories)
	protected("POST /profile/work-histories", s.handleCreateWorkHistory)
	protected("PUT /profile/work-histories/{id}", s.handleUpdateWorkHistory)
	protected("DELETE /profile/work-histories/{id}", s.handleDeleteWorkHistory)
	protected("GET /profile/skills", s.handleListSkills)
	protected("POST /profile/skills", s.handleCreateSkill)
	protected("DELETE /profile/skills/{id}", s.handleDeleteSkill)
	protected("GET /profile/certifications", s.handleListCertifications)
	protected("POST /profile/certifications", s.handleCreateCertification)
	protected("DELETE /profile/certifications/{id}", s.handleDeleteCertification)
	protected("GET /profile/educations", s.handleListEducations)
	protected("POST /profile/educations", s.handleCreateEducation)
	protected("DELETE /profile/educations/{id}", s.handleDeleteEducation)

	// Service connections
	protected("GET /connections/github", s.handleGetConnection)
	protected("PUT /connections/github", s.handleSaveConnection)
	protected("POST /connections/github/test", s.handleTestConnection)
	protected("GET /connections/github/repos", s.handleListRepos)
	protected("DELETE /connections/github", s.handleDeleteConnection)

	// Documents
	protected("POST /documents/generate", s.handleGenerateDocument)
	protected("GET /documents", s.handleListDocuments)
	protected("GET /documents/{id}", s.handleGetDocument)
	protected("DELETE /documents/{id}", s.handleDeleteDocument)
	protected("POST /documents/{id}/finalize", s.handleFinalizeDocument)
	protected("GET /documents/{id}/pdf", s.handleExportDocumentPDF)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Collection and generation call the model
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if err := s.llm.Close(); err != nil {
		s.logger.Warn("failed to close LLM client", "error", err)
	}
	s.db.Close()
	s.logger.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			"method", r.Method, "path", r.URL.Path,
			"remote", r.RemoteAddr, "duration", time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", "error", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// errorDetail writes a short fixed message plus the underlying error chain
// in a separate details field, so wrapped upstream text never becomes the
// headline message.
func (s *Server) errorDetail(w http.ResponseWriter, status int, message string, err error) {
	s.jsonResponse(w, status, map[string]string{"error": message, "details": err.Error()})
}
