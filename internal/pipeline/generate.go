package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/ktanaka/careerlog/internal/db"
	"github.com/ktanaka/careerlog/internal/resume"
	"github.com/ktanaka/careerlog/internal/types"
)

var (
	// ErrNoAchievements means generation was asked to run with nothing to say.
	ErrNoAchievements = errors.New("no achievements available for generation")

	// ErrProfileIncomplete means the profile lacks the surname a 職務経歴書
	// heading requires.
	ErrProfileIncomplete = errors.New("profile surname is required before generating")
)

// ContentGenerator produces structured resume content from assembled input.
type ContentGenerator interface {
	Generate(ctx context.Context, input resume.Input) (*types.ResumeContent, error)
}

// GenerateStore is the persistence the generation flow needs.
type GenerateStore interface {
	GetOrCreateProfile(ctx context.Context, userID uuid.UUID) (*db.Profile, error)
	ListWorkHistories(ctx context.Context, profileID uuid.UUID) ([]db.WorkHistory, error)
	ListSkills(ctx context.Context, profileID uuid.UUID) ([]db.Skill, error)
	ListAchievements(ctx context.Context, userID uuid.UUID) ([]db.Achievement, error)
	ListAchievementsByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]db.Achievement, error)
	ListProjects(ctx context.Context, userID uuid.UUID) ([]db.Project, error)
	CreateDocument(ctx context.Context, userID uuid.UUID, p db.DocumentParams) (*db.Document, error)
}

// GenerateRequest describes one resume generation run.
type GenerateRequest struct {
	UserID         uuid.UUID
	Format         types.ResumeFormat
	Title          string
	AchievementIDs []uuid.UUID // empty selects all achievements
	TargetCompany  string
	TargetPosition string
}

// GenerateService assembles a user's career data, runs the generator, and
// stores the result as a draft document.
type GenerateService struct {
	store  GenerateStore
	logger *slog.Logger
}

func NewGenerateService(store GenerateStore, logger *slog.Logger) *GenerateService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GenerateService{store: store, logger: logger}
}

// Run generates one resume document.
func (s *GenerateService) Run(ctx context.Context, generator ContentGenerator, req GenerateRequest) (*db.Document, error) {
	if !req.Format.Valid() {
		return nil, fmt.Errorf("unknown resume format %q", req.Format)
	}

	profile, err := s.store.GetOrCreateProfile(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(profile.LastName) == "" {
		return nil, ErrProfileIncomplete
	}
	workHistories, err := s.store.ListWorkHistories(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	skills, err := s.store.ListSkills(ctx, profile.ID)
	if err != nil {
		return nil, err
	}

	var achievements []db.Achievement
	if len(req.AchievementIDs) > 0 {
		achievements, err = s.store.ListAchievementsByIDs(ctx, req.UserID, req.AchievementIDs)
	} else {
		achievements, err = s.store.ListAchievements(ctx, req.UserID)
	}
	if err != nil {
		return nil, err
	}
	if len(achievements) == 0 {
		return nil, ErrNoAchievements
	}

	projects, err := s.store.ListProjects(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	projectNames := make(map[uuid.UUID]string, len(projects))
	for _, p := range projects {
		projectNames[p.ID] = p.Name
	}

	input := resume.Input{
		Format: req.Format,
		Profile: resume.ProfileInput{
			LastName:         profile.LastName,
			FirstName:        profile.FirstName,
			Summary:          profile.Summary,
			SelfIntroduction: profile.SelfIntroduction,
		},
		TargetCompany:  req.TargetCompany,
		TargetPosition: req.TargetPosition,
	}
	for _, wh := range workHistories {
		input.WorkHistories = append(input.WorkHistories, resume.WorkHistoryInput{
			CompanyName:        wh.CompanyName,
			CompanyDescription: wh.CompanyDescription,
			EmploymentType:     wh.EmploymentType,
			Position:           wh.Position,
			Department:         wh.Department,
			StartDate:          wh.StartDate,
			EndDate:            wh.EndDate,
			IsCurrent:          wh.IsCurrent,
			Responsibilities:   wh.Responsibilities,
		})
	}
	for _, a := range achievements {
		in := resume.AchievementInput{
			Title:        a.Title,
			Description:  a.Description,
			Category:     a.Category,
			Technologies: a.Technologies,
			Period:       a.Period,
		}
		if a.ProjectID != nil {
			in.ProjectName = projectNames[*a.ProjectID]
		}
		input.Achievements = append(input.Achievements, in)
	}
	for _, sk := range skills {
		input.Skills = append(input.Skills, resume.SkillInput{
			Category:          sk.Category,
			Name:              sk.Name,
			Level:             sk.Level,
			YearsOfExperience: sk.YearsOfExperience,
		})
	}

	content, err := generator.Generate(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("resume generation failed: %w", err)
	}

	title := req.Title
	if title == "" {
		title = content.Title
	}
	if title == "" {
		title = "職務経歴書"
	}

	doc, err := s.store.CreateDocument(ctx, req.UserID, db.DocumentParams{
		Title:          title,
		Format:         req.Format,
		Content:        *content,
		TargetCompany:  req.TargetCompany,
		TargetPosition: req.TargetPosition,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("document generated",
		"user_id", req.UserID, "document_id", doc.ID,
		"format", req.Format, "achievements", len(achievements))
	return doc, nil
}
