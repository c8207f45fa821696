package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ktanaka/careerlog/internal/db"
	"github.com/ktanaka/careerlog/internal/types"
)

var (
	// ErrCandidateNotFound covers both a missing candidate and one owned by
	// another user; callers cannot tell the two apart.
	ErrCandidateNotFound = errors.New("candidate not found")

	// ErrCandidateReviewed means the candidate already left the pending state.
	ErrCandidateReviewed = errors.New("candidate already reviewed")
)

// ReviewStore is the persistence the review flow needs.
type ReviewStore interface {
	GetCandidateForUser(ctx context.Context, candidateID, userID uuid.UUID) (*db.CandidateWithDigest, error)
	SetCandidateStatus(ctx context.Context, candidateID uuid.UUID, status types.CandidateStatus) (bool, error)
	CreateAchievement(ctx context.Context, userID uuid.UUID, p db.AchievementParams) (*db.Achievement, error)
	DigestHasPendingCandidates(ctx context.Context, digestID uuid.UUID) (bool, error)
	SetDigestStatus(ctx context.Context, digestID uuid.UUID, status types.DigestStatus) error
}

// AcceptOverride lets the reviewer adjust the proposal while accepting it.
// Empty fields keep the candidate's text.
type AcceptOverride struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// ReviewService applies accept and reject decisions to candidates.
type ReviewService struct {
	store  ReviewStore
	logger *slog.Logger
}

func NewReviewService(store ReviewStore, logger *slog.Logger) *ReviewService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewService{store: store, logger: logger}
}

// Accept turns a pending candidate into a durable achievement. The
// achievement keeps the candidate's category and technologies; its period is
// the digest's month (YYYY-MM). When the override supplies a title or
// description the candidate is marked edited instead of accepted, even if
// the supplied text matches the candidate's own.
func (s *ReviewService) Accept(ctx context.Context, candidateID, userID uuid.UUID, override AcceptOverride) (*db.Achievement, error) {
	c, err := s.loadPending(ctx, candidateID, userID)
	if err != nil {
		return nil, err
	}

	title := c.Title
	description := c.Description
	status := types.CandidateAccepted
	if override.Title != "" {
		title = override.Title
		status = types.CandidateEdited
	}
	if override.Description != "" {
		description = override.Description
		status = types.CandidateEdited
	}

	changed, err := s.store.SetCandidateStatus(ctx, candidateID, status)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, ErrCandidateReviewed
	}

	period := c.DigestDate
	if len(period) >= 7 {
		period = period[:7]
	}
	achievement, err := s.store.CreateAchievement(ctx, userID, db.AchievementParams{
		CandidateID:  &c.ID,
		Title:        title,
		Description:  description,
		Category:     c.Category,
		Technologies: c.Technologies,
		Period:       period,
	})
	if err != nil {
		return nil, err
	}

	s.markDigestReviewed(ctx, c.DigestID)
	s.logger.Info("candidate accepted",
		"candidate_id", candidateID, "achievement_id", achievement.ID, "status", status)
	return achievement, nil
}

// Reject marks a pending candidate rejected. No achievement is created and
// the decision is final.
func (s *ReviewService) Reject(ctx context.Context, candidateID, userID uuid.UUID) error {
	c, err := s.loadPending(ctx, candidateID, userID)
	if err != nil {
		return err
	}

	changed, err := s.store.SetCandidateStatus(ctx, candidateID, types.CandidateRejected)
	if err != nil {
		return err
	}
	if !changed {
		return ErrCandidateReviewed
	}

	s.markDigestReviewed(ctx, c.DigestID)
	s.logger.Info("candidate rejected", "candidate_id", candidateID)
	return nil
}

func (s *ReviewService) loadPending(ctx context.Context, candidateID, userID uuid.UUID) (*db.CandidateWithDigest, error) {
	c, err := s.store.GetCandidateForUser(ctx, candidateID, userID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCandidateNotFound
	}
	if c.Status.Terminal() {
		return nil, ErrCandidateReviewed
	}
	return c, nil
}

// markDigestReviewed flips the digest to reviewed once its last pending
// candidate is decided. The reviewed state is derived, so a failure here
// is logged and swallowed; the next review of the digest repairs it.
func (s *ReviewService) markDigestReviewed(ctx context.Context, digestID uuid.UUID) {
	pending, err := s.store.DigestHasPendingCandidates(ctx, digestID)
	if err != nil {
		s.logger.Error("pending-candidate check failed", "digest_id", digestID, "error", err)
		return
	}
	if pending {
		return
	}
	if err := s.store.SetDigestStatus(ctx, digestID, types.DigestReviewed); err != nil {
		s.logger.Error("failed to mark digest reviewed", "digest_id", digestID, "error", err)
	}
}
