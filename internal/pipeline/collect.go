// Package pipeline provides the high-level orchestration for activity
// collection, candidate review, and resume document generation.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ktanaka/careerlog/internal/activity"
	"github.com/ktanaka/careerlog/internal/db"
	"github.com/ktanaka/careerlog/internal/types"
)

// ActivitySource fetches one day of raw activity across repositories.
type ActivitySource interface {
	Collect(ctx context.Context, repos []string, date string) ([]activity.RepoResult, error)
}

// Summarizer turns raw activity into a daily summary plus candidates.
type Summarizer interface {
	Summarize(ctx context.Context, activities []types.RawActivity, manualNotes string) (*types.DigestResult, error)
}

// CollectStore is the digest persistence the collect flow needs.
type CollectStore interface {
	UpsertDigest(ctx context.Context, userID uuid.UUID, date string, activityCount int, status types.DigestStatus) (*db.Digest, error)
	SetDigestSummary(ctx context.Context, digestID uuid.UUID, summary string) error
	SetDigestStatus(ctx context.Context, digestID uuid.UUID, status types.DigestStatus) error
	DeletePendingCandidates(ctx context.Context, digestID uuid.UUID) error
	InsertCandidate(ctx context.Context, digestID uuid.UUID, draft types.CandidateDraft) (*db.Candidate, error)
}

// CollectRequest describes one collection run.
type CollectRequest struct {
	UserID      uuid.UUID
	Date        string // YYYY-MM-DD
	Repos       []string
	ManualNotes string
}

// CollectOutcome is what one collection run produced.
type CollectOutcome struct {
	Digest      *db.Digest     `json:"digest"`
	Candidates  []db.Candidate `json:"candidates"`
	FailedRepos []string       `json:"failed_repos,omitempty"`
}

// CollectService runs the collect-then-digest flow for one user and day.
type CollectService struct {
	store  CollectStore
	logger *slog.Logger
}

func NewCollectService(store CollectStore, logger *slog.Logger) *CollectService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CollectService{store: store, logger: logger}
}

// Run collects the day's activity, summarizes it, and stores the digest and
// its candidates. Re-running for the same (user, date) overwrites the digest
// in place and replaces any still-pending candidates; reviewed candidates
// are kept.
//
// With no repositories the source is never contacted and the day is digested
// from manual notes alone (or short-circuited when those are empty too).
//
// If summarization fails, the digest is rolled back to collecting so the
// collected counts survive and the run can be retried.
func (s *CollectService) Run(ctx context.Context, source ActivitySource, summarizer Summarizer, req CollectRequest) (*CollectOutcome, error) {
	var results []activity.RepoResult
	if len(req.Repos) > 0 {
		var err error
		results, err = source.Collect(ctx, req.Repos, req.Date)
		if err != nil {
			return nil, fmt.Errorf("activity collection failed: %w", err)
		}
	}

	activities := activity.Flatten(results)
	failed := activity.FailedRepos(results)
	for _, repo := range failed {
		s.logger.Warn("repository collection failed", "repo", repo, "date", req.Date)
	}

	dg, err := s.store.UpsertDigest(ctx, req.UserID, req.Date, len(activities), types.DigestCollecting)
	if err != nil {
		return nil, err
	}
	if err := s.store.DeletePendingCandidates(ctx, dg.ID); err != nil {
		return nil, err
	}
	if err := s.store.SetDigestStatus(ctx, dg.ID, types.DigestSummarizing); err != nil {
		return nil, err
	}

	result, err := summarizer.Summarize(ctx, activities, req.ManualNotes)
	if err != nil {
		// Keep the collected counts; only the summarization step is undone.
		if rbErr := s.store.SetDigestStatus(ctx, dg.ID, types.DigestCollecting); rbErr != nil {
			s.logger.Error("digest rollback failed", "digest_id", dg.ID, "error", rbErr)
		}
		return nil, fmt.Errorf("digestion failed: %w", err)
	}

	if err := s.store.SetDigestSummary(ctx, dg.ID, result.DailySummary); err != nil {
		return nil, err
	}

	candidates := make([]db.Candidate, 0, len(result.AchievementCandidates))
	for _, draft := range result.AchievementCandidates {
		c, err := s.store.InsertCandidate(ctx, dg.ID, draft)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, *c)
	}

	dg.ActivityCount = len(activities)
	dg.SummaryText = &result.DailySummary
	dg.Status = types.DigestReady

	s.logger.Info("digest ready",
		"user_id", req.UserID, "date", req.Date,
		"activities", len(activities), "candidates", len(candidates))

	return &CollectOutcome{Digest: dg, Candidates: candidates, FailedRepos: failed}, nil
}
