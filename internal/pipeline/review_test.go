package pipeline

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ktanaka/careerlog/internal/db"
	"github.com/ktanaka/careerlog/internal/types"
)

type fakeReviewStore struct {
	candidates   map[uuid.UUID]*db.CandidateWithDigest
	achievements []db.Achievement
	digestStatus map[uuid.UUID]types.DigestStatus
}

func newFakeReviewStore() *fakeReviewStore {
	return &fakeReviewStore{
		candidates:   make(map[uuid.UUID]*db.CandidateWithDigest),
		digestStatus: make(map[uuid.UUID]types.DigestStatus),
	}
}

func (f *fakeReviewStore) addCandidate(userID uuid.UUID, digestID uuid.UUID, date string, draft types.CandidateDraft) *db.CandidateWithDigest {
	c := &db.CandidateWithDigest{
		Candidate: db.Candidate{
			ID:           uuid.New(),
			DigestID:     digestID,
			Title:        draft.Title,
			Description:  draft.Description,
			Category:     draft.Category,
			Technologies: draft.Technologies,
			Significance: draft.Significance,
			Status:       types.CandidatePending,
		},
		DigestUserID: userID,
		DigestDate:   date,
	}
	f.candidates[c.ID] = c
	f.digestStatus[digestID] = types.DigestReady
	return c
}

func (f *fakeReviewStore) GetCandidateForUser(_ context.Context, candidateID, userID uuid.UUID) (*db.CandidateWithDigest, error) {
	c, ok := f.candidates[candidateID]
	if !ok || c.DigestUserID != userID {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (f *fakeReviewStore) SetCandidateStatus(_ context.Context, candidateID uuid.UUID, status types.CandidateStatus) (bool, error) {
	c, ok := f.candidates[candidateID]
	if !ok || c.Status != types.CandidatePending {
		return false, nil
	}
	c.Status = status
	return true, nil
}

func (f *fakeReviewStore) CreateAchievement(_ context.Context, userID uuid.UUID, p db.AchievementParams) (*db.Achievement, error) {
	a := db.Achievement{
		ID:           uuid.New(),
		UserID:       userID,
		CandidateID:  p.CandidateID,
		ProjectID:    p.ProjectID,
		Title:        p.Title,
		Description:  p.Description,
		Category:     p.Category,
		Technologies: p.Technologies,
		Period:       p.Period,
	}
	f.achievements = append(f.achievements, a)
	return &a, nil
}

func (f *fakeReviewStore) DigestHasPendingCandidates(_ context.Context, digestID uuid.UUID) (bool, error) {
	for _, c := range f.candidates {
		if c.DigestID == digestID && c.Status == types.CandidatePending {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReviewStore) SetDigestStatus(_ context.Context, digestID uuid.UUID, status types.DigestStatus) error {
	f.digestStatus[digestID] = status
	return nil
}

func testDraft() types.CandidateDraft {
	return types.CandidateDraft{
		Title:        "検索APIの高速化",
		Description:  "インデックス再設計でレイテンシを短縮",
		Category:     types.CategoryDevelopment,
		Technologies: []string{"Go", "PostgreSQL"},
		Significance: types.SignificanceHigh,
	}
}

func TestAccept(t *testing.T) {
	store := newFakeReviewStore()
	userID := uuid.New()
	digestID := uuid.New()
	c := store.addCandidate(userID, digestID, "2026-08-28", testDraft())

	svc := NewReviewService(store, nil)
	achievement, err := svc.Accept(context.Background(), c.ID, userID, AcceptOverride{})
	require.NoError(t, err)

	assert.Equal(t, "検索APIの高速化", achievement.Title)
	assert.Equal(t, types.CategoryDevelopment, achievement.Category)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, achievement.Technologies)
	assert.Equal(t, "2026-08", achievement.Period)
	require.NotNil(t, achievement.CandidateID)
	assert.Equal(t, c.ID, *achievement.CandidateID)
	assert.Equal(t, types.CandidateAccepted, store.candidates[c.ID].Status)
}

func TestAccept_WithOverrideMarksEdited(t *testing.T) {
	store := newFakeReviewStore()
	userID := uuid.New()
	c := store.addCandidate(userID, uuid.New(), "2026-08-28", testDraft())

	svc := NewReviewService(store, nil)
	achievement, err := svc.Accept(context.Background(), c.ID, userID, AcceptOverride{
		Title: "検索基盤の刷新",
	})
	require.NoError(t, err)

	assert.Equal(t, "検索基盤の刷新", achievement.Title)
	assert.Equal(t, "インデックス再設計でレイテンシを短縮", achievement.Description)
	assert.Equal(t, types.CandidateEdited, store.candidates[c.ID].Status)
}

func TestAccept_SuppliedOverrideAlwaysMarksEdited(t *testing.T) {
	store := newFakeReviewStore()
	userID := uuid.New()
	c := store.addCandidate(userID, uuid.New(), "2026-08-28", testDraft())

	// The decision keys on whether an override was supplied, not on whether
	// its text differs from the candidate's.
	svc := NewReviewService(store, nil)
	achievement, err := svc.Accept(context.Background(), c.ID, userID, AcceptOverride{
		Title:       "検索APIの高速化",
		Description: "インデックス再設計でレイテンシを短縮",
	})
	require.NoError(t, err)
	assert.Equal(t, types.CandidateEdited, store.candidates[c.ID].Status)
	assert.Equal(t, "検索APIの高速化", achievement.Title)
}

func TestReject(t *testing.T) {
	store := newFakeReviewStore()
	userID := uuid.New()
	c := store.addCandidate(userID, uuid.New(), "2026-08-28", testDraft())

	svc := NewReviewService(store, nil)
	require.NoError(t, svc.Reject(context.Background(), c.ID, userID))

	assert.Equal(t, types.CandidateRejected, store.candidates[c.ID].Status)
	assert.Empty(t, store.achievements)
}

func TestReview_DecisionsAreFinal(t *testing.T) {
	store := newFakeReviewStore()
	userID := uuid.New()
	c := store.addCandidate(userID, uuid.New(), "2026-08-28", testDraft())

	svc := NewReviewService(store, nil)
	_, err := svc.Accept(context.Background(), c.ID, userID, AcceptOverride{})
	require.NoError(t, err)

	// A second decision of either kind is refused and no second achievement
	// appears.
	_, err = svc.Accept(context.Background(), c.ID, userID, AcceptOverride{})
	assert.ErrorIs(t, err, ErrCandidateReviewed)
	err = svc.Reject(context.Background(), c.ID, userID)
	assert.ErrorIs(t, err, ErrCandidateReviewed)
	assert.Len(t, store.achievements, 1)
}

func TestReview_OtherUsersCandidateIsInvisible(t *testing.T) {
	store := newFakeReviewStore()
	owner := uuid.New()
	c := store.addCandidate(owner, uuid.New(), "2026-08-28", testDraft())

	svc := NewReviewService(store, nil)
	intruder := uuid.New()
	_, err := svc.Accept(context.Background(), c.ID, intruder, AcceptOverride{})
	assert.ErrorIs(t, err, ErrCandidateNotFound)
	err = svc.Reject(context.Background(), c.ID, intruder)
	assert.ErrorIs(t, err, ErrCandidateNotFound)

	assert.Equal(t, types.CandidatePending, store.candidates[c.ID].Status)
}

func TestReview_UnknownCandidate(t *testing.T) {
	store := newFakeReviewStore()
	svc := NewReviewService(store, nil)
	_, err := svc.Accept(context.Background(), uuid.New(), uuid.New(), AcceptOverride{})
	assert.ErrorIs(t, err, ErrCandidateNotFound)
}

func TestReview_DigestReviewedAfterLastDecision(t *testing.T) {
	store := newFakeReviewStore()
	userID := uuid.New()
	digestID := uuid.New()
	first := store.addCandidate(userID, digestID, "2026-08-28", testDraft())
	second := store.addCandidate(userID, digestID, "2026-08-28", testDraft())

	svc := NewReviewService(store, nil)
	_, err := svc.Accept(context.Background(), first.ID, userID, AcceptOverride{})
	require.NoError(t, err)
	assert.Equal(t, types.DigestReady, store.digestStatus[digestID])

	require.NoError(t, svc.Reject(context.Background(), second.ID, userID))
	assert.Equal(t, types.DigestReviewed, store.digestStatus[digestID])
}
