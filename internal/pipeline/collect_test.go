package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ktanaka/careerlog/internal/activity"
	"github.com/ktanaka/careerlog/internal/db"
	"github.com/ktanaka/careerlog/internal/types"
)

type fakeCollectStore struct {
	digests    map[string]*db.Digest
	candidates []db.Candidate
	statusLog  []types.DigestStatus
}

func newFakeCollectStore() *fakeCollectStore {
	return &fakeCollectStore{digests: make(map[string]*db.Digest)}
}

func digestKey(userID uuid.UUID, date string) string {
	return fmt.Sprintf("%s|%s", userID, date)
}

func (f *fakeCollectStore) UpsertDigest(_ context.Context, userID uuid.UUID, date string, activityCount int, status types.DigestStatus) (*db.Digest, error) {
	key := digestKey(userID, date)
	if d, ok := f.digests[key]; ok {
		d.ActivityCount = activityCount
		d.Status = status
		copied := *d
		return &copied, nil
	}
	d := &db.Digest{ID: uuid.New(), UserID: userID, Date: date, ActivityCount: activityCount, Status: status}
	f.digests[key] = d
	copied := *d
	return &copied, nil
}

func (f *fakeCollectStore) SetDigestSummary(_ context.Context, digestID uuid.UUID, summary string) error {
	for _, d := range f.digests {
		if d.ID == digestID {
			d.SummaryText = &summary
			d.Status = types.DigestReady
		}
	}
	return nil
}

func (f *fakeCollectStore) SetDigestStatus(_ context.Context, digestID uuid.UUID, status types.DigestStatus) error {
	f.statusLog = append(f.statusLog, status)
	for _, d := range f.digests {
		if d.ID == digestID {
			d.Status = status
		}
	}
	return nil
}

func (f *fakeCollectStore) DeletePendingCandidates(_ context.Context, digestID uuid.UUID) error {
	kept := f.candidates[:0]
	for _, c := range f.candidates {
		if c.DigestID == digestID && c.Status == types.CandidatePending {
			continue
		}
		kept = append(kept, c)
	}
	f.candidates = kept
	return nil
}

func (f *fakeCollectStore) InsertCandidate(_ context.Context, digestID uuid.UUID, draft types.CandidateDraft) (*db.Candidate, error) {
	c := db.Candidate{
		ID:           uuid.New(),
		DigestID:     digestID,
		Title:        draft.Title,
		Description:  draft.Description,
		Category:     draft.Category,
		Technologies: draft.Technologies,
		Significance: draft.Significance,
		Status:       types.CandidatePending,
	}
	f.candidates = append(f.candidates, c)
	return &c, nil
}

type fakeSource struct {
	results []activity.RepoResult
	err     error
}

func (f *fakeSource) Collect(_ context.Context, _ []string, _ string) ([]activity.RepoResult, error) {
	return f.results, f.err
}

type fakeSummarizer struct {
	result     *types.DigestResult
	err        error
	called     bool
	activities []types.RawActivity
	notes      string
}

func (f *fakeSummarizer) Summarize(_ context.Context, activities []types.RawActivity, notes string) (*types.DigestResult, error) {
	f.called = true
	f.activities = activities
	f.notes = notes
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func sampleActivity(title string) types.RawActivity {
	return types.RawActivity{
		Source:       activity.Source,
		ActivityType: types.ActivityPRMerged,
		Title:        title,
		Metadata:     map[string]any{"repo": "acme/api"},
	}
}

func TestCollectRun(t *testing.T) {
	store := newFakeCollectStore()
	source := &fakeSource{results: []activity.RepoResult{
		{Repo: "acme/api", Activities: []types.RawActivity{sampleActivity("Fix race"), sampleActivity("Add cache")}},
		{Repo: "acme/infra", Err: errors.New("403 Forbidden")},
	}}
	summary := "APIの安定化に取り組んだ。"
	sum := &fakeSummarizer{result: &types.DigestResult{
		DailySummary: summary,
		AchievementCandidates: []types.CandidateDraft{
			{Title: "競合状態の修正", Description: "並行処理の不具合を解消", Category: types.CategoryBugfix, Technologies: []string{"Go"}, Significance: types.SignificanceHigh},
		},
	}}

	userID := uuid.New()
	svc := NewCollectService(store, nil)
	outcome, err := svc.Run(context.Background(), source, sum, CollectRequest{
		UserID: userID, Date: "2026-08-28", Repos: []string{"acme/api", "acme/infra"}, ManualNotes: "障害対応",
	})
	require.NoError(t, err)

	assert.Equal(t, types.DigestReady, outcome.Digest.Status)
	require.NotNil(t, outcome.Digest.SummaryText)
	assert.Equal(t, summary, *outcome.Digest.SummaryText)
	assert.Equal(t, 2, outcome.Digest.ActivityCount)
	assert.Equal(t, []string{"acme/infra"}, outcome.FailedRepos)
	require.Len(t, outcome.Candidates, 1)
	assert.Equal(t, types.CandidatePending, outcome.Candidates[0].Status)

	// Healthy-repo activity still reaches the summarizer despite the failed repo.
	assert.Len(t, sum.activities, 2)
	assert.Equal(t, "障害対応", sum.notes)
	assert.Contains(t, store.statusLog, types.DigestSummarizing)

	stored := store.digests[digestKey(userID, "2026-08-28")]
	require.NotNil(t, stored)
	assert.Equal(t, types.DigestReady, stored.Status)
}

func TestCollectRun_SummarizeFailureRollsBack(t *testing.T) {
	store := newFakeCollectStore()
	source := &fakeSource{results: []activity.RepoResult{
		{Repo: "acme/api", Activities: []types.RawActivity{sampleActivity("Fix race")}},
	}}
	sum := &fakeSummarizer{err: errors.New("model overloaded")}

	userID := uuid.New()
	svc := NewCollectService(store, nil)
	_, err := svc.Run(context.Background(), source, sum, CollectRequest{
		UserID: userID, Date: "2026-08-28", Repos: []string{"acme/api"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "digestion failed")

	stored := store.digests[digestKey(userID, "2026-08-28")]
	require.NotNil(t, stored)
	assert.Equal(t, types.DigestCollecting, stored.Status)
	assert.Equal(t, 1, stored.ActivityCount)
	assert.Empty(t, store.candidates)
}

func TestCollectRun_RecollectionReplacesPending(t *testing.T) {
	store := newFakeCollectStore()
	userID := uuid.New()

	first, err := store.UpsertDigest(context.Background(), userID, "2026-08-28", 1, types.DigestReady)
	require.NoError(t, err)
	_, err = store.InsertCandidate(context.Background(), first.ID, types.CandidateDraft{Title: "古い候補"})
	require.NoError(t, err)
	_, err = store.InsertCandidate(context.Background(), first.ID, types.CandidateDraft{Title: "承認済み"})
	require.NoError(t, err)
	store.candidates[1].Status = types.CandidateAccepted

	source := &fakeSource{results: []activity.RepoResult{
		{Repo: "acme/api", Activities: []types.RawActivity{sampleActivity("Fix race"), sampleActivity("Add cache"), sampleActivity("Tune pool")}},
	}}
	sum := &fakeSummarizer{result: &types.DigestResult{
		DailySummary: "再収集後の要約",
		AchievementCandidates: []types.CandidateDraft{
			{Title: "新しい候補", Category: types.CategoryDevelopment, Significance: types.SignificanceMedium},
		},
	}}

	svc := NewCollectService(store, nil)
	outcome, err := svc.Run(context.Background(), source, sum, CollectRequest{
		UserID: userID, Date: "2026-08-28", Repos: []string{"acme/api"},
	})
	require.NoError(t, err)

	// Same day resolves to the same digest row with refreshed counts.
	assert.Equal(t, first.ID, outcome.Digest.ID)
	assert.Equal(t, 3, outcome.Digest.ActivityCount)

	// The stale pending proposal is gone; the reviewed one survives.
	titles := make(map[string]types.CandidateStatus)
	for _, c := range store.candidates {
		titles[c.Title] = c.Status
	}
	assert.NotContains(t, titles, "古い候補")
	assert.Equal(t, types.CandidateAccepted, titles["承認済み"])
	assert.Equal(t, types.CandidatePending, titles["新しい候補"])
}

func TestCollectRun_NoReposSkipsSource(t *testing.T) {
	store := newFakeCollectStore()
	// Any source call would fail; with no repos it must never be reached.
	source := &fakeSource{err: errors.New("401 Bad credentials")}
	sum := &fakeSummarizer{result: &types.DigestResult{DailySummary: "手動メモのみの一日"}}

	userID := uuid.New()
	svc := NewCollectService(store, nil)
	outcome, err := svc.Run(context.Background(), source, sum, CollectRequest{
		UserID: userID, Date: "2026-08-28", ManualNotes: "設計レビューの下調べ",
	})
	require.NoError(t, err)

	assert.True(t, sum.called)
	assert.Empty(t, sum.activities)
	assert.Equal(t, "設計レビューの下調べ", sum.notes)
	assert.Equal(t, 0, outcome.Digest.ActivityCount)
	assert.Equal(t, types.DigestReady, outcome.Digest.Status)
}

func TestCollectRun_SourceFailure(t *testing.T) {
	store := newFakeCollectStore()
	source := &fakeSource{err: errors.New("401 Bad credentials")}
	sum := &fakeSummarizer{}

	svc := NewCollectService(store, nil)
	_, err := svc.Run(context.Background(), source, sum, CollectRequest{
		UserID: uuid.New(), Date: "2026-08-28", Repos: []string{"acme/api"},
	})
	require.Error(t, err)
	assert.False(t, sum.called)
	assert.Empty(t, store.digests)
}
