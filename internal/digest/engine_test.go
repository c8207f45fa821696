package digest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ktanaka/careerlog/internal/llm"
	"github.com/ktanaka/careerlog/internal/types"
)

// fakeClient returns a scripted reply and records whether it was called.
type fakeClient struct {
	reply  string
	err    error
	called bool
}

func (f *fakeClient) GenerateJSON(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	f.called = true
	return f.reply, f.err
}

func (f *fakeClient) Close() error { return nil }

func sampleActivities() []types.RawActivity {
	return []types.RawActivity{
		{
			Source:       "github",
			ActivityType: types.ActivityPRMerged,
			Title:        "Add rate limiting to API gateway",
			Body:         "Implements a token bucket limiter.",
			Metadata:     map[string]any{"repo": "acme/svc"},
		},
	}
}

const validReply = `{
  "dailySummary": "APIゲートウェイにレート制限を実装した。",
  "achievementCandidates": [
    {
      "title": "レート制限の実装",
      "description": "APIゲートウェイにトークンバケット方式のレート制限を実装し、過負荷時の安定性を改善した。",
      "category": "development",
      "technologies": ["Go"],
      "significance": "high"
    }
  ]
}`

func TestSummarize_EmptyInputShortCircuit(t *testing.T) {
	client := &fakeClient{reply: validReply}
	engine := NewEngine(client)

	result, err := engine.Summarize(context.Background(), nil, "")
	require.NoError(t, err)

	assert.False(t, client.called, "model must not be contacted for an empty day")
	assert.Equal(t, EmptySummary, result.DailySummary)
	assert.Empty(t, result.AchievementCandidates)
}

func TestSummarize_ManualNotesAloneTriggerCall(t *testing.T) {
	client := &fakeClient{reply: validReply}
	engine := NewEngine(client)

	result, err := engine.Summarize(context.Background(), nil, "設計レビュー会を主催した")
	require.NoError(t, err)

	assert.True(t, client.called)
	assert.NotEmpty(t, result.DailySummary)
}

func TestSummarize_ValidReply(t *testing.T) {
	client := &fakeClient{reply: validReply}
	engine := NewEngine(client)

	result, err := engine.Summarize(context.Background(), sampleActivities(), "")
	require.NoError(t, err)

	require.Len(t, result.AchievementCandidates, 1)
	c := result.AchievementCandidates[0]
	assert.Equal(t, types.CategoryDevelopment, c.Category)
	assert.Equal(t, types.SignificanceHigh, c.Significance)
	assert.Equal(t, []string{"Go"}, c.Technologies)
}

func TestSummarize_FencedReplyIsStripped(t *testing.T) {
	client := &fakeClient{reply: "```json\n" + validReply + "\n```"}
	engine := NewEngine(client)

	result, err := engine.Summarize(context.Background(), sampleActivities(), "")
	require.NoError(t, err)
	assert.Len(t, result.AchievementCandidates, 1)
}

func TestSummarize_ParseFailurePropagates(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"not json", "the model rambled instead"},
		{"missing summary", `{"achievementCandidates": []}`},
		{"bad category", `{"dailySummary": "x", "achievementCandidates": [{"title": "t", "description": "d", "category": "hacking", "technologies": [], "significance": "low"}]}`},
		{"bad significance", `{"dailySummary": "x", "achievementCandidates": [{"title": "t", "description": "d", "category": "review", "technologies": [], "significance": "critical"}]}`},
		{"title too long", `{"dailySummary": "x", "achievementCandidates": [{"title": "あいうえおかきくけこさしすせそたちつてとなに", "description": "d", "category": "review", "technologies": [], "significance": "low"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine(&fakeClient{reply: tt.reply})
			_, err := engine.Summarize(context.Background(), sampleActivities(), "")
			assert.Error(t, err)
		})
	}
}

func TestSummarize_CallErrorPropagates(t *testing.T) {
	engine := NewEngine(&fakeClient{err: errors.New("quota exceeded")})
	_, err := engine.Summarize(context.Background(), sampleActivities(), "")
	assert.Error(t, err)
}

func TestParseResult_NilCandidatesNormalized(t *testing.T) {
	result, err := ParseResult(`{"dailySummary": "静かな一日", "achievementCandidates": []}`)
	require.NoError(t, err)
	assert.NotNil(t, result.AchievementCandidates)
	assert.Empty(t, result.AchievementCandidates)
}
