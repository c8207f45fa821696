package digest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ktanaka/careerlog/internal/types"
)

func TestBuildPrompt_EmbedsActivities(t *testing.T) {
	activities := []types.RawActivity{
		{
			ActivityType: types.ActivityPRMerged,
			Title:        "Migrate sessions to Redis",
			Body:         "Moves session storage off the local disk.",
			Metadata:     map[string]any{"repo": "acme/auth"},
		},
		{
			ActivityType: types.ActivityIssueClosed,
			Title:        "Crash on empty config",
		},
	}

	prompt := BuildPrompt(activities, "")

	assert.Contains(t, prompt, "[pr_merged] Migrate sessions to Redis")
	assert.Contains(t, prompt, "詳細: Moves session storage off the local disk.")
	assert.Contains(t, prompt, "リポジトリ: acme/auth")
	assert.Contains(t, prompt, "[issue_closed] Crash on empty config")
	// Every persisted category value is offered to the model.
	for _, c := range types.Categories() {
		assert.Contains(t, prompt, string(c))
	}
}

func TestBuildPrompt_ManualNotesSection(t *testing.T) {
	prompt := BuildPrompt(nil, "障害対応の振り返り会を主催")
	assert.Contains(t, prompt, "## 手動メモ")
	assert.Contains(t, prompt, "障害対応の振り返り会を主催")

	without := BuildPrompt(nil, "")
	assert.NotContains(t, without, "## 手動メモ")
}

func TestBuildPrompt_BodyExcerptTruncated(t *testing.T) {
	long := strings.Repeat("あ", 500)
	prompt := BuildPrompt([]types.RawActivity{
		{ActivityType: types.ActivityPRMerged, Title: "big PR", Body: long},
	}, "")

	assert.Contains(t, prompt, strings.Repeat("あ", bodyExcerptLimit))
	assert.NotContains(t, prompt, strings.Repeat("あ", bodyExcerptLimit+1))
}
