package digest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ktanaka/careerlog/internal/llm"
	"github.com/ktanaka/careerlog/internal/types"
)

// Engine digests a day's activity into a summary and candidates.
type Engine struct {
	client llm.Client
}

// NewEngine creates a digestion engine over an LLM client.
func NewEngine(client llm.Client) *Engine {
	return &Engine{client: client}
}

// Summarize produces the daily summary and achievement candidates for the
// given activities and optional manual notes.
//
// With no activities and no notes it returns the fixed empty-day result
// without contacting the model. Otherwise the model reply is fence-stripped,
// schema-validated, and decoded; any failure on that path is returned as an
// error so the caller can roll the digest back.
func (e *Engine) Summarize(ctx context.Context, activities []types.RawActivity, manualNotes string) (*types.DigestResult, error) {
	if len(activities) == 0 && manualNotes == "" {
		return &types.DigestResult{
			DailySummary:          EmptySummary,
			AchievementCandidates: []types.CandidateDraft{},
		}, nil
	}

	prompt := BuildPrompt(activities, manualNotes)

	raw, err := e.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, fmt.Errorf("summarization call failed: %w", err)
	}

	return ParseResult(raw)
}

// ParseResult validates and decodes a fence-stripped model reply.
func ParseResult(raw string) (*types.DigestResult, error) {
	raw = llm.CleanJSONBlock(raw)

	if err := validateResult(raw); err != nil {
		return nil, err
	}

	var result types.DigestResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("failed to parse model output: %w", err)
	}
	if result.AchievementCandidates == nil {
		result.AchievementCandidates = []types.CandidateDraft{}
	}
	return &result, nil
}
