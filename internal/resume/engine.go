package resume

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ktanaka/careerlog/internal/llm"
	"github.com/ktanaka/careerlog/internal/types"
)

// Engine generates structured resume documents through an LLM.
type Engine struct {
	client llm.Client
	now    func() time.Time
}

// NewEngine creates a resume generation engine over an LLM client.
func NewEngine(client llm.Client) *Engine {
	return &Engine{client: client, now: time.Now}
}

// Generate produces the structured document content for the given input.
// A call or parse failure is a hard error; no partial document is returned.
func (e *Engine) Generate(ctx context.Context, input Input) (*types.ResumeContent, error) {
	prompt := BuildPrompt(input, e.now())

	raw, err := e.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("generation call failed: %w", err)
	}

	return ParseContent(raw)
}

// ParseContent validates and decodes a fence-stripped model reply.
func ParseContent(raw string) (*types.ResumeContent, error) {
	raw = llm.CleanJSONBlock(raw)

	if err := validateContent(raw); err != nil {
		return nil, err
	}

	var content types.ResumeContent
	if err := json.Unmarshal([]byte(raw), &content); err != nil {
		return nil, fmt.Errorf("failed to parse model output: %w", err)
	}
	return &content, nil
}
