package types

// CandidateDraft is one achievement candidate as proposed by the model,
// before it is persisted against a digest.
type CandidateDraft struct {
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Category     Category     `json:"category"`
	Technologies []string     `json:"technologies"`
	Significance Significance `json:"significance"`
}

// DigestResult is the structured output of one digestion run.
type DigestResult struct {
	DailySummary          string           `json:"dailySummary"`
	AchievementCandidates []CandidateDraft `json:"achievementCandidates"`
}
