package types

// ActivityType identifies the kind of work item a raw activity records.
type ActivityType string

// Activity types emitted by source adapters.
const (
	ActivityPRMerged    ActivityType = "pr_merged"
	ActivityPRReviewed  ActivityType = "pr_reviewed"
	ActivityIssueClosed ActivityType = "issue_closed"
	ActivityCommit      ActivityType = "commit"
)

// RawActivity is one work item pulled from an external source for a single
// day. Raw activities are transient: only the digest derived from them is
// persisted, never the raw text itself.
type RawActivity struct {
	Source       string         `json:"source"`
	ActivityType ActivityType   `json:"activity_type"`
	Title        string         `json:"title"`
	Body         string         `json:"body"`
	ExternalURL  string         `json:"external_url"`
	Metadata     map[string]any `json:"metadata"`
}

// Repo returns the repository identifier from the activity metadata, or ""
// when the source did not record one.
func (a RawActivity) Repo() string {
	if a.Metadata == nil {
		return ""
	}
	repo, _ := a.Metadata["repo"].(string)
	return repo
}
