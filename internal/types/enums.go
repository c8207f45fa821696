// Package types provides shared type definitions for the careerlog system.
// Every enum that appears in prompts, request validation, and persisted rows
// is declared exactly once here so the model's allowed output values and the
// stored values cannot drift apart.
package types

// Category classifies an achievement by the kind of work it represents.
type Category string

// Category values. These are the only values the digestion prompt offers the
// model and the only values accepted from it.
const (
	CategoryDevelopment   Category = "development"
	CategoryReview        Category = "review"
	CategoryBugfix        Category = "bugfix"
	CategoryDesign        Category = "design"
	CategoryDocumentation Category = "documentation"
	CategoryCommunication Category = "communication"
	CategoryLeadership    Category = "leadership"
)

// Categories lists all valid categories in display order.
func Categories() []Category {
	return []Category{
		CategoryDevelopment,
		CategoryReview,
		CategoryBugfix,
		CategoryDesign,
		CategoryDocumentation,
		CategoryCommunication,
		CategoryLeadership,
	}
}

// Valid reports whether c is a declared category.
func (c Category) Valid() bool {
	switch c {
	case CategoryDevelopment, CategoryReview, CategoryBugfix, CategoryDesign,
		CategoryDocumentation, CategoryCommunication, CategoryLeadership:
		return true
	}
	return false
}

// Significance is the model-assigned importance tier of a candidate.
type Significance string

// Significance values.
const (
	SignificanceHigh   Significance = "high"
	SignificanceMedium Significance = "medium"
	SignificanceLow    Significance = "low"
)

// Valid reports whether s is a declared significance tier.
func (s Significance) Valid() bool {
	switch s {
	case SignificanceHigh, SignificanceMedium, SignificanceLow:
		return true
	}
	return false
}

// DigestStatus tracks a daily digest through its lifecycle.
type DigestStatus string

// Digest lifecycle: collecting -> summarizing -> ready, with a rollback to
// collecting when summarization fails. Reviewed is derived externally once
// every candidate has left pending.
const (
	DigestCollecting  DigestStatus = "collecting"
	DigestSummarizing DigestStatus = "summarizing"
	DigestReady       DigestStatus = "ready"
	DigestReviewed    DigestStatus = "reviewed"
)

// CandidateStatus tracks an achievement candidate. All transitions out of
// pending are one-way.
type CandidateStatus string

// Candidate lifecycle values.
const (
	CandidatePending  CandidateStatus = "pending"
	CandidateAccepted CandidateStatus = "accepted"
	CandidateRejected CandidateStatus = "rejected"
	CandidateEdited   CandidateStatus = "edited"
)

// Terminal reports whether the status is past review.
func (s CandidateStatus) Terminal() bool {
	return s == CandidateAccepted || s == CandidateRejected || s == CandidateEdited
}

// ConnectionStatus is the health of an external service connection.
type ConnectionStatus string

// Connection status values.
const (
	ConnectionActive   ConnectionStatus = "active"
	ConnectionInactive ConnectionStatus = "inactive"
	ConnectionError    ConnectionStatus = "error"
)

// DocumentStatus tracks a generated document. Finalization is one-way.
type DocumentStatus string

// Document status values.
const (
	DocumentDraft     DocumentStatus = "draft"
	DocumentFinalized DocumentStatus = "finalized"
)

// ResumeFormat selects the ordering convention of a 職務経歴書.
type ResumeFormat string

// Resume format values.
const (
	FormatReverseChronological ResumeFormat = "reverse_chronological"
	FormatChronological        ResumeFormat = "chronological"
	FormatCareerBased          ResumeFormat = "career_based"
)

// Valid reports whether f is a declared resume format.
func (f ResumeFormat) Valid() bool {
	switch f {
	case FormatReverseChronological, FormatChronological, FormatCareerBased:
		return true
	}
	return false
}

// Label returns the Japanese name of the format used in prompts and headings.
func (f ResumeFormat) Label() string {
	switch f {
	case FormatChronological:
		return "編年体"
	case FormatCareerBased:
		return "キャリア"
	default:
		return "逆編年体"
	}
}
