package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/ktanaka/careerlog/internal/types"
)

// User represents a user account record
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Digest represents one day's aggregated activity for one user. Unique per
// (user_id, date).
type Digest struct {
	ID            uuid.UUID          `json:"id"`
	UserID        uuid.UUID          `json:"user_id"`
	Date          string             `json:"date"` // YYYY-MM-DD
	ActivityCount int                `json:"activity_count"`
	SummaryText   *string            `json:"summary_text,omitempty"`
	Status        types.DigestStatus `json:"status"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// Candidate represents an AI-proposed achievement awaiting review. Owned by
// a digest and cascade-deleted with it.
type Candidate struct {
	ID           uuid.UUID             `json:"id"`
	DigestID     uuid.UUID             `json:"digest_id"`
	Title        string                `json:"title"`
	Description  string                `json:"description"`
	Category     types.Category        `json:"category"`
	Technologies []string              `json:"technologies"`
	Significance types.Significance    `json:"significance"`
	Status       types.CandidateStatus `json:"status"`
	CreatedAt    time.Time             `json:"created_at"`
}

// CandidateWithDigest pairs a candidate with its owning digest's key fields,
// used when review needs the digest date and owner.
type CandidateWithDigest struct {
	Candidate
	DigestUserID uuid.UUID `json:"-"`
	DigestDate   string    `json:"digest_date"`
}

// Achievement is a user-confirmed accomplishment record.
type Achievement struct {
	ID           uuid.UUID      `json:"id"`
	UserID       uuid.UUID      `json:"user_id"`
	CandidateID  *uuid.UUID     `json:"candidate_id,omitempty"`
	ProjectID    *uuid.UUID     `json:"project_id,omitempty"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Category     types.Category `json:"category"`
	Technologies []string       `json:"technologies"`
	Period       string         `json:"period,omitempty"` // YYYY-MM or YYYY-MM-DD
	SortOrder    int            `json:"sort_order"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// ServiceConnection holds one user's encrypted external-service settings.
type ServiceConnection struct {
	ID              uuid.UUID              `json:"id"`
	UserID          uuid.UUID              `json:"user_id"`
	Service         string                 `json:"service"`
	Label           string                 `json:"label"`
	EncryptedConfig string                 `json:"-"`
	Status          types.ConnectionStatus `json:"status"`
	LastSyncAt      *time.Time             `json:"last_sync_at,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// Profile is the user's personal information sheet.
type Profile struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	LastName         string    `json:"last_name"`
	FirstName        string    `json:"first_name"`
	LastNameKana     string    `json:"last_name_kana,omitempty"`
	FirstNameKana    string    `json:"first_name_kana,omitempty"`
	Email            string    `json:"email,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	Address          string    `json:"address,omitempty"`
	SelfIntroduction string    `json:"self_introduction,omitempty"`
	Summary          string    `json:"summary,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// WorkHistory is one employment entry on a profile.
type WorkHistory struct {
	ID                 uuid.UUID `json:"id"`
	ProfileID          uuid.UUID `json:"profile_id"`
	CompanyName        string    `json:"company_name"`
	CompanyDescription string    `json:"company_description,omitempty"`
	EmploymentType     string    `json:"employment_type,omitempty"`
	Position           string    `json:"position,omitempty"`
	Department         string    `json:"department,omitempty"`
	StartDate          string    `json:"start_date"` // YYYY-MM
	EndDate            string    `json:"end_date,omitempty"`
	IsCurrent          bool      `json:"is_current"`
	Responsibilities   string    `json:"responsibilities,omitempty"`
	SortOrder          int       `json:"sort_order"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Skill is one skill row on a profile.
type Skill struct {
	ID                uuid.UUID `json:"id"`
	ProfileID         uuid.UUID `json:"profile_id"`
	Category          string    `json:"category"`
	Name              string    `json:"name"`
	Level             string    `json:"level,omitempty"`
	YearsOfExperience int       `json:"years_of_experience,omitempty"`
	SortOrder         int       `json:"sort_order"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Certification is one licence/certification row on a profile.
type Certification struct {
	ID                  uuid.UUID `json:"id"`
	ProfileID           uuid.UUID `json:"profile_id"`
	Name                string    `json:"name"`
	IssuingOrganization string    `json:"issuing_organization,omitempty"`
	AcquiredDate        string    `json:"acquired_date,omitempty"`
	SortOrder           int       `json:"sort_order"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Education is one education row on a profile.
type Education struct {
	ID         uuid.UUID `json:"id"`
	ProfileID  uuid.UUID `json:"profile_id"`
	SchoolName string    `json:"school_name"`
	Faculty    string    `json:"faculty,omitempty"`
	Degree     string    `json:"degree,omitempty"`
	StartDate  string    `json:"start_date,omitempty"`
	EndDate    string    `json:"end_date,omitempty"`
	Status     string    `json:"status"`
	SortOrder  int       `json:"sort_order"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Project groups achievements under a named engagement. Deleting a project
// leaves its achievements in place with the link cleared.
type Project struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Company     string    `json:"company,omitempty"`
	StartDate   string    `json:"start_date,omitempty"` // YYYY-MM
	EndDate     string    `json:"end_date,omitempty"`
	Description string    `json:"description,omitempty"`
	Role        string    `json:"role,omitempty"`
	TeamSize    string    `json:"team_size,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Document is a generated 職務経歴書 with its structured content.
type Document struct {
	ID             uuid.UUID            `json:"id"`
	UserID         uuid.UUID            `json:"user_id"`
	Title          string               `json:"title"`
	Format         types.ResumeFormat   `json:"format"`
	Content        types.ResumeContent  `json:"content"`
	TargetCompany  string               `json:"target_company,omitempty"`
	TargetPosition string               `json:"target_position,omitempty"`
	Version        int                  `json:"version"`
	Status         types.DocumentStatus `json:"status"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}
