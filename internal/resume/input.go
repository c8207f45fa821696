// Package resume generates structured 職務経歴書 content from a user's
// profile, work history, skills, and confirmed achievements.
package resume

import "github.com/ktanaka/careerlog/internal/types"

// ProfileInput is the subset of the profile the generator needs.
type ProfileInput struct {
	LastName         string `json:"lastName"`
	FirstName        string `json:"firstName"`
	Summary          string `json:"summary,omitempty"`
	SelfIntroduction string `json:"selfIntroduction,omitempty"`
}

// WorkHistoryInput is one employment entry fed to the generator.
type WorkHistoryInput struct {
	CompanyName        string `json:"companyName"`
	CompanyDescription string `json:"companyDescription,omitempty"`
	EmploymentType     string `json:"employmentType,omitempty"`
	Position           string `json:"position,omitempty"`
	Department         string `json:"department,omitempty"`
	StartDate          string `json:"startDate"`
	EndDate            string `json:"endDate,omitempty"`
	IsCurrent          bool   `json:"isCurrent,omitempty"`
	Responsibilities   string `json:"responsibilities,omitempty"`
}

// AchievementInput is one confirmed achievement fed to the generator.
type AchievementInput struct {
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Category     types.Category `json:"category"`
	Technologies []string       `json:"technologies"`
	Period       string         `json:"period,omitempty"`
	ProjectName  string         `json:"projectName,omitempty"`
}

// SkillInput is one skill row fed to the generator.
type SkillInput struct {
	Category          string `json:"category"`
	Name              string `json:"name"`
	Level             string `json:"level,omitempty"`
	YearsOfExperience int    `json:"yearsOfExperience,omitempty"`
}

// Input is everything one generation run consumes.
type Input struct {
	Format         types.ResumeFormat
	Profile        ProfileInput
	WorkHistories  []WorkHistoryInput
	Achievements   []AchievementInput
	Skills         []SkillInput
	TargetCompany  string
	TargetPosition string
}
