package types

// ResumeContent is the structured body of a generated 職務経歴書. The model
// is required to return exactly this shape; see internal/resume for the
// schema that gates acceptance.
type ResumeContent struct {
	Title         string              `json:"title"`
	Date          string              `json:"date"`
	Name          string              `json:"name"`
	Summary       string              `json:"summary"`
	Skills        []SkillGroup        `json:"skills"`
	WorkHistories []WorkHistoryEntry  `json:"workHistories"`
	SelfPR        string              `json:"selfPR"`
}

// SkillGroup is one skill category with its member skills.
type SkillGroup struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

// WorkHistoryEntry is one company in the generated document.
type WorkHistoryEntry struct {
	CompanyName        string         `json:"companyName"`
	Period             string         `json:"period"`
	EmploymentType     string         `json:"employmentType"`
	Position           string         `json:"position"`
	Department         string         `json:"department"`
	CompanyDescription string         `json:"companyDescription"`
	Projects           []ProjectEntry `json:"projects"`
}

// ProjectEntry is one project under a company, carrying achievement bullets.
type ProjectEntry struct {
	Name         string   `json:"name"`
	Period       string   `json:"period"`
	Role         string   `json:"role"`
	TeamSize     string   `json:"teamSize"`
	Description  string   `json:"description"`
	Achievements []string `json:"achievements"`
	Technologies []string `json:"technologies"`
}
