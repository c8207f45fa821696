package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const profileColumns = `id, user_id, last_name, first_name, last_name_kana, first_name_kana,
	email, phone, address, self_introduction, summary, created_at, updated_at`

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.UserID, &p.LastName, &p.FirstName, &p.LastNameKana, &p.FirstNameKana,
		&p.Email, &p.Phone, &p.Address, &p.SelfIntroduction, &p.Summary, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetOrCreateProfile returns the user's profile, creating an empty one on
// first access.
func (db *DB) GetOrCreateProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	p, err := scanProfile(db.pool.QueryRow(ctx,
		`INSERT INTO profiles (user_id)
		 VALUES ($1)
		 ON CONFLICT (user_id) DO UPDATE SET updated_at = profiles.updated_at
		 RETURNING `+profileColumns,
		userID,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to get or create profile: %w", err)
	}
	return p, nil
}

// ProfileParams carries the writable fields of a profile.
type ProfileParams struct {
	LastName         string `json:"last_name"`
	FirstName        string `json:"first_name"`
	LastNameKana     string `json:"last_name_kana"`
	FirstNameKana    string `json:"first_name_kana"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
	SelfIntroduction string `json:"self_introduction"`
	Summary          string `json:"summary"`
}

// UpdateProfile overwrites a user's profile fields.
func (db *DB) UpdateProfile(ctx context.Context, userID uuid.UUID, params ProfileParams) (*Profile, error) {
	p, err := scanProfile(db.pool.QueryRow(ctx,
		`UPDATE profiles
		 SET last_name = $1, first_name = $2, last_name_kana = $3, first_name_kana = $4,
		     email = $5, phone = $6, address = $7, self_introduction = $8, summary = $9, updated_at = NOW()
		 WHERE user_id = $10
		 RETURNING `+profileColumns,
		params.LastName, params.FirstName, params.LastNameKana, params.FirstNameKana,
		params.Email, params.Phone, params.Address, params.SelfIntroduction, params.Summary, userID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return p, nil
}

// ListWorkHistories retrieves a profile's work histories in display order.
func (db *DB) ListWorkHistories(ctx context.Context, profileID uuid.UUID) ([]WorkHistory, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, profile_id, company_name, company_description, employment_type, position, department,
		        start_date, end_date, is_current, responsibilities, sort_order, created_at, updated_at
		 FROM work_histories WHERE profile_id = $1 ORDER BY sort_order ASC, start_date DESC`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list work histories: %w", err)
	}
	defer rows.Close()

	var histories []WorkHistory
	for rows.Next() {
		var w WorkHistory
		if err := rows.Scan(&w.ID, &w.ProfileID, &w.CompanyName, &w.CompanyDescription, &w.EmploymentType,
			&w.Position, &w.Department, &w.StartDate, &w.EndDate, &w.IsCurrent, &w.Responsibilities,
			&w.SortOrder, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan work history: %w", err)
		}
		histories = append(histories, w)
	}
	return histories, nil
}

// WorkHistoryParams carries the writable fields of a work history entry.
type WorkHistoryParams struct {
	CompanyName        string `json:"company_name"`
	CompanyDescription string `json:"company_description"`
	EmploymentType     string `json:"employment_type"`
	Position           string `json:"position"`
	Department         string `json:"department"`
	StartDate          string `json:"start_date"`
	EndDate            string `json:"end_date"`
	IsCurrent          bool   `json:"is_current"`
	Responsibilities   string `json:"responsibilities"`
	SortOrder          int    `json:"sort_order"`
}

// CreateWorkHistory inserts a work history entry for a profile.
func (db *DB) CreateWorkHistory(ctx context.Context, profileID uuid.UUID, p WorkHistoryParams) (*WorkHistory, error) {
	var w WorkHistory
	err := db.pool.QueryRow(ctx,
		`INSERT INTO work_histories (profile_id, company_name, company_description, employment_type, position,
		                             department, start_date, end_date, is_current, responsibilities, sort_order)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, profile_id, company_name, company_description, employment_type, position, department,
		           start_date, end_date, is_current, responsibilities, sort_order, created_at, updated_at`,
		profileID, p.CompanyName, p.CompanyDescription, p.EmploymentType, p.Position,
		p.Department, p.StartDate, p.EndDate, p.IsCurrent, p.Responsibilities, p.SortOrder,
	).Scan(&w.ID, &w.ProfileID, &w.CompanyName, &w.CompanyDescription, &w.EmploymentType,
		&w.Position, &w.Department, &w.StartDate, &w.EndDate, &w.IsCurrent, &w.Responsibilities,
		&w.SortOrder, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create work history: %w", err)
	}
	return &w, nil
}

// UpdateWorkHistory overwrites a work history entry scoped to its profile.
// Returns (nil, nil) when missing or foreign.
func (db *DB) UpdateWorkHistory(ctx context.Context, workHistoryID, profileID uuid.UUID, p WorkHistoryParams) (*WorkHistory, error) {
	var w WorkHistory
	err := db.pool.QueryRow(ctx,
		`UPDATE work_histories
		 SET company_name = $1, company_description = $2, employment_type = $3, position = $4, department = $5,
		     start_date = $6, end_date = $7, is_current = $8, responsibilities = $9, sort_order = $10, updated_at = NOW()
		 WHERE id = $11 AND profile_id = $12
		 RETURNING id, profile_id, company_name, company_description, employment_type, position, department,
		           start_date, end_date, is_current, responsibilities, sort_order, created_at, updated_at`,
		p.CompanyName, p.CompanyDescription, p.EmploymentType, p.Position, p.Department,
		p.StartDate, p.EndDate, p.IsCurrent, p.Responsibilities, p.SortOrder, workHistoryID, profileID,
	).Scan(&w.ID, &w.ProfileID, &w.CompanyName, &w.CompanyDescription, &w.EmploymentType,
		&w.Position, &w.Department, &w.StartDate, &w.EndDate, &w.IsCurrent, &w.Responsibilities,
		&w.SortOrder, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update work history: %w", err)
	}
	return &w, nil
}

// DeleteWorkHistory removes a work history entry scoped to its profile.
func (db *DB) DeleteWorkHistory(ctx context.Context, workHistoryID, profileID uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM work_histories WHERE id = $1 AND profile_id = $2`,
		workHistoryID, profileID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete work history: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListSkills retrieves a profile's skills in display order.
func (db *DB) ListSkills(ctx context.Context, profileID uuid.UUID) ([]Skill, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, profile_id, category, name, level, years_of_experience, sort_order, created_at, updated_at
		 FROM skills WHERE profile_id = $1 ORDER BY sort_order ASC, category ASC, name ASC`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	defer rows.Close()

	var skills []Skill
	for rows.Next() {
		var s Skill
		if err := rows.Scan(&s.ID, &s.ProfileID, &s.Category, &s.Name, &s.Level, &s.YearsOfExperience,
			&s.SortOrder, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan skill: %w", err)
		}
		skills = append(skills, s)
	}
	return skills, nil
}

// SkillParams carries the writable fields of a skill.
type SkillParams struct {
	Category          string `json:"category"`
	Name              string `json:"name"`
	Level             string `json:"level"`
	YearsOfExperience int    `json:"years_of_experience"`
	SortOrder         int    `json:"sort_order"`
}

// CreateSkill inserts a skill for a profile.
func (db *DB) CreateSkill(ctx context.Context, profileID uuid.UUID, p SkillParams) (*Skill, error) {
	var s Skill
	err := db.pool.QueryRow(ctx,
		`INSERT INTO skills (profile_id, category, name, level, years_of_experience, sort_order)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, profile_id, category, name, level, years_of_experience, sort_order, created_at, updated_at`,
		profileID, p.Category, p.Name, p.Level, p.YearsOfExperience, p.SortOrder,
	).Scan(&s.ID, &s.ProfileID, &s.Category, &s.Name, &s.Level, &s.YearsOfExperience,
		&s.SortOrder, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create skill: %w", err)
	}
	return &s, nil
}

// DeleteSkill removes a skill scoped to its profile.
func (db *DB) DeleteSkill(ctx context.Context, skillID, profileID uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM skills WHERE id = $1 AND profile_id = $2`,
		skillID, profileID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete skill: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
