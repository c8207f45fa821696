package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ktanaka/careerlog/internal/types"
)

// AchievementParams carries the writable fields of an achievement.
type AchievementParams struct {
	CandidateID  *uuid.UUID
	ProjectID    *uuid.UUID
	Title        string
	Description  string
	Category     types.Category
	Technologies []string
	Period       string
	SortOrder    int
}

// CreateAchievement inserts a durable achievement for a user.
func (db *DB) CreateAchievement(ctx context.Context, userID uuid.UUID, p AchievementParams) (*Achievement, error) {
	var a Achievement
	err := db.pool.QueryRow(ctx,
		`INSERT INTO achievements (user_id, candidate_id, project_id, title, description, category, technologies, period, sort_order)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, user_id, candidate_id, project_id, title, description, category, technologies, period, sort_order, created_at, updated_at`,
		userID, p.CandidateID, p.ProjectID, p.Title, p.Description, p.Category, p.Technologies, p.Period, p.SortOrder,
	).Scan(&a.ID, &a.UserID, &a.CandidateID, &a.ProjectID, &a.Title, &a.Description, &a.Category,
		&a.Technologies, &a.Period, &a.SortOrder, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create achievement: %w", err)
	}
	return &a, nil
}

// GetAchievement retrieves one achievement scoped to its owner. Returns
// (nil, nil) when missing or owned by someone else.
func (db *DB) GetAchievement(ctx context.Context, achievementID, userID uuid.UUID) (*Achievement, error) {
	var a Achievement
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, candidate_id, project_id, title, description, category, technologies, period, sort_order, created_at, updated_at
		 FROM achievements WHERE id = $1 AND user_id = $2`,
		achievementID, userID,
	).Scan(&a.ID, &a.UserID, &a.CandidateID, &a.ProjectID, &a.Title, &a.Description, &a.Category,
		&a.Technologies, &a.Period, &a.SortOrder, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get achievement: %w", err)
	}
	return &a, nil
}

// ListAchievements retrieves a user's achievements in display order.
func (db *DB) ListAchievements(ctx context.Context, userID uuid.UUID) ([]Achievement, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, candidate_id, project_id, title, description, category, technologies, period, sort_order, created_at, updated_at
		 FROM achievements WHERE user_id = $1 ORDER BY sort_order ASC, created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	defer rows.Close()

	return scanAchievements(rows)
}

// ListAchievementsByIDs retrieves the given achievements, all scoped to one
// user. Unknown or foreign IDs are simply absent from the result.
func (db *DB) ListAchievementsByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]Achievement, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, candidate_id, project_id, title, description, category, technologies, period, sort_order, created_at, updated_at
		 FROM achievements WHERE user_id = $1 AND id = ANY($2) ORDER BY sort_order ASC, created_at DESC`,
		userID, ids,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements by ids: %w", err)
	}
	defer rows.Close()

	return scanAchievements(rows)
}

// UpdateAchievement overwrites the writable fields of an achievement scoped
// to its owner. Returns (nil, nil) when missing or foreign.
func (db *DB) UpdateAchievement(ctx context.Context, achievementID, userID uuid.UUID, p AchievementParams) (*Achievement, error) {
	var a Achievement
	err := db.pool.QueryRow(ctx,
		`UPDATE achievements
		 SET project_id = $1, title = $2, description = $3, category = $4,
		     technologies = $5, period = $6, sort_order = $7, updated_at = NOW()
		 WHERE id = $8 AND user_id = $9
		 RETURNING id, user_id, candidate_id, project_id, title, description, category, technologies, period, sort_order, created_at, updated_at`,
		p.ProjectID, p.Title, p.Description, p.Category, p.Technologies, p.Period, p.SortOrder,
		achievementID, userID,
	).Scan(&a.ID, &a.UserID, &a.CandidateID, &a.ProjectID, &a.Title, &a.Description, &a.Category,
		&a.Technologies, &a.Period, &a.SortOrder, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update achievement: %w", err)
	}
	return &a, nil
}

// DeleteAchievement removes an achievement scoped to its owner. Returns
// whether a row was deleted.
func (db *DB) DeleteAchievement(ctx context.Context, achievementID, userID uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM achievements WHERE id = $1 AND user_id = $2`,
		achievementID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete achievement: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanAchievements(rows pgx.Rows) ([]Achievement, error) {
	var achievements []Achievement
	for rows.Next() {
		var a Achievement
		if err := rows.Scan(&a.ID, &a.UserID, &a.CandidateID, &a.ProjectID, &a.Title, &a.Description,
			&a.Category, &a.Technologies, &a.Period, &a.SortOrder, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		achievements = append(achievements, a)
	}
	return achievements, nil
}
