package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProjectParams carries the writable fields of a project.
type ProjectParams struct {
	Name        string
	Company     string
	StartDate   string
	EndDate     string
	Description string
	Role        string
	TeamSize    string
}

const projectColumns = `id, user_id, name, company, start_date, end_date, description, role, team_size, created_at, updated_at`

func scanProject(row pgx.Row) (*Project, error) {
	var p Project
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Company, &p.StartDate, &p.EndDate,
		&p.Description, &p.Role, &p.TeamSize, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProject inserts a project for a user.
func (db *DB) CreateProject(ctx context.Context, userID uuid.UUID, p ProjectParams) (*Project, error) {
	row := db.pool.QueryRow(ctx,
		`INSERT INTO projects (user_id, name, company, start_date, end_date, description, role, team_size)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+projectColumns,
		userID, p.Name, p.Company, p.StartDate, p.EndDate, p.Description, p.Role, p.TeamSize,
	)
	project, err := scanProject(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return project, nil
}

// GetProject retrieves a project owned by the given user.
// Returns (nil, nil) when no such project exists.
func (db *DB) GetProject(ctx context.Context, projectID, userID uuid.UUID) (*Project, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1 AND user_id = $2`,
		projectID, userID,
	)
	project, err := scanProject(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

// ListProjects retrieves a user's projects, most recent engagement first.
func (db *DB) ListProjects(ctx context.Context, userID uuid.UUID) ([]Project, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE user_id = $1 ORDER BY start_date DESC, created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Company, &p.StartDate, &p.EndDate,
			&p.Description, &p.Role, &p.TeamSize, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, nil
}

// UpdateProject updates a project owned by the given user.
// Returns (nil, nil) when no such project exists.
func (db *DB) UpdateProject(ctx context.Context, projectID, userID uuid.UUID, p ProjectParams) (*Project, error) {
	row := db.pool.QueryRow(ctx,
		`UPDATE projects
		 SET name = $3, company = $4, start_date = $5, end_date = $6,
		     description = $7, role = $8, team_size = $9, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+projectColumns,
		projectID, userID, p.Name, p.Company, p.StartDate, p.EndDate, p.Description, p.Role, p.TeamSize,
	)
	project, err := scanProject(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}

// DeleteProject removes a project owned by the given user. Achievements
// referencing it keep their rows; the foreign key sets project_id to NULL.
func (db *DB) DeleteProject(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM projects WHERE id = $1 AND user_id = $2`,
		projectID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete project: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
