package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// CertificationParams carries the writable fields of a certification.
type CertificationParams struct {
	Name                string `json:"name"`
	IssuingOrganization string `json:"issuing_organization"`
	AcquiredDate        string `json:"acquired_date"`
	SortOrder           int    `json:"sort_order"`
}

// CreateCertification inserts a certification for a profile.
func (db *DB) CreateCertification(ctx context.Context, profileID uuid.UUID, p CertificationParams) (*Certification, error) {
	var c Certification
	err := db.pool.QueryRow(ctx,
		`INSERT INTO certifications (profile_id, name, issuing_organization, acquired_date, sort_order)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, profile_id, name, issuing_organization, acquired_date, sort_order, created_at, updated_at`,
		profileID, p.Name, p.IssuingOrganization, p.AcquiredDate, p.SortOrder,
	).Scan(&c.ID, &c.ProfileID, &c.Name, &c.IssuingOrganization, &c.AcquiredDate,
		&c.SortOrder, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create certification: %w", err)
	}
	return &c, nil
}

// ListCertifications retrieves a profile's certifications in display order.
func (db *DB) ListCertifications(ctx context.Context, profileID uuid.UUID) ([]Certification, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, profile_id, name, issuing_organization, acquired_date, sort_order, created_at, updated_at
		 FROM certifications WHERE profile_id = $1 ORDER BY sort_order ASC, acquired_date DESC`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list certifications: %w", err)
	}
	defer rows.Close()

	var certs []Certification
	for rows.Next() {
		var c Certification
		if err := rows.Scan(&c.ID, &c.ProfileID, &c.Name, &c.IssuingOrganization, &c.AcquiredDate,
			&c.SortOrder, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan certification: %w", err)
		}
		certs = append(certs, c)
	}
	return certs, nil
}

// DeleteCertification removes a certification scoped to its profile.
func (db *DB) DeleteCertification(ctx context.Context, certificationID, profileID uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM certifications WHERE id = $1 AND profile_id = $2`,
		certificationID, profileID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete certification: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// EducationParams carries the writable fields of an education entry.
type EducationParams struct {
	SchoolName string `json:"school_name"`
	Faculty    string `json:"faculty"`
	Degree     string `json:"degree"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Status     string `json:"status"`
	SortOrder  int    `json:"sort_order"`
}

// CreateEducation inserts an education entry for a profile.
func (db *DB) CreateEducation(ctx context.Context, profileID uuid.UUID, p EducationParams) (*Education, error) {
	var e Education
	err := db.pool.QueryRow(ctx,
		`INSERT INTO educations (profile_id, school_name, faculty, degree, start_date, end_date, status, sort_order)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, profile_id, school_name, faculty, degree, start_date, end_date, status, sort_order, created_at, updated_at`,
		profileID, p.SchoolName, p.Faculty, p.Degree, p.StartDate, p.EndDate, p.Status, p.SortOrder,
	).Scan(&e.ID, &e.ProfileID, &e.SchoolName, &e.Faculty, &e.Degree, &e.StartDate, &e.EndDate,
		&e.Status, &e.SortOrder, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create education: %w", err)
	}
	return &e, nil
}

// ListEducations retrieves a profile's education entries in display order.
func (db *DB) ListEducations(ctx context.Context, profileID uuid.UUID) ([]Education, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, profile_id, school_name, faculty, degree, start_date, end_date, status, sort_order, created_at, updated_at
		 FROM educations WHERE profile_id = $1 ORDER BY sort_order ASC, start_date DESC`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list educations: %w", err)
	}
	defer rows.Close()

	var educations []Education
	for rows.Next() {
		var e Education
		if err := rows.Scan(&e.ID, &e.ProfileID, &e.SchoolName, &e.Faculty, &e.Degree, &e.StartDate,
			&e.EndDate, &e.Status, &e.SortOrder, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan education: %w", err)
		}
		educations = append(educations, e)
	}
	return educations, nil
}

// DeleteEducation removes an education entry scoped to its profile.
func (db *DB) DeleteEducation(ctx context.Context, educationID, profileID uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM educations WHERE id = $1 AND profile_id = $2`,
		educationID, profileID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete education: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
