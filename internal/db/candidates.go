package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ktanaka/careerlog/internal/types"
)

// InsertCandidate stores one model-proposed candidate against a digest.
func (db *DB) InsertCandidate(ctx context.Context, digestID uuid.UUID, draft types.CandidateDraft) (*Candidate, error) {
	var c Candidate
	err := db.pool.QueryRow(ctx,
		`INSERT INTO achievement_candidates (digest_id, title, description, category, technologies, significance, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, digest_id, title, description, category, technologies, significance, status, created_at`,
		digestID, draft.Title, draft.Description, draft.Category, draft.Technologies, draft.Significance, types.CandidatePending,
	).Scan(&c.ID, &c.DigestID, &c.Title, &c.Description, &c.Category, &c.Technologies, &c.Significance, &c.Status, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert candidate: %w", err)
	}
	return &c, nil
}

// DeletePendingCandidates removes a digest's still-pending candidates.
// Re-collection calls this so stale proposals do not pile up; reviewed
// candidates keep their rows.
func (db *DB) DeletePendingCandidates(ctx context.Context, digestID uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`DELETE FROM achievement_candidates WHERE digest_id = $1 AND status = $2`,
		digestID, types.CandidatePending,
	)
	if err != nil {
		return fmt.Errorf("failed to delete pending candidates: %w", err)
	}
	return nil
}

// ListPendingCandidates retrieves a user's pending candidates newest first,
// with each candidate's digest date attached.
func (db *DB) ListPendingCandidates(ctx context.Context, userID uuid.UUID) ([]CandidateWithDigest, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT c.id, c.digest_id, c.title, c.description, c.category, c.technologies,
		        c.significance, c.status, c.created_at, d.user_id, d.date
		 FROM achievement_candidates c
		 JOIN daily_digests d ON d.id = c.digest_id
		 WHERE d.user_id = $1 AND c.status = $2
		 ORDER BY c.created_at DESC`,
		userID, types.CandidatePending,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending candidates: %w", err)
	}
	defer rows.Close()

	var candidates []CandidateWithDigest
	for rows.Next() {
		var c CandidateWithDigest
		if err := rows.Scan(&c.ID, &c.DigestID, &c.Title, &c.Description, &c.Category, &c.Technologies,
			&c.Significance, &c.Status, &c.CreatedAt, &c.DigestUserID, &c.DigestDate); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// GetCandidateForUser retrieves a candidate only if its owning digest
// belongs to userID. Returns (nil, nil) otherwise, so foreign candidates are
// indistinguishable from missing ones.
func (db *DB) GetCandidateForUser(ctx context.Context, candidateID, userID uuid.UUID) (*CandidateWithDigest, error) {
	var c CandidateWithDigest
	err := db.pool.QueryRow(ctx,
		`SELECT c.id, c.digest_id, c.title, c.description, c.category, c.technologies,
		        c.significance, c.status, c.created_at, d.user_id, d.date
		 FROM achievement_candidates c
		 JOIN daily_digests d ON d.id = c.digest_id
		 WHERE c.id = $1 AND d.user_id = $2`,
		candidateID, userID,
	).Scan(&c.ID, &c.DigestID, &c.Title, &c.Description, &c.Category, &c.Technologies,
		&c.Significance, &c.Status, &c.CreatedAt, &c.DigestUserID, &c.DigestDate)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	return &c, nil
}

// SetCandidateStatus flips a candidate's status. The WHERE clause only
// matches pending rows, so terminal candidates stay terminal; the returned
// bool reports whether a row actually changed.
func (db *DB) SetCandidateStatus(ctx context.Context, candidateID uuid.UUID, status types.CandidateStatus) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE achievement_candidates SET status = $1 WHERE id = $2 AND status = $3`,
		status, candidateID, types.CandidatePending,
	)
	if err != nil {
		return false, fmt.Errorf("failed to set candidate status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
