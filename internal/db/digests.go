package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ktanaka/careerlog/internal/types"
)

// UpsertDigest creates the digest for (user, date) or overwrites its count
// and status in place. The conditional insert-or-update runs as one
// statement on the unique (user_id, date) key, so two concurrent collection
// requests for the same day cannot produce duplicate rows.
func (db *DB) UpsertDigest(ctx context.Context, userID uuid.UUID, date string, activityCount int, status types.DigestStatus) (*Digest, error) {
	var d Digest
	err := db.pool.QueryRow(ctx,
		`INSERT INTO daily_digests (user_id, date, activity_count, status)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, date)
		 DO UPDATE SET activity_count = $3, status = $4, updated_at = NOW()
		 RETURNING id, user_id, date, activity_count, summary_text, status, created_at, updated_at`,
		userID, date, activityCount, status,
	).Scan(&d.ID, &d.UserID, &d.Date, &d.ActivityCount, &d.SummaryText, &d.Status, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert digest: %w", err)
	}
	return &d, nil
}

// SetDigestSummary stores the daily summary and moves the digest to ready.
func (db *DB) SetDigestSummary(ctx context.Context, digestID uuid.UUID, summary string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE daily_digests
		 SET summary_text = $1, status = $2, updated_at = NOW()
		 WHERE id = $3`,
		summary, types.DigestReady, digestID,
	)
	if err != nil {
		return fmt.Errorf("failed to set digest summary: %w", err)
	}
	return nil
}

// SetDigestStatus updates only the digest status. Used for the rollback to
// collecting when summarization fails and for the derived reviewed state.
func (db *DB) SetDigestStatus(ctx context.Context, digestID uuid.UUID, status types.DigestStatus) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE daily_digests SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, digestID,
	)
	if err != nil {
		return fmt.Errorf("failed to set digest status: %w", err)
	}
	return nil
}

// GetDigest retrieves a digest by ID. Returns (nil, nil) when not found.
func (db *DB) GetDigest(ctx context.Context, id uuid.UUID) (*Digest, error) {
	var d Digest
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, date, activity_count, summary_text, status, created_at, updated_at
		 FROM daily_digests WHERE id = $1`,
		id,
	).Scan(&d.ID, &d.UserID, &d.Date, &d.ActivityCount, &d.SummaryText, &d.Status, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get digest: %w", err)
	}
	return &d, nil
}

// GetDigestByDate retrieves a user's digest for one date. Returns (nil, nil)
// when not found.
func (db *DB) GetDigestByDate(ctx context.Context, userID uuid.UUID, date string) (*Digest, error) {
	var d Digest
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, date, activity_count, summary_text, status, created_at, updated_at
		 FROM daily_digests WHERE user_id = $1 AND date = $2`,
		userID, date,
	).Scan(&d.ID, &d.UserID, &d.Date, &d.ActivityCount, &d.SummaryText, &d.Status, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get digest by date: %w", err)
	}
	return &d, nil
}

// ListDigests retrieves a user's digests newest first.
func (db *DB) ListDigests(ctx context.Context, userID uuid.UUID, limit int) ([]Digest, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, date, activity_count, summary_text, status, created_at, updated_at
		 FROM daily_digests WHERE user_id = $1 ORDER BY date DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list digests: %w", err)
	}
	defer rows.Close()

	var digests []Digest
	for rows.Next() {
		var d Digest
		if err := rows.Scan(&d.ID, &d.UserID, &d.Date, &d.ActivityCount, &d.SummaryText, &d.Status, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan digest: %w", err)
		}
		digests = append(digests, d)
	}
	return digests, nil
}

// DigestHasPendingCandidates reports whether any candidate of the digest is
// still pending review.
func (db *DB) DigestHasPendingCandidates(ctx context.Context, digestID uuid.UUID) (bool, error) {
	var count int
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM achievement_candidates WHERE digest_id = $1 AND status = $2`,
		digestID, types.CandidatePending,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to count pending candidates: %w", err)
	}
	return count > 0, nil
}
