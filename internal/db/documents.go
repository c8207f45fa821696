package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ktanaka/careerlog/internal/types"
)

// DocumentParams carries the fields of a newly generated document.
type DocumentParams struct {
	Title          string
	Format         types.ResumeFormat
	Content        types.ResumeContent
	TargetCompany  string
	TargetPosition string
}

const documentColumns = `id, user_id, title, format, content, target_company, target_position, version, status, created_at, updated_at`

func scanDocument(row pgx.Row) (*Document, error) {
	var d Document
	err := row.Scan(&d.ID, &d.UserID, &d.Title, &d.Format, &d.Content, &d.TargetCompany,
		&d.TargetPosition, &d.Version, &d.Status, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// CreateDocument stores a generated resume document. Version counts the
// documents the user already has plus one.
func (db *DB) CreateDocument(ctx context.Context, userID uuid.UUID, p DocumentParams) (*Document, error) {
	row := db.pool.QueryRow(ctx,
		`INSERT INTO documents (user_id, title, format, content, target_company, target_position, version, status)
		 VALUES ($1, $2, $3, $4, $5, $6,
		         (SELECT COUNT(*) + 1 FROM documents WHERE user_id = $1), $7)
		 RETURNING `+documentColumns,
		userID, p.Title, p.Format, p.Content, p.TargetCompany, p.TargetPosition, types.DocumentDraft,
	)
	doc, err := scanDocument(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	return doc, nil
}

// GetDocument retrieves a document owned by the given user.
// Returns (nil, nil) when no such document exists.
func (db *DB) GetDocument(ctx context.Context, documentID, userID uuid.UUID) (*Document, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = $1 AND user_id = $2`,
		documentID, userID,
	)
	doc, err := scanDocument(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return doc, nil
}

// ListDocuments retrieves a user's documents, newest first.
func (db *DB) ListDocuments(ctx context.Context, userID uuid.UUID) ([]Document, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.UserID, &d.Title, &d.Format, &d.Content, &d.TargetCompany,
			&d.TargetPosition, &d.Version, &d.Status, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, nil
}

// FinalizeDocument marks a draft document as finalized. Finalizing an
// already finalized document leaves it unchanged.
// Returns (nil, nil) when no such document exists.
func (db *DB) FinalizeDocument(ctx context.Context, documentID, userID uuid.UUID) (*Document, error) {
	row := db.pool.QueryRow(ctx,
		`UPDATE documents
		 SET status = $3, updated_at = CASE WHEN status = $3 THEN updated_at ELSE NOW() END
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+documentColumns,
		documentID, userID, types.DocumentFinalized,
	)
	doc, err := scanDocument(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to finalize document: %w", err)
	}
	return doc, nil
}

// DeleteDocument removes a document owned by the given user.
func (db *DB) DeleteDocument(ctx context.Context, documentID, userID uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM documents WHERE id = $1 AND user_id = $2`,
		documentID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete document: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
