package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ktanaka/careerlog/internal/types"
)

// UpsertConnection creates or replaces a user's connection settings for one
// external service. Unique per (user_id, service).
func (db *DB) UpsertConnection(ctx context.Context, userID uuid.UUID, service, label, encryptedConfig string, status types.ConnectionStatus) (*ServiceConnection, error) {
	var c ServiceConnection
	err := db.pool.QueryRow(ctx,
		`INSERT INTO service_connections (user_id, service, label, encrypted_config, status)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id, service)
		 DO UPDATE SET label = $3, encrypted_config = $4, status = $5, updated_at = NOW()
		 RETURNING id, user_id, service, label, encrypted_config, status, last_sync_at, created_at, updated_at`,
		userID, service, label, encryptedConfig, status,
	).Scan(&c.ID, &c.UserID, &c.Service, &c.Label, &c.EncryptedConfig, &c.Status, &c.LastSyncAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert connection: %w", err)
	}
	return &c, nil
}

// GetConnection retrieves a user's connection for one service. Returns
// (nil, nil) when not configured.
func (db *DB) GetConnection(ctx context.Context, userID uuid.UUID, service string) (*ServiceConnection, error) {
	var c ServiceConnection
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, service, label, encrypted_config, status, last_sync_at, created_at, updated_at
		 FROM service_connections WHERE user_id = $1 AND service = $2`,
		userID, service,
	).Scan(&c.ID, &c.UserID, &c.Service, &c.Label, &c.EncryptedConfig, &c.Status, &c.LastSyncAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}
	return &c, nil
}

// TouchConnectionSync records a successful sync and the connection status.
func (db *DB) TouchConnectionSync(ctx context.Context, connectionID uuid.UUID, status types.ConnectionStatus) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE service_connections SET status = $1, last_sync_at = NOW(), updated_at = NOW() WHERE id = $2`,
		status, connectionID,
	)
	if err != nil {
		return fmt.Errorf("failed to touch connection: %w", err)
	}
	return nil
}

// DeleteConnection removes a user's connection for one service.
func (db *DB) DeleteConnection(ctx context.Context, userID uuid.UUID, service string) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM service_connections WHERE user_id = $1 AND service = $2`,
		userID, service,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete connection: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
