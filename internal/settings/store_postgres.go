package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"aurum/internal/platform/postgres"
	id "aurum/pkg/domain"
	"aurum/pkg/platform/sentinel"
)

// PostgresStore persists settings in the global_settings table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, tenantID id.TenantID, key string) (string, error) {
	var value string
	err := postgres.Execer(ctx, s.db).QueryRowContext(ctx,
		`SELECT value FROM global_settings WHERE tenant_id = $1 AND key = $2`,
		tenantID.String(), key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get setting: %w", err)
	}
	return value, nil
}

func (s *PostgresStore) Set(ctx context.Context, tenantID id.TenantID, key, value string) error {
	query := `
		INSERT INTO global_settings (tenant_id, key, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (tenant_id, key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = now()
	`
	if _, err := postgres.Execer(ctx, s.db).ExecContext(ctx, query, tenantID.String(), key, value); err != nil {
		return fmt.Errorf("set setting: %w", err)
	}
	return nil
}

func (s *PostgresStore) All(ctx context.Context, tenantID id.TenantID) (map[string]string, error) {
	rows, err := postgres.Execer(ctx, s.db).QueryContext(ctx,
		`SELECT key, value FROM global_settings WHERE tenant_id = $1`,
		tenantID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		out[key] = value
	}
	return out, rows.Err()
}
