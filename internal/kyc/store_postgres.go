package kyc

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"aurum/internal/platform/postgres"
	id "aurum/pkg/domain"
)

// PostgresStore persists verification events in the kyc_records table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, record Record) error {
	query := `
		INSERT INTO kyc_records (id, tenant_id, masked_id, full_name, outcome, remarks, verified_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := postgres.Execer(ctx, s.db).ExecContext(ctx, query,
		record.ID,
		record.TenantID.String(),
		record.MaskedID,
		record.FullName,
		string(record.Outcome),
		record.Remarks,
		record.VerifiedAt,
	)
	if err != nil {
		return fmt.Errorf("insert kyc record: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListRecent(ctx context.Context, tenantID id.TenantID, limit int) ([]Record, error) {
	query := `
		SELECT id, tenant_id, masked_id, full_name, outcome, remarks, verified_at
		FROM kyc_records
		WHERE tenant_id = $1
		ORDER BY verified_at DESC
		LIMIT $2
	`
	rows, err := postgres.Execer(ctx, s.db).QueryContext(ctx, query, tenantID.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("query kyc records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			record  Record
			rawID   uuid.UUID
			tenant  string
			outcome string
		)
		if err := rows.Scan(&rawID, &tenant, &record.MaskedID, &record.FullName, &outcome, &record.Remarks, &record.VerifiedAt); err != nil {
			return nil, fmt.Errorf("scan kyc record: %w", err)
		}
		record.ID = rawID
		record.TenantID = id.TenantID(tenant)
		record.Outcome = Outcome(outcome)
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate kyc records: %w", err)
	}
	return out, nil
}
