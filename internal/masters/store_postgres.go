package masters

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"aurum/internal/platform/postgres"
	id "aurum/pkg/domain"
	"aurum/pkg/platform/sentinel"
)

// PostgresStore persists master records in the master_records table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Upsert(ctx context.Context, record Record) error {
	details, err := json.Marshal(record.Details)
	if err != nil {
		return fmt.Errorf("marshal master details: %w", err)
	}

	query := `
		INSERT INTO master_records (id, tenant_id, kind, name, identifier, secondary, record_date, kyc_status, details, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, $10, $11)
		ON CONFLICT (tenant_id, id) DO UPDATE SET
			kind = EXCLUDED.kind,
			name = EXCLUDED.name,
			identifier = EXCLUDED.identifier,
			secondary = EXCLUDED.secondary,
			record_date = EXCLUDED.record_date,
			kyc_status = EXCLUDED.kyc_status,
			details = EXCLUDED.details,
			updated_at = EXCLUDED.updated_at
	`
	_, err = postgres.Execer(ctx, s.db).ExecContext(ctx, query,
		record.ID,
		record.TenantID.String(),
		string(record.Kind),
		record.Name,
		record.Identifier,
		record.Secondary,
		record.RecordDate,
		string(record.KYCStatus),
		details,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert master record: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, tenantID id.TenantID, recordID string) (Record, error) {
	query := selectColumns + ` WHERE tenant_id = $1 AND id = $2`
	row := postgres.Execer(ctx, s.db).QueryRowContext(ctx, query, tenantID.String(), recordID)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("get master record: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) List(ctx context.Context, tenantID id.TenantID, kind Kind) ([]Record, error) {
	query := selectColumns + ` WHERE tenant_id = $1`
	args := []any{tenantID.String()}
	if kind != "" {
		query += ` AND kind = $2`
		args = append(args, string(kind))
	}
	query += ` ORDER BY id`

	rows, err := postgres.Execer(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list master records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan master record: %w", err)
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate master records: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) SetKYCStatus(ctx context.Context, tenantID id.TenantID, recordID string, status KYCStatus) error {
	query := `
		UPDATE master_records
		SET kyc_status = $3, updated_at = now()
		WHERE tenant_id = $1 AND id = $2
	`
	res, err := postgres.Execer(ctx, s.db).ExecContext(ctx, query, tenantID.String(), recordID, string(status))
	if err != nil {
		return fmt.Errorf("update master kyc status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update master kyc status: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

const selectColumns = `
	SELECT id, tenant_id, kind, name, identifier, secondary, record_date, COALESCE(kyc_status, ''), details, created_at, updated_at
	FROM master_records
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var (
		record     Record
		tenant     string
		kind       string
		kycStatus  string
		rawDetails []byte
	)
	err := row.Scan(
		&record.ID,
		&tenant,
		&kind,
		&record.Name,
		&record.Identifier,
		&record.Secondary,
		&record.RecordDate,
		&kycStatus,
		&rawDetails,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return Record{}, err
	}
	record.TenantID = id.TenantID(tenant)
	record.Kind = Kind(kind)
	record.KYCStatus = KYCStatus(kycStatus)
	if len(rawDetails) > 0 {
		if err := json.Unmarshal(rawDetails, &record.Details); err != nil {
			return Record{}, fmt.Errorf("unmarshal master details: %w", err)
		}
	}
	return record, nil
}
