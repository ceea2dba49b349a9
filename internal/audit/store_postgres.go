package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"aurum/internal/platform/postgres"
	id "aurum/pkg/domain"
)

// PostgresStore persists audit entries in the audit_logs table. Audit writes
// deliberately do NOT join an ambient business transaction: an entry is only
// recorded after the business mutation committed, and a failed append never
// rolls the mutation back.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, entry Entry) error {
	payload, err := json.Marshal(entry.Payload)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	query := `
		INSERT INTO audit_logs (id, tenant_id, actor_id, action, module, payload, logged_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = s.db.ExecContext(ctx, query,
		entry.ID,
		entry.TenantID.String(),
		entry.ActorID.String(),
		entry.Action,
		entry.Module,
		payload,
		entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListRecent(ctx context.Context, tenantID id.TenantID, limit int) ([]Entry, error) {
	query := `
		SELECT id, tenant_id, actor_id, action, module, payload, logged_at
		FROM audit_logs
		WHERE tenant_id = $1
		ORDER BY logged_at DESC
		LIMIT $2
	`
	rows, err := postgres.Execer(ctx, s.db).QueryContext(ctx, query, tenantID.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry      Entry
			rawID      uuid.UUID
			tenant     string
			actor      string
			rawPayload []byte
		)
		if err := rows.Scan(&rawID, &tenant, &actor, &entry.Action, &entry.Module, &rawPayload, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entry.ID = rawID
		entry.TenantID = id.TenantID(tenant)
		entry.ActorID = id.UserID(actor)
		if len(rawPayload) > 0 {
			if err := json.Unmarshal(rawPayload, &entry.Payload); err != nil {
				return nil, fmt.Errorf("unmarshal audit payload: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}
	return entries, nil
}
