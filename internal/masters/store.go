package masters

import (
	"context"

	id "aurum/pkg/domain"
)

// Store persists master records. Every method is tenant-scoped; a lookup for
// an id that exists under another tenant returns sentinel.ErrNotFound.
type Store interface {
	// Upsert inserts the record if its id is unseen within the tenant,
	// otherwise replaces all fields except tenant, id and creation time.
	Upsert(ctx context.Context, record Record) error

	// Get returns a single record by id.
	Get(ctx context.Context, tenantID id.TenantID, recordID string) (Record, error)

	// List returns all the tenant's records, optionally filtered by kind
	// (empty kind means all). Order is unspecified.
	List(ctx context.Context, tenantID id.TenantID, kind Kind) ([]Record, error)

	// SetKYCStatus updates the verification status of a Customer record.
	SetKYCStatus(ctx context.Context, tenantID id.TenantID, recordID string, status KYCStatus) error
}
