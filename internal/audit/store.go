package audit

import (
	"context"

	id "aurum/pkg/domain"
)

// Store persists audit entries. Append-only: no update or delete surface.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	// ListRecent returns the tenant's newest entries first, bounded by limit.
	ListRecent(ctx context.Context, tenantID id.TenantID, limit int) ([]Entry, error)
}
