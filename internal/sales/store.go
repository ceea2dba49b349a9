package sales

import (
	"context"

	id "aurum/pkg/domain"
)

// Store persists sales orders. Tenant-scoped throughout.
type Store interface {
	// Upsert inserts the order or replaces its fields and item list.
	Upsert(ctx context.Context, order Order) error
	Get(ctx context.Context, tenantID id.TenantID, orderID string) (Order, error)
	List(ctx context.Context, tenantID id.TenantID) ([]Order, error)
}
