package kyc

import (
	"context"

	id "aurum/pkg/domain"
)

// Store persists verification events. Append-only.
type Store interface {
	Append(ctx context.Context, record Record) error
	ListRecent(ctx context.Context, tenantID id.TenantID, limit int) ([]Record, error)
}
