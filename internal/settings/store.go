package settings

import (
	"context"

	id "aurum/pkg/domain"
)

// Well-known setting keys.
const (
	KeyGoldRate   = "goldRate"
	KeySilverRate = "silverRate"
)

// Store persists per-tenant key-value settings. Last write wins; settings
// are operator-set administrative values, not contested by concurrent
// writers in practice.
type Store interface {
	Get(ctx context.Context, tenantID id.TenantID, key string) (string, error)
	Set(ctx context.Context, tenantID id.TenantID, key, value string) error
	All(ctx context.Context, tenantID id.TenantID) (map[string]string, error)
}
