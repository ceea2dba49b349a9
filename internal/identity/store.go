package identity

import (
	"context"

	id "aurum/pkg/domain"
)

// Store persists tenants and users. Username lookup is global: usernames are
// unique across tenants so login does not need a tenant hint.
type Store interface {
	CreateTenant(ctx context.Context, tenant Tenant) error
	GetTenant(ctx context.Context, tenantID id.TenantID) (Tenant, error)
	CreateUser(ctx context.Context, user User) error
	GetUserByUsername(ctx context.Context, username string) (User, error)
}
