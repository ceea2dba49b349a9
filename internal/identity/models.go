package identity

import (
	"time"

	id "aurum/pkg/domain"
)

// User is an authenticated operator of one tenant.
type User struct {
	ID           id.UserID   `json:"id"`
	TenantID     id.TenantID `json:"tenantId"`
	Username     string      `json:"username"`
	PasswordHash string      `json:"-"`
	Role         id.Role     `json:"role"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// Tenant is one operating business entity, the isolation boundary for all
// data in the system.
type Tenant struct {
	ID        id.TenantID `json:"id"`
	Name      string      `json:"name"`
	Active    bool        `json:"active"`
	CreatedAt time.Time   `json:"createdAt"`
}
