// Package domain holds the shared identifier types that flow between
// modules. Keeping them typed prevents accidental cross-wiring of tenant,
// user, and lot identifiers in service signatures.
package domain

import "strings"

// TenantID is the isolation boundary for every entity in the system.
// Nothing is ever visible or mutable across tenants.
type TenantID string

func (t TenantID) String() string { return string(t) }

func (t TenantID) IsZero() bool { return t == "" }

// UserID identifies an authenticated actor within a tenant.
type UserID string

func (u UserID) String() string { return string(u) }

func (u UserID) IsZero() bool { return u == "" }

// LotNo is the natural key of a metal lot. Generation is the branch client's
// concern; the engine only enforces uniqueness within a tenant.
type LotNo string

func (l LotNo) String() string { return string(l) }

func (l LotNo) IsZero() bool { return strings.TrimSpace(string(l)) == "" }

// Role is the coarse capability level carried in the bearer credential.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER" // Regional Head, the approver role
	RoleStaff   Role = "STAFF"
)

// CanApprove reports whether the role carries the lot-approval capability.
func (r Role) CanApprove() bool {
	return r == RoleAdmin || r == RoleManager
}

// IsAdmin reports whether the role grants administrative reads such as the
// audit trail.
func (r Role) IsAdmin() bool { return r == RoleAdmin }

// ParseRole normalizes a role string from a credential or seed file.
// Unknown values map to RoleStaff, the least-privileged role.
func ParseRole(s string) Role {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleManager:
		return RoleManager
	default:
		return RoleStaff
	}
}
