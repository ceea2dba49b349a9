package masters

import (
	"time"

	id "aurum/pkg/domain"
	dErrors "aurum/pkg/domain-errors"
)

// Kind is the closed set of reference-entity kinds the registry manages.
// The registry keeps one uniform upsert/list contract across kinds; the tag
// regains type safety over a loosely-typed discriminator column.
type Kind string

const (
	KindFranchise    Kind = "FRANCHISE"
	KindDesignation  Kind = "DESIGNATION"
	KindOrnamentType Kind = "ORNAMENT_TYPE"
	KindHub          Kind = "HUB"
	KindBuyer        Kind = "BUYER"
	KindStaff        Kind = "STAFF"
	KindCustomer     Kind = "CUSTOMER"
)

var allKinds = map[Kind]struct{}{
	KindFranchise:    {},
	KindDesignation:  {},
	KindOrnamentType: {},
	KindHub:          {},
	KindBuyer:        {},
	KindStaff:        {},
	KindCustomer:     {},
}

// ParseKind validates a wire-level kind string.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if _, ok := allKinds[k]; !ok {
		return "", dErrors.NewField("kind", "unknown master kind")
	}
	return k, nil
}

// KYCStatus tracks document verification for Customer records only.
type KYCStatus string

const (
	KYCPending  KYCStatus = "pending"
	KYCVerified KYCStatus = "verified"
	KYCFailed   KYCStatus = "failed"
)

// Record is one reference entity: a franchise branch, a hub, a buyer, a
// customer and so on. Records are upserted by id within a tenant and never
// hard-deleted, so historical lots keep resolvable references.
type Record struct {
	ID         string            `json:"id"`
	TenantID   id.TenantID       `json:"-"`
	Kind       Kind              `json:"kind"`
	Name       string            `json:"name"`
	Identifier string            `json:"identifier"`
	Secondary  string            `json:"secondary,omitempty"`
	RecordDate string            `json:"date,omitempty"`
	KYCStatus  KYCStatus         `json:"kycStatus,omitempty"`
	Details    map[string]string `json:"details,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}
