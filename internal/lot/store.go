package lot

import (
	"context"
	"time"

	id "aurum/pkg/domain"
)

// StatusChange is one conditional state-machine step. The store must apply
// it as an atomic check-and-update: the write takes effect only if the lot
// is observed in From at write time, so exactly one of two racing callers
// wins and the loser sees sentinel.ErrInvalidState.
type StatusChange struct {
	From Status
	To   Status

	// SetRemarks controls whether Remarks overwrites the stored value.
	SetRemarks bool
	Remarks    string

	// Decision stamp, set by approve/reject only.
	DecidedBy id.UserID
	DecidedAt *time.Time

	At time.Time
}

// Store persists lots and their phase detail records. Every method is
// tenant-scoped. Multi-record transitions run their writes inside RunInTx;
// a store must guarantee that a failed callback leaves no partial state.
type Store interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error

	// Upsert inserts the lot or replaces its mutable fields, and replaces
	// the item list wholesale.
	Upsert(ctx context.Context, lot Lot) error

	Get(ctx context.Context, tenantID id.TenantID, lotNo id.LotNo) (Lot, error)
	List(ctx context.Context, tenantID id.TenantID) ([]Lot, error)
	ListByStatus(ctx context.Context, tenantID id.TenantID, status Status) ([]Lot, error)

	// ApplyStatus performs the conditional state-machine step. Returns
	// sentinel.ErrNotFound if the lot does not exist in the tenant and
	// sentinel.ErrInvalidState if it exists in a different state than
	// change.From.
	ApplyStatus(ctx context.Context, tenantID id.TenantID, lotNo id.LotNo, change StatusChange) error

	UpsertLogistics(ctx context.Context, tenantID id.TenantID, lotNo id.LotNo, detail LogisticsDetail) error
	UpsertMelting(ctx context.Context, tenantID id.TenantID, lotNo id.LotNo, detail MeltingDetail) error
	UpsertDisbursement(ctx context.Context, tenantID id.TenantID, lotNo id.LotNo, record DisbursementRecord) error
}
