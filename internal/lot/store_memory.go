package lot

import (
	"context"
	"sort"
	"sync"

	id "aurum/pkg/domain"
	"aurum/pkg/platform/sentinel"
)

// InMemoryStore keeps lots per tenant. RunInTx holds the store lock for the
// whole callback and restores a snapshot on error, giving the same
// all-or-nothing guarantee the SQL store gets from a database transaction.
type InMemoryStore struct {
	mu   sync.Mutex
	lots map[id.TenantID]map[id.LotNo]Lot
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{lots: make(map[id.TenantID]map[id.LotNo]Lot)}
}

type memTxKey struct{}

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(memTxKey{}).(struct{})
	return ok
}

// lock acquires the store lock unless the caller already holds it through
// RunInTx. Returns the matching unlock.
func (s *InMemoryStore) lock(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *InMemoryStore) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.cloneAll()
	if err := fn(context.WithValue(ctx, memTxKey{}, struct{}{})); err != nil {
		s.lots = snapshot
		return err
	}
	return nil
}

func (s *InMemoryStore) Upsert(ctx context.Context, lot Lot) error {
	defer s.lock(ctx)()

	tenant, ok := s.lots[lot.TenantID]
	if !ok {
		tenant = make(map[id.LotNo]Lot)
		s.lots[lot.TenantID] = tenant
	}
	if existing, ok := tenant[lot.LotNo]; ok {
		lot.CreatedAt = existing.CreatedAt
	}
	tenant[lot.LotNo] = cloneLot(lot)
	return nil
}

func (s *InMemoryStore) Get(ctx context.Context, tenantID id.TenantID, lotNo id.LotNo) (Lot, error) {
	defer s.lock(ctx)()

	lot, ok := s.lots[tenantID][lotNo]
	if !ok {
		return Lot{}, sentinel.ErrNotFound
	}
	return cloneLot(lot), nil
}

func (s *InMemoryStore) List(ctx context.Context, tenantID id.TenantID) ([]Lot, error) {
	defer s.lock(ctx)()

	var out []Lot
	for _, lot := range s.lots[tenantID] {
		out = append(out, cloneLot(lot))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LotNo < out[j].LotNo })
	return out, nil
}

func (s *InMemoryStore) ListByStatus(ctx context.Context, tenantID id.TenantID, status Status) ([]Lot, error) {
	defer s.lock(ctx)()

	var out []Lot
	for _, lot := range s.lots[tenantID] {
		if lot.Status == status {
			out = append(out, cloneLot(lot))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LotNo < out[j].LotNo })
	return out, nil
}

func (s *InMemoryStore) ApplyStatus(ctx context.Context, tenantID id.TenantID, lotNo id.LotNo, change StatusChange) error {
	defer s.lock(ctx)()

	lot, ok := s.lots[tenantID][lotNo]
	if !ok {
		return sentinel.ErrNotFound
	}
	if lot.Status != change.From {
		return sentinel.ErrInvalidState
	}

	lot.Status = change.To
	if change.SetRemarks {
		lot.Remarks = change.Remarks
	}
	if change.DecidedBy != "" {
		lot.DecidedBy = change.DecidedBy
		lot.DecidedAt = change.DecidedAt
	}
	lot.UpdatedAt = change.At
	s.lots[tenantID][lotNo] = lot
	return nil
}

func (s *InMemoryStore) UpsertLogistics(ctx context.Context, tenantID id.TenantID, lotNo id.LotNo, detail LogisticsDetail) error {
	defer s.lock(ctx)()

	lot, ok := s.lots[tenantID][lotNo]
	if !ok {
		return sentinel.ErrNotFound
	}
	d := detail
	lot.Logistics = &d
	s.lots[tenantID][lotNo] = lot
	return nil
}

func (s *InMemoryStore) UpsertMelting(ctx context.Context, tenantID id.TenantID, lotNo id.LotNo, detail MeltingDetail) error {
	defer s.lock(ctx)()

	lot, ok := s.lots[tenantID][lotNo]
	if !ok {
		return sentinel.ErrNotFound
	}
	d := detail
	lot.Melting = &d
	s.lots[tenantID][lotNo] = lot
	return nil
}

func (s *InMemoryStore) UpsertDisbursement(ctx context.Context, tenantID id.TenantID, lotNo id.LotNo, record DisbursementRecord) error {
	defer s.lock(ctx)()

	lot, ok := s.lots[tenantID][lotNo]
	if !ok {
		return sentinel.ErrNotFound
	}
	d := record
	lot.Disbursement = &d
	s.lots[tenantID][lotNo] = lot
	return nil
}

func (s *InMemoryStore) cloneAll() map[id.TenantID]map[id.LotNo]Lot {
	out := make(map[id.TenantID]map[id.LotNo]Lot, len(s.lots))
	for tenantID, lots := range s.lots {
		inner := make(map[id.LotNo]Lot, len(lots))
		for lotNo, lot := range lots {
			inner[lotNo] = cloneLot(lot)
		}
		out[tenantID] = inner
	}
	return out
}

func cloneLot(lot Lot) Lot {
	out := lot
	out.Items = make([]MaterialRow, len(lot.Items))
	copy(out.Items, lot.Items)
	if lot.Logistics != nil {
		d := *lot.Logistics
		out.Logistics = &d
	}
	if lot.Melting != nil {
		d := *lot.Melting
		out.Melting = &d
	}
	if lot.Disbursement != nil {
		d := *lot.Disbursement
		out.Disbursement = &d
	}
	if lot.DecidedAt != nil {
		t := *lot.DecidedAt
		out.DecidedAt = &t
	}
	return out
}
