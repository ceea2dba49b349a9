package kyc

import (
	"context"
	"sort"
	"sync"

	id "aurum/pkg/domain"
)

// InMemoryStore keeps verification events per tenant.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[id.TenantID][]Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[id.TenantID][]Record)}
}

func (s *InMemoryStore) Append(_ context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.TenantID] = append(s.records[record.TenantID], record)
	return nil
}

func (s *InMemoryStore) ListRecent(_ context.Context, tenantID id.TenantID, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, len(s.records[tenantID]))
	copy(out, s.records[tenantID])
	sort.Slice(out, func(i, j int) bool { return out[i].VerifiedAt.After(out[j].VerifiedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
