package audit

import (
	"context"
	"sort"
	"sync"

	id "aurum/pkg/domain"
)

// InMemoryStore keeps audit entries per tenant. Used in tests and when no
// database is configured.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[id.TenantID][]Entry
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[id.TenantID][]Entry)}
}

func (s *InMemoryStore) Append(_ context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.TenantID] = append(s.entries[entry.TenantID], entry)
	return nil
}

func (s *InMemoryStore) ListRecent(_ context.Context, tenantID id.TenantID, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := append([]Entry{}, s.entries[tenantID]...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
