package masters

import (
	"context"
	"maps"
	"sort"
	"sync"

	id "aurum/pkg/domain"
	"aurum/pkg/platform/sentinel"
)

// InMemoryStore keeps master records per tenant. Used in unit tests and for
// running the server without a database.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[id.TenantID]map[string]Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[id.TenantID]map[string]Record)}
}

func (s *InMemoryStore) Upsert(_ context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tenant, ok := s.records[record.TenantID]
	if !ok {
		tenant = make(map[string]Record)
		s.records[record.TenantID] = tenant
	}
	if existing, ok := tenant[record.ID]; ok {
		record.CreatedAt = existing.CreatedAt
	}
	record.Details = maps.Clone(record.Details)
	tenant[record.ID] = record
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, tenantID id.TenantID, recordID string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[tenantID][recordID]
	if !ok {
		return Record{}, sentinel.ErrNotFound
	}
	record.Details = maps.Clone(record.Details)
	return record, nil
}

func (s *InMemoryStore) List(_ context.Context, tenantID id.TenantID, kind Kind) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Record
	for _, record := range s.records[tenantID] {
		if kind != "" && record.Kind != kind {
			continue
		}
		record.Details = maps.Clone(record.Details)
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) SetKYCStatus(_ context.Context, tenantID id.TenantID, recordID string, status KYCStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[tenantID][recordID]
	if !ok {
		return sentinel.ErrNotFound
	}
	record.KYCStatus = status
	s.records[tenantID][recordID] = record
	return nil
}
