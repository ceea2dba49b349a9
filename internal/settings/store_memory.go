package settings

import (
	"context"
	"maps"
	"sync"

	id "aurum/pkg/domain"
	"aurum/pkg/platform/sentinel"
)

// InMemoryStore keeps settings per tenant.
type InMemoryStore struct {
	mu     sync.RWMutex
	values map[id.TenantID]map[string]string
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{values: make(map[id.TenantID]map[string]string)}
}

func (s *InMemoryStore) Get(_ context.Context, tenantID id.TenantID, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[tenantID][key]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	return value, nil
}

func (s *InMemoryStore) Set(_ context.Context, tenantID id.TenantID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tenant, ok := s.values[tenantID]
	if !ok {
		tenant = make(map[string]string)
		s.values[tenantID] = tenant
	}
	tenant[key] = value
	return nil
}

func (s *InMemoryStore) All(_ context.Context, tenantID id.TenantID) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.values[tenantID]), nil
}
