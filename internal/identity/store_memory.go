package identity

import (
	"context"
	"sync"

	id "aurum/pkg/domain"
	"aurum/pkg/platform/sentinel"
)

// InMemoryStore keeps tenants and users in maps.
type InMemoryStore struct {
	mu      sync.RWMutex
	tenants map[id.TenantID]Tenant
	users   map[string]User // keyed by username
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		tenants: make(map[id.TenantID]Tenant),
		users:   make(map[string]User),
	}
}

func (s *InMemoryStore) CreateTenant(_ context.Context, tenant Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tenants[tenant.ID]; ok {
		return sentinel.ErrConflict
	}
	s.tenants[tenant.ID] = tenant
	return nil
}

func (s *InMemoryStore) GetTenant(_ context.Context, tenantID id.TenantID) (Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tenant, ok := s.tenants[tenantID]
	if !ok {
		return Tenant{}, sentinel.ErrNotFound
	}
	return tenant, nil
}

func (s *InMemoryStore) CreateUser(_ context.Context, user User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Username]; ok {
		return sentinel.ErrConflict
	}
	s.users[user.Username] = user
	return nil
}

func (s *InMemoryStore) GetUserByUsername(_ context.Context, username string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[username]
	if !ok {
		return User{}, sentinel.ErrNotFound
	}
	return user, nil
}
