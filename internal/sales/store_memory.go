package sales

import (
	"context"
	"sort"
	"sync"

	id "aurum/pkg/domain"
	"aurum/pkg/platform/sentinel"
)

// InMemoryStore keeps sales orders per tenant.
type InMemoryStore struct {
	mu     sync.RWMutex
	orders map[id.TenantID]map[string]Order
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{orders: make(map[id.TenantID]map[string]Order)}
}

func (s *InMemoryStore) Upsert(_ context.Context, order Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tenant, ok := s.orders[order.TenantID]
	if !ok {
		tenant = make(map[string]Order)
		s.orders[order.TenantID] = tenant
	}
	if existing, ok := tenant[order.ID]; ok {
		order.CreatedAt = existing.CreatedAt
	}
	items := make([]OrderItem, len(order.Items))
	copy(items, order.Items)
	order.Items = items
	tenant[order.ID] = order
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, tenantID id.TenantID, orderID string) (Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[tenantID][orderID]
	if !ok {
		return Order{}, sentinel.ErrNotFound
	}
	items := make([]OrderItem, len(order.Items))
	copy(items, order.Items)
	order.Items = items
	return order, nil
}

func (s *InMemoryStore) List(_ context.Context, tenantID id.TenantID) ([]Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Order
	for _, order := range s.orders[tenantID] {
		items := make([]OrderItem, len(order.Items))
		copy(items, order.Items)
		order.Items = items
		out = append(out, order)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
