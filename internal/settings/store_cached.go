package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	id "aurum/pkg/domain"
)

const cacheTTL = 30 * time.Second

// CachedStore is a Redis read-through decorator over another Store. Market
// rates are read on nearly every state sync; the short TTL keeps reads off
// the database while an operator update still lands within seconds. Cache
// faults degrade to the inner store, never to an error.
type CachedStore struct {
	inner  Store
	client *redis.Client
	logger *slog.Logger
}

func NewCachedStore(inner Store, client *redis.Client, logger *slog.Logger) *CachedStore {
	return &CachedStore{inner: inner, client: client, logger: logger}
}

func cacheKey(tenantID id.TenantID, key string) string {
	return fmt.Sprintf("aurum:settings:%s:%s", tenantID, key)
}

func (s *CachedStore) Get(ctx context.Context, tenantID id.TenantID, key string) (string, error) {
	cached, err := s.client.Get(ctx, cacheKey(tenantID, key)).Result()
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, redis.Nil) {
		s.logger.WarnContext(ctx, "settings cache read failed", "key", key, "error", err)
	}

	value, err := s.inner.Get(ctx, tenantID, key)
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, cacheKey(tenantID, key), value, cacheTTL).Err(); err != nil {
		s.logger.WarnContext(ctx, "settings cache fill failed", "key", key, "error", err)
	}
	return value, nil
}

func (s *CachedStore) Set(ctx context.Context, tenantID id.TenantID, key, value string) error {
	if err := s.inner.Set(ctx, tenantID, key, value); err != nil {
		return err
	}
	// Invalidate rather than write through, so a durable write is never
	// shadowed by a failed cache write.
	if err := s.client.Del(ctx, cacheKey(tenantID, key)).Err(); err != nil {
		s.logger.WarnContext(ctx, "settings cache invalidate failed", "key", key, "error", err)
	}
	return nil
}

func (s *CachedStore) All(ctx context.Context, tenantID id.TenantID) (map[string]string, error) {
	return s.inner.All(ctx, tenantID)
}
