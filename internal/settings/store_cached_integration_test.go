//go:build integration

package settings_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"aurum/internal/settings"
	id "aurum/pkg/domain"
	"aurum/pkg/testutil/containers"
)

type CachedStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	inner *settings.InMemoryStore
	store *settings.CachedStore
}

func TestCachedStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(CachedStoreSuite))
}

func (s *CachedStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
}

func (s *CachedStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.inner = settings.NewInMemoryStore()
	s.store = settings.NewCachedStore(s.inner, s.redis.Client, log)
}

const tenantID = id.TenantID("TENANT-IT")

func (s *CachedStoreSuite) TestReadThroughFillsCache() {
	ctx := context.Background()
	s.Require().NoError(s.inner.Set(ctx, tenantID, settings.KeyGoldRate, "7250"))

	got, err := s.store.Get(ctx, tenantID, settings.KeyGoldRate)
	s.Require().NoError(err)
	s.Equal("7250", got)

	// Reads now come off the cache: changing the inner store directly is
	// invisible until the TTL or an invalidating Set.
	s.Require().NoError(s.inner.Set(ctx, tenantID, settings.KeyGoldRate, "7300"))
	got, err = s.store.Get(ctx, tenantID, settings.KeyGoldRate)
	s.Require().NoError(err)
	s.Equal("7250", got)
}

func (s *CachedStoreSuite) TestSetInvalidates() {
	ctx := context.Background()
	s.Require().NoError(s.store.Set(ctx, tenantID, settings.KeySilverRate, "94"))

	got, err := s.store.Get(ctx, tenantID, settings.KeySilverRate)
	s.Require().NoError(err)
	s.Equal("94", got)

	s.Require().NoError(s.store.Set(ctx, tenantID, settings.KeySilverRate, "95"))
	got, err = s.store.Get(ctx, tenantID, settings.KeySilverRate)
	s.Require().NoError(err)
	s.Equal("95", got)
}

func (s *CachedStoreSuite) TestTenantKeysAreDistinct() {
	ctx := context.Background()
	other := id.TenantID("TENANT-OTHER")
	s.Require().NoError(s.store.Set(ctx, tenantID, settings.KeyGoldRate, "7250"))
	s.Require().NoError(s.store.Set(ctx, other, settings.KeyGoldRate, "7111"))

	got, err := s.store.Get(ctx, tenantID, settings.KeyGoldRate)
	s.Require().NoError(err)
	s.Equal("7250", got)

	got, err = s.store.Get(ctx, other, settings.KeyGoldRate)
	s.Require().NoError(err)
	s.Equal("7111", got)
}
