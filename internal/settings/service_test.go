package settings

import (
	"context"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	id "aurum/pkg/domain"
	dErrors "aurum/pkg/domain-errors"
	"aurum/pkg/requestcontext"
)

type noopAuditor struct{}

func (noopAuditor) Record(context.Context, string, string, map[string]any) {}

type SettingsServiceSuite struct {
	suite.Suite
	service *Service
	ctx     context.Context
}

func (s *SettingsServiceSuite) SetupTest() {
	s.service = NewService(NewInMemoryStore(), noopAuditor{}, slog.Default())
	s.ctx = requestcontext.WithIdentity(context.Background(), "TENANT-A", "USER-001", id.RoleAdmin)
}

func (s *SettingsServiceSuite) TestGetFallsBackWhenUnset() {
	value, err := s.service.Get(s.ctx, "invoicePrefix", "INV")
	s.Require().NoError(err)
	s.Equal("INV", value)
}

func (s *SettingsServiceSuite) TestLastWriteWins() {
	s.Require().NoError(s.service.Set(s.ctx, KeyGoldRate, "7200"))
	s.Require().NoError(s.service.Set(s.ctx, KeyGoldRate, "7250"))

	value, err := s.service.Get(s.ctx, KeyGoldRate, "0")
	s.Require().NoError(err)
	s.Equal("7250", value)
}

func (s *SettingsServiceSuite) TestMarketRates() {
	err := s.service.SetMarketRates(s.ctx, decimal.NewFromInt(7250), decimal.NewFromInt(94))
	s.Require().NoError(err)

	gold, silver, err := s.service.MarketRates(s.ctx)
	s.Require().NoError(err)
	s.Equal(7250.0, gold)
	s.Equal(94.0, silver)
}

func (s *SettingsServiceSuite) TestMarketRatesDefaultZero() {
	gold, silver, err := s.service.MarketRates(s.ctx)
	s.Require().NoError(err)
	s.Zero(gold)
	s.Zero(silver)
}

func (s *SettingsServiceSuite) TestMarketRatesMustBePositive() {
	err := s.service.SetMarketRates(s.ctx, decimal.Zero, decimal.NewFromInt(94))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *SettingsServiceSuite) TestTenantIsolation() {
	s.Require().NoError(s.service.Set(s.ctx, KeyGoldRate, "7250"))

	ctxB := requestcontext.WithIdentity(context.Background(), "TENANT-B", "USER-099", id.RoleAdmin)
	value, err := s.service.Get(ctxB, KeyGoldRate, "0")
	s.Require().NoError(err)
	s.Equal("0", value)
}

func TestSettingsServiceSuite(t *testing.T) {
	suite.Run(t, new(SettingsServiceSuite))
}
