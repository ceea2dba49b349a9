package settings

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/shopspring/decimal"

	"aurum/internal/audit"
	dErrors "aurum/pkg/domain-errors"
	"aurum/pkg/platform/sentinel"
	"aurum/pkg/requestcontext"
)

// Auditor records mutating actions. Fire-and-forget.
type Auditor interface {
	Record(ctx context.Context, action, module string, payload map[string]any)
}

// Service is the per-tenant settings surface. Values are strings; the
// well-known market-rate keys hold numeric rates.
type Service struct {
	store   Store
	auditor Auditor
	logger  *slog.Logger
}

func NewService(store Store, auditor Auditor, logger *slog.Logger) *Service {
	return &Service{store: store, auditor: auditor, logger: logger}
}

// Get returns the tenant's value for key, or fallback when unset.
func (s *Service) Get(ctx context.Context, key, fallback string) (string, error) {
	value, err := s.store.Get(ctx, requestcontext.TenantID(ctx), key)
	if errors.Is(err, sentinel.ErrNotFound) {
		return fallback, nil
	}
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to read setting")
	}
	return value, nil
}

// Set writes one setting. Last write wins.
func (s *Service) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return dErrors.NewField("key", "key is required")
	}
	if err := s.store.Set(ctx, requestcontext.TenantID(ctx), key, value); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to write setting")
	}
	s.auditor.Record(ctx, audit.ActionSet, audit.ModuleSettings, map[string]any{
		"key": key,
	})
	return nil
}

// SetMarketRates writes the current gold and silver rates.
func (s *Service) SetMarketRates(ctx context.Context, gold, silver decimal.Decimal) error {
	if !gold.IsPositive() {
		return dErrors.NewField("gold", "gold rate must be greater than zero")
	}
	if !silver.IsPositive() {
		return dErrors.NewField("silver", "silver rate must be greater than zero")
	}

	tenantID := requestcontext.TenantID(ctx)
	if err := s.store.Set(ctx, tenantID, KeyGoldRate, gold.String()); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to write gold rate")
	}
	if err := s.store.Set(ctx, tenantID, KeySilverRate, silver.String()); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to write silver rate")
	}

	s.auditor.Record(ctx, audit.ActionSet, audit.ModuleSettings, map[string]any{
		"goldRate":   gold.String(),
		"silverRate": silver.String(),
	})
	return nil
}

// MarketRates returns the current rates, zero when unset or unparseable.
func (s *Service) MarketRates(ctx context.Context) (gold, silver float64, err error) {
	goldStr, err := s.Get(ctx, KeyGoldRate, "0")
	if err != nil {
		return 0, 0, err
	}
	silverStr, err := s.Get(ctx, KeySilverRate, "0")
	if err != nil {
		return 0, 0, err
	}
	return parseRate(goldStr), parseRate(silverStr), nil
}

func parseRate(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
