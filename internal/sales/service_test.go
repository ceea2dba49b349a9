package sales

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"aurum/internal/lot"
	id "aurum/pkg/domain"
	dErrors "aurum/pkg/domain-errors"
	"aurum/pkg/requestcontext"
)

type noopAuditor struct{}

func (noopAuditor) Record(context.Context, string, string, map[string]any) {}

type fakeLotSource struct {
	lots []lot.Lot
}

func (f *fakeLotSource) MeltedLots(context.Context) ([]lot.Lot, error) {
	return f.lots, nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

type SalesServiceSuite struct {
	suite.Suite
	store   *InMemoryStore
	lots    *fakeLotSource
	service *Service
	ctx     context.Context
}

func (s *SalesServiceSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.lots = &fakeLotSource{}
	s.service = NewService(s.store, s.lots, noopAuditor{}, slog.Default())
	s.ctx = requestcontext.WithIdentity(context.Background(), "TENANT-A", "USER-001", id.RoleAdmin)
	s.ctx = requestcontext.WithTime(s.ctx, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
}

func (s *SalesServiceSuite) TestUpsertRequiresBuyerAndItems() {
	_, err := s.service.UpsertOrder(s.ctx, OrderInput{Items: []OrderItemInput{{Product: "Gold Bar 100g"}}})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = s.service.UpsertOrder(s.ctx, OrderInput{BuyerName: "MMTC-PAMP"})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *SalesServiceSuite) TestTotalRecomputedServerSide() {
	order, err := s.service.UpsertOrder(s.ctx, OrderInput{
		BuyerName: "MMTC-PAMP",
		Items: []OrderItemInput{
			{Product: "Gold Bar 100g", Quantity: dec("3"), Price: dec("725000")},
			{Product: "Silver Bar 1kg", Quantity: dec("2"), Price: dec("94000")},
		},
	})
	s.Require().NoError(err)
	s.True(dec("2363000").Equal(order.TotalAmount), "total %s", order.TotalAmount)
	s.True(dec("2175000").Equal(order.Items[0].Total))
	s.True(dec("188000").Equal(order.Items[1].Total))
	s.Equal(StatusDraft, order.Status)
	s.NotEmpty(order.ID)
}

func (s *SalesServiceSuite) TestUpdateReplacesItemsWholesale() {
	created, err := s.service.UpsertOrder(s.ctx, OrderInput{
		BuyerName: "MMTC-PAMP",
		Items: []OrderItemInput{
			{Product: "Gold Bar 100g", Quantity: dec("3"), Price: dec("725000")},
			{Product: "Silver Bar 1kg", Quantity: dec("2"), Price: dec("94000")},
		},
	})
	s.Require().NoError(err)

	updated, err := s.service.UpsertOrder(s.ctx, OrderInput{
		ID:        created.ID,
		BuyerName: "MMTC-PAMP",
		Status:    StatusConfirmed,
		Items: []OrderItemInput{
			{Product: "Gold Bar 100g", Quantity: dec("1"), Price: dec("725000")},
		},
	})
	s.Require().NoError(err)
	s.Require().Len(updated.Items, 1)
	s.True(dec("725000").Equal(updated.TotalAmount))
	s.Equal(StatusConfirmed, updated.Status)

	orders, err := s.service.List(s.ctx)
	s.Require().NoError(err)
	s.Len(orders, 1)
}

func (s *SalesServiceSuite) TestUnknownStatusRejected() {
	_, err := s.service.UpsertOrder(s.ctx, OrderInput{
		BuyerName: "MMTC-PAMP",
		Status:    OrderStatus("Shipped"),
		Items:     []OrderItemInput{{Product: "Gold Bar 100g", Quantity: dec("1"), Price: dec("725000")}},
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *SalesServiceSuite) TestInventoryBucketsByMetal() {
	s.lots.lots = []lot.Lot{
		{Status: lot.StatusMelted, Items: []lot.MaterialRow{
			{Product: "Gold Chain", Weight: dec("100.5")},
			{Product: "SILVER Anklet", Weight: dec("250")},
		}},
		{Status: lot.StatusMelted, Items: []lot.MaterialRow{
			{Product: "Gold Coin", Weight: dec("49.5")},
			{Product: "Sterling silver bowl", Weight: dec("120.25")},
		}},
	}

	inv, err := s.service.AvailableInventory(s.ctx)
	s.Require().NoError(err)
	s.True(dec("150").Equal(inv.GoldGrams), "gold %s", inv.GoldGrams)
	s.True(dec("370.25").Equal(inv.SilverGrams), "silver %s", inv.SilverGrams)
}

func (s *SalesServiceSuite) TestEmptyInventory() {
	inv, err := s.service.AvailableInventory(s.ctx)
	s.Require().NoError(err)
	s.True(inv.GoldGrams.IsZero())
	s.True(inv.SilverGrams.IsZero())
}

func (s *SalesServiceSuite) TestTenantIsolation() {
	created, err := s.service.UpsertOrder(s.ctx, OrderInput{
		BuyerName: "MMTC-PAMP",
		Items:     []OrderItemInput{{Product: "Gold Bar 100g", Quantity: dec("1"), Price: dec("725000")}},
	})
	s.Require().NoError(err)

	ctxB := requestcontext.WithIdentity(context.Background(), "TENANT-B", "USER-099", id.RoleAdmin)
	_, err = s.service.Get(ctxB, created.ID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestSalesServiceSuite(t *testing.T) {
	suite.Run(t, new(SalesServiceSuite))
}
