package statesync

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"aurum/internal/lot"
	"aurum/internal/masters"
	"aurum/internal/sales"
)

type fakeMasters struct{ records []masters.Record }

func (f *fakeMasters) List(context.Context, masters.Kind) ([]masters.Record, error) {
	return f.records, nil
}

type fakeLots struct{ lots []lot.Lot }

func (f *fakeLots) List(context.Context) ([]lot.Lot, error) { return f.lots, nil }

type fakeSales struct {
	orders    []sales.Order
	inventory sales.Inventory
}

func (f *fakeSales) List(context.Context) ([]sales.Order, error) { return f.orders, nil }
func (f *fakeSales) AvailableInventory(context.Context) (sales.Inventory, error) {
	return f.inventory, nil
}

type fakeRates struct{ gold, silver float64 }

func (f *fakeRates) MarketRates(context.Context) (float64, float64, error) {
	return f.gold, f.silver, nil
}

type StateSyncSuite struct {
	suite.Suite
	lots    *fakeLots
	service *Service
}

func (s *StateSyncSuite) SetupTest() {
	s.lots = &fakeLots{}
	s.service = NewService(
		&fakeMasters{},
		s.lots,
		&fakeSales{inventory: sales.Inventory{GoldGrams: decimal.Zero, SilverGrams: decimal.Zero}},
		&fakeRates{gold: 7250, silver: 94},
		slog.Default(),
	)
}

func (s *StateSyncSuite) TestSnapshotCarriesRates() {
	snapshot, err := s.service.Snapshot(context.Background())
	s.Require().NoError(err)
	s.Equal(7250.0, snapshot.GoldRate)
	s.Equal(94.0, snapshot.SilverRate)
	s.NotNil(snapshot.Masters)
	s.NotNil(snapshot.SalesOrders)
}

func (s *StateSyncSuite) TestTransactionsUseExternalLabels() {
	s.lots.lots = []lot.Lot{
		{LotNo: "LOT-1", Status: lot.StatusVerifiedByAccounts},
		{LotNo: "LOT-2", Status: lot.StatusReceivedAtHub},
		{LotNo: "LOT-3", Status: lot.StatusMelted},
		{LotNo: "LOT-4", Status: lot.StatusInTransit},
	}

	snapshot, err := s.service.Snapshot(context.Background())
	s.Require().NoError(err)
	s.Require().Len(snapshot.Transactions, 4)
	s.Equal("Received", snapshot.Transactions[0].Status)
	s.Equal("Received", snapshot.Transactions[1].Status)
	s.Equal("Approved", snapshot.Transactions[2].Status)
	s.Equal("In Transit", snapshot.Transactions[3].Status)
}

func TestStateSyncSuite(t *testing.T) {
	suite.Run(t, new(StateSyncSuite))
}

// The shadowing view field must win over the embedded internal status when
// the snapshot is marshalled.
func TestTransactionViewMarshal(t *testing.T) {
	view := TransactionView{
		Lot:    lot.Lot{LotNo: "LOT-1", Status: lot.StatusReceivedAtHub},
		Status: lot.StatusReceivedAtHub.ExternalLabel(),
	}
	raw, err := json.Marshal(view)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, "Received", decoded["status"])
}
