package statesync

import (
	"context"
	"log/slog"
	"time"

	"aurum/internal/lot"
	"aurum/internal/masters"
	"aurum/internal/sales"
	"aurum/pkg/requestcontext"
)

// MasterSource lists the tenant's reference records.
type MasterSource interface {
	List(ctx context.Context, kind masters.Kind) ([]masters.Record, error)
}

// LotSource lists the tenant's lots with nested detail records.
type LotSource interface {
	List(ctx context.Context) ([]lot.Lot, error)
}

// SalesSource lists orders and the refined inventory.
type SalesSource interface {
	List(ctx context.Context) ([]sales.Order, error)
	AvailableInventory(ctx context.Context) (sales.Inventory, error)
}

// RateSource reads the current market rates.
type RateSource interface {
	MarketRates(ctx context.Context) (gold, silver float64, err error)
}

// TransactionView is a lot projected onto the wire-level status label set.
// The shadowing Status field wins over the embedded one when marshalling.
type TransactionView struct {
	lot.Lot
	Status string `json:"status"`
}

// Snapshot is the full authoritative tenant state. Clients holding a
// possibly-stale replica discard it and take this wholesale; there is no
// merge. Unsynced local edits are lost; the client is expected to surface
// that before requesting a snapshot.
type Snapshot struct {
	Masters      []masters.Record  `json:"masters"`
	Transactions []TransactionView `json:"transactions"`
	SalesOrders  []sales.Order     `json:"salesOrders"`
	Inventory    sales.Inventory   `json:"inventory"`
	GoldRate     float64           `json:"goldRate"`
	SilverRate   float64           `json:"silverRate"`
	GeneratedAt  time.Time         `json:"generatedAt"`
}

// Service reconciles client-observed state against the authoritative store.
// The mutation endpoints are the idempotent re-apply path for queued client
// edits; this service only ever reads.
type Service struct {
	masters MasterSource
	lots    LotSource
	sales   SalesSource
	rates   RateSource
	logger  *slog.Logger
}

func NewService(masters MasterSource, lots LotSource, sales SalesSource, rates RateSource, logger *slog.Logger) *Service {
	return &Service{masters: masters, lots: lots, sales: sales, rates: rates, logger: logger}
}

// Snapshot assembles the tenant's full state.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	records, err := s.masters.List(ctx, "")
	if err != nil {
		return Snapshot{}, err
	}
	lots, err := s.lots.List(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	orders, err := s.sales.List(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	inventory, err := s.sales.AvailableInventory(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	gold, silver, err := s.rates.MarketRates(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	transactions := make([]TransactionView, len(lots))
	for i, l := range lots {
		transactions[i] = TransactionView{Lot: l, Status: l.Status.ExternalLabel()}
	}
	if records == nil {
		records = []masters.Record{}
	}
	if orders == nil {
		orders = []sales.Order{}
	}

	return Snapshot{
		Masters:      records,
		Transactions: transactions,
		SalesOrders:  orders,
		Inventory:    inventory,
		GoldRate:     gold,
		SilverRate:   silver,
		GeneratedAt:  requestcontext.Now(ctx),
	}, nil
}
