package sales

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"aurum/internal/audit"
	"aurum/internal/lot"
	id "aurum/pkg/domain"
	dErrors "aurum/pkg/domain-errors"
	"aurum/pkg/platform/sentinel"
	"aurum/pkg/requestcontext"
)

// Auditor records mutating actions. Fire-and-forget.
type Auditor interface {
	Record(ctx context.Context, action, module string, payload map[string]any)
}

// MeltedLotSource yields the tenant's refined lots, the raw material of the
// sellable inventory.
type MeltedLotSource interface {
	MeltedLots(ctx context.Context) ([]lot.Lot, error)
}

// Service aggregates melted-lot output into sellable inventory and manages
// sale contracts against it. Order totals are always recomputed here; a
// client-supplied total is never trusted.
type Service struct {
	store   Store
	lots    MeltedLotSource
	auditor Auditor
	logger  *slog.Logger
}

func NewService(store Store, lots MeltedLotSource, auditor Auditor, logger *slog.Logger) *Service {
	return &Service{store: store, lots: lots, auditor: auditor, logger: logger}
}

// OrderItemInput is one requested line. Total is ignored.
type OrderItemInput struct {
	Product  string
	Quantity decimal.Decimal
	Price    decimal.Decimal
}

// OrderInput carries an order create or update. An empty ID creates a new
// order; a known ID replaces its fields and item list wholesale.
type OrderInput struct {
	ID        string
	BuyerName string
	OrderDate string
	Status    OrderStatus
	Items     []OrderItemInput
}

// UpsertOrder validates, recomputes all money figures server-side and saves.
func (s *Service) UpsertOrder(ctx context.Context, input OrderInput) (Order, error) {
	if strings.TrimSpace(input.BuyerName) == "" {
		return Order{}, dErrors.NewField("buyerName", "buyer is required")
	}
	if len(input.Items) == 0 {
		return Order{}, dErrors.NewField("items", "item list must not be empty")
	}

	status := input.Status
	if status == "" {
		status = StatusDraft
	}
	if !validStatus(status) {
		return Order{}, dErrors.NewField("status", "unknown order status")
	}

	items := make([]OrderItem, len(input.Items))
	total := decimal.Zero
	for i, in := range input.Items {
		if strings.TrimSpace(in.Product) == "" {
			return Order{}, dErrors.NewField("items", "item product is required")
		}
		if in.Quantity.IsNegative() || in.Price.IsNegative() {
			return Order{}, dErrors.NewField("items", "negative figures not allowed")
		}
		lineTotal := id.RoundMoney(in.Quantity.Mul(in.Price))
		items[i] = OrderItem{
			Position: i + 1,
			Product:  in.Product,
			Quantity: in.Quantity,
			Price:    in.Price,
			Total:    lineTotal,
		}
		total = total.Add(lineTotal)
	}

	now := requestcontext.Now(ctx)
	order := Order{
		ID:          input.ID,
		TenantID:    requestcontext.TenantID(ctx),
		BuyerName:   input.BuyerName,
		OrderDate:   input.OrderDate,
		Status:      status,
		Items:       items,
		TotalAmount: id.RoundMoney(total),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if order.ID == "" {
		order.ID = "SO-" + uuid.NewString()[:8]
	}

	if err := s.store.Upsert(ctx, order); err != nil {
		return Order{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save sales order")
	}

	s.auditor.Record(ctx, audit.ActionUpsert, audit.ModuleSales, map[string]any{
		"orderId":     order.ID,
		"buyer":       order.BuyerName,
		"totalAmount": order.TotalAmount.String(),
	})
	return order, nil
}

// Get returns one order in the caller's tenant.
func (s *Service) Get(ctx context.Context, orderID string) (Order, error) {
	order, err := s.store.Get(ctx, requestcontext.TenantID(ctx), orderID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return Order{}, dErrors.New(dErrors.CodeNotFound, "sales order not found")
	}
	if err != nil {
		return Order{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load sales order")
	}
	return order, nil
}

// List returns all the tenant's orders.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	orders, err := s.store.List(ctx, requestcontext.TenantID(ctx))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list sales orders")
	}
	return orders, nil
}

// AvailableInventory sums the gross weight of every melted lot, bucketed by
// metal. Classification is by product name: a case-insensitive "silver"
// substring sells as silver, everything else as gold.
func (s *Service) AvailableInventory(ctx context.Context) (Inventory, error) {
	melted, err := s.lots.MeltedLots(ctx)
	if err != nil {
		return Inventory{}, err
	}

	inv := Inventory{GoldGrams: decimal.Zero, SilverGrams: decimal.Zero}
	for _, l := range melted {
		for _, row := range l.Items {
			if strings.Contains(strings.ToLower(row.Product), "silver") {
				inv.SilverGrams = inv.SilverGrams.Add(row.Weight)
			} else {
				inv.GoldGrams = inv.GoldGrams.Add(row.Weight)
			}
		}
	}
	inv.GoldGrams = id.RoundWeight(inv.GoldGrams)
	inv.SilverGrams = id.RoundWeight(inv.SilverGrams)
	return inv, nil
}
