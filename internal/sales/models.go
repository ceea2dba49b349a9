package sales

import (
	"time"

	"github.com/shopspring/decimal"

	id "aurum/pkg/domain"
)

// OrderStatus tracks an institutional sale contract through fulfilment.
type OrderStatus string

const (
	StatusDraft      OrderStatus = "Draft"
	StatusConfirmed  OrderStatus = "Confirmed"
	StatusProcessing OrderStatus = "Processing"
	StatusCompleted  OrderStatus = "Completed"
)

func validStatus(s OrderStatus) bool {
	switch s {
	case StatusDraft, StatusConfirmed, StatusProcessing, StatusCompleted:
		return true
	}
	return false
}

// OrderItem is one line of a sales order. Totals are recomputed server-side.
type OrderItem struct {
	Position int             `json:"position"`
	Product  string          `json:"product"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Total    decimal.Decimal `json:"total"`
}

// Order is a sale contract against refined inventory, independent of lot
// identity once a bar is sold. Items are replaced wholesale on update.
type Order struct {
	ID          string          `json:"id"`
	TenantID    id.TenantID     `json:"-"`
	BuyerName   string          `json:"buyerName"`
	OrderDate   string          `json:"date,omitempty"`
	Status      OrderStatus     `json:"status"`
	Items       []OrderItem     `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Inventory is the sellable metal refined out of melted lots, in grams.
type Inventory struct {
	GoldGrams   decimal.Decimal `json:"goldGrams"`
	SilverGrams decimal.Decimal `json:"silverGrams"`
}
