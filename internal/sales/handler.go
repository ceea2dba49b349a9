package sales

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"aurum/internal/transport/http/shared"
)

// Handler exposes the sales ledger over HTTP.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/sales-orders", h.handleUpsert)
	r.Get("/sales-orders", h.handleList)
	r.Get("/inventory", h.handleInventory)
}

type orderItemRequest struct {
	Product  string          `json:"product"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type upsertOrderRequest struct {
	ID        string             `json:"id"`
	BuyerName string             `json:"buyerName"`
	Date      string             `json:"date"`
	Status    string             `json:"status"`
	Items     []orderItemRequest `json:"items"`
	// TotalAmount is accepted but ignored; the server recomputes it.
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

func (h *Handler) handleUpsert(w http.ResponseWriter, r *http.Request) {
	var req upsertOrderRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}

	items := make([]OrderItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = OrderItemInput{Product: item.Product, Quantity: item.Quantity, Price: item.Price}
	}

	order, err := h.service.UpsertOrder(r.Context(), OrderInput{
		ID:        req.ID,
		BuyerName: req.BuyerName,
		OrderDate: req.Date,
		Status:    OrderStatus(req.Status),
		Items:     items,
	})
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, order)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.List(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if orders == nil {
		orders = []Order{}
	}
	shared.WriteJSON(w, http.StatusOK, orders)
}

func (h *Handler) handleInventory(w http.ResponseWriter, r *http.Request) {
	inventory, err := h.service.AvailableInventory(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, inventory)
}
