package settings

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"aurum/internal/transport/http/shared"
)

// Handler exposes the settings surface over HTTP.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/settings/market-rates", h.handleMarketRates)
}

type marketRatesRequest struct {
	Gold   decimal.Decimal `json:"gold"`
	Silver decimal.Decimal `json:"silver"`
}

func (h *Handler) handleMarketRates(w http.ResponseWriter, r *http.Request) {
	var req marketRatesRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.service.SetMarketRates(r.Context(), req.Gold, req.Silver); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{
		"goldRate":   req.Gold.String(),
		"silverRate": req.Silver.String(),
	})
}
