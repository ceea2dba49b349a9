package kyc

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"aurum/internal/transport/http/shared"
)

// Handler exposes the KYC verifier over HTTP.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/kyc/verify", h.handleVerify)
	r.Get("/kyc/records", h.handleList)
}

type verifyRequest struct {
	IdentityNumber string `json:"identityNumber"`
	FullName       string `json:"fullName"`
	Address        string `json:"address"`
	CustomerID     string `json:"customerId"`
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}

	record, err := h.service.Verify(r.Context(), VerifyRequest{
		IdentityNumber: req.IdentityNumber,
		FullName:       req.FullName,
		Address:        req.Address,
		CustomerID:     req.CustomerID,
	})
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ListRecent(r.Context(), 100)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if records == nil {
		records = []Record{}
	}
	shared.WriteJSON(w, http.StatusOK, records)
}
