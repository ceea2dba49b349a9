package masters

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"aurum/internal/transport/http/shared"
)

// Handler exposes the master registry over HTTP. Registered behind the
// authenticated router group; identity comes from context.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/masters", h.handleUpsert)
	r.Get("/masters", h.handleList)
}

type upsertRequest struct {
	ID         string            `json:"id"`
	Kind       string            `json:"kind"`
	Name       string            `json:"name"`
	Identifier string            `json:"identifier"`
	Secondary  string            `json:"secondary"`
	Date       string            `json:"date"`
	KYCStatus  string            `json:"kycStatus"`
	Details    map[string]string `json:"details"`
}

func (h *Handler) handleUpsert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req upsertRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}

	record, err := h.service.Upsert(ctx, Record{
		ID:         req.ID,
		Kind:       Kind(req.Kind),
		Name:       req.Name,
		Identifier: req.Identifier,
		Secondary:  req.Secondary,
		RecordDate: req.Date,
		KYCStatus:  KYCStatus(req.KYCStatus),
		Details:    req.Details,
	})
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.List(r.Context(), Kind(r.URL.Query().Get("kind")))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if records == nil {
		records = []Record{}
	}
	shared.WriteJSON(w, http.StatusOK, records)
}
