package statesync

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"aurum/internal/transport/http/shared"
	"aurum/pkg/requestcontext"
)

// Handler exposes the sync gateway.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/state", h.handleState)
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	snapshot, err := h.service.Snapshot(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to assemble state snapshot",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, snapshot)
}
