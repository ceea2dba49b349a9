package audit

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"aurum/internal/platform/middleware"
	"aurum/pkg/requestcontext"
)

// Handler exposes the audit trail read surface.
type Handler struct {
	recorder *Recorder
	logger   *slog.Logger
}

func NewHandler(recorder *Recorder, logger *slog.Logger) *Handler {
	return &Handler{recorder: recorder, logger: logger}
}

// Register mounts the admin-only audit routes.
func (h *Handler) Register(r chi.Router) {
	r.With(middleware.RequireAdmin).Get("/audit-logs", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entries, err := h.recorder.ListRecent(ctx, requestcontext.TenantID(ctx), 100)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list audit entries",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "internal_error"})
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	_ = json.NewEncoder(w).Encode(entries)
}
