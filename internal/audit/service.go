package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	id "aurum/pkg/domain"
	"aurum/pkg/requestcontext"
)

// Publisher mirrors audit entries to an external stream (Kafka). Optional.
type Publisher interface {
	Publish(ctx context.Context, entry Entry) error
}

// Recorder captures audit entries from domain services.
//
// Record is fire-and-forget: a failure to persist an audit entry must never
// fail or roll back the business mutation it accompanies. Availability of
// the business operation outranks audit completeness here; lost entries are
// logged as warnings so the gap is at least visible. This is a tracked risk,
// not an accident.
type Recorder struct {
	store     Store
	publisher Publisher
	logger    *slog.Logger
	inbox     chan Entry
}

type Option func(*Recorder)

func WithPublisher(p Publisher) Option {
	return func(r *Recorder) { r.publisher = p }
}

func WithInboxSize(n int) Option {
	return func(r *Recorder) { r.inbox = make(chan Entry, n) }
}

func NewRecorder(store Store, logger *slog.Logger, opts ...Option) *Recorder {
	r := &Recorder{
		store:  store,
		logger: logger,
		inbox:  make(chan Entry, 256),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record enqueues one audit entry for the current actor. Non-blocking: if
// the inbox is full the entry is dropped with a warning rather than stalling
// the business operation.
func (r *Recorder) Record(ctx context.Context, action, module string, payload map[string]any) {
	entry := Entry{
		ID:        uuid.New(),
		TenantID:  requestcontext.TenantID(ctx),
		ActorID:   requestcontext.UserID(ctx),
		Action:    action,
		Module:    module,
		Payload:   payload,
		Timestamp: requestcontext.Now(ctx),
	}

	select {
	case r.inbox <- entry:
	default:
		r.logger.WarnContext(ctx, "audit inbox full, entry dropped",
			"action", action,
			"module", module,
			"tenant_id", entry.TenantID.String(),
		)
	}
}

// Run drains the inbox, persisting and optionally publishing each entry.
// Persist failures are logged and swallowed. Run returns when ctx is
// cancelled, after a best-effort drain of whatever is already queued.
func (r *Recorder) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			r.drain()
			return ctx.Err()
		case entry := <-r.inbox:
			r.sink(ctx, entry)
		}
	}
}

func (r *Recorder) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for {
		select {
		case entry := <-r.inbox:
			r.sink(ctx, entry)
		default:
			return
		}
	}
}

func (r *Recorder) sink(ctx context.Context, entry Entry) {
	if err := r.store.Append(ctx, entry); err != nil {
		r.logger.Warn("audit append failed",
			"error", err,
			"action", entry.Action,
			"module", entry.Module,
			"tenant_id", entry.TenantID.String(),
		)
	}
	if r.publisher != nil {
		if err := r.publisher.Publish(ctx, entry); err != nil {
			r.logger.Warn("audit publish failed",
				"error", err,
				"action", entry.Action,
				"module", entry.Module,
			)
		}
	}
}

// ListRecent returns the tenant's newest entries, bounded. Admin-only at the
// transport layer.
func (r *Recorder) ListRecent(ctx context.Context, tenantID id.TenantID, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	return r.store.ListRecent(ctx, tenantID, limit)
}
