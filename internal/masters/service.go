package masters

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"aurum/internal/audit"
	dErrors "aurum/pkg/domain-errors"
	"aurum/pkg/platform/sentinel"
	"aurum/pkg/requestcontext"
)

// Auditor records mutating actions. Fire-and-forget.
type Auditor interface {
	Record(ctx context.Context, action, module string, payload map[string]any)
}

// Service owns the master registry contract: tenant-scoped upsert by id and
// kind-filtered listing. No delete exists in normal flow, so lots keep
// resolvable references to the branches, hubs and customers they mention.
type Service struct {
	store   Store
	auditor Auditor
	logger  *slog.Logger
}

func NewService(store Store, auditor Auditor, logger *slog.Logger) *Service {
	return &Service{store: store, auditor: auditor, logger: logger}
}

// Upsert inserts or replaces a record keyed by (tenant, id).
func (s *Service) Upsert(ctx context.Context, record Record) (Record, error) {
	if strings.TrimSpace(record.ID) == "" {
		return Record{}, dErrors.NewField("id", "id is required")
	}
	if _, err := ParseKind(string(record.Kind)); err != nil {
		return Record{}, err
	}
	if strings.TrimSpace(record.Name) == "" {
		return Record{}, dErrors.NewField("name", "name is required")
	}
	if strings.TrimSpace(record.Identifier) == "" {
		return Record{}, dErrors.NewField("identifier", "identifier is required")
	}
	if record.Kind != KindCustomer {
		record.KYCStatus = ""
	} else if record.KYCStatus == "" {
		record.KYCStatus = KYCPending
	}

	now := requestcontext.Now(ctx)
	record.TenantID = requestcontext.TenantID(ctx)
	record.CreatedAt = now
	record.UpdatedAt = now

	if err := s.store.Upsert(ctx, record); err != nil {
		return Record{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save master record")
	}

	s.auditor.Record(ctx, audit.ActionUpsert, audit.ModuleMaster, map[string]any{
		"id":   record.ID,
		"kind": string(record.Kind),
		"name": record.Name,
	})
	return record, nil
}

// List returns the tenant's records, optionally filtered by kind.
func (s *Service) List(ctx context.Context, kind Kind) ([]Record, error) {
	if kind != "" {
		if _, err := ParseKind(string(kind)); err != nil {
			return nil, err
		}
	}
	records, err := s.store.List(ctx, requestcontext.TenantID(ctx), kind)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list master records")
	}
	return records, nil
}

// Get returns a single record in the caller's tenant.
func (s *Service) Get(ctx context.Context, recordID string) (Record, error) {
	record, err := s.store.Get(ctx, requestcontext.TenantID(ctx), recordID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return Record{}, dErrors.New(dErrors.CodeNotFound, "master record not found")
	}
	if err != nil {
		return Record{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load master record")
	}
	return record, nil
}

// MarkCustomerKYC records a verification outcome on a Customer record. Called
// by the KYC verifier after a check that names a customer id.
func (s *Service) MarkCustomerKYC(ctx context.Context, recordID string, status KYCStatus) error {
	tenantID := requestcontext.TenantID(ctx)

	record, err := s.store.Get(ctx, tenantID, recordID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "master record not found")
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load master record")
	}
	if record.Kind != KindCustomer {
		return dErrors.NewField("id", "kyc status applies to customer records only")
	}

	if err := s.store.SetKYCStatus(ctx, tenantID, recordID, status); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update kyc status")
	}
	return nil
}
