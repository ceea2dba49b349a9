package kyc

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"aurum/internal/audit"
	"aurum/internal/masters"
	dErrors "aurum/pkg/domain-errors"
	"aurum/pkg/requestcontext"
)

const identityLength = 12

var (
	namePattern    = regexp.MustCompile(`^[A-Za-z][A-Za-z. ]{2,}$`)
	pincodePattern = regexp.MustCompile(`\b[1-9][0-9]{5}\b`)
)

// Auditor records mutating actions. Fire-and-forget.
type Auditor interface {
	Record(ctx context.Context, action, module string, payload map[string]any)
}

// CustomerRegistry flags a Customer master record with the verification
// outcome. Optional collaborator.
type CustomerRegistry interface {
	MarkCustomerKYC(ctx context.Context, recordID string, status masters.KYCStatus) error
}

// Service validates identity documents and records every attempt. The
// verifier never errors on bad input: a malformed number is a Rejected
// outcome, stored like any other.
type Service struct {
	store     Store
	auditor   Auditor
	customers CustomerRegistry
	logger    *slog.Logger
}

type Option func(*Service)

// WithCustomerRegistry wires outcome propagation onto Customer records.
func WithCustomerRegistry(r CustomerRegistry) Option {
	return func(s *Service) { s.customers = r }
}

func NewService(store Store, auditor Auditor, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{store: store, auditor: auditor, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// VerifyRequest carries one verification attempt. CustomerID optionally
// names the Customer master record to flag with the outcome.
type VerifyRequest struct {
	IdentityNumber string
	FullName       string
	Address        string
	CustomerID     string
}

// Verify runs the structural, checksum and address checks, appends one
// immutable Record regardless of outcome, and returns it. Only a persistence
// failure is an error.
func (s *Service) Verify(ctx context.Context, req VerifyRequest) (Record, error) {
	outcome, remarks := evaluate(req.IdentityNumber, req.FullName, req.Address)

	record := Record{
		ID:         uuid.New(),
		TenantID:   requestcontext.TenantID(ctx),
		MaskedID:   maskIdentity(req.IdentityNumber),
		FullName:   strings.TrimSpace(req.FullName),
		Outcome:    outcome,
		Remarks:    remarks,
		VerifiedAt: requestcontext.Now(ctx),
	}
	if err := s.store.Append(ctx, record); err != nil {
		return Record{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record verification")
	}

	s.auditor.Record(ctx, audit.ActionVerify, audit.ModuleKYC, map[string]any{
		"maskedId": record.MaskedID,
		"outcome":  string(outcome),
	})

	if s.customers != nil && req.CustomerID != "" {
		status := masters.KYCFailed
		if outcome == OutcomeVerified {
			status = masters.KYCVerified
		}
		// Best effort: the verification event above is the source of truth.
		if err := s.customers.MarkCustomerKYC(ctx, req.CustomerID, status); err != nil {
			s.logger.WarnContext(ctx, "failed to flag customer kyc status",
				"customer_id", req.CustomerID,
				"error", err,
			)
		}
	}
	return record, nil
}

// ListRecent returns the tenant's newest verification events, bounded.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	records, err := s.store.ListRecent(ctx, requestcontext.TenantID(ctx), limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list verifications")
	}
	return records, nil
}

func evaluate(number, name, address string) (Outcome, string) {
	number = strings.TrimSpace(number)
	if len(number) != identityLength {
		return OutcomeRejected, "identity number must be 12 digits"
	}
	if allIdentical(number) {
		return OutcomeRejected, "identity number is a dummy value"
	}
	if !verhoeffValid(number) {
		return OutcomeRejected, "identity number failed checksum"
	}
	if !namePattern.MatchString(strings.TrimSpace(name)) {
		return OutcomeRejected, "name must be letters, spaces and periods only"
	}
	if !addressPlausible(address) {
		return OutcomeAddressMismatch, "address too short or missing pincode"
	}
	return OutcomeVerified, "identity verified"
}

func allIdentical(number string) bool {
	for i := 1; i < len(number); i++ {
		if number[i] != number[0] {
			return false
		}
	}
	return true
}

func addressPlausible(address string) bool {
	address = strings.TrimSpace(address)
	return len(address) >= 15 && pincodePattern.MatchString(address)
}
