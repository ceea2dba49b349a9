package lot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"aurum/internal/audit"
	"aurum/internal/lot/metrics"
	id "aurum/pkg/domain"
	dErrors "aurum/pkg/domain-errors"
	"aurum/pkg/platform/sentinel"
	"aurum/pkg/requestcontext"
)

// meltLossThresholdPct is the refining loss percentage above which a melt is
// flagged for review. The melt still applies; the flag travels in the audit
// payload and the log.
var meltLossThresholdPct = decimal.NewFromInt(5)

// Auditor records mutating actions. Fire-and-forget.
type Auditor interface {
	Record(ctx context.Context, action, module string, payload map[string]any)
}

// Service owns the lot state machine. Every transition is a conditional
// check-and-update executed inside one store transaction together with the
// detail record it owns, so a failed or raced transition leaves no partial
// state behind.
type Service struct {
	store   Store
	auditor Auditor
	metrics *metrics.Metrics
	logger  *slog.Logger
}

type Option func(*Service)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(store Store, auditor Auditor, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{store: store, auditor: auditor, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitInput carries a lot submission. Derived row fields (net weight,
// amount) are ignored and recomputed.
type SubmitInput struct {
	LotNo        id.LotNo
	Branch       string
	RefNo        string
	LotDate      string
	CustomerID   string
	CustomerName string
	Remarks      string
	Items        []MaterialRow
}

// Submit creates a lot in Pending, or, when the lotNo already exists and the
// lot is still Pending, updates it in place with a wholesale item replace.
// Idempotent upsert by lotNo, never an append.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (Lot, error) {
	if input.LotNo.IsZero() {
		return Lot{}, dErrors.NewField("lotNo", "lotNo is required")
	}
	if len(input.Items) == 0 {
		return Lot{}, dErrors.NewField("items", "item list must not be empty")
	}
	for i := range input.Items {
		row := &input.Items[i]
		if strings.TrimSpace(row.Product) == "" {
			return Lot{}, dErrors.NewField("items", fmt.Sprintf("item %d: product is required", i+1))
		}
		if row.Weight.IsNegative() || row.WastePercent.IsNegative() || row.Rate.IsNegative() {
			return Lot{}, dErrors.NewField("items", fmt.Sprintf("item %d: negative figures not allowed", i+1))
		}
		row.SNo = i + 1
		row.ComputeDerived()
	}

	tenantID := requestcontext.TenantID(ctx)
	now := requestcontext.Now(ctx)

	var saved Lot
	err := s.store.RunInTx(ctx, func(ctx context.Context) error {
		next := Lot{
			LotNo:        input.LotNo,
			TenantID:     tenantID,
			Branch:       input.Branch,
			RefNo:        input.RefNo,
			LotDate:      input.LotDate,
			CustomerID:   input.CustomerID,
			CustomerName: input.CustomerName,
			Status:       StatusPending,
			Remarks:      input.Remarks,
			Items:        input.Items,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		existing, err := s.store.Get(ctx, tenantID, input.LotNo)
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			// first submission
		case err != nil:
			return err
		case existing.Status != StatusPending:
			return sentinel.ErrInvalidState
		default:
			next.CreatedAt = existing.CreatedAt
		}

		if err := s.store.Upsert(ctx, next); err != nil {
			return err
		}
		saved = next
		return nil
	})
	if errors.Is(err, sentinel.ErrInvalidState) {
		return Lot{}, s.invalidState(ctx, input.LotNo, "submit", StatusPending)
	}
	if err != nil {
		return Lot{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save lot")
	}

	s.metrics.RecordSubmission()
	s.auditor.Record(ctx, audit.ActionUpsert, audit.ModuleLot, map[string]any{
		"lotNo": saved.LotNo.String(),
		"items": len(saved.Items),
	})
	return saved, nil
}

// Decide resolves a Pending lot. decision is "Approved" or "Rejected";
// requires the approver capability and stamps who decided and when.
func (s *Service) Decide(ctx context.Context, lotNo id.LotNo, decision, remarks string) (Lot, error) {
	if !requestcontext.Role(ctx).CanApprove() {
		return Lot{}, dErrors.New(dErrors.CodeForbidden, "approval requires the regional head capability")
	}

	var to Status
	switch {
	case strings.EqualFold(decision, string(StatusApproved)), strings.EqualFold(decision, "approve"):
		to = StatusApproved
	case strings.EqualFold(decision, string(StatusRejected)), strings.EqualFold(decision, "reject"):
		to = StatusRejected
	default:
		return Lot{}, dErrors.NewField("decision", "decision must be Approved or Rejected")
	}

	now := requestcontext.Now(ctx)
	actor := requestcontext.UserID(ctx)
	return s.transition(ctx, "approve", lotNo, StatusChange{
		From:       StatusPending,
		To:         to,
		SetRemarks: remarks != "",
		Remarks:    remarks,
		DecidedBy:  actor,
		DecidedAt:  &now,
		At:         now,
	}, nil, audit.ActionApprove, audit.ModuleRHApproval, map[string]any{
		"lotNo":    lotNo.String(),
		"decision": string(to),
	})
}

// Invoice moves an approved lot to Invoiced.
func (s *Service) Invoice(ctx context.Context, lotNo id.LotNo, remarks string) (Lot, error) {
	now := requestcontext.Now(ctx)
	return s.transition(ctx, "invoice", lotNo, StatusChange{
		From:       StatusApproved,
		To:         StatusInvoiced,
		SetRemarks: remarks != "",
		Remarks:    remarks,
		At:         now,
	}, nil, audit.ActionInvoice, audit.ModuleBilling, map[string]any{
		"lotNo": lotNo.String(),
	})
}

// AccountsVerify confirms the invoiced figures. Externally the lot now reads
// "Received"; internally it is VerifiedByAccounts, distinct from the hub
// receipt later in the pipeline.
func (s *Service) AccountsVerify(ctx context.Context, lotNo id.LotNo) (Lot, error) {
	now := requestcontext.Now(ctx)
	return s.transition(ctx, "verify", lotNo, StatusChange{
		From: StatusInvoiced,
		To:   StatusVerifiedByAccounts,
		At:   now,
	}, nil, audit.ActionVerify, audit.ModuleAccounts, map[string]any{
		"lotNo": lotNo.String(),
	})
}

// DisburseInput carries the payment released against a verified lot.
type DisburseInput struct {
	LotNo       id.LotNo
	PaymentMode string
	ReferenceNo string
	Amount      decimal.Decimal
}

// Disburse pays a verified lot and records the disbursement, atomically with
// the status flip.
func (s *Service) Disburse(ctx context.Context, input DisburseInput) (Lot, error) {
	if strings.TrimSpace(input.PaymentMode) == "" {
		return Lot{}, dErrors.NewField("paymentMode", "payment mode is required")
	}
	if !input.Amount.IsPositive() {
		return Lot{}, dErrors.NewField("amount", "amount must be greater than zero")
	}

	now := requestcontext.Now(ctx)
	actor := requestcontext.UserID(ctx)
	tenantID := requestcontext.TenantID(ctx)
	record := DisbursementRecord{
		PaymentMode: input.PaymentMode,
		ReferenceNo: input.ReferenceNo,
		Amount:      id.RoundMoney(input.Amount),
		PaidAt:      now,
		VerifiedBy:  actor,
	}

	return s.transition(ctx, "disburse", input.LotNo, StatusChange{
		From: StatusVerifiedByAccounts,
		To:   StatusPaid,
		At:   now,
	}, func(ctx context.Context) error {
		return s.store.UpsertDisbursement(ctx, tenantID, input.LotNo, record)
	}, audit.ActionPay, audit.ModuleFinance, map[string]any{
		"lotNo":       input.LotNo.String(),
		"amount":      record.Amount.String(),
		"paymentMode": record.PaymentMode,
	})
}

// TransferInput carries the dispatch details for the hub transfer.
type TransferInput struct {
	LotNo      id.LotNo
	VehicleNo  string
	DriverName string
	SealNumber string
}

// InitiateTransfer dispatches a paid lot to the hub, stamping the logistics
// detail atomically with the status flip.
func (s *Service) InitiateTransfer(ctx context.Context, input TransferInput) (Lot, error) {
	if strings.TrimSpace(input.VehicleNo) == "" {
		return Lot{}, dErrors.NewField("vehicleNo", "vehicle number is required")
	}
	if strings.TrimSpace(input.SealNumber) == "" {
		return Lot{}, dErrors.NewField("sealNumber", "seal number is required")
	}

	now := requestcontext.Now(ctx)
	tenantID := requestcontext.TenantID(ctx)
	detail := LogisticsDetail{
		VehicleNo:    input.VehicleNo,
		DriverName:   input.DriverName,
		SealNumber:   input.SealNumber,
		DispatchedAt: &now,
	}

	return s.transition(ctx, "transfer", input.LotNo, StatusChange{
		From: StatusPaid,
		To:   StatusInTransit,
		At:   now,
	}, func(ctx context.Context) error {
		return s.store.UpsertLogistics(ctx, tenantID, input.LotNo, detail)
	}, audit.ActionTransfer, audit.ModuleLogistics, map[string]any{
		"lotNo":     input.LotNo.String(),
		"vehicleNo": input.VehicleNo,
	})
}

// ConfirmReceipt books an in-transit lot into the hub and closes the
// logistics record with the receipt time.
func (s *Service) ConfirmReceipt(ctx context.Context, lotNo id.LotNo, remarks string) (Lot, error) {
	now := requestcontext.Now(ctx)
	tenantID := requestcontext.TenantID(ctx)

	return s.transition(ctx, "receive", lotNo, StatusChange{
		From:       StatusInTransit,
		To:         StatusReceivedAtHub,
		SetRemarks: remarks != "",
		Remarks:    remarks,
		At:         now,
	}, func(ctx context.Context) error {
		current, err := s.store.Get(ctx, tenantID, lotNo)
		if err != nil {
			return err
		}
		var detail LogisticsDetail
		if current.Logistics != nil {
			detail = *current.Logistics
		}
		detail.ReceivedAt = &now
		return s.store.UpsertLogistics(ctx, tenantID, lotNo, detail)
	}, audit.ActionReceive, audit.ModuleLogistics, map[string]any{
		"lotNo": lotNo.String(),
	})
}

// MeltInput carries the refining figures for a received lot.
type MeltInput struct {
	LotNo        id.LotNo
	InputWeight  decimal.Decimal
	OutputWeight decimal.Decimal
	Operator     string
	Temperature  int
}

// Melt refines a hub-received lot into a bar, recording the weight loss.
// Output can never exceed input; a loss above the review threshold is
// flagged but still applied. The remarks gain the melted marker that the
// sales ledger keys on.
func (s *Service) Melt(ctx context.Context, input MeltInput) (Lot, error) {
	if !input.InputWeight.IsPositive() {
		return Lot{}, dErrors.NewField("inputWeight", "input weight must be greater than zero")
	}
	if input.OutputWeight.IsNegative() {
		return Lot{}, dErrors.NewField("outputWeight", "output weight must not be negative")
	}
	if input.OutputWeight.GreaterThan(input.InputWeight) {
		return Lot{}, dErrors.NewField("outputWeight", "output weight cannot exceed input weight")
	}

	now := requestcontext.Now(ctx)
	tenantID := requestcontext.TenantID(ctx)

	loss := id.RoundWeight(input.InputWeight.Sub(input.OutputWeight))
	lossPct := loss.Mul(hundred).Div(input.InputWeight)
	flagged := lossPct.GreaterThan(meltLossThresholdPct)
	if flagged {
		s.logger.WarnContext(ctx, "melt loss above threshold",
			"lot_no", input.LotNo.String(),
			"loss_percent", lossPct.Round(2).String(),
		)
	}

	detail := MeltingDetail{
		InputWeight:  id.RoundWeight(input.InputWeight),
		OutputWeight: id.RoundWeight(input.OutputWeight),
		LossWeight:   loss,
		Operator:     input.Operator,
		Temperature:  input.Temperature,
		MeltedAt:     now,
	}
	remarks := fmt.Sprintf("Melted: %sg. Loss: %sg. Operator: %s",
		detail.OutputWeight.String(), loss.String(), input.Operator)

	result, err := s.transition(ctx, "melt", input.LotNo, StatusChange{
		From:       StatusReceivedAtHub,
		To:         StatusMelted,
		SetRemarks: true,
		Remarks:    remarks,
		At:         now,
	}, func(ctx context.Context) error {
		return s.store.UpsertMelting(ctx, tenantID, input.LotNo, detail)
	}, audit.ActionMelt, audit.ModuleRefining, map[string]any{
		"lotNo":       input.LotNo.String(),
		"lossWeight":  loss.String(),
		"lossFlagged": flagged,
	})
	if err != nil {
		return Lot{}, err
	}
	s.metrics.RecordMeltLoss(loss.InexactFloat64())
	return result, nil
}

// Get returns one lot in the caller's tenant.
func (s *Service) Get(ctx context.Context, lotNo id.LotNo) (Lot, error) {
	lot, err := s.store.Get(ctx, requestcontext.TenantID(ctx), lotNo)
	if errors.Is(err, sentinel.ErrNotFound) {
		return Lot{}, dErrors.New(dErrors.CodeNotFound, "lot not found")
	}
	if err != nil {
		return Lot{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load lot")
	}
	return lot, nil
}

// List returns all the tenant's lots.
func (s *Service) List(ctx context.Context) ([]Lot, error) {
	lots, err := s.store.List(ctx, requestcontext.TenantID(ctx))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list lots")
	}
	return lots, nil
}

// MeltedLots returns the tenant's refined lots, the sales ledger's inventory
// source.
func (s *Service) MeltedLots(ctx context.Context) ([]Lot, error) {
	lots, err := s.store.ListByStatus(ctx, requestcontext.TenantID(ctx), StatusMelted)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list melted lots")
	}
	return lots, nil
}

// transition applies one conditional state-machine step plus its optional
// detail write in a single store transaction, then audits and returns the
// fresh lot.
func (s *Service) transition(
	ctx context.Context,
	name string,
	lotNo id.LotNo,
	change StatusChange,
	extra func(ctx context.Context) error,
	action, module string,
	payload map[string]any,
) (Lot, error) {
	if lotNo.IsZero() {
		return Lot{}, dErrors.NewField("lotNo", "lotNo is required")
	}
	tenantID := requestcontext.TenantID(ctx)

	err := s.store.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.ApplyStatus(ctx, tenantID, lotNo, change); err != nil {
			return err
		}
		if extra != nil {
			return extra(ctx)
		}
		return nil
	})
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		s.metrics.RecordTransition(name, "not_found")
		return Lot{}, dErrors.New(dErrors.CodeNotFound, "lot not found")
	case errors.Is(err, sentinel.ErrInvalidState):
		s.metrics.RecordTransition(name, "invalid_state")
		return Lot{}, s.invalidState(ctx, lotNo, name, change.From)
	case err != nil:
		s.metrics.RecordTransition(name, "error")
		return Lot{}, dErrors.Wrap(err, dErrors.CodeInternal, "transition failed")
	}

	s.metrics.RecordTransition(name, "applied")
	s.auditor.Record(ctx, action, module, payload)

	lot, err := s.store.Get(ctx, tenantID, lotNo)
	if err != nil {
		return Lot{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to reload lot")
	}
	return lot, nil
}

// invalidState reports current vs. required state after a lost precondition.
func (s *Service) invalidState(ctx context.Context, lotNo id.LotNo, name string, required Status) error {
	current, err := s.store.Get(ctx, requestcontext.TenantID(ctx), lotNo)
	if err != nil {
		return dErrors.Newf(dErrors.CodeInvalidState, "%s requires state %s", name, required)
	}
	return dErrors.Newf(dErrors.CodeInvalidState,
		"lot %s is %s, %s requires %s", lotNo, current.Status, name, required)
}
