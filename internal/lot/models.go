package lot

import (
	"time"

	"github.com/shopspring/decimal"

	id "aurum/pkg/domain"
)

// Status is the internal state of a lot. The branch clients observe a
// smaller label set: two internal states project to "Received" and a melted
// lot reads "Approved" on the wire, so preconditions are always evaluated on
// the internal tag, never the label.
type Status string

const (
	StatusPending            Status = "Pending"
	StatusApproved           Status = "Approved"
	StatusRejected           Status = "Rejected" // terminal
	StatusInvoiced           Status = "Invoiced"
	StatusVerifiedByAccounts Status = "VerifiedByAccounts"
	StatusPaid               Status = "Paid"
	StatusInTransit          Status = "InTransit"
	StatusReceivedAtHub      Status = "ReceivedAtHub"
	StatusMelted             Status = "Melted" // terminal
)

// ExternalLabel projects an internal status onto the wire-level status
// string set {Pending, Approved, Rejected, Invoiced, Paid, In Transit,
// Received}.
func (s Status) ExternalLabel() string {
	switch s {
	case StatusVerifiedByAccounts, StatusReceivedAtHub:
		return "Received"
	case StatusMelted:
		return "Approved"
	case StatusInTransit:
		return "In Transit"
	default:
		return string(s)
	}
}

// MaterialRow is one line item of a lot. Derived fields are recomputed
// server-side on every save; client-supplied values for them are ignored.
type MaterialRow struct {
	SNo          int             `json:"sNo"`
	Product      string          `json:"product"`
	Piece        int             `json:"piece"`
	Weight       decimal.Decimal `json:"weight"`
	Purity       string          `json:"purity"`
	WastePercent decimal.Decimal `json:"wastePercent"`
	NetWeight    decimal.Decimal `json:"netWeight"`
	Rate         decimal.Decimal `json:"rate"`
	Amount       decimal.Decimal `json:"amount"`
}

var hundred = decimal.NewFromInt(100)

// ComputeDerived recalculates net weight and amount.
// netWeight = weight x (1 - wastePercent/100) at 3 dp; amount = rate x
// netWeight at 2 dp once a rate is assigned.
func (r *MaterialRow) ComputeDerived() {
	net := r.Weight.Mul(hundred.Sub(r.WastePercent)).Div(hundred)
	r.NetWeight = id.RoundWeight(net)
	if r.Rate.IsPositive() {
		r.Amount = id.RoundMoney(r.Rate.Mul(r.NetWeight))
	} else {
		r.Amount = decimal.Zero
	}
}

// LogisticsDetail records the physical transfer of a lot to the hub.
type LogisticsDetail struct {
	VehicleNo    string     `json:"vehicleNo"`
	DriverName   string     `json:"driverName,omitempty"`
	SealNumber   string     `json:"sealNumber"`
	DispatchedAt *time.Time `json:"dispatchedAt,omitempty"`
	ReceivedAt   *time.Time `json:"receivedAt,omitempty"`
}

// MeltingDetail records the refining step and its weight loss.
type MeltingDetail struct {
	InputWeight  decimal.Decimal `json:"inputWeight"`
	OutputWeight decimal.Decimal `json:"outputWeight"`
	LossWeight   decimal.Decimal `json:"lossWeight"`
	Operator     string          `json:"operator,omitempty"`
	Temperature  int             `json:"temperature,omitempty"`
	MeltedAt     time.Time       `json:"meltedAt"`
}

// DisbursementRecord records the payment released against a verified lot.
type DisbursementRecord struct {
	PaymentMode string          `json:"paymentMode"`
	ReferenceNo string          `json:"referenceNo,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	PaidAt      time.Time       `json:"paidAt"`
	VerifiedBy  id.UserID       `json:"verifiedBy"`
}

// Lot is the central entity of the pipeline: one batch of metal items keyed
// by lotNo within a tenant, moving through the procurement state machine.
type Lot struct {
	LotNo        id.LotNo    `json:"lotNo"`
	TenantID     id.TenantID `json:"-"`
	Branch       string      `json:"branch,omitempty"`
	RefNo        string      `json:"refNo,omitempty"`
	LotDate      string      `json:"date,omitempty"`
	CustomerID   string      `json:"customerId,omitempty"`
	CustomerName string      `json:"customerName,omitempty"`
	Status       Status      `json:"status"`
	Remarks      string      `json:"remarks,omitempty"`
	DecidedBy    id.UserID   `json:"decidedBy,omitempty"`
	DecidedAt    *time.Time  `json:"decidedAt,omitempty"`

	Items        []MaterialRow       `json:"items"`
	Logistics    *LogisticsDetail    `json:"logistics,omitempty"`
	Melting      *MeltingDetail      `json:"melting,omitempty"`
	Disbursement *DisbursementRecord `json:"disbursement,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Totals sums the item amounts and applies GST when enabled.
func (l *Lot) Totals(withGST bool) (subtotal, gst, grand decimal.Decimal) {
	subtotal = decimal.Zero
	for _, row := range l.Items {
		subtotal = subtotal.Add(row.Amount)
	}
	subtotal = id.RoundMoney(subtotal)
	if withGST {
		gst = id.GST(subtotal)
	} else {
		gst = decimal.Zero
	}
	return subtotal, gst, id.RoundMoney(subtotal.Add(gst))
}

// GrossWeight sums the item gross weights at 3 dp.
func (l *Lot) GrossWeight() decimal.Decimal {
	total := decimal.Zero
	for _, row := range l.Items {
		total = total.Add(row.Weight)
	}
	return id.RoundWeight(total)
}
