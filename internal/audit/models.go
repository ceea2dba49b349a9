package audit

import (
	"time"

	"github.com/google/uuid"

	id "aurum/pkg/domain"
)

// Entry is one append-only audit record. Entries are write-once: nothing in
// the system updates or deletes them.
type Entry struct {
	ID        uuid.UUID      `json:"id"`
	TenantID  id.TenantID    `json:"tenant_id"`
	ActorID   id.UserID      `json:"actor_id"`
	Action    string         `json:"action"`
	Module    string         `json:"module"`
	Payload   map[string]any `json:"payload"`
	Timestamp time.Time      `json:"timestamp"`
}

// Action verbs. One verb per mutating operation, matching the wire-level
// audit vocabulary the branch clients already display.
const (
	ActionUpsert   = "UPSERT"
	ActionSync     = "SYNC"
	ActionVerify   = "VERIFY"
	ActionApprove  = "APPROVE"
	ActionInvoice  = "INVOICE"
	ActionPay      = "PAY"
	ActionTransfer = "TRANSFER"
	ActionReceive  = "RECEIVE"
	ActionMelt     = "MELT"
	ActionSet      = "SET"
	ActionLogin    = "LOGIN"
)

// Module names identifying the subsystem that performed the action.
const (
	ModuleMaster     = "MASTER"
	ModuleKYC        = "KYC"
	ModuleLot        = "TRANSACTION"
	ModuleRHApproval = "RH_APPROVAL"
	ModuleBilling    = "BILLING"
	ModuleAccounts   = "ACCOUNTS"
	ModuleFinance    = "FINANCE"
	ModuleLogistics  = "LOGISTICS"
	ModuleRefining   = "REFINING"
	ModuleSales      = "SALES"
	ModuleSettings   = "SETTINGS"
	ModuleAuth       = "AUTH"
)
