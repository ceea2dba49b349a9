package kyc

import (
	"strings"
	"time"

	"github.com/google/uuid"

	id "aurum/pkg/domain"
)

// Outcome classifies one verification attempt. Bad input is an outcome, not
// an error: the verifier always answers.
type Outcome string

const (
	// OutcomeVerified: checksum, name and address all passed.
	OutcomeVerified Outcome = "Verified"
	// OutcomeAddressMismatch: identity number format is valid but the
	// address heuristic failed.
	OutcomeAddressMismatch Outcome = "AddressMismatch"
	// OutcomeRejected: identity number format is invalid.
	OutcomeRejected Outcome = "Rejected"
)

// Record is one immutable verification event. Re-verifying the same identity
// appends a new record; nothing is ever updated in place. The identity
// number is stored masked, never in full.
type Record struct {
	ID         uuid.UUID   `json:"id"`
	TenantID   id.TenantID `json:"-"`
	MaskedID   string      `json:"maskedId"`
	FullName   string      `json:"fullName"`
	Outcome    Outcome     `json:"outcome"`
	Remarks    string      `json:"remarks"`
	VerifiedAt time.Time   `json:"verifiedAt"`
}

// maskIdentity hides all but the last four digits.
func maskIdentity(number string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	if len(digits) < 4 {
		return "XXXX-XXXX-XXXX"
	}
	return "XXXX-XXXX-" + digits[len(digits)-4:]
}
