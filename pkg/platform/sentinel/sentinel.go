package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors without the
// stores knowing about the caller-facing taxonomy.
//
// These represent factual states about persisted resources, not validation
// failures. For bad input use pkg/domain-errors directly.
var (
	// ErrNotFound: entity does not exist in the caller's tenant scope.
	ErrNotFound = errors.New("not found")

	// ErrConflict: a uniqueness or concurrent-write constraint was violated.
	ErrConflict = errors.New("conflict")

	// ErrInvalidState: the conditional check-and-update observed the entity
	// in a different state than the transition requires.
	ErrInvalidState = errors.New("invalid state")

	// ErrUnavailable: the backing store is temporarily unreachable.
	ErrUnavailable = errors.New("unavailable")
)
