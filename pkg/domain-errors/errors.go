// Package domainerrors defines the typed error taxonomy surfaced to callers.
//
// Services translate infrastructure sentinels (pkg/platform/sentinel) into
// these coded errors; the HTTP layer maps codes to status lines without
// inspecting messages. Codes are machine-readable and stable.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an error for programmatic handling.
type Code string

const (
	// CodeValidation marks malformed input: empty required field,
	// non-numeric amount, empty item list. Never retried automatically.
	CodeValidation Code = "validation_error"

	// CodeInvalidState marks a lot transition attempted from the wrong
	// source state. The message carries current vs. required state; callers
	// may re-fetch and retry.
	CodeInvalidState Code = "invalid_state_transition"

	// CodeNotFound covers ids that do not exist in the caller's tenant.
	// Cross-tenant existence is indistinguishable from nonexistence.
	CodeNotFound Code = "not_found"

	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"
	CodeConflict     Code = "conflict"

	// CodeInternal covers persistence failures and other faults after which
	// multi-record transitions have been fully rolled back.
	CodeInternal Code = "internal_error"
)

// Error is the domain error carried across module boundaries.
type Error struct {
	Code    Code
	Message string
	// Field names the offending input field for validation errors, when known.
	Field string
	err   error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.err }

// New builds a domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf builds a domain error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// NewField builds a validation error tied to a specific input field.
func NewField(field, message string) *Error {
	return &Error{Code: CodeValidation, Message: message, Field: field}
}

// Wrap attaches a code and message to an underlying error while keeping the
// cause available to errors.Is/As.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, err: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for errors
// that did not originate in domain logic.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to its transport status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeInvalidState, CodeConflict:
		return http.StatusConflict
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
