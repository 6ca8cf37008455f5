// Package finerr defines the typed error kinds the finance core reports to its
// callers. Every kind maps to a full transaction rollback; the HTTP layer maps
// kinds to status codes without inspecting error strings.
package finerr

import (
	"errors"
	"fmt"
)

// Kind classifies a core failure.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindStateConflict
	KindOverpayment
	KindDuplicatePayment
	KindAuthorizationLimit
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindStateConflict:
		return "state_conflict"
	case KindOverpayment:
		return "overpayment"
	case KindDuplicatePayment:
		return "duplicate_payment"
	case KindAuthorizationLimit:
		return "authorization_limit"
	default:
		return "internal"
	}
}

// Error carries a kind plus a human-readable detail message.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Detail, e.Err)
	}
	return e.Detail
}

func (e *Error) Unwrap() error { return e.Err }

// Validation builds a KindValidation error (input rejected before any mutation).
func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Detail: fmt.Sprintf(format, args...)}
}

// NotFound builds a KindNotFound error.
func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Detail: fmt.Sprintf(format, args...)}
}

// StateConflict builds a KindStateConflict error (entity status forbids the operation).
func StateConflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindStateConflict, Detail: fmt.Sprintf(format, args...)}
}

// Overpayment builds a KindOverpayment error.
func Overpayment(format string, args ...interface{}) *Error {
	return &Error{Kind: KindOverpayment, Detail: fmt.Sprintf(format, args...)}
}

// DuplicatePayment builds a KindDuplicatePayment error.
func DuplicatePayment(format string, args ...interface{}) *Error {
	return &Error{Kind: KindDuplicatePayment, Detail: fmt.Sprintf(format, args...)}
}

// AuthorizationLimit builds a KindAuthorizationLimit error.
func AuthorizationLimit(format string, args ...interface{}) *Error {
	return &Error{Kind: KindAuthorizationLimit, Detail: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected infrastructure failure.
func Internal(err error, detail string) *Error {
	return &Error{Kind: KindInternal, Detail: detail, Err: err}
}

// KindOf extracts the kind from any error in the chain; unknown errors are internal.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, k Kind) bool { return KindOf(err) == k }
