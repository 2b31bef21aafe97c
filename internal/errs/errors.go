// Package errs provides the unified error type used across the platform.
//
// Every subsystem (query generation, filter evaluation, webhook dispatch,
// storage drivers, …) wraps its native errors into *errs.Error before
// returning them to callers. Callers use the Is* predicates to handle errors
// without importing subsystem-specific packages.
//
// Usage:
//
//	// In the query builder: reject a misconfigured column:
//	return errs.New(errs.ErrKindInvalidFieldType, "column is not a lookup")
//
//	// In a caller: check error kind:
//	if errs.IsUnsupported(err) {
//	    // fall back or report to the user
//	}
package errs

import (
	"errors"
	"fmt"
)

// ErrKind categorises an error without exposing subsystem-specific codes.
// All subsystems map their native failures to one of these kinds, giving
// callers a single consistent API.
type ErrKind int

const (
	ErrKindUnknown          ErrKind = iota
	ErrKindNotFound                 // missing column, model, source or row
	ErrKindConnectionFailed         // cannot reach the backend
	ErrKindTimeout                  // context deadline / cancellation
	ErrKindQueryFailed              // SQL or storage operation error
	ErrKindInvalidInput             // bad arguments from the caller
	ErrKindInvalidFieldType         // column kind not allowed in this position
	ErrKindUnsupported              // no strategy for this dialect / column combination
	ErrKindDeliveryFailed           // outbound webhook channel failed
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindNotFound:
		return "not_found"
	case ErrKindConnectionFailed:
		return "connection_failed"
	case ErrKindTimeout:
		return "timeout"
	case ErrKindQueryFailed:
		return "query_failed"
	case ErrKindInvalidInput:
		return "invalid_input"
	case ErrKindInvalidFieldType:
		return "invalid_field_type"
	case ErrKindUnsupported:
		return "unsupported_operation"
	case ErrKindDeliveryFailed:
		return "delivery_failed"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by all subsystems.
// Producers build it via New/Wrap; callers inspect it via the Is* predicates.
type Error struct {
	Kind    ErrKind
	Message string
	Cause   error // original lower-level error, preserved for logging
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// --- Constructors ---

// New creates an *Error with the given kind and message and no cause.
func New(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Newf creates an *Error with a formatted message and no cause.
func Newf(kind ErrKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an *Error with the given kind, message, and an underlying cause.
func Wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// --- Predicates ---

// IsNotFound reports whether err represents a missing entity
// (no rows, unknown column/model/source, …).
func IsNotFound(err error) bool {
	return kindOf(err) == ErrKindNotFound
}

// IsTimeout reports whether err was caused by a deadline or context cancellation.
func IsTimeout(err error) bool {
	return kindOf(err) == ErrKindTimeout
}

// IsConnectionFailed reports whether err is a connectivity or auth failure.
func IsConnectionFailed(err error) bool {
	return kindOf(err) == ErrKindConnectionFailed
}

// IsQueryFailed reports whether err is a backend operation failure.
func IsQueryFailed(err error) bool {
	return kindOf(err) == ErrKindQueryFailed
}

// IsInvalidInput reports whether err was caused by bad input from the caller.
func IsInvalidInput(err error) bool {
	return kindOf(err) == ErrKindInvalidInput
}

// IsInvalidFieldType reports whether err was caused by passing a column of the
// wrong kind where a lookup or relation column was required.
func IsInvalidFieldType(err error) bool {
	return kindOf(err) == ErrKindInvalidFieldType
}

// IsUnsupported reports whether err represents a dialect or column-type
// combination that has no defined strategy.
func IsUnsupported(err error) bool {
	return kindOf(err) == ErrKindUnsupported
}

// IsDeliveryFailed reports whether err is an outbound webhook channel failure.
func IsDeliveryFailed(err error) bool {
	return kindOf(err) == ErrKindDeliveryFailed
}

// kindOf extracts the ErrKind from any error in the chain.
func kindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindUnknown
}
