// Package domainerrors defines the error taxonomy services speak.
//
// Stores return sentinel errors (pkg/platform/sentinel) describing
// infrastructure facts; services translate those into coded domain errors
// that the transport layer maps onto HTTP statuses. Handlers never inspect
// raw store errors.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error for callers and for HTTP mapping.
type Code string

const (
	// CodeValidation marks bad or missing input caught before any store
	// mutation.
	CodeValidation Code = "validation_error"
	// CodeBadRequest marks a structurally invalid request (unparseable
	// body, malformed identifier).
	CodeBadRequest Code = "bad_request"
	// CodeNotFound marks an identifier that resolves to no active row.
	CodeNotFound Code = "not_found"
	// CodeNotRegistered marks an operation on a registry entry that does
	// not exist.
	CodeNotRegistered Code = "not_registered"
	// CodeNotAMember marks a merchant that is not an active member of the
	// group the operation targets.
	CodeNotAMember Code = "not_a_member"
	// CodeConflict marks a duplicate registration or membership.
	CodeConflict Code = "conflict"
	// CodeInvariantViolation marks a domain invariant breach detected by a
	// model constructor or transition method.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeUnauthorized marks a missing or unverifiable caller identity.
	CodeUnauthorized Code = "unauthorized"
	// CodeInternal wraps systemic failures (store unreachable, transaction
	// failure). Details are logged, never surfaced to clients.
	CodeInternal Code = "internal_error"
	// CodeTimeout marks a context deadline hit inside an operation.
	CodeTimeout Code = "timeout"
)

// DomainError carries a code alongside the message and an optional cause.
type DomainError struct {
	Code    Code
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error { return e.Err }

// New builds a domain error with no underlying cause.
func New(code Code, message string) error {
	return &DomainError{Code: code, Message: message}
}

// Newf builds a domain error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &DomainError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error. A nil err
// yields nil so call sites can wrap unconditionally.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &DomainError{Code: code, Message: message, Err: err}
}

// HasCode reports whether any error in the chain carries the given code.
func HasCode(err error, code Code) bool {
	var de *DomainError
	for errors.As(err, &de) {
		if de.Code == code {
			return true
		}
		err = de.Err
		de = nil
	}
	return false
}

// CodeOf returns the outermost code in the chain, or CodeInternal when the
// error carries none.
func CodeOf(err error) Code {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// Is delegates to errors.Is; kept so callers can stay on one import.
func Is(err, target error) bool { return errors.Is(err, target) }
