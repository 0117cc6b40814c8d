package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and infrastructure layers return
// these (optionally wrapped) so services can translate them into domain errors.
//
// These represent factual states about rows, not validation failures:
// - ErrNotFound: row does not exist (or is inactive where the query scopes to active rows)
// - ErrConflict: a unique constraint rejected the write (duplicate registration or membership)
// - ErrInvalidState: row exists but is in the wrong state for the requested operation
// - ErrUnavailable: store temporarily unreachable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
