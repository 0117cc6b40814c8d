package models

import (
	"strings"
	"time"

	id "guesense/pkg/domain"
	dErrors "guesense/pkg/domain-errors"
)

// RegistryEntry is a merchant's participation in the system, either
// standalone (GroupID nil) or as a group member.
//
// Invariants:
//   - MerchantID references exactly one catalog merchant and is immutable
//     after creation
//   - MerchantCode is the catalog code denormalized at registration time
//   - at most one active entry exists per merchant
//   - an entry with GroupID nil can never be a template source
//   - Status transitions: active ↔ inactive only
//
// An entry is never resurrected: hard removal followed by re-registration
// creates a fresh entry with a new identity.
type RegistryEntry struct {
	ID           id.RegistryID  `json:"id"`
	MerchantID   id.MerchantID  `json:"merchant_id"`
	MerchantCode string         `json:"merchant_code"`
	GroupID      *id.GroupID    `json:"group_id,omitempty"`
	IsSource     bool           `json:"is_merchant_source"`
	Status       RegistryStatus `json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func (e *RegistryEntry) IsActive() bool {
	return e.Status == RegistryStatusActive
}

// CanDeactivate checks if the entry can transition to inactive status.
func (e *RegistryEntry) CanDeactivate() error {
	if !e.Status.CanTransitionTo(RegistryStatusInactive) {
		return dErrors.New(dErrors.CodeInvariantViolation, "registry entry is already inactive")
	}
	return nil
}

// ApplyDeactivation transitions the entry to inactive status. The entry
// keeps its GroupID for history; counts and lookups scope to active rows.
func (e *RegistryEntry) ApplyDeactivation(now time.Time) {
	e.Status = RegistryStatusInactive
	e.IsSource = false
	e.UpdatedAt = now
}

// NewRegistryEntry builds a registry entry, enforcing construction
// invariants. groupID nil means individually registered.
func NewRegistryEntry(merchantID id.MerchantID, merchantCode string, groupID *id.GroupID, isSource bool, now time.Time) (*RegistryEntry, error) {
	merchantCode = strings.TrimSpace(merchantCode)
	if !merchantID.Valid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "merchant id is required")
	}
	if merchantCode == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "merchant code is required")
	}
	if groupID == nil && isSource {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "an ungrouped merchant cannot be a template source")
	}
	if groupID != nil && !groupID.Valid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "group id must be valid when set")
	}
	return &RegistryEntry{
		MerchantID:   merchantID,
		MerchantCode: merchantCode,
		GroupID:      groupID,
		IsSource:     isSource,
		Status:       RegistryStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Registration is one item of a bulk registration request.
type Registration struct {
	MerchantID id.MerchantID `json:"merchant_id"`
	Code       string        `json:"merchant_code"`
}

// Validate checks the per-item requirements of best-effort bulk handling.
func (r Registration) Validate() error {
	if !r.MerchantID.Valid() || strings.TrimSpace(r.Code) == "" {
		return dErrors.New(dErrors.CodeValidation, "merchant id and code are required")
	}
	return nil
}

// RegistryPatch carries the patchable fields of a registry entry. Nil
// fields are left untouched; ClearGroup moves the entry back to the
// individually-registered state.
type RegistryPatch struct {
	GroupID    *id.GroupID
	ClearGroup bool
	Status     *RegistryStatus
}

// IsEmpty reports whether the patch changes nothing.
func (p RegistryPatch) IsEmpty() bool {
	return p.GroupID == nil && !p.ClearGroup && p.Status == nil
}
