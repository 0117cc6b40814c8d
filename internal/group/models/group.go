package models

import (
	"strings"
	"time"

	merchantmodels "guesense/internal/merchant/models"
	id "guesense/pkg/domain"
	dErrors "guesense/pkg/domain-errors"
)

// MinNameLength is the shortest group name operators may use.
const MinNameLength = 3

// Group is a named collection of registry entries.
//
// Invariants:
//   - Name is non-empty and at least MinNameLength characters
//   - Status is either active or inactive
//   - SourceMerchantID mirrors the one active member with the template
//     source mark, or is nil when the group has no source
//
// SourceMerchantID is denormalized for cheap reads. It is only ever
// written inside the same transaction that flips the member mark, so the
// two cannot drift through this service's own operations. Concurrent
// SetTemplateSource calls on one group are last-committed-wins; see the
// store documentation.
type Group struct {
	ID               id.GroupID     `json:"id"`
	Name             string         `json:"name"`
	Status           GroupStatus    `json:"status"`
	SourceMerchantID *id.MerchantID `json:"merchant_source_id,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

func (g *Group) IsActive() bool {
	return g.Status == GroupStatusActive
}

// ValidateName enforces the group naming rule shared by create and update.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return dErrors.New(dErrors.CodeValidation, "group name is required")
	}
	if len(strings.TrimSpace(name)) < MinNameLength {
		return dErrors.Newf(dErrors.CodeValidation, "group name must be at least %d characters", MinNameLength)
	}
	return nil
}

// NewGroup builds a group, enforcing construction invariants.
func NewGroup(name string, now time.Time) (*Group, error) {
	name = strings.TrimSpace(name)
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	return &Group{
		Name:      name,
		Status:    GroupStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// GroupSummary is the list-view shape: group fields plus the count of
// active members, recomputed by query rather than cached on the row.
type GroupSummary struct {
	Group
	MembersCount int `json:"membersCount"`
}

// GroupMember joins a membership row with the catalog fields the dashboard
// shows next to it.
type GroupMember struct {
	RegistryID   id.RegistryID `json:"registry_id"`
	MerchantID   id.MerchantID `json:"merchant_id"`
	MerchantCode string        `json:"merchant_code"`
	MerchantName string        `json:"merchant_name"`
	IsSource     bool          `json:"is_merchant_source"`
}

// GroupWithMembers is the detail-view shape. Members hold active rows
// only, ordered source first, then alphabetically by merchant name.
type GroupWithMembers struct {
	Group
	MembersCount int           `json:"membersCount"`
	Members      []GroupMember `json:"members"`
}

// GroupPatch carries the patchable group fields. Nil fields are left
// untouched.
type GroupPatch struct {
	Name   *string      `json:"name"`
	Status *GroupStatus `json:"status"`
}

// CreateGroupResult reports the outcome of the atomic create-with-members
// operation. MembersFailed holds per-member failures that did not abort
// the transaction; SourceSet is false when the requested source member's
// insert failed.
type CreateGroupResult struct {
	GroupID             id.GroupID                   `json:"groupId"`
	GroupName           string                       `json:"groupName"`
	MembersSuccessCount int                          `json:"membersSuccessCount"`
	MembersTotalCount   int                          `json:"membersTotalCount"`
	MembersFailed       []merchantmodels.BulkFailure `json:"membersFailed"`
	SourceSet           bool                         `json:"sourceSet"`
	SourceMerchantID    *id.MerchantID               `json:"sourceMerchantId,omitempty"`
}

// PartialFailure reports whether some, but not all, members failed.
func (r CreateGroupResult) PartialFailure() bool {
	return len(r.MembersFailed) > 0 && r.MembersSuccessCount > 0
}
