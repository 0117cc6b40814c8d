package handler

import (
	"net/http"
	"strconv"

	"guesense/internal/group/models"
	merchantmodels "guesense/internal/merchant/models"
	id "guesense/pkg/domain"
	dErrors "guesense/pkg/domain-errors"
	"guesense/pkg/pagination"
)

// MemberPayload is one merchant in a group create or add-members body.
type MemberPayload struct {
	MerchantID int64  `json:"merchant_id"`
	Code       string `json:"merchant_code"`
}

// CreateGroupRequest is the POST /groups body.
type CreateGroupRequest struct {
	Name             string          `json:"name"`
	Merchants        []MemberPayload `json:"merchants"`
	SourceMerchantID *int64          `json:"source_merchant_id"`
}

// Registrations converts the payload into domain registrations.
func (r CreateGroupRequest) Registrations() []merchantmodels.Registration {
	return toRegistrations(r.Merchants)
}

// SourceMerchant returns the requested source merchant id, if any.
func (r CreateGroupRequest) SourceMerchant() *id.MerchantID {
	if r.SourceMerchantID == nil {
		return nil
	}
	mid := id.MerchantID(*r.SourceMerchantID)
	return &mid
}

// AddMembersRequest is the POST /groups/{groupID}/members body.
type AddMembersRequest struct {
	Merchants []MemberPayload `json:"merchants"`
}

// Registrations converts the payload into domain registrations.
func (r AddMembersRequest) Registrations() []merchantmodels.Registration {
	return toRegistrations(r.Merchants)
}

// UpdateGroupRequest is the PATCH /groups/{groupID} body. Omitted fields
// are left untouched.
type UpdateGroupRequest struct {
	Name   *string `json:"name"`
	Status *string `json:"status"`
}

// Patch converts the payload into a domain patch.
func (r UpdateGroupRequest) Patch() (models.GroupPatch, error) {
	patch := models.GroupPatch{Name: r.Name}
	if r.Status != nil {
		status := models.GroupStatus(*r.Status)
		if status != models.GroupStatusActive && status != models.GroupStatusInactive {
			return models.GroupPatch{}, dErrors.Newf(dErrors.CodeValidation, "unknown status %q", *r.Status)
		}
		patch.Status = &status
	}
	return patch, nil
}

func toRegistrations(payloads []MemberPayload) []merchantmodels.Registration {
	registrations := make([]merchantmodels.Registration, 0, len(payloads))
	for _, p := range payloads {
		registrations = append(registrations, merchantmodels.Registration{
			MerchantID: id.MerchantID(p.MerchantID),
			Code:       p.Code,
		})
	}
	return registrations
}

// parseListFilter extracts the shared list query parameters. Bad numeric
// values fall back to defaults rather than failing the request.
func parseListFilter(r *http.Request) pagination.Filter {
	q := r.URL.Query()
	filter := pagination.Filter{Search: q.Get("search")}
	if v, err := strconv.Atoi(q.Get("status")); err == nil {
		filter.Status = &v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		filter.Limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil {
		filter.Offset = v
	}
	return filter
}
