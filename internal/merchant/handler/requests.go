package handler

import (
	"net/http"
	"strconv"

	"guesense/internal/merchant/models"
	id "guesense/pkg/domain"
	dErrors "guesense/pkg/domain-errors"
	"guesense/pkg/pagination"
)

// RegistrationPayload is one merchant in a bulk registration body.
type RegistrationPayload struct {
	MerchantID int64  `json:"merchant_id"`
	Code       string `json:"merchant_code"`
}

// BulkRegisterRequest is the POST /merchants/registry body.
type BulkRegisterRequest struct {
	Merchants []RegistrationPayload `json:"merchants"`
}

// Registrations converts the payload into domain registrations.
func (r BulkRegisterRequest) Registrations() []models.Registration {
	registrations := make([]models.Registration, 0, len(r.Merchants))
	for _, m := range r.Merchants {
		registrations = append(registrations, models.Registration{
			MerchantID: id.MerchantID(m.MerchantID),
			Code:       m.Code,
		})
	}
	return registrations
}

// UpdateRegistryRequest is the PATCH /merchants/registry/{registryID}
// body. Omitted fields are left untouched; clear_group takes precedence
// over group_id.
type UpdateRegistryRequest struct {
	GroupID    *int64  `json:"group_id"`
	ClearGroup bool    `json:"clear_group"`
	Status     *string `json:"status"`
}

// Patch converts the payload into a domain patch.
func (r UpdateRegistryRequest) Patch() (models.RegistryPatch, error) {
	patch := models.RegistryPatch{ClearGroup: r.ClearGroup}
	if r.GroupID != nil {
		gid := id.GroupID(*r.GroupID)
		patch.GroupID = &gid
	}
	if r.Status != nil {
		status := models.RegistryStatus(*r.Status)
		if status != models.RegistryStatusActive && status != models.RegistryStatusInactive {
			return models.RegistryPatch{}, dErrors.Newf(dErrors.CodeValidation, "unknown status %q", *r.Status)
		}
		patch.Status = &status
	}
	return patch, nil
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
