package models

import (
	id "guesense/pkg/domain"
)

// Merchant is the read-only view of a merchant in the external catalog.
// The catalog owns these rows; this core only reads them.
type Merchant struct {
	ID     id.MerchantID `json:"id"`
	Name   string        `json:"name"`
	Code   string        `json:"code"`
	Active bool          `json:"active"`
}

// MerchantWithRegistry joins catalog fields with the merchant's registry
// entry, the shape list endpoints return for registered merchants.
type MerchantWithRegistry struct {
	Merchant
	RegistryID id.RegistryID  `json:"registry_id"`
	GroupID    *id.GroupID    `json:"group_id,omitempty"`
	IsSource   bool           `json:"is_merchant_source"`
	Status     RegistryStatus `json:"registry_status"`
}
