// Package domain holds the typed identifiers shared across modules.
//
// Identifiers are distinct types over the catalog's integer keys so the
// compiler catches a merchant ID passed where a group ID belongs.
package domain

import "strconv"

// MerchantID identifies a merchant in the external catalog.
type MerchantID int64

// GroupID identifies a merchant group.
type GroupID int64

// RegistryID identifies a registry entry (a merchant_group_members row).
type RegistryID int64

func (id MerchantID) Valid() bool { return id > 0 }
func (id GroupID) Valid() bool    { return id > 0 }
func (id RegistryID) Valid() bool { return id > 0 }

func (id MerchantID) String() string { return strconv.FormatInt(int64(id), 10) }
func (id GroupID) String() string    { return strconv.FormatInt(int64(id), 10) }
func (id RegistryID) String() string { return strconv.FormatInt(int64(id), 10) }

// ParseMerchantID parses a decimal merchant ID, returning false when the
// input is not a positive integer.
func ParseMerchantID(s string) (MerchantID, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return MerchantID(n), true
}

// ParseGroupID parses a decimal group ID.
func ParseGroupID(s string) (GroupID, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return GroupID(n), true
}

// ParseRegistryID parses a decimal registry entry ID.
func ParseRegistryID(s string) (RegistryID, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return RegistryID(n), true
}
