package registry

import (
	"fmt"
	"sync"

	"guesense/internal/merchant/models"
	id "guesense/pkg/domain"
	"guesense/pkg/platform/sentinel"
)

// Table is the in-memory stand-in for the merchant_group_members table.
// The registry store and the group store read and write the same rows in
// Postgres, so their memory doubles share one Table the same way. It also
// carries the read-only merchant catalog the list queries join against.
type Table struct {
	mu      sync.RWMutex
	nextID  id.RegistryID
	entries map[id.RegistryID]*models.RegistryEntry
	catalog map[id.MerchantID]models.Merchant
}

// NewTable constructs an empty shared row set.
func NewTable() *Table {
	return &Table{
		nextID:  1,
		entries: make(map[id.RegistryID]*models.RegistryEntry),
		catalog: make(map[id.MerchantID]models.Merchant),
	}
}

// SeedCatalog loads catalog merchants that joined queries resolve names
// and codes against.
func (t *Table) SeedCatalog(merchants ...models.Merchant) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, m := range merchants {
		t.catalog[m.ID] = m
	}
}

// Merchant looks up a seeded catalog merchant.
func (t *Table) Merchant(merchantID id.MerchantID) (models.Merchant, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	m, ok := t.catalog[merchantID]
	return m, ok
}

// Insert stores a copy of the entry, assigns the next ID and writes it
// back, enforcing the one-active-registration-per-merchant backstop.
func (t *Table) Insert(entry *models.RegistryEntry) error {
	if entry == nil {
		return fmt.Errorf("registry entry is required")
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if entry.Status == models.RegistryStatusActive {
		for _, existing := range t.entries {
			if existing.MerchantID == entry.MerchantID && existing.IsActive() {
				return fmt.Errorf("merchant %d already registered: %w", entry.MerchantID, sentinel.ErrConflict)
			}
		}
	}

	clone := *entry
	clone.ID = t.nextID
	t.nextID++
	t.entries[clone.ID] = &clone
	entry.ID = clone.ID
	return nil
}

// Entry returns a copy of the row with the given ID.
func (t *Table) Entry(registryID id.RegistryID) (models.RegistryEntry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	entry, ok := t.entries[registryID]
	if !ok {
		return models.RegistryEntry{}, false
	}
	return *entry, true
}

// ActiveByMerchant returns a copy of the merchant's active row, if any.
func (t *Table) ActiveByMerchant(merchantID id.MerchantID) (models.RegistryEntry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, entry := range t.entries {
		if entry.MerchantID == merchantID && entry.IsActive() {
			return *entry, true
		}
	}
	return models.RegistryEntry{}, false
}

// Apply mutates the row with the given ID under the write lock. It
// reports whether the row exists.
func (t *Table) Apply(registryID id.RegistryID, fn func(*models.RegistryEntry)) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	entry, ok := t.entries[registryID]
	if !ok {
		return false
	}
	fn(entry)
	return true
}

// ApplyAll mutates every row under the write lock.
func (t *Table) ApplyAll(fn func(*models.RegistryEntry)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, entry := range t.entries {
		fn(entry)
	}
}

// Remove hard-deletes the row and reports whether it existed.
func (t *Table) Remove(registryID id.RegistryID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.entries[registryID]; !ok {
		return false
	}
	delete(t.entries, registryID)
	return true
}

// Snapshot returns value copies of every row, in no particular order.
func (t *Table) Snapshot() []models.RegistryEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	entries := make([]models.RegistryEntry, 0, len(t.entries))
	for _, entry := range t.entries {
		entries = append(entries, *entry)
	}
	return entries
}
