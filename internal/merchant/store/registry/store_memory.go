package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"guesense/internal/merchant/models"
	id "guesense/pkg/domain"
	"guesense/pkg/pagination"
	"guesense/pkg/platform/sentinel"
	"guesense/pkg/requestcontext"
)

// InMemory mirrors the Postgres store's semantics, including the unique
// active-registration backstop, for unit tests and local runs. It is a
// view over a shared Table so the group store double sees the same rows.
type InMemory struct {
	table *Table
}

// NewInMemory constructs an in-memory registry store over its own table.
func NewInMemory() *InMemory {
	return &InMemory{table: NewTable()}
}

// Table exposes the backing row set so a group store double can be built
// over the same rows.
func (s *InMemory) Table() *Table {
	return s.table
}

// SeedCatalog loads catalog merchants the joined list queries resolve
// names and codes against.
func (s *InMemory) SeedCatalog(merchants ...models.Merchant) {
	s.table.SeedCatalog(merchants...)
}

func (s *InMemory) Create(_ context.Context, entry *models.RegistryEntry) error {
	return s.table.Insert(entry)
}

func (s *InMemory) FindByID(_ context.Context, registryID id.RegistryID) (*models.RegistryEntry, error) {
	entry, ok := s.table.Entry(registryID)
	if !ok {
		return nil, fmt.Errorf("registry entry %d: %w", registryID, sentinel.ErrNotFound)
	}
	return &entry, nil
}

func (s *InMemory) FindActiveByMerchant(_ context.Context, merchantID id.MerchantID) (*models.RegistryEntry, error) {
	entry, ok := s.table.ActiveByMerchant(merchantID)
	if !ok {
		return nil, fmt.Errorf("merchant %d: %w", merchantID, sentinel.ErrNotFound)
	}
	return &entry, nil
}

func (s *InMemory) Update(ctx context.Context, registryID id.RegistryID, patch models.RegistryPatch) error {
	ok := s.table.Apply(registryID, func(entry *models.RegistryEntry) {
		if patch.ClearGroup {
			entry.GroupID = nil
			entry.IsSource = false
		} else if patch.GroupID != nil {
			gid := *patch.GroupID
			entry.GroupID = &gid
		}
		if patch.Status != nil {
			entry.Status = *patch.Status
			if entry.Status == models.RegistryStatusInactive {
				entry.IsSource = false
			}
		}
		entry.UpdatedAt = requestcontext.Now(ctx)
	})
	if !ok {
		return fmt.Errorf("registry entry %d: %w", registryID, sentinel.ErrNotFound)
	}
	return nil
}

func (s *InMemory) Delete(_ context.Context, registryID id.RegistryID) error {
	if !s.table.Remove(registryID) {
		return fmt.Errorf("registry entry %d: %w", registryID, sentinel.ErrNotFound)
	}
	return nil
}

func (s *InMemory) ListIndividual(_ context.Context, filter pagination.Filter) ([]models.MerchantWithRegistry, error) {
	matched := s.individualEntries(filter)
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	merchants := make([]models.MerchantWithRegistry, 0, filter.Limit)
	for i := filter.Offset; i < len(matched) && len(merchants) < filter.Limit; i++ {
		entry := matched[i]
		m, _ := s.table.Merchant(entry.MerchantID)
		merchants = append(merchants, models.MerchantWithRegistry{
			Merchant:   m,
			RegistryID: entry.ID,
			IsSource:   entry.IsSource,
			Status:     entry.Status,
		})
	}
	return merchants, nil
}

func (s *InMemory) CountIndividual(_ context.Context, filter pagination.Filter) (int, error) {
	return len(s.individualEntries(filter)), nil
}

func (s *InMemory) individualEntries(filter pagination.Filter) []models.RegistryEntry {
	var matched []models.RegistryEntry
	for _, entry := range s.table.Snapshot() {
		if entry.GroupID != nil {
			continue
		}
		if filter.Status != nil {
			if entry.Status.Int() != *filter.Status {
				continue
			}
		} else if !entry.IsActive() {
			continue
		}
		if filter.Search != "" {
			m, _ := s.table.Merchant(entry.MerchantID)
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(m.Name), needle) && !strings.Contains(strings.ToLower(m.Code), needle) {
				continue
			}
		}
		matched = append(matched, entry)
	}
	return matched
}
