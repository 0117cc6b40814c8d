package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"guesense/internal/merchant/models"
	id "guesense/pkg/domain"
	"guesense/pkg/pagination"
	"guesense/pkg/platform/sentinel"
)

// InMemory is the catalog stand-in for unit tests. "Available" is derived
// from a registered-merchant set the test (or the registry store double)
// maintains.
type InMemory struct {
	mu         sync.RWMutex
	merchants  map[id.MerchantID]models.Merchant
	registered map[id.MerchantID]bool
}

func NewInMemory() *InMemory {
	return &InMemory{
		merchants:  make(map[id.MerchantID]models.Merchant),
		registered: make(map[id.MerchantID]bool),
	}
}

// Seed loads catalog merchants.
func (s *InMemory) Seed(merchants ...models.Merchant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range merchants {
		s.merchants[m.ID] = m
	}
}

// MarkRegistered flags merchants as having an active registry entry.
func (s *InMemory) MarkRegistered(ids ...id.MerchantID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, mid := range ids {
		s.registered[mid] = true
	}
}

// MarkUnregistered clears the registration flag.
func (s *InMemory) MarkUnregistered(ids ...id.MerchantID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, mid := range ids {
		delete(s.registered, mid)
	}
}

func (s *InMemory) ListAvailable(_ context.Context, filter pagination.Filter) ([]models.Merchant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []models.Merchant
	for _, m := range s.merchants {
		if !m.Active || s.registered[m.ID] {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(m.Name), needle) && !strings.Contains(strings.ToLower(m.Code), needle) {
				continue
			}
		}
		matched = append(matched, m)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	merchants := make([]models.Merchant, 0, filter.Limit)
	for i := filter.Offset; i < len(matched) && len(merchants) < filter.Limit; i++ {
		merchants = append(merchants, matched[i])
	}
	return merchants, nil
}

func (s *InMemory) FindByID(_ context.Context, merchantID id.MerchantID) (*models.Merchant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.merchants[merchantID]
	if !ok {
		return nil, fmt.Errorf("merchant %d: %w", merchantID, sentinel.ErrNotFound)
	}
	return &m, nil
}
