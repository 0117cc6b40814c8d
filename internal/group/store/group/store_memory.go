package group

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"guesense/internal/group/models"
	merchantmodels "guesense/internal/merchant/models"
	"guesense/internal/merchant/store/registry"
	id "guesense/pkg/domain"
	"guesense/pkg/pagination"
	"guesense/pkg/platform/sentinel"
	"guesense/pkg/requestcontext"
)

// InMemory mirrors the Postgres store's semantics, including the
// all-or-rollback rule for zero-success creates, for unit tests and
// local runs. Member rows live in a registry.Table: in Postgres both
// stores share the merchant_group_members table, so the doubles share
// the row set too and cross-store effects stay observable.
type InMemory struct {
	mu          sync.RWMutex
	nextGroupID id.GroupID
	groups      map[id.GroupID]*models.Group

	table *registry.Table
}

// NewInMemory constructs an in-memory group store over the given row
// set. Pass the table backing the registry store double to share state
// with it, or a fresh registry.NewTable() for a standalone store.
func NewInMemory(table *registry.Table) *InMemory {
	return &InMemory{
		nextGroupID: 1,
		groups:      make(map[id.GroupID]*models.Group),
		table:       table,
	}
}

// SeedCatalog loads catalog merchants the member list queries resolve
// names against.
func (s *InMemory) SeedCatalog(merchants ...merchantmodels.Merchant) {
	s.table.SeedCatalog(merchants...)
}

// SeedMember installs an active ungrouped registration, the state a
// merchant is in after individual registration. It panics on a
// duplicate active registration, which is always a test-setup bug.
func (s *InMemory) SeedMember(merchantID id.MerchantID, code string) id.RegistryID {
	entry := &merchantmodels.RegistryEntry{
		MerchantID:   merchantID,
		MerchantCode: code,
		Status:       merchantmodels.RegistryStatusActive,
	}
	if err := s.table.Insert(entry); err != nil {
		panic(err)
	}
	return entry.ID
}

func (s *InMemory) FindByID(_ context.Context, groupID id.GroupID) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	group, ok := s.groups[groupID]
	if !ok || group.Status != models.GroupStatusActive {
		return nil, fmt.Errorf("group %d: %w", groupID, sentinel.ErrNotFound)
	}
	clone := *group
	return &clone, nil
}

func (s *InMemory) List(_ context.Context, filter pagination.Filter) ([]models.GroupSummary, error) {
	s.mu.RLock()
	matched := s.matchGroups(filter)
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	summaries := make([]models.GroupSummary, 0, filter.Limit)
	for i := filter.Offset; i < len(matched) && len(summaries) < filter.Limit; i++ {
		group := matched[i]
		summaries = append(summaries, models.GroupSummary{
			Group:        group,
			MembersCount: s.activeMemberCount(group.ID),
		})
	}
	return summaries, nil
}

func (s *InMemory) Count(_ context.Context, filter pagination.Filter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.matchGroups(filter)), nil
}

func (s *InMemory) Members(_ context.Context, groupID id.GroupID) ([]models.GroupMember, error) {
	var members []models.GroupMember
	for _, entry := range s.table.Snapshot() {
		if !entry.IsActive() || entry.GroupID == nil || *entry.GroupID != groupID {
			continue
		}
		m, _ := s.table.Merchant(entry.MerchantID)
		members = append(members, models.GroupMember{
			RegistryID:   entry.ID,
			MerchantID:   entry.MerchantID,
			MerchantCode: entry.MerchantCode,
			MerchantName: m.Name,
			IsSource:     entry.IsSource,
		})
	}
	sort.Slice(members, func(i, j int) bool {
		if members[i].IsSource != members[j].IsSource {
			return members[i].IsSource
		}
		return members[i].MerchantName < members[j].MerchantName
	})
	return members, nil
}

func (s *InMemory) IsMember(_ context.Context, groupID id.GroupID, merchantID id.MerchantID) (bool, error) {
	_, ok := s.activeMember(groupID, merchantID)
	return ok, nil
}

func (s *InMemory) AssignMember(_ context.Context, groupID id.GroupID, merchantID id.MerchantID) error {
	entry, ok := s.table.ActiveByMerchant(merchantID)
	if !ok {
		return fmt.Errorf("merchant %d has no active registration: %w", merchantID, sentinel.ErrNotFound)
	}
	s.table.Apply(entry.ID, func(e *merchantmodels.RegistryEntry) {
		gid := groupID
		e.GroupID = &gid
	})
	return nil
}

func (s *InMemory) Update(ctx context.Context, groupID id.GroupID, patch models.GroupPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	group, ok := s.groups[groupID]
	if !ok {
		return fmt.Errorf("group %d: %w", groupID, sentinel.ErrNotFound)
	}
	if patch.Name != nil {
		group.Name = *patch.Name
	}
	if patch.Status != nil {
		group.Status = *patch.Status
	}
	group.UpdatedAt = requestcontext.Now(ctx)
	return nil
}

func (s *InMemory) CreateWithMembers(ctx context.Context, group *models.Group, members []MemberInput, sourceMerchantID *id.MerchantID) (*models.CreateGroupResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := &models.CreateGroupResult{
		GroupName:         group.Name,
		MembersTotalCount: len(members),
		MembersFailed:     []merchantmodels.BulkFailure{},
		SourceMerchantID:  sourceMerchantID,
	}

	now := requestcontext.Now(ctx)
	created := models.Group{
		ID:        s.nextGroupID,
		Name:      group.Name,
		Status:    group.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Each member insert stands alone, like the per-member savepoints in
	// the Postgres store. A failed insert never touches the table, so a
	// zero-success create leaves no rows behind.
	for _, member := range members {
		isSource := sourceMerchantID != nil && *sourceMerchantID == member.MerchantID
		gid := created.ID
		entry := &merchantmodels.RegistryEntry{
			MerchantID:   member.MerchantID,
			MerchantCode: member.Code,
			GroupID:      &gid,
			IsSource:     isSource,
			Status:       merchantmodels.RegistryStatusActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.table.Insert(entry); err != nil {
			result.MembersFailed = append(result.MembersFailed, merchantmodels.BulkFailure{
				Code:  member.Code,
				Error: fmt.Sprintf("merchant %q is already registered", member.Code),
			})
			continue
		}
		result.MembersSuccessCount++
		if isSource {
			result.SourceSet = true
		}
	}

	if result.MembersSuccessCount == 0 {
		return nil, fmt.Errorf("no members were successfully added to the group: %w", sentinel.ErrInvalidState)
	}

	if result.SourceSet && sourceMerchantID != nil {
		mid := *sourceMerchantID
		created.SourceMerchantID = &mid
	}

	s.nextGroupID++
	s.groups[created.ID] = &created
	result.GroupID = created.ID
	return result, nil
}

func (s *InMemory) SetTemplateSource(ctx context.Context, groupID id.GroupID, merchantID id.MerchantID) error {
	target, ok := s.activeMember(groupID, merchantID)
	if !ok {
		return fmt.Errorf("merchant %d is not an active member of group %d: %w", merchantID, groupID, sentinel.ErrNotFound)
	}

	s.table.ApplyAll(func(e *merchantmodels.RegistryEntry) {
		if e.IsActive() && e.GroupID != nil && *e.GroupID == groupID {
			e.IsSource = e.ID == target.ID
		}
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if group, ok := s.groups[groupID]; ok {
		mid := merchantID
		group.SourceMerchantID = &mid
		group.UpdatedAt = requestcontext.Now(ctx)
	}
	return nil
}

func (s *InMemory) Delete(ctx context.Context, groupID id.GroupID) error {
	s.mu.Lock()
	if _, ok := s.groups[groupID]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("group %d: %w", groupID, sentinel.ErrNotFound)
	}
	delete(s.groups, groupID)
	s.mu.Unlock()

	now := requestcontext.Now(ctx)
	s.table.ApplyAll(func(e *merchantmodels.RegistryEntry) {
		if e.IsActive() && e.GroupID != nil && *e.GroupID == groupID {
			e.ApplyDeactivation(now)
		}
	})
	return nil
}

func (s *InMemory) RemoveMember(ctx context.Context, groupID id.GroupID, merchantID id.MerchantID) error {
	target, ok := s.activeMember(groupID, merchantID)
	if !ok {
		return nil
	}
	now := requestcontext.Now(ctx)
	s.table.Apply(target.ID, func(e *merchantmodels.RegistryEntry) {
		e.ApplyDeactivation(now)
	})

	if target.IsSource {
		s.mu.Lock()
		defer s.mu.Unlock()
		if group, ok := s.groups[groupID]; ok {
			group.SourceMerchantID = nil
			group.UpdatedAt = now
		}
	}
	return nil
}

func (s *InMemory) matchGroups(filter pagination.Filter) []models.Group {
	var matched []models.Group
	for _, group := range s.groups {
		if filter.Status != nil {
			if group.Status.Int() != *filter.Status {
				continue
			}
		} else if group.Status != models.GroupStatusActive {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(group.Name), strings.ToLower(filter.Search)) {
			continue
		}
		matched = append(matched, *group)
	}
	return matched
}

func (s *InMemory) activeMemberCount(groupID id.GroupID) int {
	count := 0
	for _, entry := range s.table.Snapshot() {
		if entry.IsActive() && entry.GroupID != nil && *entry.GroupID == groupID {
			count++
		}
	}
	return count
}

func (s *InMemory) activeMember(groupID id.GroupID, merchantID id.MerchantID) (merchantmodels.RegistryEntry, bool) {
	for _, entry := range s.table.Snapshot() {
		if entry.IsActive() && entry.GroupID != nil && *entry.GroupID == groupID && entry.MerchantID == merchantID {
			return entry, true
		}
	}
	return merchantmodels.RegistryEntry{}, false
}
