package group

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"guesense/internal/group/models"
	merchantmodels "guesense/internal/merchant/models"
	"guesense/internal/merchant/store/registry"
	id "guesense/pkg/domain"
	"guesense/pkg/pagination"
	"guesense/pkg/platform/sentinel"
	"guesense/pkg/requestcontext"
)

type GroupStoreSuite struct {
	suite.Suite
	registry *registry.InMemory
	store    *InMemory
}

func TestGroupStoreSuite(t *testing.T) {
	suite.Run(t, new(GroupStoreSuite))
}

func (s *GroupStoreSuite) SetupTest() {
	s.registry = registry.NewInMemory()
	s.store = NewInMemory(s.registry.Table())
	s.store.SeedCatalog(
		merchantmodels.Merchant{ID: 1, Name: "Charlie Pharma", Code: "APT-001", Active: true},
		merchantmodels.Merchant{ID: 2, Name: "Alpha Pharma", Code: "APT-002", Active: true},
		merchantmodels.Merchant{ID: 3, Name: "Bravo Pharma", Code: "APT-003", Active: true},
	)
}

func (s *GroupStoreSuite) createGroup(name string, source *id.MerchantID, members ...MemberInput) *models.CreateGroupResult {
	ctx := context.Background()
	group, err := models.NewGroup(name, requestcontext.Now(ctx))
	s.Require().NoError(err)
	result, err := s.store.CreateWithMembers(ctx, group, members, source)
	s.Require().NoError(err)
	return result
}

func (s *GroupStoreSuite) TestCreateWithMembers() {
	ctx := context.Background()

	s.Run("creates group with members and source", func() {
		source := id.MerchantID(1)
		result := s.createGroup("North Region", &source,
			MemberInput{MerchantID: 1, Code: "APT-001"},
			MemberInput{MerchantID: 2, Code: "APT-002"},
		)

		s.Equal(2, result.MembersSuccessCount)
		s.True(result.SourceSet)

		group, err := s.store.FindByID(ctx, result.GroupID)
		s.Require().NoError(err)
		s.Require().NotNil(group.SourceMerchantID)
		s.Equal(source, *group.SourceMerchantID)
	})

	s.Run("registered member fails its slot without aborting the create", func() {
		s.SetupTest() // fresh store, the subtests register overlapping merchants
		s.store.SeedMember(3, "APT-003")

		result := s.createGroup("South Region", nil,
			MemberInput{MerchantID: 2, Code: "APT-002"},
			MemberInput{MerchantID: 3, Code: "APT-003"},
		)

		s.Equal(1, result.MembersSuccessCount)
		s.Require().Len(result.MembersFailed, 1)
		s.Equal("APT-003", result.MembersFailed[0].Code)
	})

	s.Run("zero surviving members rolls back the group row", func() {
		s.SetupTest()
		s.store.SeedMember(1, "APT-001")

		group, err := models.NewGroup("Ghost Group", requestcontext.Now(ctx))
		s.Require().NoError(err)
		_, err = s.store.CreateWithMembers(ctx, group, []MemberInput{
			{MerchantID: 1, Code: "APT-001"},
		}, nil)
		s.Require().ErrorIs(err, sentinel.ErrInvalidState)

		groups, err := s.store.List(ctx, pagination.Filter{Limit: 10})
		s.Require().NoError(err)
		s.Empty(groups)
	})

	s.Run("failed source insert leaves the group without a source", func() {
		s.SetupTest()
		s.store.SeedMember(2, "APT-002")

		source := id.MerchantID(2)
		result := s.createGroup("West Region", &source,
			MemberInput{MerchantID: 1, Code: "APT-001"},
			MemberInput{MerchantID: 2, Code: "APT-002"},
		)

		s.False(result.SourceSet)
		group, err := s.store.FindByID(ctx, result.GroupID)
		s.Require().NoError(err)
		s.Nil(group.SourceMerchantID)
	})
}

func (s *GroupStoreSuite) TestMembersOrdering() {
	ctx := context.Background()

	// Merchant 3 (Bravo) is the source; 1 (Charlie) and 2 (Alpha) follow
	// alphabetically.
	source := id.MerchantID(3)
	result := s.createGroup("Ordered Group", &source,
		MemberInput{MerchantID: 1, Code: "APT-001"},
		MemberInput{MerchantID: 2, Code: "APT-002"},
		MemberInput{MerchantID: 3, Code: "APT-003"},
	)

	members, err := s.store.Members(ctx, result.GroupID)
	s.Require().NoError(err)
	s.Require().Len(members, 3)
	s.True(members[0].IsSource)
	s.Equal("Bravo Pharma", members[0].MerchantName)
	s.Equal("Alpha Pharma", members[1].MerchantName)
	s.Equal("Charlie Pharma", members[2].MerchantName)
}

func (s *GroupStoreSuite) TestSetTemplateSource() {
	ctx := context.Background()

	s.Run("moves the mark and keeps it exclusive", func() {
		source := id.MerchantID(1)
		result := s.createGroup("Switch Group", &source,
			MemberInput{MerchantID: 1, Code: "APT-001"},
			MemberInput{MerchantID: 2, Code: "APT-002"},
		)

		s.Require().NoError(s.store.SetTemplateSource(ctx, result.GroupID, 2))

		members, err := s.store.Members(ctx, result.GroupID)
		s.Require().NoError(err)
		marked := 0
		for _, m := range members {
			if m.IsSource {
				marked++
				s.Equal(id.MerchantID(2), m.MerchantID)
			}
		}
		s.Equal(1, marked)

		group, err := s.store.FindByID(ctx, result.GroupID)
		s.Require().NoError(err)
		s.Require().NotNil(group.SourceMerchantID)
		s.Equal(id.MerchantID(2), *group.SourceMerchantID)
	})

	s.Run("non-member target mutates nothing", func() {
		s.SetupTest()
		source := id.MerchantID(1)
		result := s.createGroup("Strict Group", &source,
			MemberInput{MerchantID: 1, Code: "APT-001"},
		)

		err := s.store.SetTemplateSource(ctx, result.GroupID, 3)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)

		group, err := s.store.FindByID(ctx, result.GroupID)
		s.Require().NoError(err)
		s.Require().NotNil(group.SourceMerchantID)
		s.Equal(id.MerchantID(1), *group.SourceMerchantID)
	})
}

func (s *GroupStoreSuite) TestRemoveMember() {
	ctx := context.Background()

	s.Run("soft delete is idempotent", func() {
		result := s.createGroup("Removal Group", nil,
			MemberInput{MerchantID: 1, Code: "APT-001"},
			MemberInput{MerchantID: 2, Code: "APT-002"},
		)

		s.Require().NoError(s.store.RemoveMember(ctx, result.GroupID, 1))
		s.Require().NoError(s.store.RemoveMember(ctx, result.GroupID, 1))

		members, err := s.store.Members(ctx, result.GroupID)
		s.Require().NoError(err)
		s.Require().Len(members, 1)
		s.Equal(id.MerchantID(2), members[0].MerchantID)
	})

	s.Run("removing the source clears the group pointer", func() {
		s.SetupTest()
		source := id.MerchantID(1)
		result := s.createGroup("Pointer Group", &source,
			MemberInput{MerchantID: 1, Code: "APT-001"},
			MemberInput{MerchantID: 2, Code: "APT-002"},
		)

		s.Require().NoError(s.store.RemoveMember(ctx, result.GroupID, 1))

		group, err := s.store.FindByID(ctx, result.GroupID)
		s.Require().NoError(err)
		s.Nil(group.SourceMerchantID)
	})

	s.Run("removed merchant can be registered again", func() {
		s.SetupTest()
		result := s.createGroup("Rejoin Group", nil,
			MemberInput{MerchantID: 1, Code: "APT-001"},
			MemberInput{MerchantID: 2, Code: "APT-002"},
		)
		s.Require().NoError(s.store.RemoveMember(ctx, result.GroupID, 1))

		s.store.SeedMember(1, "APT-001")
		s.Require().NoError(s.store.AssignMember(ctx, result.GroupID, 1))

		members, err := s.store.Members(ctx, result.GroupID)
		s.Require().NoError(err)
		s.Len(members, 2)
	})
}

func (s *GroupStoreSuite) TestDelete() {
	ctx := context.Background()

	result := s.createGroup("Doomed Group", nil,
		MemberInput{MerchantID: 1, Code: "APT-001"},
		MemberInput{MerchantID: 2, Code: "APT-002"},
	)

	s.Require().NoError(s.store.Delete(ctx, result.GroupID))

	_, err := s.store.FindByID(ctx, result.GroupID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	members, err := s.store.Members(ctx, result.GroupID)
	s.Require().NoError(err)
	s.Empty(members)

	s.Require().ErrorIs(s.store.Delete(ctx, result.GroupID), sentinel.ErrNotFound)
}

func (s *GroupStoreSuite) TestListStatusFilter() {
	ctx := context.Background()

	active := s.createGroup("Active Group", nil,
		MemberInput{MerchantID: 1, Code: "APT-001"},
	)
	dormant := s.createGroup("Dormant Group", nil,
		MemberInput{MerchantID: 2, Code: "APT-002"},
	)

	inactive := models.GroupStatusInactive
	s.Require().NoError(s.store.Update(ctx, dormant.GroupID, models.GroupPatch{Status: &inactive}))

	groups, err := s.store.List(ctx, pagination.Filter{Limit: 10})
	s.Require().NoError(err)
	s.Require().Len(groups, 1)
	s.Equal(active.GroupID, groups[0].ID)

	inactiveOnly := 0
	groups, err = s.store.List(ctx, pagination.Filter{Limit: 10, Status: &inactiveOnly})
	s.Require().NoError(err)
	s.Require().Len(groups, 1)
	s.Equal(dormant.GroupID, groups[0].ID)

	total, err := s.store.Count(ctx, pagination.Filter{Status: &inactiveOnly})
	s.Require().NoError(err)
	s.Equal(1, total)
}

// Both stores write the merchant_group_members table in Postgres, so
// their memory doubles share one row set and each store observes the
// other's writes.
func (s *GroupStoreSuite) TestSharesRowsWithRegistryStore() {
	ctx := context.Background()

	result := s.createGroup("Shared Group", nil,
		MemberInput{MerchantID: 1, Code: "APT-001"},
	)

	entry, err := s.registry.FindActiveByMerchant(ctx, 1)
	s.Require().NoError(err)
	s.Require().NotNil(entry.GroupID)
	s.Equal(result.GroupID, *entry.GroupID)

	individual, err := merchantmodels.NewRegistryEntry(2, "APT-002", nil, false, requestcontext.Now(ctx))
	s.Require().NoError(err)
	s.Require().NoError(s.registry.Create(ctx, individual))

	s.Require().NoError(s.store.AssignMember(ctx, result.GroupID, 2))
	members, err := s.store.Members(ctx, result.GroupID)
	s.Require().NoError(err)
	s.Len(members, 2)

	s.Require().NoError(s.store.RemoveMember(ctx, result.GroupID, 2))
	_, err = s.registry.FindActiveByMerchant(ctx, 2)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *GroupStoreSuite) TestListCountsActiveMembersOnly() {
	ctx := context.Background()

	result := s.createGroup("Counting Group", nil,
		MemberInput{MerchantID: 1, Code: "APT-001"},
		MemberInput{MerchantID: 2, Code: "APT-002"},
		MemberInput{MerchantID: 3, Code: "APT-003"},
	)
	s.Require().NoError(s.store.RemoveMember(ctx, result.GroupID, 3))

	groups, err := s.store.List(ctx, pagination.Filter{Limit: 10})
	s.Require().NoError(err)
	s.Require().Len(groups, 1)
	s.Equal(2, groups[0].MembersCount)
}
