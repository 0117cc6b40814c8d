package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"guesense/internal/merchant/models"
	"guesense/internal/merchant/store/catalog"
	"guesense/internal/merchant/store/registry"
	id "guesense/pkg/domain"
	dErrors "guesense/pkg/domain-errors"
	"guesense/pkg/pagination"
)

type ServiceSuite struct {
	suite.Suite
	registry *registry.InMemory
	catalog  *catalog.InMemory
	service  *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.registry = registry.NewInMemory()
	s.catalog = catalog.NewInMemory()
	s.service = New(s.registry, s.catalog)

	merchants := make([]models.Merchant, 0, 15)
	for i := 1; i <= 15; i++ {
		merchants = append(merchants, models.Merchant{
			ID:     id.MerchantID(i),
			Name:   fmt.Sprintf("Apotek %02d", i),
			Code:   fmt.Sprintf("APT-%03d", i),
			Active: true,
		})
	}
	s.catalog.Seed(merchants...)
	s.registry.SeedCatalog(merchants...)
}

func (s *ServiceSuite) register(merchantIDs ...int) {
	ctx := context.Background()
	registrations := make([]models.Registration, 0, len(merchantIDs))
	for _, mid := range merchantIDs {
		registrations = append(registrations, models.Registration{
			MerchantID: id.MerchantID(mid),
			Code:       fmt.Sprintf("APT-%03d", mid),
		})
	}
	result, err := s.service.BulkRegister(ctx, registrations)
	s.Require().NoError(err)
	s.Require().Equal(len(merchantIDs), result.SuccessCount)
	for _, mid := range merchantIDs {
		s.catalog.MarkRegistered(id.MerchantID(mid))
	}
}

func (s *ServiceSuite) TestListAvailable() {
	ctx := context.Background()

	s.Run("defaults to the picker page size", func() {
		merchants, err := s.service.ListAvailable(ctx, pagination.Filter{})
		s.Require().NoError(err)
		s.Len(merchants, 5)
	})

	s.Run("excludes registered merchants", func() {
		s.register(1, 2)

		merchants, err := s.service.ListAvailable(ctx, pagination.Filter{Limit: 20})
		s.Require().NoError(err)
		s.Len(merchants, 13)
		for _, m := range merchants {
			s.NotEqual(id.MerchantID(1), m.ID)
			s.NotEqual(id.MerchantID(2), m.ID)
		}
	})

	s.Run("search narrows by name or code", func() {
		merchants, err := s.service.ListAvailable(ctx, pagination.Filter{Search: "APT-003", Limit: 20})
		s.Require().NoError(err)
		s.Require().Len(merchants, 1)
		s.Equal(id.MerchantID(3), merchants[0].ID)
	})
}

func (s *ServiceSuite) TestListRegistered() {
	ctx := context.Background()

	s.Run("empty registry yields an empty first page", func() {
		page, err := s.service.ListRegistered(ctx, pagination.Filter{})
		s.Require().NoError(err)
		s.Empty(page.Merchants)
		s.Equal(0, page.Pagination.Total)
		s.Equal(1, page.Pagination.CurrentPage)
		s.False(page.Pagination.HasNextPage)
	})

	s.Run("pagination arithmetic over thirteen rows", func() {
		s.register(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13)

		page, err := s.service.ListRegistered(ctx, pagination.Filter{Limit: 6, Offset: 6})
		s.Require().NoError(err)
		s.Len(page.Merchants, 6)
		s.Equal(13, page.Pagination.Total)
		s.Equal(3, page.Pagination.TotalPages)
		s.Equal(2, page.Pagination.CurrentPage)
		s.True(page.Pagination.HasNextPage)

		last, err := s.service.ListRegistered(ctx, pagination.Filter{Limit: 6, Offset: 12})
		s.Require().NoError(err)
		s.Len(last.Merchants, 1)
		s.Equal(3, last.Pagination.CurrentPage)
		s.False(last.Pagination.HasNextPage)
	})
}

func (s *ServiceSuite) TestBulkRegister() {
	ctx := context.Background()

	s.Run("empty batch is rejected", func() {
		_, err := s.service.BulkRegister(ctx, nil)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("bad item fails alone, batch continues", func() {
		result, err := s.service.BulkRegister(ctx, []models.Registration{
			{MerchantID: 1, Code: "APT-001"},
			{MerchantID: 0, Code: "APT-XXX"},
			{MerchantID: 2, Code: "APT-002"},
		})
		s.Require().NoError(err)
		s.Equal(3, result.TotalCount)
		s.Equal(2, result.SuccessCount)
		s.Require().Len(result.Failed, 1)
		s.Equal("APT-XXX", result.Failed[0].Code)
	})

	s.Run("already registered merchant fails its slot", func() {
		s.register(5)

		result, err := s.service.BulkRegister(ctx, []models.Registration{
			{MerchantID: 5, Code: "APT-005"},
			{MerchantID: 6, Code: "APT-006"},
		})
		s.Require().NoError(err)
		s.Equal(1, result.SuccessCount)
		s.Require().Len(result.Failed, 1)
		s.Equal("APT-005", result.Failed[0].Code)
	})

	s.Run("unknown merchant fails its slot", func() {
		result, err := s.service.BulkRegister(ctx, []models.Registration{
			{MerchantID: 999, Code: "APT-999"},
		})
		s.Require().NoError(err)
		s.Equal(0, result.SuccessCount)
		s.Require().Len(result.Failed, 1)
	})
}

func (s *ServiceSuite) TestUpdate() {
	ctx := context.Background()

	s.Run("missing entry maps to not_registered", func() {
		inactive := models.RegistryStatusInactive
		_, err := s.service.Update(ctx, 42, models.RegistryPatch{Status: &inactive})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotRegistered))
	})

	s.Run("empty patch is rejected", func() {
		_, err := s.service.Update(ctx, 1, models.RegistryPatch{})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("deactivation clears the source mark", func() {
		s.register(7)
		entry, err := s.registry.FindActiveByMerchant(ctx, 7)
		s.Require().NoError(err)

		inactive := models.RegistryStatusInactive
		updated, err := s.service.Update(ctx, entry.ID, models.RegistryPatch{Status: &inactive})
		s.Require().NoError(err)
		s.Equal(models.RegistryStatusInactive, updated.Status)
		s.False(updated.IsSource)
	})

	s.Run("repeated deactivation violates the transition rule", func() {
		s.register(8)
		entry, err := s.registry.FindActiveByMerchant(ctx, 8)
		s.Require().NoError(err)

		inactive := models.RegistryStatusInactive
		_, err = s.service.Update(ctx, entry.ID, models.RegistryPatch{Status: &inactive})
		s.Require().NoError(err)
		_, err = s.service.Update(ctx, entry.ID, models.RegistryPatch{Status: &inactive})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func (s *ServiceSuite) TestRemove() {
	ctx := context.Background()

	s.Run("invalid id is rejected", func() {
		err := s.service.Remove(ctx, 0)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("removal is idempotent", func() {
		s.register(9)
		entry, err := s.registry.FindActiveByMerchant(ctx, 9)
		s.Require().NoError(err)

		s.Require().NoError(s.service.Remove(ctx, entry.ID))
		s.Require().NoError(s.service.Remove(ctx, entry.ID))

		_, err = s.registry.FindByID(ctx, entry.ID)
		s.Require().Error(err)
	})

	s.Run("removed merchant can register again with a fresh identity", func() {
		s.register(10)
		entry, err := s.registry.FindActiveByMerchant(ctx, 10)
		s.Require().NoError(err)
		s.Require().NoError(s.service.Remove(ctx, entry.ID))
		s.catalog.MarkUnregistered(10)

		result, err := s.service.BulkRegister(ctx, []models.Registration{
			{MerchantID: 10, Code: "APT-010"},
		})
		s.Require().NoError(err)
		s.Equal(1, result.SuccessCount)

		fresh, err := s.registry.FindActiveByMerchant(ctx, 10)
		s.Require().NoError(err)
		s.NotEqual(entry.ID, fresh.ID)
	})
}
