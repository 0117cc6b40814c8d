//go:build integration

package catalog_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"guesense/internal/merchant/store/catalog"
	id "guesense/pkg/domain"
	"guesense/pkg/pagination"
	"guesense/pkg/platform/sentinel"
	"guesense/pkg/testutil/containers"
)

type CatalogReaderSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	redis    *containers.RedisContainer
	pool     *pgxpool.Pool
	reader   *catalog.PostgresReader
}

func TestCatalogReaderSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(CatalogReaderSuite))
}

func (s *CatalogReaderSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.redis = mgr.GetRedis(s.T())

	pool, err := pgxpool.New(context.Background(), s.postgres.DSN)
	s.Require().NoError(err)
	s.pool = pool
	s.reader = catalog.NewPostgres(pool)
}

func (s *CatalogReaderSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *CatalogReaderSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateTables(ctx, "merchant_group_members", "merchant_groups", "merchants"))
	s.Require().NoError(s.redis.FlushAll(ctx))

	rows := []struct {
		id     int64
		name   string
		code   string
		status int
	}{
		{1, "Apotek Utara", "APT-001", 1},
		{2, "Apotek Selatan", "APT-002", 1},
		{3, "Apotek Timur", "APT-003", 1},
		{4, "Apotek Tutup", "APT-004", 0},
	}
	for _, row := range rows {
		_, err := s.postgres.DB.Exec(`
			INSERT INTO merchants (id, name, goapotik_merchant_code, status)
			VALUES ($1, $2, $3, $4)
		`, row.id, row.name, row.code, row.status)
		s.Require().NoError(err)
	}
}

func (s *CatalogReaderSuite) registerMerchant(merchantID int64, code string) {
	_, err := s.postgres.DB.Exec(`
		INSERT INTO merchant_group_members (merchant_id, merchant_code, is_merchant_source, status, created_at, updated_at)
		VALUES ($1, $2, FALSE, 1, now(), now())
	`, merchantID, code)
	s.Require().NoError(err)
}

func (s *CatalogReaderSuite) TestListAvailable() {
	ctx := context.Background()

	s.Run("excludes inactive and registered merchants", func() {
		s.registerMerchant(1, "APT-001")

		merchants, err := s.reader.ListAvailable(ctx, pagination.Filter{Limit: 10})
		s.Require().NoError(err)
		s.Require().Len(merchants, 2)
		s.Equal("Apotek Selatan", merchants[0].Name)
		s.Equal("Apotek Timur", merchants[1].Name)
	})

	s.Run("search matches name or code", func() {
		byName, err := s.reader.ListAvailable(ctx, pagination.Filter{Search: "timur", Limit: 10})
		s.Require().NoError(err)
		s.Require().Len(byName, 1)
		s.Equal(id.MerchantID(3), byName[0].ID)

		byCode, err := s.reader.ListAvailable(ctx, pagination.Filter{Search: "apt-002", Limit: 10})
		s.Require().NoError(err)
		s.Require().Len(byCode, 1)
		s.Equal(id.MerchantID(2), byCode[0].ID)
	})
}

func (s *CatalogReaderSuite) TestFindByID() {
	ctx := context.Background()

	m, err := s.reader.FindByID(ctx, 4)
	s.Require().NoError(err)
	s.Equal("Apotek Tutup", m.Name)
	s.False(m.Active)

	_, err = s.reader.FindByID(ctx, 99)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *CatalogReaderSuite) TestCachedReader() {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cached := catalog.NewCached(s.reader, s.redis.Client, time.Minute, logger)

	s.Run("serves stale entries until the TTL", func() {
		first, err := cached.FindByID(ctx, 2)
		s.Require().NoError(err)
		s.Equal("Apotek Selatan", first.Name)

		_, err = s.postgres.DB.Exec(`UPDATE merchants SET name = 'Apotek Berganti' WHERE id = 2`)
		s.Require().NoError(err)

		again, err := cached.FindByID(ctx, 2)
		s.Require().NoError(err)
		s.Equal("Apotek Selatan", again.Name)

		fresh, err := s.reader.FindByID(ctx, 2)
		s.Require().NoError(err)
		s.Equal("Apotek Berganti", fresh.Name)
	})

	s.Run("distinct filters get distinct cache entries", func() {
		all, err := cached.ListAvailable(ctx, pagination.Filter{Limit: 10})
		s.Require().NoError(err)

		filtered, err := cached.ListAvailable(ctx, pagination.Filter{Search: "timur", Limit: 10})
		s.Require().NoError(err)

		s.Greater(len(all), len(filtered))
		s.Require().Len(filtered, 1)
	})

	s.Run("nil client degrades to the plain reader", func() {
		plain := catalog.NewCached(s.reader, nil, time.Minute, logger)
		s.Same(s.reader, plain)
	})
}
