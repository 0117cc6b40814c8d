package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"guesense/internal/merchant/models"
	id "guesense/pkg/domain"
	"guesense/pkg/pagination"
)

// Reader is the catalog read interface the cache and the pgx reader share.
type Reader interface {
	ListAvailable(ctx context.Context, filter pagination.Filter) ([]models.Merchant, error)
	FindByID(ctx context.Context, merchantID id.MerchantID) (*models.Merchant, error)
}

// CachedReader fronts a Reader with a TTL-bound Redis cache. This is an
// explicit eventual-consistency cache, never a source of truth: entries
// can serve a merchant the catalog has since deactivated, for at most the
// TTL. Cache failures degrade to direct reads.
type CachedReader struct {
	inner  Reader
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCached wraps reader with a Redis cache. A nil client returns the
// reader unchanged so wiring stays unconditional.
func NewCached(reader Reader, client *redis.Client, ttl time.Duration, logger *slog.Logger) Reader {
	if client == nil {
		return reader
	}
	return &CachedReader{inner: reader, client: client, ttl: ttl, logger: logger}
}

func (c *CachedReader) ListAvailable(ctx context.Context, filter pagination.Filter) ([]models.Merchant, error) {
	key := fmt.Sprintf("catalog:available:%s:%d:%d", filter.Search, filter.Limit, filter.Offset)

	if cached, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var merchants []models.Merchant
		if err := json.Unmarshal(cached, &merchants); err == nil {
			return merchants, nil
		}
	}

	merchants, err := c.inner.ListAvailable(ctx, filter)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, merchants)
	return merchants, nil
}

func (c *CachedReader) FindByID(ctx context.Context, merchantID id.MerchantID) (*models.Merchant, error) {
	key := "catalog:merchant:" + merchantID.String()

	if cached, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var m models.Merchant
		if err := json.Unmarshal(cached, &m); err == nil {
			return &m, nil
		}
	}

	m, err := c.inner.FindByID(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, m)
	return m, nil
}

func (c *CachedReader) set(ctx context.Context, key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil && c.logger != nil {
		c.logger.WarnContext(ctx, "catalog cache write failed", "key", key, "error", err)
	}
}
