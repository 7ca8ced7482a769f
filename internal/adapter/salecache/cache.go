package salecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/minhtg/flashsale/internal/domain/model"
)

func saleKey(id int64) string {
	return fmt.Sprintf("flash_sale:sale:%d", id)
}

// RedisCache keeps JSON snapshots of sale rows in Redis. Misses and Redis
// failures are both treated as a miss so the caller falls through to storage.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisCache constructs a cache over an existing Redis client.
func NewRedisCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

func (c *RedisCache) Get(ctx context.Context, id int64) (*model.Sale, bool) {
	raw, err := c.client.Get(ctx, saleKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("sale cache read failed", slog.Int64("sale_id", id), slog.String("error", err.Error()))
		}
		return nil, false
	}
	var sale model.Sale
	if err := json.Unmarshal(raw, &sale); err != nil {
		c.logger.Warn("sale cache decode failed", slog.Int64("sale_id", id), slog.String("error", err.Error()))
		return nil, false
	}
	return &sale, true
}

func (c *RedisCache) Set(ctx context.Context, sale *model.Sale) {
	raw, err := json.Marshal(sale)
	if err != nil {
		c.logger.Warn("sale cache encode failed", slog.Int64("sale_id", sale.ID), slog.String("error", err.Error()))
		return
	}
	if err := c.client.Set(ctx, saleKey(sale.ID), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("sale cache write failed", slog.Int64("sale_id", sale.ID), slog.String("error", err.Error()))
	}
}

func (c *RedisCache) Invalidate(ctx context.Context, id int64) {
	if err := c.client.Del(ctx, saleKey(id)).Err(); err != nil {
		c.logger.Warn("sale cache invalidate failed", slog.Int64("sale_id", id), slog.String("error", err.Error()))
	}
}
