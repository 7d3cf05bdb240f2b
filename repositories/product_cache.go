package repositories

import (
	"context"
	"fmt"
	"time"

	"shop-api/models"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisProductCache caches catalog product reads. Cache failures are logged
// and treated as misses.
type RedisProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisProductCache(client *redis.Client, ttl time.Duration) *RedisProductCache {
	return &RedisProductCache{client: client, ttl: ttl}
}

func productCacheKey(id int) string {
	return fmt.Sprintf("shop:product:%d", id)
}

func (c *RedisProductCache) GetProduct(ctx context.Context, id int) (*models.Product, bool) {
	raw, err := c.client.Get(ctx, productCacheKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			zap.L().Warn("product cache read failed", zap.Int("product_id", id), zap.Error(err))
		}
		return nil, false
	}

	var p models.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		zap.L().Warn("product cache entry corrupt", zap.Int("product_id", id), zap.Error(err))
		return nil, false
	}
	return &p, true
}

func (c *RedisProductCache) SetProduct(ctx context.Context, product *models.Product) {
	raw, err := json.Marshal(product)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, productCacheKey(product.ID), raw, c.ttl).Err(); err != nil {
		zap.L().Warn("product cache write failed", zap.Int("product_id", product.ID), zap.Error(err))
	}
}

func (c *RedisProductCache) InvalidateProduct(ctx context.Context, id int) {
	if err := c.client.Del(ctx, productCacheKey(id)).Err(); err != nil {
		zap.L().Warn("product cache invalidation failed", zap.Int("product_id", id), zap.Error(err))
	}
}
