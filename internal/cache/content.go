// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// content.go provides a Valkey-backed cache of page view models. Values are
// stored as JSON so a hit skips the partition queries and tree resolution.
// Cache failures are logged and treated as misses.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// keyPrefix is the Valkey key prefix for cached view models.
	keyPrefix = "kb:"

	// DefaultTTL is how long a view model stays cached.
	DefaultTTL = 5 * time.Minute
)

// ContentCache manages view-model caching in Valkey.
type ContentCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewContentCache creates a new cache backed by the given Valkey client.
func NewContentCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *ContentCache {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &ContentCache{client: client, ttl: ttl, logger: logger}
}

// Get decodes the cached value for key into dst. It reports false on a
// miss, on a Valkey error, or when the stored value no longer decodes.
func (c *ContentCache) Get(ctx context.Context, key string, dst any) bool {
	val, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		c.logger.Warn("content cache get error", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := json.Unmarshal(val, dst); err != nil {
		c.logger.Warn("content cache decode error", zap.String("key", key), zap.Error(err))
		return false
	}
	c.logger.Debug("content cache hit", zap.String("key", key))
	return true
}

// Set stores v as JSON under key with the configured TTL.
func (c *ContentCache) Set(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("content cache encode error", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, keyPrefix+key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("content cache set error", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate removes the given keys and returns how many existed.
func (c *ContentCache) Invalidate(ctx context.Context, keys ...string) int {
	if len(keys) == 0 {
		return 0
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = keyPrefix + k
	}
	n, err := c.client.Del(ctx, prefixed...).Result()
	if err != nil {
		c.logger.Warn("content cache invalidate error", zap.Strings("keys", keys), zap.Error(err))
		return 0
	}
	c.logger.Debug("content cache invalidated", zap.Strings("keys", keys), zap.Int64("deleted", n))
	return int(n)
}

// InvalidateAll removes every cached view model by scanning for the prefix
// and returns the number of keys deleted.
func (c *ContentCache) InvalidateAll(ctx context.Context) int {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			c.logger.Warn("content cache scan error", zap.Error(err))
			return deleted
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				c.logger.Warn("content cache bulk delete error", zap.Error(err))
			} else {
				deleted += len(keys)
			}
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		c.logger.Info("content cache fully cleared", zap.Int("deleted", deleted))
	}
	return deleted
}

// HandbookKey is the cache key of the handbook index.
func HandbookKey() string {
	return "handbook"
}

// CategoriesKey is the cache key of a section's category list.
func CategoriesKey(section string) string {
	return "categories:" + section
}
