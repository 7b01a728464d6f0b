package redisx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when the requested key is not found in cache.
var ErrCacheMiss = errors.New("cache: key not found")

const (
	// DefaultTTL bounds staleness of dashboard reads.
	DefaultTTL = 5 * time.Minute

	prefixModuleProgress = "progress:module:"
	prefixUserXP         = "progress:xp:"
)

// Cache wraps a Redis client with JSON serialization. A nil Cache (or a
// Cache over a nil client) is a no-op that always misses.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	if rdb == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

func (c *Cache) Get(ctx context.Context, key string, dest any) error {
	if c == nil || c.rdb == nil {
		return ErrCacheMiss
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return err
	}
	return json.Unmarshal(data, dest)
}

func (c *Cache) Set(ctx context.Context, key string, value any) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, data, c.ttl).Err()
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if c == nil || c.rdb == nil || len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// ModuleProgressKey namespaces the cached module progress rollup.
func ModuleProgressKey(userID, moduleID string) string {
	return fmt.Sprintf("%s%s:%s", prefixModuleProgress, userID, moduleID)
}

// UserXPKey namespaces the cached XP total.
func UserXPKey(userID string) string {
	return prefixUserXP + userID
}
