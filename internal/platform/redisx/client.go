// Package redisx provides the optional Redis read cache in front of
// dashboard queries. The cache is a pure accelerator: every cached value
// can be recomputed from Postgres, and a missing Redis deployment only
// disables caching.
package redisx

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lumenlearn/progression-backend/internal/platform/logger"
)

// NewClient connects to Redis at REDIS_ADDR. Returns nil without error
// when REDIS_ADDR is unset so callers can run cache-less.
func NewClient(log *logger.Logger) (*redis.Client, error) {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		if log != nil {
			log.Info("REDIS_ADDR not set, running without cache")
		}
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    strings.TrimSpace(os.Getenv("REDIS_PASSWORD")),
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	if log != nil {
		log.Info("redis cache connected", "addr", addr)
	}
	return rdb, nil
}
