package database

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/schoolbot-backend/internal/config"
)

// NewRedisClient creates and validates the Redis client shared by the tenant
// directory cache and the tool audit queue.
func NewRedisClient(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	if opt.ClientName == "" {
		opt.ClientName = "schoolbot"
	}
	// The audit worker holds one connection in BLPOP at all times.
	if opt.MinIdleConns < 2 {
		opt.MinIdleConns = 2
	}

	rdb := redis.NewClient(opt)

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	log.Info().
		Str("addr", opt.Addr).
		Int("db", opt.DB).
		Int("pool_size", opt.PoolSize).
		Dur("cache_ttl", cfg.RedisCacheTTL).
		Msg("Redis connected")

	return rdb, nil
}
