// Package cache provides a Redis-backed JSON cache for dashboard reads.
// The cache is strictly optional: a nil *RedisCache is safe to call and
// behaves as a permanent miss, so the façade works unchanged when Redis
// is down or not configured.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"nhlstats/backfill/internal/metrics"
)

// Config holds Redis connection configuration
type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// RedisCache wraps a Redis client for JSON get/set with TTL
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to Redis and verifies the connection
func NewRedisCache(cfg Config) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{client: client}, nil
}

// Get unmarshals the cached value for key into dest. Returns false on a
// miss or any cache failure; a broken cache must never break a read path.
func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) bool {
	if c == nil {
		return false
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		metrics.RecordCacheMiss()
		return false
	}
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		metrics.RecordCacheMiss()
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache entry corrupt, ignoring")
		metrics.RecordCacheMiss()
		return false
	}

	metrics.RecordCacheHit()
	return true
}

// Set marshals value as JSON and stores it under key with the given TTL.
// Failures are logged and swallowed.
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache marshal failed")
		return
	}

	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}

// Delete removes a key. Used when a refresh invalidates a cached package.
func (c *RedisCache) Delete(ctx context.Context, key string) {
	if c == nil {
		return
	}

	if err := c.client.Del(ctx, key).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache delete failed")
	}
}

// Close closes the underlying Redis client
func (c *RedisCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
