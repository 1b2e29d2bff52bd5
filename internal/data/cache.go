// Package data provides data access layer implementations.
package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	pkglog "HireAll/pkg/log"

	"github.com/redis/go-redis/v9"
)

// Cache key prefixes
const (
	// CacheKeyUser is the prefix for user caches: user:{id}
	CacheKeyUser = "user"
	// CacheKeySubscription is the prefix for subscription caches: subscription:{id}
	CacheKeySubscription = "subscription"
	// CacheKeyRate is the prefix for rate limit counters: rate:{userId}:{window}
	CacheKeyRate = "rate"
	// CacheKeyCircuit is the prefix for circuit snapshots: circuit:{service}
	CacheKeyCircuit = "circuit"
)

// Cache TTL durations
const (
	// TTLUser is the TTL for user caches (5 minutes)
	TTLUser = 5 * time.Minute
	// TTLSubscription is the TTL for subscription caches (10 minutes)
	TTLSubscription = 10 * time.Minute
	// TTLRate is the TTL for rate limit counters (1 minute)
	TTLRate = 1 * time.Minute
	// TTLCircuit is the TTL for circuit snapshots (24 hours)
	TTLCircuit = 24 * time.Hour
)

// ErrCacheNotFound is returned when a cache key does not exist
var ErrCacheNotFound = errors.New("cache: key not found")

// CacheClient defines the interface for cache operations.
// Implementations must be thread-safe and handle serialization/deserialization.
type CacheClient interface {
	// Get retrieves a value from cache and deserializes it into dest.
	// Returns ErrCacheNotFound if key doesn't exist.
	Get(ctx context.Context, key string, dest interface{}) error

	// Set stores a value in cache with the specified TTL.
	// The value is serialized to JSON before storage.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes a key from cache.
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists in cache.
	Exists(ctx context.Context, key string) (bool, error)
}

// redisCache is the Redis-based implementation of CacheClient.
type redisCache struct {
	client *redis.Client
}

// NewCacheClient creates a new Redis-based cache client.
// If the Redis client is nil, cache operations will gracefully fail.
func NewCacheClient(rdb *redis.Client) CacheClient {
	return &redisCache{
		client: rdb,
	}
}

// Get retrieves a value from cache and deserializes it into dest.
// Returns ErrCacheNotFound if the key doesn't exist (redis.Nil).
func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return errors.New("cache: redis client is nil")
	}

	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheNotFound
		}
		return fmt.Errorf("cache: failed to get key %s: %w", key, err)
	}

	// Deserialize JSON into dest
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return fmt.Errorf("cache: failed to unmarshal value for key %s: %w", key, err)
	}

	return nil
}

// Set stores a value in cache with the specified TTL.
// The value is serialized to JSON before storage.
func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return errors.New("cache: redis client is nil")
	}

	// Serialize value to JSON
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: failed to marshal value for key %s: %w", key, err)
	}

	// Store in Redis with TTL
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("cache: failed to set key %s: %w", key, err)
	}

	return nil
}

// Delete removes a key from cache.
func (c *redisCache) Delete(ctx context.Context, key string) error {
	if c.client == nil {
		return errors.New("cache: redis client is nil")
	}

	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache: failed to delete key %s: %w", key, err)
	}

	return nil
}

// Exists checks if a key exists in cache.
func (c *redisCache) Exists(ctx context.Context, key string) (bool, error) {
	if c.client == nil {
		return false, errors.New("cache: redis client is nil")
	}

	count, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("cache: failed to check existence of key %s: %w", key, err)
	}

	return count > 0, nil
}

// BuildCacheKey constructs a cache key with the appropriate prefix.
// Examples:
//   - BuildCacheKey(CacheKeyUser, "u_123") -> "user:u_123"
//   - BuildCacheKey(CacheKeyRate, "u_123", "rpm") -> "rate:u_123:rpm"
func BuildCacheKey(prefix string, parts ...string) string {
	return strings.Join(append([]string{prefix}, parts...), ":")
}

// readThrough returns the cached value at key, or calls load and caches its
// result for ttl. Cache failures are logged and never fail the read; load
// errors are returned as is. A nil cache always loads.
func readThrough[T any](ctx context.Context, cache CacheClient, logger *pkglog.LogHelper, key string, ttl time.Duration, load func() (*T, error)) (*T, error) {
	if cache != nil {
		var cached T
		err := cache.Get(ctx, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, ErrCacheNotFound) {
			logger.Redis("cache read failed", "key", key, "error", err)
		}
	}

	v, err := load()
	if err != nil {
		return nil, err
	}

	if cache != nil {
		if err := cache.Set(ctx, key, v, ttl); err != nil {
			logger.Redis("cache write failed", "key", key, "error", err)
		}
	}
	return v, nil
}
