package data

import (
	"context"
	"testing"
	"time"

	"HireAll/internal/biz"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestCache(t *testing.T) (CacheClient, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewCacheClient(rdb), mr
}

func TestCacheGet_Success(t *testing.T) {
	cache, _ := setupTestCache(t)
	ctx := context.Background()

	user := biz.User{ID: "u_123", Email: "alice@example.com", Plan: biz.PlanPremium, SubscriptionID: "sub_1"}

	key := BuildCacheKey(CacheKeyUser, user.ID)
	require.NoError(t, cache.Set(ctx, key, user, TTLUser))

	var retrieved biz.User
	require.NoError(t, cache.Get(ctx, key, &retrieved))
	assert.Equal(t, user, retrieved)
}

func TestCacheGet_KeyNotFound(t *testing.T) {
	cache, _ := setupTestCache(t)

	var retrieved biz.User
	err := cache.Get(context.Background(), "nonexistent:key", &retrieved)
	assert.ErrorIs(t, err, ErrCacheNotFound)
}

func TestCacheGet_InvalidJSON(t *testing.T) {
	cache, mr := setupTestCache(t)

	key := "test:invalid"
	_ = mr.Set(key, "invalid json {{{")

	var retrieved biz.User
	err := cache.Get(context.Background(), key, &retrieved)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal")
}

func TestCacheSet_WithTTL(t *testing.T) {
	cache, mr := setupTestCache(t)

	key := BuildCacheKey(CacheKeySubscription, "sub_1")
	require.NoError(t, cache.Set(context.Background(), key, biz.Subscription{ID: "sub_1"}, TTLSubscription))

	ttl := mr.TTL(key)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, TTLSubscription)
}

func TestCacheDeleteAndExists(t *testing.T) {
	cache, mr := setupTestCache(t)
	ctx := context.Background()

	key := BuildCacheKey(CacheKeyUser, "u_1")
	require.NoError(t, cache.Set(ctx, key, biz.User{ID: "u_1"}, TTLUser))

	exists, err := cache.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, cache.Delete(ctx, key))
	assert.False(t, mr.Exists(key))

	// deleting a missing key is not an error
	assert.NoError(t, cache.Delete(ctx, key))
}

func TestCacheTTLExpiration(t *testing.T) {
	cache, mr := setupTestCache(t)
	ctx := context.Background()

	key := BuildCacheKey(CacheKeyUser, "expire")
	require.NoError(t, cache.Set(ctx, key, biz.User{ID: "expire"}, 100*time.Millisecond))

	mr.FastForward(200 * time.Millisecond)

	var retrieved biz.User
	assert.ErrorIs(t, cache.Get(ctx, key, &retrieved), ErrCacheNotFound)
}

func TestBuildCacheKey(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		parts    []string
		expected string
	}{
		{"user key", CacheKeyUser, []string{"u_456"}, "user:u_456"},
		{"subscription key", CacheKeySubscription, []string{"sub_1"}, "subscription:sub_1"},
		{"rate limit key with window", CacheKeyRate, []string{"u_456", "rpm"}, "rate:u_456:rpm"},
		{"circuit key", CacheKeyCircuit, []string{"gemini"}, "circuit:gemini"},
		{"no parts", CacheKeyUser, nil, "user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BuildCacheKey(tt.prefix, tt.parts...))
		})
	}
}

func TestCacheClient_NilRedisClient(t *testing.T) {
	cache := NewCacheClient(nil)
	ctx := context.Background()

	err := cache.Set(ctx, "key", biz.User{}, TTLUser)
	assert.ErrorContains(t, err, "redis client is nil")

	var retrieved biz.User
	assert.ErrorContains(t, cache.Get(ctx, "key", &retrieved), "redis client is nil")
	assert.ErrorContains(t, cache.Delete(ctx, "key"), "redis client is nil")

	exists, err := cache.Exists(ctx, "key")
	assert.ErrorContains(t, err, "redis client is nil")
	assert.False(t, exists)
}
