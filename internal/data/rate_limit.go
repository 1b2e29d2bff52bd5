package data

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"
)

// RateLimitRepo implements biz.RateLimitRepo interface.
// Following Kratos v2 DDD architecture, interface is defined in biz layer.
type RateLimitRepo struct {
	rdb    *redis.Client
	logger *log.Helper
}

// NewRateLimitRepo creates a new rate limit repository.
func NewRateLimitRepo(rdb *redis.Client, logger log.Logger) *RateLimitRepo {
	return &RateLimitRepo{
		rdb:    rdb,
		logger: log.NewHelper(logger),
	}
}

// getRateLimitKey returns rate:{userID}:{window}.
func getRateLimitKey(userID, window string) string {
	return BuildCacheKey(CacheKeyRate, userID, window)
}

// IncrementRPM increments the per-minute counter for a user.
// The key expires TTLRate after the first increment, giving a fixed window.
func (r *RateLimitRepo) IncrementRPM(ctx context.Context, userID string) (int32, error) {
	if r.rdb == nil {
		return 0, fmt.Errorf("redis client is nil")
	}

	key := getRateLimitKey(userID, "rpm")

	count, err := r.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment RPM: %w", err)
	}

	if count == 1 {
		if err := r.rdb.Expire(ctx, key, TTLRate).Err(); err != nil {
			r.logger.Warnf("Failed to set RPM expiration for user %s: %v", userID, err)
		}
	}

	return clampInt32(count), nil
}

// GetRPMCount retrieves the current per-minute count for a user.
// Returns 0 if key doesn't exist.
func (r *RateLimitRepo) GetRPMCount(ctx context.Context, userID string) (int32, error) {
	if r.rdb == nil {
		return 0, fmt.Errorf("redis client is nil")
	}

	key := getRateLimitKey(userID, "rpm")

	count, err := r.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get RPM count: %w", err)
	}

	n, err := strconv.ParseInt(count, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse RPM count: %w", err)
	}

	return clampInt32(n), nil
}

func clampInt32(n int64) int32 {
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(n) // #nosec G115 -- clamped above
}
