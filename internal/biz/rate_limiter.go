package biz

import (
	"context"
	"time"

	"HireAll/internal/conf"
	pkglog "HireAll/pkg/log"

	"github.com/go-kratos/kratos/v2/log"
)

// rpmWindow is the fixed window of the per-minute counter.
const rpmWindow = time.Minute

// RateLimiterUseCase caps AI requests per user per minute using a Redis
// fixed-window counter. It sits in front of the monthly quota check.
type RateLimiterUseCase struct {
	repo   RateLimitRepo
	limit  int32
	logger *pkglog.LogHelper
}

// NewRateLimiterUseCase creates a new rate limiter use case.
func NewRateLimiterUseCase(repo RateLimitRepo, c *conf.Usage, logger log.Logger) *RateLimiterUseCase {
	var limit int32
	if c != nil {
		limit = c.AIRequestsPerMinute
	}
	return &RateLimiterUseCase{
		repo:   repo,
		limit:  limit,
		logger: pkglog.NewLogHelper(logger),
	}
}

// CheckAIRequest applies the configured per-minute cap to userID.
func (uc *RateLimiterUseCase) CheckAIRequest(ctx context.Context, userID string) error {
	return uc.CheckRPM(ctx, userID, uc.limit)
}

// CheckRPM checks if the user has exceeded rpmLimit requests in the current
// minute window. A limit of zero or less disables the check.
// Redis degradation: on Redis failure, logs warning and allows request.
func (uc *RateLimiterUseCase) CheckRPM(ctx context.Context, userID string, rpmLimit int32) error {
	if rpmLimit <= 0 {
		return nil
	}

	count, err := uc.repo.IncrementRPM(ctx, userID)
	if err != nil {
		uc.logger.Degraded("rpm check failed, request allowed",
			"user_id", userID,
			"error", err)
		return nil
	}

	if count > rpmLimit {
		uc.logger.RateLimit("rpm limit exceeded",
			"user_id", userID,
			"current", count,
			"limit", rpmLimit)
		return &RateLimitExceededError{
			Current:    count,
			Limit:      rpmLimit,
			RetryAfter: rpmWindow,
		}
	}

	return nil
}

// CurrentRPM returns the user's request count in the current window. Read
// failures report zero.
func (uc *RateLimiterUseCase) CurrentRPM(ctx context.Context, userID string) int32 {
	count, err := uc.repo.GetRPMCount(ctx, userID)
	if err != nil {
		uc.logger.Degraded("rpm read failed", "user_id", userID, "error", err)
		return 0
	}
	return count
}

// Limit returns the configured per-minute cap.
func (uc *RateLimiterUseCase) Limit() int32 {
	return uc.limit
}
