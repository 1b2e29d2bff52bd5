package biz

import (
	"context"
)

// RateLimitRepo defines the interface for per-minute request counters.
// Following Kratos v2 DDD architecture, interfaces are defined in biz layer.
// Implementation is in data layer (data.RateLimitRepo).
type RateLimitRepo interface {
	// IncrementRPM bumps the user's counter for the current minute window and
	// returns the new value.
	IncrementRPM(ctx context.Context, userID string) (int32, error)
	// GetRPMCount returns the user's counter without changing it.
	GetRPMCount(ctx context.Context, userID string) (int32, error)
}
