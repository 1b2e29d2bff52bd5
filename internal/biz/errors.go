package biz

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUserNotFound is returned when usage is checked for a user with no record.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidFeature is returned for a feature key outside the known set.
	ErrInvalidFeature = errors.New("invalid feature key")
	// ErrGeneratorNotConfigured is returned when no AI provider key is configured.
	ErrGeneratorNotConfigured = errors.New("content generator is not configured")
)

// LimitExceededError is returned when a user has used up a monthly quota.
type LimitExceededError struct {
	Feature     FeatureKey
	DisplayName string
	Plan        PlanName
	Current     int64
	Limit       int64
	// RetryAfter is advisory. Quotas reset monthly, not after this duration.
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("You've reached your monthly limit of %d %s on the %s plan (%d used). Upgrade your plan to continue.",
		e.Limit, e.DisplayName, e.Plan, e.Current)
}

// RetryAfterSeconds returns the retry hint in whole seconds.
func (e *LimitExceededError) RetryAfterSeconds() int64 {
	return int64(e.RetryAfter / time.Second)
}

// RateLimitExceededError is returned when a user exceeds the per-minute AI request cap.
type RateLimitExceededError struct {
	Current    int32
	Limit      int32
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *RateLimitExceededError) Error() string {
	return fmt.Sprintf("rate limit exceeded: current=%d limit=%d retry_after=%ds",
		e.Current, e.Limit, int64(e.RetryAfter/time.Second))
}

// ServiceUnavailableError is returned by WithCircuitBreaker when the circuit
// is open and no fallback was given.
type ServiceUnavailableError struct {
	Service string
}

// Error implements the error interface.
func (e *ServiceUnavailableError) Error() string {
	return fmt.Sprintf("service %s is temporarily unavailable, please try again later", e.Service)
}

// IsServiceUnavailable reports whether err is or wraps a ServiceUnavailableError.
func IsServiceUnavailable(err error) bool {
	var target *ServiceUnavailableError
	return errors.As(err, &target)
}

// IsLimitExceeded reports whether err is or wraps a LimitExceededError.
func IsLimitExceeded(err error) bool {
	var target *LimitExceededError
	return errors.As(err, &target)
}
