package biz

import (
	"context"
	"errors"
	"time"
)

// ErrSubscriptionNotFound is returned by SubscriptionRepo for an unknown id.
var ErrSubscriptionNotFound = errors.New("subscription not found")

// SubscriptionStatusActive is the only status that grants a subscription's plan.
const SubscriptionStatusActive = "active"

// User is the part of a user record the usage service reads.
type User struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	// Plan is the legacy plan field kept on the user record.
	Plan           PlanName `json:"plan"`
	SubscriptionID string   `json:"subscription_id"`
}

// Subscription is a billing subscription referenced from a user.
type Subscription struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	Plan             PlanName   `json:"plan"`
	Status           string     `json:"status"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`
}

// UserRepo reads user records. GetUser returns ErrUserNotFound for a
// missing user.
type UserRepo interface {
	GetUser(ctx context.Context, userID string) (*User, error)
}

// SubscriptionRepo reads subscriptions. GetSubscription returns
// ErrSubscriptionNotFound for a missing subscription.
type SubscriptionRepo interface {
	GetSubscription(ctx context.Context, subscriptionID string) (*Subscription, error)
}

// UsageRepo counts persisted records per user.
type UsageRepo interface {
	// CountSince counts records of kind for userID created at or after since.
	CountSince(ctx context.Context, kind RecordKind, userID string, since time.Time) (int64, error)
	// ListCreatedAt returns creation times of every record of kind for userID.
	// It is the unindexed path used when CountSince fails.
	ListCreatedAt(ctx context.Context, kind RecordKind, userID string) ([]time.Time, error)
}
