package service

import (
	"context"
	"time"

	"HireAll/internal/biz"

	"github.com/stretchr/testify/mock"
)

// MockUserRepo is a mock implementation of biz.UserRepo for testing.
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetUser(ctx context.Context, userID string) (*biz.User, error) {
	args := m.Called(ctx, userID)
	if u := args.Get(0); u != nil {
		return u.(*biz.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockSubscriptionRepo is a mock implementation of biz.SubscriptionRepo for testing.
type MockSubscriptionRepo struct {
	mock.Mock
}

func (m *MockSubscriptionRepo) GetSubscription(ctx context.Context, subscriptionID string) (*biz.Subscription, error) {
	args := m.Called(ctx, subscriptionID)
	if s := args.Get(0); s != nil {
		return s.(*biz.Subscription), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockUsageRepo is a mock implementation of biz.UsageRepo for testing.
type MockUsageRepo struct {
	mock.Mock
}

func (m *MockUsageRepo) CountSince(ctx context.Context, kind biz.RecordKind, userID string, since time.Time) (int64, error) {
	args := m.Called(ctx, kind, userID, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUsageRepo) ListCreatedAt(ctx context.Context, kind biz.RecordKind, userID string) ([]time.Time, error) {
	args := m.Called(ctx, kind, userID)
	if ts := args.Get(0); ts != nil {
		return ts.([]time.Time), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockRateLimitRepo is a mock implementation of biz.RateLimitRepo for testing.
type MockRateLimitRepo struct {
	mock.Mock
}

func (m *MockRateLimitRepo) IncrementRPM(ctx context.Context, userID string) (int32, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int32), args.Error(1)
}

func (m *MockRateLimitRepo) GetRPMCount(ctx context.Context, userID string) (int32, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int32), args.Error(1)
}

// MockContentGenerator is a mock implementation of biz.ContentGenerator for testing.
type MockContentGenerator struct {
	mock.Mock
}

func (m *MockContentGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// MockGenerationRepo is a mock implementation of biz.GenerationRepo for testing.
type MockGenerationRepo struct {
	mock.Mock
}

func (m *MockGenerationRepo) SaveRecord(ctx context.Context, rec *biz.GenerationRecord) error {
	return m.Called(ctx, rec).Error(0)
}
