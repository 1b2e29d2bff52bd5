package biz

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockUserRepo is a mock implementation of UserRepo for testing.
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetUser(ctx context.Context, userID string) (*User, error) {
	args := m.Called(ctx, userID)
	if u := args.Get(0); u != nil {
		return u.(*User), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockSubscriptionRepo is a mock implementation of SubscriptionRepo for testing.
type MockSubscriptionRepo struct {
	mock.Mock
}

func (m *MockSubscriptionRepo) GetSubscription(ctx context.Context, subscriptionID string) (*Subscription, error) {
	args := m.Called(ctx, subscriptionID)
	if s := args.Get(0); s != nil {
		return s.(*Subscription), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockUsageRepo is a mock implementation of UsageRepo for testing.
type MockUsageRepo struct {
	mock.Mock
}

func (m *MockUsageRepo) CountSince(ctx context.Context, kind RecordKind, userID string, since time.Time) (int64, error) {
	args := m.Called(ctx, kind, userID, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUsageRepo) ListCreatedAt(ctx context.Context, kind RecordKind, userID string) ([]time.Time, error) {
	args := m.Called(ctx, kind, userID)
	if ts := args.Get(0); ts != nil {
		return ts.([]time.Time), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockAuditLogger is a mock implementation of AuditLogger for testing.
type MockAuditLogger struct {
	mock.Mock
}

func (m *MockAuditLogger) LogCircuitTransition(ctx context.Context, service string, from, to CircuitState, status CircuitStatus) {
	m.Called(ctx, service, from, to, status)
}

func (m *MockAuditLogger) LogCircuitReset(ctx context.Context, service, operatorID string) {
	m.Called(ctx, service, operatorID)
}

func (m *MockAuditLogger) LogUsageLimitExceeded(ctx context.Context, userID string, feature FeatureKey, plan PlanName, current, limit int64) {
	m.Called(ctx, userID, feature, plan, current, limit)
}

// MockRateLimitRepo is a mock implementation of RateLimitRepo for testing.
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

// MockCircuitSnapshotRepo is a mock implementation of CircuitSnapshotRepo for testing.
type MockCircuitSnapshotRepo struct {
	mock.Mock
}

func (m *MockCircuitSnapshotRepo) SaveSnapshot(ctx context.Context, status CircuitStatus) error {
	return m.Called(ctx, status).Error(0)
}

func (m *MockCircuitSnapshotRepo) DeleteSnapshot(ctx context.Context, service string) error {
	return m.Called(ctx, service).Error(0)
}

func (m *MockCircuitSnapshotRepo) ListSnapshots(ctx context.Context) ([]CircuitStatus, error) {
	args := m.Called(ctx)
	if s := args.Get(0); s != nil {
		return s.([]CircuitStatus), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockContentGenerator is a mock implementation of ContentGenerator for testing.
type MockContentGenerator struct {
	mock.Mock
}

func (m *MockContentGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// MockGenerationRepo is a mock implementation of GenerationRepo for testing.
type MockGenerationRepo struct {
	mock.Mock
}

func (m *MockGenerationRepo) SaveRecord(ctx context.Context, rec *GenerationRecord) error {
	return m.Called(ctx, rec).Error(0)
}
