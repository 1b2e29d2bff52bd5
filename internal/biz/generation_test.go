package biz

import (
	"context"
	"errors"
	"testing"
	"time"

	"HireAll/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type generationFixture struct {
	usage     *usageFixture
	rpm       *MockRateLimitRepo
	generator *MockContentGenerator
	records   *MockGenerationRepo
	breaker   *CircuitBreakerRegistry
	uc        *GenerationUsecase
}

func newGenerationFixture() *generationFixture {
	f := &generationFixture{
		usage:     newUsageFixture(),
		rpm:       new(MockRateLimitRepo),
		generator: new(MockContentGenerator),
		records:   new(MockGenerationRepo),
		breaker:   newTestRegistry(newFakeClock()),
	}
	limiter := NewRateLimiterUseCase(f.rpm, &conf.Usage{AIRequestsPerMinute: 5}, log.DefaultLogger)
	f.uc = NewGenerationUsecase(limiter, f.usage.uc, f.breaker, f.generator, f.records, log.DefaultLogger)
	f.uc.now = func() time.Time { return testNow }
	return f
}

func TestGenerate_Success(t *testing.T) {
	f := newGenerationFixture()
	ctx := context.Background()

	f.rpm.On("IncrementRPM", ctx, "u1").Return(int32(1), nil)
	f.usage.users.On("GetUser", ctx, "u1").Return(&User{ID: "u1"}, nil)
	f.usage.usage.On("CountSince", ctx, RecordAIGenerations, "u1", testMonthStart).Return(int64(3), nil)
	f.generator.On("Generate", mock.Anything, "write a cover letter").Return("Dear hiring manager", nil)
	f.records.On("SaveRecord", ctx, mock.MatchedBy(func(rec *GenerationRecord) bool {
		return rec.UserID == "u1" && rec.Kind == RecordAIGenerations && rec.Output == "Dear hiring manager"
	})).Return(nil)

	rec, err := f.uc.Generate(ctx, "u1", "write a cover letter")
	require.NoError(t, err)
	assert.Equal(t, "Dear hiring manager", rec.Output)
	assert.Equal(t, testNow, rec.CreatedAt)
	assert.Equal(t, CircuitClosed, f.breaker.GetStatus(ServiceGemini).State)

	f.rpm.AssertExpectations(t)
	f.generator.AssertExpectations(t)
	f.records.AssertExpectations(t)
}

func TestGenerate_RateLimitedBeforeQuota(t *testing.T) {
	f := newGenerationFixture()
	ctx := context.Background()

	f.rpm.On("IncrementRPM", ctx, "u1").Return(int32(6), nil)

	_, err := f.uc.Generate(ctx, "u1", "prompt")

	var rlErr *RateLimitExceededError
	assert.ErrorAs(t, err, &rlErr)
	f.usage.users.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
	f.generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestAnalyzeCV_QuotaExceeded(t *testing.T) {
	f := newGenerationFixture()
	ctx := context.Background()

	f.rpm.On("IncrementRPM", ctx, "u1").Return(int32(1), nil)
	f.usage.users.On("GetUser", ctx, "u1").Return(&User{ID: "u1"}, nil)
	f.usage.usage.On("CountSince", ctx, RecordCVAnalyses, "u1", testMonthStart).Return(int64(3), nil)
	f.usage.audit.On("LogUsageLimitExceeded", ctx, "u1", FeatureCVAnalyses, PlanFree, int64(3), int64(3))

	_, err := f.uc.AnalyzeCV(ctx, "u1", "cv", "jd")

	assert.True(t, IsLimitExceeded(err))
	f.generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestGenerate_UpstreamFailureTripsCircuit(t *testing.T) {
	f := newGenerationFixture()
	ctx := context.Background()
	f.breaker.Configure(ServiceGemini, CircuitConfig{FailureThreshold: 2})

	upstream := errors.New("gemini: 503 overloaded")
	f.rpm.On("IncrementRPM", ctx, "u1").Return(int32(1), nil)
	f.usage.users.On("GetUser", ctx, "u1").Return(&User{ID: "u1"}, nil)
	f.usage.usage.On("CountSince", ctx, RecordAIGenerations, "u1", testMonthStart).Return(int64(0), nil)
	f.generator.On("Generate", mock.Anything, "prompt").Return("", upstream).Twice()

	for i := 0; i < 2; i++ {
		_, err := f.uc.Generate(ctx, "u1", "prompt")
		assert.Same(t, upstream, err)
	}
	assert.Equal(t, CircuitOpen, f.breaker.GetStatus(ServiceGemini).State)

	_, err := f.uc.Generate(ctx, "u1", "prompt")
	assert.True(t, IsServiceUnavailable(err))

	f.generator.AssertNumberOfCalls(t, "Generate", 2)
	f.records.AssertNotCalled(t, "SaveRecord", mock.Anything, mock.Anything)
}

func TestGenerate_SaveFailureIsNotFatal(t *testing.T) {
	f := newGenerationFixture()
	ctx := context.Background()

	f.rpm.On("IncrementRPM", ctx, "u1").Return(int32(1), nil)
	f.usage.users.On("GetUser", ctx, "u1").Return(&User{ID: "u1", IsAdmin: true}, nil)
	f.generator.On("Generate", mock.Anything, "prompt").Return("output", nil)
	f.records.On("SaveRecord", ctx, mock.Anything).Return(errors.New("db down"))

	rec, err := f.uc.Generate(ctx, "u1", "prompt")
	require.NoError(t, err)
	assert.Equal(t, "output", rec.Output)
}

func TestGenerate_NotConfigured(t *testing.T) {
	limiter := NewRateLimiterUseCase(new(MockRateLimitRepo), nil, log.DefaultLogger)
	uc := NewGenerationUsecase(limiter, newUsageFixture().uc, newTestRegistry(newFakeClock()), nil, new(MockGenerationRepo), log.DefaultLogger)

	_, err := uc.Generate(context.Background(), "u1", "prompt")
	assert.ErrorIs(t, err, ErrGeneratorNotConfigured)
}

func TestCVAnalysisPrompt(t *testing.T) {
	p := cvAnalysisPrompt("  Go engineer, 5 years  ", "")
	assert.Contains(t, p, "CV:\nGo engineer, 5 years\n")
	assert.NotContains(t, p, "Job description")

	p = cvAnalysisPrompt("cv", "Senior backend role")
	assert.Contains(t, p, "Job description:\nSenior backend role")
}
