package biz

import (
	"context"
	"fmt"
	"strings"
	"time"

	pkglog "HireAll/pkg/log"

	"github.com/go-kratos/kratos/v2/log"
)

// ContentGenerator produces text from a prompt. The Gemini client implements it.
type ContentGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GenerationRecord is a persisted AI output. Saved records count toward the
// user's monthly usage.
type GenerationRecord struct {
	ID        int64      `json:"id"`
	UserID    string     `json:"user_id"`
	Kind      RecordKind `json:"kind"`
	Prompt    string     `json:"-"`
	Output    string     `json:"output"`
	CreatedAt time.Time  `json:"created_at"`
}

// GenerationRepo persists generation records.
type GenerationRepo interface {
	SaveRecord(ctx context.Context, rec *GenerationRecord) error
}

// GenerationUsecase runs AI requests behind the per-minute limiter, the
// monthly quota and the gemini circuit.
type GenerationUsecase struct {
	limiter   *RateLimiterUseCase
	usage     *UsageUsecase
	breaker   *CircuitBreakerRegistry
	generator ContentGenerator
	repo      GenerationRepo
	now       func() time.Time
	logger    *pkglog.LogHelper
}

// NewGenerationUsecase creates a new generation use case. generator may be
// nil when no provider is configured.
func NewGenerationUsecase(limiter *RateLimiterUseCase, usage *UsageUsecase, breaker *CircuitBreakerRegistry, generator ContentGenerator, repo GenerationRepo, logger log.Logger) *GenerationUsecase {
	return &GenerationUsecase{
		limiter:   limiter,
		usage:     usage,
		breaker:   breaker,
		generator: generator,
		repo:      repo,
		now:       time.Now,
		logger:    pkglog.NewLogHelper(logger),
	}
}

// Generate produces free-form content for userID.
func (uc *GenerationUsecase) Generate(ctx context.Context, userID, prompt string) (*GenerationRecord, error) {
	return uc.run(ctx, userID, FeatureAIGenerations, prompt)
}

// AnalyzeCV compares a CV with a job description.
func (uc *GenerationUsecase) AnalyzeCV(ctx context.Context, userID, cvText, jobDescription string) (*GenerationRecord, error) {
	return uc.run(ctx, userID, FeatureCVAnalyses, cvAnalysisPrompt(cvText, jobDescription))
}

func (uc *GenerationUsecase) run(ctx context.Context, userID string, feature FeatureKey, prompt string) (*GenerationRecord, error) {
	if uc.generator == nil {
		return nil, ErrGeneratorNotConfigured
	}
	if err := uc.limiter.CheckAIRequest(ctx, userID); err != nil {
		return nil, err
	}
	if err := uc.usage.CheckFeatureLimit(ctx, userID, feature); err != nil {
		return nil, err
	}

	start := uc.now()
	output, err := WithCircuitBreaker(ctx, uc.breaker, ServiceGemini, func(ctx context.Context) (string, error) {
		return uc.generator.Generate(ctx, prompt)
	}, nil)
	if err != nil {
		return nil, err
	}

	rec := &GenerationRecord{
		UserID:    userID,
		Kind:      feature.RecordKind(),
		Prompt:    prompt,
		Output:    output,
		CreatedAt: uc.now(),
	}
	uc.logger.AI("content generated",
		"user_id", userID,
		"kind", string(rec.Kind),
		"duration_ms", rec.CreatedAt.Sub(start).Milliseconds())

	if err := uc.repo.SaveRecord(ctx, rec); err != nil {
		uc.logger.Degraded("failed to save generation record",
			"user_id", userID,
			"kind", string(rec.Kind),
			"error", err)
	}

	return rec, nil
}

func cvAnalysisPrompt(cvText, jobDescription string) string {
	var b strings.Builder
	b.WriteString("You are a recruiter reviewing a candidate. ")
	b.WriteString("Compare the CV with the job description and list strengths, gaps and concrete improvements.\n\n")
	fmt.Fprintf(&b, "CV:\n%s\n\n", strings.TrimSpace(cvText))
	if jd := strings.TrimSpace(jobDescription); jd != "" {
		fmt.Fprintf(&b, "Job description:\n%s\n", jd)
	}
	return b.String()
}
