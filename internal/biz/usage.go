package biz

import (
	"context"
	"errors"
	"time"

	"HireAll/internal/conf"
	pkgerrors "HireAll/pkg/errors"
	pkglog "HireAll/pkg/log"

	"github.com/go-kratos/kratos/v2/log"
)

const defaultRetryAfter = time.Hour

// MonthlyUsage holds the current month's counts for one user.
type MonthlyUsage struct {
	Applications  int64 `json:"applications"`
	CVAnalyses    int64 `json:"cv_analyses"`
	AIGenerations int64 `json:"ai_generations"`
}

// Get returns the count for f.
func (m MonthlyUsage) Get(f FeatureKey) int64 {
	switch f {
	case FeatureApplications:
		return m.Applications
	case FeatureCVAnalyses:
		return m.CVAnalyses
	case FeatureAIGenerations:
		return m.AIGenerations
	}
	return 0
}

// ResolvedSubscription is the outcome of plan resolution for a user.
type ResolvedSubscription struct {
	Plan    PlanName
	Limits  PlanLimits
	IsAdmin bool
}

// FeatureUsage is one row of a usage report.
type FeatureUsage struct {
	Feature     FeatureKey `json:"feature"`
	DisplayName string     `json:"display_name"`
	Used        int64      `json:"used"`
	Limit       int64      `json:"limit"`
	// Remaining is Unlimited when no cap applies.
	Remaining int64 `json:"remaining"`
}

// UsageReport summarises a user's plan and usage for display.
type UsageReport struct {
	UserID        string         `json:"user_id"`
	Plan          PlanName       `json:"plan"`
	IsAdmin       bool           `json:"is_admin"`
	Features      []FeatureUsage `json:"features"`
	ExportFormats []string       `json:"export_formats"`
	ResetsAt      time.Time      `json:"resets_at"`
}

// UsageUsecase enforces monthly per-feature quotas.
//
// Identity resolution is strict: a missing user fails the call. Counting is
// lenient: a failing count query falls back to client-side filtering and, at
// worst, to zero. The check and the later write are not atomic.
type UsageUsecase struct {
	users      UserRepo
	subs       SubscriptionRepo
	usage      UsageRepo
	plans      *PlanTable
	audit      AuditLogger
	retryAfter time.Duration
	now        func() time.Time
	logger     *pkglog.LogHelper
}

// NewUsageUsecase creates a new usage use case.
func NewUsageUsecase(users UserRepo, subs SubscriptionRepo, usage UsageRepo, plans *PlanTable, audit AuditLogger, c *conf.Usage, logger log.Logger) *UsageUsecase {
	retryAfter := defaultRetryAfter
	if c != nil && c.RetryAfter > 0 {
		retryAfter = c.RetryAfter
	}
	if plans == nil {
		plans = DefaultPlanTable()
	}
	return &UsageUsecase{
		users:      users,
		subs:       subs,
		usage:      usage,
		plans:      plans,
		audit:      audit,
		retryAfter: retryAfter,
		now:        time.Now,
		logger:     pkglog.NewLogHelper(logger),
	}
}

// StartOfMonthUTC returns 00:00:00 UTC on the first day of t's UTC month.
func StartOfMonthUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// CheckFeatureLimit returns a *LimitExceededError when userID has used up
// feature for the current month. Admins and unlimited plans always pass.
func (uc *UsageUsecase) CheckFeatureLimit(ctx context.Context, userID string, feature FeatureKey) error {
	if !feature.Valid() {
		return ErrInvalidFeature
	}

	sub, err := uc.resolveSubscription(ctx, userID)
	if err != nil {
		return err
	}
	if sub.IsAdmin {
		return nil
	}

	limit := sub.Limits.LimitFor(feature)
	if limit == Unlimited {
		return nil
	}

	current := uc.countRecords(ctx, feature.RecordKind(), userID, StartOfMonthUTC(uc.now()))
	if current < limit {
		return nil
	}

	uc.logger.RateLimit("monthly usage limit reached",
		"user_id", userID,
		"feature", string(feature),
		"plan", string(sub.Plan),
		"current", current,
		"limit", limit)
	if uc.audit != nil {
		uc.audit.LogUsageLimitExceeded(ctx, userID, feature, sub.Plan, current, limit)
	}

	return &LimitExceededError{
		Feature:     feature,
		DisplayName: feature.DisplayName(),
		Plan:        sub.Plan,
		Current:     current,
		Limit:       limit,
		RetryAfter:  uc.retryAfter,
	}
}

// GetMonthlyUsage returns all three counts for the current month. It never
// fails; counts that cannot be read are reported as zero.
func (uc *UsageUsecase) GetMonthlyUsage(ctx context.Context, userID string) MonthlyUsage {
	since := StartOfMonthUTC(uc.now())
	return MonthlyUsage{
		Applications:  uc.countRecords(ctx, RecordApplications, userID, since),
		CVAnalyses:    uc.countRecords(ctx, RecordCVAnalyses, userID, since),
		AIGenerations: uc.countRecords(ctx, RecordAIGenerations, userID, since),
	}
}

// IsFormatAllowed reports whether userID's plan may export format.
func (uc *UsageUsecase) IsFormatAllowed(ctx context.Context, userID, format string) (bool, error) {
	sub, err := uc.resolveSubscription(ctx, userID)
	if err != nil {
		return false, err
	}
	if sub.IsAdmin {
		return true, nil
	}
	return sub.Limits.AllowsFormat(format), nil
}

// GetUsageReport returns plan, limits and current usage for userID.
func (uc *UsageUsecase) GetUsageReport(ctx context.Context, userID string) (*UsageReport, error) {
	sub, err := uc.resolveSubscription(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	usage := uc.GetMonthlyUsage(ctx, userID)

	report := &UsageReport{
		UserID:        userID,
		Plan:          sub.Plan,
		IsAdmin:       sub.IsAdmin,
		ExportFormats: sub.Limits.ExportFormats,
		ResetsAt:      StartOfMonthUTC(now).AddDate(0, 1, 0),
		Features:      make([]FeatureUsage, 0, len(AllFeatures)),
	}

	for _, f := range AllFeatures {
		row := FeatureUsage{
			Feature:     f,
			DisplayName: f.DisplayName(),
			Used:        usage.Get(f),
			Limit:       sub.Limits.LimitFor(f),
		}
		switch {
		case sub.IsAdmin || row.Limit == Unlimited:
			row.Remaining = Unlimited
		case row.Used >= row.Limit:
			row.Remaining = 0
		default:
			row.Remaining = row.Limit - row.Used
		}
		report.Features = append(report.Features, row)
	}

	return report, nil
}

// resolveSubscription determines the effective plan for userID:
//
//  1. an active subscription referenced by the user decides the plan;
//  2. otherwise the legacy plan field on the user record, if set;
//  3. otherwise free.
//
// Then, if the result is free but the legacy field says premium, the user is
// promoted to premium. The legacy field never demotes.
func (uc *UsageUsecase) resolveSubscription(ctx context.Context, userID string) (*ResolvedSubscription, error) {
	user, err := uc.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	plan := PlanName("")
	if user.SubscriptionID != "" {
		sub, err := uc.subs.GetSubscription(ctx, user.SubscriptionID)
		switch {
		case errors.Is(err, ErrSubscriptionNotFound):
		case err != nil:
			uc.logger.Degraded("subscription lookup failed, using legacy plan",
				"user_id", userID,
				"subscription_id", user.SubscriptionID,
				"error", err)
		case sub.Status == SubscriptionStatusActive:
			plan = sub.Plan
		}
	}

	if plan == "" && user.Plan != "" {
		plan = user.Plan
	}
	if plan == "" {
		plan = PlanFree
	}
	if plan == PlanFree && user.Plan == PlanPremium {
		plan = PlanPremium
	}

	return &ResolvedSubscription{
		Plan:    plan,
		Limits:  uc.plans.Limits(plan),
		IsAdmin: user.IsAdmin,
	}, nil
}

// countRecords counts kind for userID since the given instant, falling back
// to client-side filtering when the count query fails.
func (uc *UsageUsecase) countRecords(ctx context.Context, kind RecordKind, userID string, since time.Time) int64 {
	n, err := uc.usage.CountSince(ctx, kind, userID, since)
	if err == nil {
		return n
	}

	uc.logger.Degraded("usage count query failed, filtering client-side",
		"kind", string(kind),
		"user_id", userID,
		"query_infra", pkgerrors.IsQueryInfraError(err),
		"error", err)

	times, err := uc.usage.ListCreatedAt(ctx, kind, userID)
	if err != nil {
		uc.logger.Degraded("usage fallback query failed, reporting zero",
			"kind", string(kind),
			"user_id", userID,
			"error", err)
		return 0
	}

	var count int64
	for _, t := range times {
		if !t.Before(since) {
			count++
		}
	}
	return count
}
