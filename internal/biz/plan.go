package biz

import (
	"fmt"
	"strings"

	"HireAll/internal/conf"
)

// PlanName identifies a subscription plan.
type PlanName string

const (
	PlanFree    PlanName = "free"
	PlanPremium PlanName = "premium"
)

// Unlimited is the limit value meaning no cap.
const Unlimited int64 = -1

// FeatureKey is one of the metered monthly features.
type FeatureKey string

const (
	FeatureCVAnalyses    FeatureKey = "monthly_cv_analyses"
	FeatureApplications  FeatureKey = "monthly_applications"
	FeatureAIGenerations FeatureKey = "monthly_ai_generations"
)

// AllFeatures lists every metered feature in display order.
var AllFeatures = []FeatureKey{FeatureApplications, FeatureCVAnalyses, FeatureAIGenerations}

// RecordKind is the persisted collection a feature is counted from.
type RecordKind string

const (
	RecordApplications  RecordKind = "applications"
	RecordCVAnalyses    RecordKind = "cv_analyses"
	RecordAIGenerations RecordKind = "ai_generations"
)

// ParseFeatureKey validates a feature key received from a caller.
func ParseFeatureKey(s string) (FeatureKey, error) {
	f := FeatureKey(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidFeature, s)
	}
	return f, nil
}

// Valid reports whether f is a known feature.
func (f FeatureKey) Valid() bool {
	switch f {
	case FeatureCVAnalyses, FeatureApplications, FeatureAIGenerations:
		return true
	}
	return false
}

// DisplayName is the user-facing name used in limit messages.
func (f FeatureKey) DisplayName() string {
	switch f {
	case FeatureCVAnalyses:
		return "CV analyses"
	case FeatureApplications:
		return "job applications"
	case FeatureAIGenerations:
		return "AI generations"
	}
	return string(f)
}

// RecordKind returns the collection counted for f. Every feature needs its
// own branch here and a column in PlanLimits.
func (f FeatureKey) RecordKind() RecordKind {
	switch f {
	case FeatureCVAnalyses:
		return RecordCVAnalyses
	case FeatureApplications:
		return RecordApplications
	case FeatureAIGenerations:
		return RecordAIGenerations
	}
	return ""
}

// PlanLimits is the quota row for one plan.
type PlanLimits struct {
	MonthlyCVAnalyses    int64    `json:"monthly_cv_analyses"`
	MonthlyApplications  int64    `json:"monthly_applications"`
	MonthlyAIGenerations int64    `json:"monthly_ai_generations"`
	ExportFormats        []string `json:"export_formats"`
}

// LimitFor returns the limit for f, or 0 for an unknown feature.
func (l PlanLimits) LimitFor(f FeatureKey) int64 {
	switch f {
	case FeatureCVAnalyses:
		return l.MonthlyCVAnalyses
	case FeatureApplications:
		return l.MonthlyApplications
	case FeatureAIGenerations:
		return l.MonthlyAIGenerations
	}
	return 0
}

// AllowsFormat reports whether format is exportable on this plan, ignoring case.
func (l PlanLimits) AllowsFormat(format string) bool {
	for _, allowed := range l.ExportFormats {
		if strings.EqualFold(allowed, format) {
			return true
		}
	}
	return false
}

// PlanTable maps plan names to limits. Unknown plans get the free row.
type PlanTable struct {
	plans map[PlanName]PlanLimits
}

// DefaultPlanTable returns the built-in free and premium limits.
func DefaultPlanTable() *PlanTable {
	return &PlanTable{plans: map[PlanName]PlanLimits{
		PlanFree: {
			MonthlyCVAnalyses:    3,
			MonthlyApplications:  50,
			MonthlyAIGenerations: 10,
			ExportFormats:        []string{"csv"},
		},
		PlanPremium: {
			MonthlyCVAnalyses:    Unlimited,
			MonthlyApplications:  Unlimited,
			MonthlyAIGenerations: Unlimited,
			ExportFormats:        []string{"csv", "json", "pdf"},
		},
	}}
}

// NewPlanTable builds the plan table from configuration, falling back to
// DefaultPlanTable when no plans are configured.
func NewPlanTable(c *conf.Usage) *PlanTable {
	if c == nil || len(c.Plans) == 0 {
		return DefaultPlanTable()
	}

	t := &PlanTable{plans: make(map[PlanName]PlanLimits, len(c.Plans))}
	for name, p := range c.Plans {
		t.plans[PlanName(strings.ToLower(name))] = PlanLimits{
			MonthlyCVAnalyses:    int64(p.MonthlyCVAnalyses),
			MonthlyApplications:  int64(p.MonthlyApplications),
			MonthlyAIGenerations: int64(p.MonthlyAIGenerations),
			ExportFormats:        append([]string(nil), p.ExportFormats...),
		}
	}
	if _, ok := t.plans[PlanFree]; !ok {
		t.plans[PlanFree] = DefaultPlanTable().plans[PlanFree]
	}
	return t
}

// Limits returns the row for plan.
func (t *PlanTable) Limits(plan PlanName) PlanLimits {
	if l, ok := t.plans[plan]; ok {
		return l
	}
	return t.plans[PlanFree]
}
