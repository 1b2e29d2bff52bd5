package service

import (
	"context"
	"strings"

	"HireAll/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
)

// UserRequest addresses one user.
type UserRequest struct {
	UserID string `json:"user_id"`
}

// MonthlyUsageReply is the current month's record counts.
type MonthlyUsageReply struct {
	UserID string           `json:"user_id"`
	Usage  biz.MonthlyUsage `json:"usage"`
}

// RPMUsage is the per-minute AI request window for a user.
type RPMUsage struct {
	Used  int32 `json:"used"`
	Limit int32 `json:"limit"`
}

// UsageReportReply is a usage report plus the per-minute AI window.
type UsageReportReply struct {
	*biz.UsageReport
	AIRequestsPerMinute RPMUsage `json:"ai_requests_per_minute"`
}

// CheckFeatureRequest asks whether a user may use a feature once more.
type CheckFeatureRequest struct {
	UserID  string `json:"user_id"`
	Feature string `json:"feature"`
}

// CheckFeatureReply reports an allowed check. Denials are returned as errors.
type CheckFeatureReply struct {
	Allowed bool           `json:"allowed"`
	Feature biz.FeatureKey `json:"feature"`
}

// ExportFormatRequest asks whether a user's plan allows an export format.
type ExportFormatRequest struct {
	UserID string `json:"user_id"`
	Format string `json:"format"`
}

// ExportFormatReply reports the export decision.
type ExportFormatReply struct {
	Allowed bool   `json:"allowed"`
	Format  string `json:"format"`
}

// UsageService exposes quota checks and usage reports.
type UsageService struct {
	uc      *biz.UsageUsecase
	limiter *biz.RateLimiterUseCase
	logger  *log.Helper
}

// NewUsageService creates a new UsageService instance.
func NewUsageService(uc *biz.UsageUsecase, limiter *biz.RateLimiterUseCase, logger log.Logger) *UsageService {
	return &UsageService{
		uc:      uc,
		limiter: limiter,
		logger:  log.NewHelper(logger),
	}
}

// GetMonthlyUsage returns this month's counts. Counting never fails.
func (s *UsageService) GetMonthlyUsage(ctx context.Context, req *UserRequest) (*MonthlyUsageReply, error) {
	if req.UserID == "" {
		return nil, invalidArgument("user_id is required")
	}
	s.logger.Debugw("GetMonthlyUsage called", "user_id", req.UserID)

	return &MonthlyUsageReply{
		UserID: req.UserID,
		Usage:  s.uc.GetMonthlyUsage(ctx, req.UserID),
	}, nil
}

// GetUsageReport returns plan, limits and usage for a user.
func (s *UsageService) GetUsageReport(ctx context.Context, req *UserRequest) (*UsageReportReply, error) {
	if req.UserID == "" {
		return nil, invalidArgument("user_id is required")
	}
	s.logger.Debugw("GetUsageReport called", "user_id", req.UserID)

	report, err := s.uc.GetUsageReport(ctx, req.UserID)
	if err != nil {
		s.logger.Errorw("failed to build usage report", "user_id", req.UserID, "error", err)
		return nil, toKratosError(err)
	}

	return &UsageReportReply{
		UsageReport: report,
		AIRequestsPerMinute: RPMUsage{
			Used:  s.limiter.CurrentRPM(ctx, req.UserID),
			Limit: s.limiter.Limit(),
		},
	}, nil
}

// CheckFeature checks a monthly quota. A denial is a 429 carrying a retry hint.
func (s *UsageService) CheckFeature(ctx context.Context, req *CheckFeatureRequest) (*CheckFeatureReply, error) {
	if req.UserID == "" {
		return nil, invalidArgument("user_id is required")
	}

	feature, err := biz.ParseFeatureKey(req.Feature)
	if err != nil {
		return nil, toKratosError(err)
	}

	if err := s.uc.CheckFeatureLimit(ctx, req.UserID, feature); err != nil {
		return nil, toKratosError(err)
	}

	return &CheckFeatureReply{Allowed: true, Feature: feature}, nil
}

// CheckExportFormat reports whether the user's plan allows format.
func (s *UsageService) CheckExportFormat(ctx context.Context, req *ExportFormatRequest) (*ExportFormatReply, error) {
	if req.UserID == "" {
		return nil, invalidArgument("user_id is required")
	}
	format := strings.ToLower(strings.TrimSpace(req.Format))
	if format == "" {
		return nil, invalidArgument("format is required")
	}

	allowed, err := s.uc.IsFormatAllowed(ctx, req.UserID, format)
	if err != nil {
		return nil, toKratosError(err)
	}

	return &ExportFormatReply{Allowed: allowed, Format: format}, nil
}
