package service

import (
	"context"
	"strings"

	"HireAll/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
)

// GenerateRequest is a free-form AI generation request.
type GenerateRequest struct {
	UserID string `json:"user_id"`
	Prompt string `json:"prompt"`
}

// AnalyzeCVRequest asks for a CV review against an optional job description.
type AnalyzeCVRequest struct {
	UserID         string `json:"user_id"`
	CVText         string `json:"cv_text"`
	JobDescription string `json:"job_description"`
}

// GenerationReply carries the generated record.
type GenerationReply struct {
	Record *biz.GenerationRecord `json:"record"`
}

// GenerationService exposes AI generation and CV analysis.
type GenerationService struct {
	uc     *biz.GenerationUsecase
	logger *log.Helper
}

// NewGenerationService creates a new GenerationService instance.
func NewGenerationService(uc *biz.GenerationUsecase, logger log.Logger) *GenerationService {
	return &GenerationService{
		uc:     uc,
		logger: log.NewHelper(logger),
	}
}

// Generate runs a prompt for a user.
func (s *GenerationService) Generate(ctx context.Context, req *GenerateRequest) (*GenerationReply, error) {
	if req.UserID == "" {
		return nil, invalidArgument("user_id is required")
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, invalidArgument("prompt is required")
	}

	rec, err := s.uc.Generate(ctx, req.UserID, req.Prompt)
	if err != nil {
		s.logger.Warnw("generation failed", "user_id", req.UserID, "error", err)
		return nil, toKratosError(err)
	}
	return &GenerationReply{Record: rec}, nil
}

// AnalyzeCV reviews a CV for a user.
func (s *GenerationService) AnalyzeCV(ctx context.Context, req *AnalyzeCVRequest) (*GenerationReply, error) {
	if req.UserID == "" {
		return nil, invalidArgument("user_id is required")
	}
	if strings.TrimSpace(req.CVText) == "" {
		return nil, invalidArgument("cv_text is required")
	}

	rec, err := s.uc.AnalyzeCV(ctx, req.UserID, req.CVText, req.JobDescription)
	if err != nil {
		s.logger.Warnw("cv analysis failed", "user_id", req.UserID, "error", err)
		return nil, toKratosError(err)
	}
	return &GenerationReply{Record: rec}, nil
}
