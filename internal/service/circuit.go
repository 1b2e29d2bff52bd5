package service

import (
	"context"
	"strings"

	"HireAll/internal/biz"
	pkglog "HireAll/pkg/log"

	"github.com/go-kratos/kratos/v2/log"
)

// CircuitRequest addresses one circuit.
type CircuitRequest struct {
	Service string `json:"service"`
}

// CircuitReply carries one circuit snapshot.
type CircuitReply struct {
	Circuit biz.CircuitStatus `json:"circuit"`
}

// ListCircuitsReply carries every known circuit.
type ListCircuitsReply struct {
	Circuits []biz.CircuitStatus `json:"circuits"`
}

// CircuitService exposes circuit breaker state for operators.
type CircuitService struct {
	uc     *biz.CircuitUsecase
	logger *log.Helper
}

// NewCircuitService creates a new CircuitService instance.
func NewCircuitService(uc *biz.CircuitUsecase, logger log.Logger) *CircuitService {
	return &CircuitService{
		uc:     uc,
		logger: log.NewHelper(logger),
	}
}

// ListCircuits returns every circuit this instance has seen.
func (s *CircuitService) ListCircuits(_ context.Context, _ *struct{}) (*ListCircuitsReply, error) {
	return &ListCircuitsReply{Circuits: s.uc.ListStatuses()}, nil
}

// GetCircuit returns one circuit. Unseen services report CLOSED.
func (s *CircuitService) GetCircuit(_ context.Context, req *CircuitRequest) (*CircuitReply, error) {
	service := strings.TrimSpace(req.Service)
	if service == "" {
		return nil, invalidArgument("service is required")
	}
	return &CircuitReply{Circuit: s.uc.GetStatus(service)}, nil
}

// ResetCircuit forces a circuit back to CLOSED. The caller's user id is
// recorded as the operator.
func (s *CircuitService) ResetCircuit(ctx context.Context, req *CircuitRequest) (*CircuitReply, error) {
	service := strings.TrimSpace(req.Service)
	if service == "" {
		return nil, invalidArgument("service is required")
	}

	operator := pkglog.GetUserID(ctx)
	s.logger.Infow("ResetCircuit called", "service", service, "operator", operator)

	return &CircuitReply{Circuit: s.uc.Reset(ctx, service, operator)}, nil
}
