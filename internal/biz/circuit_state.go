package biz

import (
	"context"
	"sort"
	"time"

	"HireAll/internal/conf"
	pkglog "HireAll/pkg/log"

	"github.com/go-kratos/kratos/v2/log"
)

const snapshotTimeout = 2 * time.Second

// CircuitSnapshotRepo stores circuit snapshots outside the process so other
// instances and operators can see them. The in-memory registry stays the
// source of truth.
type CircuitSnapshotRepo interface {
	SaveSnapshot(ctx context.Context, status CircuitStatus) error
	DeleteSnapshot(ctx context.Context, service string) error
	ListSnapshots(ctx context.Context) ([]CircuitStatus, error)
}

// CircuitStateRecorder is the StateChangeListener that persists snapshots
// and writes audit records.
type CircuitStateRecorder struct {
	snapshots CircuitSnapshotRepo
	audit     AuditLogger
	logger    *pkglog.LogHelper
}

// NewCircuitStateRecorder creates a new recorder.
func NewCircuitStateRecorder(snapshots CircuitSnapshotRepo, audit AuditLogger, logger log.Logger) *CircuitStateRecorder {
	return &CircuitStateRecorder{
		snapshots: snapshots,
		audit:     audit,
		logger:    pkglog.NewLogHelper(logger),
	}
}

// OnStateChange implements StateChangeListener.
func (r *CircuitStateRecorder) OnStateChange(service string, from, to CircuitState, status CircuitStatus) {
	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()

	if r.snapshots != nil {
		if err := r.snapshots.SaveSnapshot(ctx, status); err != nil {
			r.logger.Degraded("failed to save circuit snapshot",
				"service", service,
				"state", string(to),
				"error", err)
		}
	}
	if r.audit != nil {
		r.audit.LogCircuitTransition(ctx, service, from, to, status)
	}
}

// NewCircuitRegistry builds the process registry from configuration. The
// default config and every per-service override are applied before the
// registry is handed out.
func NewCircuitRegistry(c *conf.CircuitBreaker, recorder *CircuitStateRecorder, logger log.Logger) *CircuitBreakerRegistry {
	opts := []RegistryOption{WithLogger(logger)}
	if recorder != nil {
		opts = append(opts, WithStateChangeListener(recorder))
	}
	if c != nil {
		opts = append(opts, WithDefaultConfig(fromConf(c.Default)))
	}

	r := NewCircuitBreakerRegistry(opts...)
	if c != nil {
		for service, override := range c.Services {
			r.Configure(service, fromConf(override))
		}
	}
	return r
}

func fromConf(c conf.CircuitConfig) CircuitConfig {
	return CircuitConfig{
		FailureThreshold: c.FailureThreshold,
		ResetTimeout:     c.ResetTimeout,
		SuccessThreshold: c.SuccessThreshold,
	}
}

// CircuitUsecase exposes circuit state to operators.
type CircuitUsecase struct {
	registry  *CircuitBreakerRegistry
	snapshots CircuitSnapshotRepo
	audit     AuditLogger
	logger    *pkglog.LogHelper
}

// NewCircuitUsecase creates a new circuit use case.
func NewCircuitUsecase(registry *CircuitBreakerRegistry, snapshots CircuitSnapshotRepo, audit AuditLogger, logger log.Logger) *CircuitUsecase {
	return &CircuitUsecase{
		registry:  registry,
		snapshots: snapshots,
		audit:     audit,
		logger:    pkglog.NewLogHelper(logger),
	}
}

// ListStatuses returns every known circuit sorted by service name.
func (uc *CircuitUsecase) ListStatuses() []CircuitStatus {
	all := uc.registry.GetAllStatuses()
	out := make([]CircuitStatus, 0, len(all))
	for _, s := range all {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Service < out[j].Service })
	return out
}

// GetStatus returns the snapshot for service.
func (uc *CircuitUsecase) GetStatus(service string) CircuitStatus {
	return uc.registry.GetStatus(service)
}

// Reset clears service's circuit and its stored snapshot.
func (uc *CircuitUsecase) Reset(ctx context.Context, service, operatorID string) CircuitStatus {
	uc.registry.Reset(service)

	if uc.snapshots != nil {
		if err := uc.snapshots.DeleteSnapshot(ctx, service); err != nil {
			uc.logger.Degraded("failed to delete circuit snapshot",
				"service", service,
				"error", err)
		}
	}
	if uc.audit != nil {
		uc.audit.LogCircuitReset(ctx, service, operatorID)
	}

	return uc.registry.GetStatus(service)
}

// ReportUnhealthy logs every circuit that is not CLOSED, locally and in the
// shared snapshot store, and returns the local count.
func (uc *CircuitUsecase) ReportUnhealthy(ctx context.Context) int {
	unhealthy := 0
	for _, s := range uc.ListStatuses() {
		if s.State == CircuitClosed {
			continue
		}
		unhealthy++
		uc.logger.Circuit("circuit not closed",
			"service", s.Service,
			"state", string(s.State),
			"failure_count", s.FailureCount)
	}

	if uc.snapshots == nil {
		return unhealthy
	}
	shared, err := uc.snapshots.ListSnapshots(ctx)
	if err != nil {
		uc.logger.Degraded("failed to list circuit snapshots", "error", err)
		return unhealthy
	}
	for _, s := range shared {
		if s.State != CircuitClosed {
			uc.logger.Scheduler("shared circuit snapshot not closed",
				"service", s.Service,
				"state", string(s.State))
		}
	}

	return unhealthy
}
