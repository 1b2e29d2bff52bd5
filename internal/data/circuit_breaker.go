package data

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"HireAll/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"
)

// circuitIndexKey is the set of services that have a stored snapshot.
const circuitIndexKey = "circuits"

// CircuitSnapshotRepo implements biz.CircuitSnapshotRepo.
// Each service is stored as a hash at circuit:{service}.
type CircuitSnapshotRepo struct {
	rdb    *redis.Client
	logger *log.Helper
}

// NewCircuitSnapshotRepo creates a new circuit snapshot repository.
func NewCircuitSnapshotRepo(rdb *redis.Client, logger log.Logger) *CircuitSnapshotRepo {
	return &CircuitSnapshotRepo{
		rdb:    rdb,
		logger: log.NewHelper(logger),
	}
}

func circuitKey(service string) string {
	return BuildCacheKey(CacheKeyCircuit, service)
}

// SaveSnapshot writes status and refreshes its TTL.
func (r *CircuitSnapshotRepo) SaveSnapshot(ctx context.Context, status biz.CircuitStatus) error {
	if r.rdb == nil {
		return fmt.Errorf("redis client is nil")
	}

	key := circuitKey(status.Service)
	fields := map[string]interface{}{
		"state":             string(status.State),
		"failure_count":     status.FailureCount,
		"success_count":     status.SuccessCount,
		"last_failure_time": unixMilli(status.LastFailureTime),
		"last_success_time": unixMilli(status.LastSuccessTime),
		"opened_at":         unixMilli(status.OpenedAt),
	}

	pipe := r.rdb.TxPipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, TTLCircuit)
	pipe.SAdd(ctx, circuitIndexKey, status.Service)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save circuit snapshot: %w", err)
	}

	r.logger.Debugw("circuit snapshot saved", "service", status.Service, "state", string(status.State))
	return nil
}

// DeleteSnapshot removes the stored snapshot for service.
func (r *CircuitSnapshotRepo) DeleteSnapshot(ctx context.Context, service string) error {
	if r.rdb == nil {
		return fmt.Errorf("redis client is nil")
	}

	pipe := r.rdb.TxPipeline()
	pipe.Del(ctx, circuitKey(service))
	pipe.SRem(ctx, circuitIndexKey, service)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete circuit snapshot: %w", err)
	}
	return nil
}

// ListSnapshots returns every stored snapshot sorted by service. Expired
// snapshots are pruned from the index.
func (r *CircuitSnapshotRepo) ListSnapshots(ctx context.Context) ([]biz.CircuitStatus, error) {
	if r.rdb == nil {
		return nil, fmt.Errorf("redis client is nil")
	}

	services, err := r.rdb.SMembers(ctx, circuitIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list circuits: %w", err)
	}
	sort.Strings(services)

	out := make([]biz.CircuitStatus, 0, len(services))
	for _, service := range services {
		fields, err := r.rdb.HGetAll(ctx, circuitKey(service)).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to read circuit %s: %w", service, err)
		}
		if len(fields) == 0 {
			r.rdb.SRem(ctx, circuitIndexKey, service)
			continue
		}
		out = append(out, decodeSnapshot(service, fields))
	}

	return out, nil
}

func decodeSnapshot(service string, fields map[string]string) biz.CircuitStatus {
	failures, _ := strconv.Atoi(fields["failure_count"])
	successes, _ := strconv.Atoi(fields["success_count"])
	return biz.CircuitStatus{
		Service:         service,
		State:           biz.CircuitState(fields["state"]),
		FailureCount:    failures,
		SuccessCount:    successes,
		LastFailureTime: fromUnixMilli(fields["last_failure_time"]),
		LastSuccessTime: fromUnixMilli(fields["last_success_time"]),
		OpenedAt:        fromUnixMilli(fields["opened_at"]),
	}
}

// unixMilli encodes t as milliseconds since epoch, 0 for nil.
func unixMilli(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.UnixMilli()
}

func fromUnixMilli(s string) *time.Time {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil || ms == 0 {
		return nil
	}
	t := time.UnixMilli(ms).UTC()
	return &t
}
