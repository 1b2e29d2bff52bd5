package data

import (
	"context"
	"fmt"
	"time"

	"HireAll/internal/biz"
	pkgerrors "HireAll/pkg/errors"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
)

// UsageRepo implements biz.UsageRepo over the per-kind record tables.
type UsageRepo struct {
	db     *gorm.DB
	logger *log.Helper
}

// NewUsageRepo creates a new usage repository.
func NewUsageRepo(data *Data, logger log.Logger) *UsageRepo {
	return &UsageRepo{
		db:     data.db,
		logger: log.NewHelper(logger),
	}
}

func tableFor(kind biz.RecordKind) (string, error) {
	table, ok := recordTables[kind]
	if !ok {
		return "", fmt.Errorf("unknown record kind %q", kind)
	}
	return table, nil
}

// CountSince counts records of kind for userID created at or after since.
// It relies on the (user_id, created_at) index.
func (r *UsageRepo) CountSince(ctx context.Context, kind biz.RecordKind, userID string, since time.Time) (int64, error) {
	table, err := tableFor(kind)
	if err != nil {
		return 0, err
	}

	var count int64
	err = r.db.WithContext(ctx).
		Table(table).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&count).Error
	if err != nil {
		return 0, pkgerrors.ClassifyDBError(err)
	}

	return count, nil
}

// ListCreatedAt returns creation times of every record of kind for userID,
// without a time predicate.
func (r *UsageRepo) ListCreatedAt(ctx context.Context, kind biz.RecordKind, userID string) ([]time.Time, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	var times []time.Time
	err = r.db.WithContext(ctx).
		Table(table).
		Where("user_id = ?", userID).
		Pluck("created_at", &times).Error
	if err != nil {
		return nil, pkgerrors.ClassifyDBError(err)
	}

	r.logger.Debugw("usage fallback scan", "kind", string(kind), "user_id", userID, "rows", len(times))
	return times, nil
}
