package data

import (
	"context"

	"HireAll/internal/biz"
	pkgerrors "HireAll/pkg/errors"
	pkglog "HireAll/pkg/log"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
)

// SubscriptionRepo implements biz.SubscriptionRepo with a Redis read-through cache.
type SubscriptionRepo struct {
	db     *gorm.DB
	cache  CacheClient
	logger *pkglog.LogHelper
}

// NewSubscriptionRepo creates a new subscription repository.
func NewSubscriptionRepo(data *Data, logger log.Logger) *SubscriptionRepo {
	return &SubscriptionRepo{
		db:     data.db,
		cache:  data.cache,
		logger: pkglog.NewLogHelper(logger),
	}
}

// GetSubscription returns the subscription or biz.ErrSubscriptionNotFound.
func (r *SubscriptionRepo) GetSubscription(ctx context.Context, subscriptionID string) (*biz.Subscription, error) {
	key := BuildCacheKey(CacheKeySubscription, subscriptionID)
	return readThrough(ctx, r.cache, r.logger, key, TTLSubscription, func() (*biz.Subscription, error) {
		var m SubscriptionModel
		if err := r.db.WithContext(ctx).Where("id = ?", subscriptionID).First(&m).Error; err != nil {
			if pkgerrors.IsNotFoundError(err) {
				return nil, biz.ErrSubscriptionNotFound
			}
			return nil, pkgerrors.ClassifyDBError(err)
		}
		r.logger.Database("subscription loaded", "subscription_id", subscriptionID)
		return m.toBiz(), nil
	})
}
