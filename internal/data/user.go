package data

import (
	"context"
	"time"

	"HireAll/internal/biz"
	pkgerrors "HireAll/pkg/errors"
	pkglog "HireAll/pkg/log"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"gorm.io/gorm"
)

const (
	userLocalCacheSize = 4096
	userLocalCacheTTL  = 30 * time.Second
)

// UserRepo implements biz.UserRepo.
// Reads go through a process-local LRU, then Redis, then MySQL.
type UserRepo struct {
	db     *gorm.DB
	cache  CacheClient
	local  *expirable.LRU[string, *biz.User]
	logger *pkglog.LogHelper
}

// NewUserRepo creates a new user repository.
func NewUserRepo(data *Data, logger log.Logger) *UserRepo {
	return &UserRepo{
		db:     data.db,
		cache:  data.cache,
		local:  expirable.NewLRU[string, *biz.User](userLocalCacheSize, nil, userLocalCacheTTL),
		logger: pkglog.NewLogHelper(logger),
	}
}

// GetUser returns the user record or biz.ErrUserNotFound.
func (r *UserRepo) GetUser(ctx context.Context, userID string) (*biz.User, error) {
	if u, ok := r.local.Get(userID); ok {
		return u, nil
	}

	key := BuildCacheKey(CacheKeyUser, userID)
	u, err := readThrough(ctx, r.cache, r.logger, key, TTLUser, func() (*biz.User, error) {
		var m UserModel
		if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&m).Error; err != nil {
			if pkgerrors.IsNotFoundError(err) {
				return nil, biz.ErrUserNotFound
			}
			return nil, pkgerrors.ClassifyDBError(err)
		}
		r.logger.Database("user loaded", "user_id", userID)
		return m.toBiz(), nil
	})
	if err != nil {
		return nil, err
	}

	r.local.Add(userID, u)
	return u, nil
}
