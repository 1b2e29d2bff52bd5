// Package data provides data access layer implementations.
// It handles database connections and data persistence.
package data

import (
	"HireAll/internal/biz"
	"HireAll/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ProviderSet is data providers.
var ProviderSet = wire.NewSet(
	NewData,
	NewRedisClient,
	NewCacheClient,
	NewMySQLClient,
	NewUserRepo,
	NewSubscriptionRepo,
	NewUsageRepo,
	NewGenerationRepo,
	NewRateLimitRepo,
	NewCircuitSnapshotRepo,
	NewAuditLogger,
	NewContentGenerator,
	// Bind data layer implementations to biz layer interfaces
	wire.Bind(new(biz.UserRepo), new(*UserRepo)),
	wire.Bind(new(biz.SubscriptionRepo), new(*SubscriptionRepo)),
	wire.Bind(new(biz.UsageRepo), new(*UsageRepo)),
	wire.Bind(new(biz.GenerationRepo), new(*GenerationRepo)),
	wire.Bind(new(biz.RateLimitRepo), new(*RateLimitRepo)),
	wire.Bind(new(biz.CircuitSnapshotRepo), new(*CircuitSnapshotRepo)),
	wire.Bind(new(biz.AuditLogger), new(*AuditLoggerImpl)),
)

// Data contains all data layer dependencies.
type Data struct {
	// db is the MySQL connection shared by repositories
	db *gorm.DB
	// redisClient is the Redis client for counters and snapshots
	redisClient *redis.Client
	// cache is the cache interface for repository use
	cache CacheClient
}

// NewData creates a new Data instance with all data layer dependencies.
// Redis connection failure does not prevent application startup (graceful degradation).
func NewData(_ *conf.Data, logger log.Logger, db *gorm.DB, rdb *redis.Client, cache CacheClient) (*Data, func(), error) {
	helper := log.NewHelper(logger)

	if rdb == nil {
		helper.Warn("Redis client is nil, caching and rate limiting will be degraded")
	}

	d := &Data{
		db:          db,
		redisClient: rdb,
		cache:       cache,
	}

	cleanup := func() {
		helper.Info("closing the data resources")
	}

	return d, cleanup, nil
}

// GetCache returns the cache client for repository use.
func (d *Data) GetCache() CacheClient {
	return d.cache
}

// GetRedisClient returns the Redis client for advanced operations.
func (d *Data) GetRedisClient() *redis.Client {
	return d.redisClient
}

// GetDB returns the MySQL connection.
func (d *Data) GetDB() *gorm.DB {
	return d.db
}
