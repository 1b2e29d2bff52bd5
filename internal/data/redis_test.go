package data

import (
	"context"
	"testing"
	"time"

	"HireAll/internal/conf"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func redisConf(addr string) *conf.Data {
	return &conf.Data{
		Redis: &conf.Redis{
			Addr:         addr,
			ReadTimeout:  200 * time.Millisecond,
			WriteTimeout: 200 * time.Millisecond,
		},
	}
}

func TestNewRedisClient_Success(t *testing.T) {
	mr := miniredis.RunT(t)

	client, cleanup, err := NewRedisClient(redisConf(mr.Addr()), log.DefaultLogger)
	require.NoError(t, err)
	require.NotNil(t, client)
	defer cleanup()

	assert.NoError(t, client.Ping(context.Background()).Err())
}

func TestNewRedisClient_ConnectionFailure(t *testing.T) {
	// Startup continues with an unreachable Redis
	client, cleanup, err := NewRedisClient(redisConf("127.0.0.1:1"), log.DefaultLogger)
	defer cleanup()

	assert.NoError(t, err)
	require.NotNil(t, client)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.Error(t, client.Ping(ctx).Err())
}

func TestNewRedisClient_NilConfig(t *testing.T) {
	client, cleanup, err := NewRedisClient(nil, log.DefaultLogger)
	defer cleanup()

	assert.NoError(t, err)
	assert.Nil(t, client)
}

func TestNewRedisClient_EmptyAddress(t *testing.T) {
	client, cleanup, err := NewRedisClient(redisConf(""), log.DefaultLogger)
	defer cleanup()

	assert.NoError(t, err)
	assert.Nil(t, client)
}

func TestNewRedisClient_PoolConfiguration(t *testing.T) {
	mr := miniredis.RunT(t)

	c := redisConf(mr.Addr())
	c.Redis.DB = 2
	c.Redis.Password = ""

	client, cleanup, err := NewRedisClient(c, log.DefaultLogger)
	require.NoError(t, err)
	defer cleanup()

	opts := client.Options()
	assert.Equal(t, "tcp", opts.Network)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 100, opts.PoolSize)
	assert.Equal(t, 10, opts.MinIdleConns)
	assert.Equal(t, 3*time.Second, opts.DialTimeout)
	assert.Equal(t, 200*time.Millisecond, opts.ReadTimeout)
	assert.Equal(t, 200*time.Millisecond, opts.WriteTimeout)
}

func TestNewRedisClient_CleanupFunction(t *testing.T) {
	mr := miniredis.RunT(t)

	client, cleanup, err := NewRedisClient(redisConf(mr.Addr()), log.DefaultLogger)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, client.Ping(ctx).Err())

	cleanup()
	assert.Error(t, client.Ping(ctx).Err())
}
