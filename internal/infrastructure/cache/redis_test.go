package cache

import (
	"context"
	"math"
	"testing"
	"time"

	"nasu-match/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func setupMiniRedis(t *testing.T, ttl time.Duration) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisFromClient(client, ttl, zaptest.NewLogger(t)), mr
}

func TestRedis_SetGetInt64(t *testing.T) {
	r, mr := setupMiniRedis(t, time.Minute)
	ctx := context.Background()

	_, ok, err := r.GetInt64(ctx, "leads:count:s1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.SetMaxInt64(ctx, "leads:count:s1", 15))
	v, ok, err := r.GetInt64(ctx, "leads:count:s1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(15), v)
	assert.Equal(t, time.Minute, mr.TTL("leads:count:s1"))

	mr.FastForward(2 * time.Minute)
	_, ok, err = r.GetInt64(ctx, "leads:count:s1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedis_DefaultTTL(t *testing.T) {
	r, mr := setupMiniRedis(t, 0)
	require.NoError(t, r.SetMaxInt64(context.Background(), "k", 1))
	assert.Equal(t, defaultTTL, mr.TTL("k"))
}

func TestRedis_Delete(t *testing.T) {
	r, mr := setupMiniRedis(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, r.SetMaxInt64(ctx, "k", 3))
	require.NoError(t, r.Delete(ctx, "k"))
	assert.False(t, mr.Exists("k"))
}

func TestRedis_CorruptValue(t *testing.T) {
	r, mr := setupMiniRedis(t, time.Minute)
	require.NoError(t, mr.Set("k", "not-a-number"))

	_, ok, err := r.GetInt64(context.Background(), "k")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRedis_ServerDown(t *testing.T) {
	r, mr := setupMiniRedis(t, time.Minute)
	mr.Close()

	_, ok, err := r.GetInt64(context.Background(), "k")
	assert.Error(t, err)
	assert.False(t, ok)
	assert.True(t, r.warnedUnavailable.Load())
}

func TestRedis_Disabled(t *testing.T) {
	r := NewRedis(config.RedisConfig{Enabled: false}, nil)
	ctx := context.Background()

	assert.NoError(t, r.SetMaxInt64(ctx, "k", 1))
	_, ok, err := r.GetInt64(ctx, "k")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Error(t, r.Ping(ctx))
	assert.NoError(t, r.Close())
}

func TestRedis_NilSafe(t *testing.T) {
	var r *Redis
	_, ok, err := r.GetInt64(context.Background(), "k")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, r.Delete(context.Background(), "k"))
}

func TestRedis_SetMaxInt64KeepsLarger(t *testing.T) {
	r, mr := setupMiniRedis(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, r.SetMaxInt64(ctx, "k", 15))
	require.NoError(t, r.SetMaxInt64(ctx, "k", 6))
	v, ok, err := r.GetInt64(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(15), v)

	require.NoError(t, r.SetMaxInt64(ctx, "k", 100))
	v, _, _ = r.GetInt64(ctx, "k")
	assert.Equal(t, int64(100), v)
	assert.Equal(t, time.Minute, mr.TTL("k"))

	require.NoError(t, r.SetMaxInt64(ctx, "k", 99))
	v, _, _ = r.GetInt64(ctx, "k")
	assert.Equal(t, int64(100), v)

	assert.Error(t, r.SetMaxInt64(ctx, "k", -1))
}

func TestRedis_SetMaxInt64NearInt64Limit(t *testing.T) {
	r, _ := setupMiniRedis(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, r.SetMaxInt64(ctx, "k", math.MaxInt64))
	require.NoError(t, r.SetMaxInt64(ctx, "k", math.MaxInt64-1))
	v, ok, err := r.GetInt64(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(math.MaxInt64), v)
}
