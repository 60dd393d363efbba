package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"nasu-match/internal/config"
	"nasu-match/internal/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultTTL = 600 * time.Second

// Redis is a best-effort cache. When the server is unreachable at startup
// every call becomes a miss and writes are dropped.
type Redis struct {
	client *redis.Client
	logger *zap.Logger
	ttl    time.Duration

	warnedUnavailable atomic.Bool
}

func NewRedis(cfg config.RedisConfig, log *zap.Logger) *Redis {
	log = logger.OrNop(log)
	if !cfg.Enabled {
		log.Info("cache disabled")
		return &Redis{logger: log, ttl: cfg.TTL}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis unavailable, bypassing cache", zap.String("addr", cfg.Addr()), zap.Error(err))
		_ = client.Close()
		return &Redis{logger: log, ttl: cfg.TTL}
	}

	return NewRedisFromClient(client, cfg.TTL, log)
}

func NewRedisFromClient(client *redis.Client, ttl time.Duration, log *zap.Logger) *Redis {
	return &Redis{client: client, logger: logger.OrNop(log), ttl: ttl}
}

func (r *Redis) isUnavailable() bool {
	return r == nil || r.client == nil
}

func (r *Redis) warnUnavailableOnce(err error) {
	if r == nil || r.logger == nil {
		return
	}
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		r.logger.Warn("redis error, bypassing cache", zap.Error(err))
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	if r.isUnavailable() {
		return errors.New("redis unavailable")
	}
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	if r.isUnavailable() {
		return nil
	}
	return r.client.Close()
}

func (r *Redis) GetInt64(ctx context.Context, key string) (int64, bool, error) {
	if r.isUnavailable() {
		return 0, false, nil
	}
	s, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		r.warnUnavailableOnce(err)
		return 0, false, err
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

// setMaxScript stores ARGV[1] unless the key already holds a larger value.
// Values are non-negative decimal strings, compared by length then bytes so
// the whole int64 range stays exact.
var setMaxScript = redis.NewScript(`
local cur = redis.call('GET', KEYS[1])
local v = ARGV[1]
if cur and (#cur > #v or (#cur == #v and cur >= v)) then
	return cur
end
redis.call('SET', KEYS[1], v, 'PX', ARGV[2])
return v
`)

// SetMaxInt64 raises the cached value to value. A smaller or equal value
// leaves the key and its TTL untouched.
func (r *Redis) SetMaxInt64(ctx context.Context, key string, value int64) error {
	if r.isUnavailable() {
		return nil
	}
	if value < 0 {
		return fmt.Errorf("negative cache value %d", value)
	}
	ttl := r.ttl
	if ttl <= 0 {
		ttl = defaultTTL
	}
	err := setMaxScript.Run(ctx, r.client, []string{key}, strconv.FormatInt(value, 10), ttl.Milliseconds()).Err()
	if err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if r.isUnavailable() {
		return nil
	}
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}
