package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/cinema/pkg/cache"
	"github.com/amirasaad/cinema/pkg/config"
	"github.com/redis/go-redis/v9"
)

// redisClient is the subset of *redis.Client the denylist needs.
type redisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisTokenDenylist implements cache.TokenDenylist using Redis keys
// <prefix>token:revoked:<jti>.
type RedisTokenDenylist struct {
	client redisClient
	prefix string
	logger *slog.Logger
}

// NewRedisTokenDenylist connects to cfg.URL and verifies the connection.
func NewRedisTokenDenylist(
	ctx context.Context,
	cfg *config.Redis,
	logger *slog.Logger,
) (*RedisTokenDenylist, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opt.PoolSize = cfg.PoolSize
	opt.DialTimeout = cfg.DialTimeout
	opt.ReadTimeout = cfg.ReadTimeout
	opt.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return newRedisTokenDenylist(client, cfg.KeyPrefix, logger), nil
}

func newRedisTokenDenylist(client redisClient, prefix string, logger *slog.Logger) *RedisTokenDenylist {
	return &RedisTokenDenylist{client: client, prefix: prefix, logger: logger.With("cache", "redis")}
}

func (r *RedisTokenDenylist) key(jti string) string {
	return r.prefix + "token:revoked:" + jti
}

// Revoke implements cache.TokenDenylist.
func (r *RedisTokenDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl < 0 {
		return nil
	}
	if err := r.client.Set(ctx, r.key(jti), "1", ttl).Err(); err != nil {
		r.logger.Error("Redis revoke error", "jti", jti, "error", err)
		return err
	}
	return nil
}

// IsRevoked implements cache.TokenDenylist.
func (r *RedisTokenDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(jti)).Result()
	if err != nil {
		r.logger.Error("Redis denylist lookup error", "jti", jti, "error", err)
		return false, err
	}
	return n > 0, nil
}

// Close releases the connection pool.
func (r *RedisTokenDenylist) Close() error {
	return r.client.Close()
}

var _ cache.TokenDenylist = (*RedisTokenDenylist)(nil)
