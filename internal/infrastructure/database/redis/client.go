// Package redis provides the Redis client, the JSON cache used for dashboard
// statistics and a small distributed mutex used by the extraction worker.
package redis

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/fra-monitor/internal/config"
	"github.com/turtacn/fra-monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/fra-monitor/pkg/errors"
)

var (
	ErrClientClosed     = errors.New(errors.ErrCodeInternal, "redis client is closed")
	ErrConnectionFailed = errors.New(errors.ErrCodeCacheError, "redis connection failed")
)

// Client wraps a go-redis client with a closed guard.
type Client struct {
	rdb    redis.UniversalClient
	config config.RedisConfig
	logger logging.Logger
	closed atomic.Bool
}

// NewClient connects to a standalone Redis server and pings it.
func NewClient(cfg config.RedisConfig, log logging.Logger) (*Client, error) {
	cfg = withDefaults(cfg)
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		MaxRetries:   3,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, ErrConnectionFailed.WithCause(err)
	}

	log.Info("redis connected", logging.String("addr", cfg.Addr), logging.Int("db", cfg.DB))
	return newClientWithRDB(rdb, cfg, log), nil
}

func newClientWithRDB(rdb redis.UniversalClient, cfg config.RedisConfig, log logging.Logger) *Client {
	return &Client{rdb: rdb, config: cfg, logger: log}
}

func withDefaults(cfg config.RedisConfig) config.RedisConfig {
	setIfZero(&cfg.PoolSize, 10*runtime.GOMAXPROCS(0))
	setIfZero(&cfg.MinIdleConns, 2)
	setIfZero(&cfg.DialTimeout, 5*time.Second)
	setIfZero(&cfg.ReadTimeout, 3*time.Second)
	setIfZero(&cfg.WriteTimeout, 3*time.Second)
	return cfg
}

func setIfZero[T comparable](dst *T, v T) {
	var zero T
	if *dst == zero {
		*dst = v
	}
}

// KeyPrefix is the configured namespace for every key this service writes.
func (c *Client) KeyPrefix() string {
	return c.config.KeyPrefix
}

func (c *Client) Ping(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClientClosed
	}
	return c.rdb.Ping(ctx).Err()
}

// HealthCheck is Ping wrapped as an application error.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := c.Ping(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "redis health check failed")
	}
	return nil
}

func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	if err := c.rdb.Close(); err != nil {
		c.logger.Error("redis close failed", logging.Err(err))
		return err
	}
	c.logger.Info("redis client closed")
	return nil
}

// The command wrappers below short-circuit with ErrClientClosed once Close
// has run, so late cache writes during shutdown fail cleanly.

// closedCmd sets ErrClientClosed on cmd and returns it.
func closedCmd[C interface{ SetErr(error) }](cmd C) C {
	cmd.SetErr(ErrClientClosed)
	return cmd
}

func (c *Client) Get(ctx context.Context, key string) *redis.StringCmd {
	if c.closed.Load() {
		return closedCmd(redis.NewStringCmd(ctx))
	}
	return c.rdb.Get(ctx, key)
}

func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	if c.closed.Load() {
		return closedCmd(redis.NewStatusCmd(ctx))
	}
	return c.rdb.Set(ctx, key, value, ttl)
}

func (c *Client) SetNX(ctx context.Context, key string, value any, ttl time.Duration) *redis.BoolCmd {
	if c.closed.Load() {
		return closedCmd(redis.NewBoolCmd(ctx))
	}
	return c.rdb.SetNX(ctx, key, value, ttl)
}

func (c *Client) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	if c.closed.Load() {
		return closedCmd(redis.NewIntCmd(ctx))
	}
	return c.rdb.Del(ctx, keys...)
}

func (c *Client) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	if c.closed.Load() {
		return closedCmd(redis.NewIntCmd(ctx))
	}
	return c.rdb.Exists(ctx, keys...)
}

func (c *Client) Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd {
	if c.closed.Load() {
		return closedCmd(redis.NewScanCmd(ctx, nil))
	}
	return c.rdb.Scan(ctx, cursor, match, count)
}

func (c *Client) Eval(ctx context.Context, script string, keys []string, args ...any) *redis.Cmd {
	if c.closed.Load() {
		return closedCmd(redis.NewCmd(ctx))
	}
	return c.rdb.Eval(ctx, script, keys, args...)
}

//Personal.AI order the ending
