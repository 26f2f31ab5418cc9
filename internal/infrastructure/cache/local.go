// Package cache provides an in-process cache with the same method set as the
// Redis cache, for single-instance deployments and tests.
package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/turtacn/fra-monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/fra-monitor/pkg/errors"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New(errors.ErrCodeNotFound, "cache miss")

const defaultCleanupInterval = 10 * time.Minute

// LocalCache keeps JSON-encoded values in a go-cache store, so callers get a
// fresh copy on every read.
type LocalCache struct {
	store  *gocache.Cache
	ttl    time.Duration
	logger logging.Logger
	group  singleflight.Group
}

// NewLocalCache returns a cache whose entries expire after ttl by default.
func NewLocalCache(ttl time.Duration, log logging.Logger) *LocalCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &LocalCache{
		store:  gocache.New(ttl, defaultCleanupInterval),
		ttl:    ttl,
		logger: log,
	}
}

func (c *LocalCache) Get(_ context.Context, key string, dest interface{}) error {
	v, ok := c.store.Get(key)
	if !ok {
		return ErrCacheMiss
	}
	if err := json.Unmarshal(v.([]byte), dest); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode cached value")
	}
	return nil
}

func (c *LocalCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode cache value")
	}
	if ttl <= 0 {
		ttl = c.ttl
	}
	c.store.Set(key, data, ttl)
	return nil
}

func (c *LocalCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		c.store.Delete(k)
	}
	return nil
}

// GetOrSet reads key into dest or runs loader once for concurrent callers of
// the same key and stores its result.
func (c *LocalCache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error {
	if err := c.Get(ctx, key, dest); err == nil {
		return nil
	}

	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		v, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		if setErr := c.Set(ctx, key, v, ttl); setErr != nil {
			c.logger.Warn("Failed to set local cache", logging.String("key", key), logging.Err(setErr))
		}
		return v, nil
	})
	if err != nil {
		return err
	}
	data, err := json.Marshal(val)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode loaded value")
	}
	return json.Unmarshal(data, dest)
}

func (c *LocalCache) DeleteByPrefix(_ context.Context, prefix string) (int64, error) {
	var n int64
	for k := range c.store.Items() {
		if strings.HasPrefix(k, prefix) {
			c.store.Delete(k)
			n++
		}
	}
	return n, nil
}

func (c *LocalCache) Ping(context.Context) error {
	return nil
}

// Len reports the number of unexpired entries.
func (c *LocalCache) Len() int {
	return c.store.ItemCount()
}

//Personal.AI order the ending
