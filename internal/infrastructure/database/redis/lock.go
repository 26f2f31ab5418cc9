package redis

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/fra-monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/fra-monitor/pkg/errors"
)

var (
	ErrLockNotHeld = errors.New(errors.ErrCodeConflict, "lock not held by this owner")
)

const unlockScript = `
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`

// Mutex is a single-owner lease on a key.  The lease expires after its TTL so
// a crashed owner never blocks others for longer than that.
type Mutex struct {
	client *Client
	key    string
	value  string
	ttl    time.Duration
	logger logging.Logger
}

// NewMutex creates a mutex named name.  Nothing is acquired until TryLock.
func NewMutex(client *Client, name string, ttl time.Duration, log logging.Logger) *Mutex {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Mutex{
		client: client,
		key:    client.KeyPrefix() + "lock:" + name,
		value:  uuid.New().String(),
		ttl:    ttl,
		logger: log,
	}
}

// TryLock acquires the lease if nobody holds it.
func (m *Mutex) TryLock(ctx context.Context) (bool, error) {
	ok, err := m.client.SetNX(ctx, m.key, m.value, m.ttl).Result()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeCacheError, "failed to acquire lock")
	}
	return ok, nil
}

// Unlock releases the lease when this mutex still owns it.
func (m *Mutex) Unlock(ctx context.Context) error {
	res, err := m.client.Eval(ctx, unlockScript, []string{m.key}, m.value).Int64()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to release lock")
	}
	if res == 0 {
		m.logger.Warn("Lock expired before release", logging.String("key", m.key))
		return ErrLockNotHeld
	}
	return nil
}

//Personal.AI order the ending
