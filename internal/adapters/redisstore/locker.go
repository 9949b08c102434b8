package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/ports"
	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

const (
	defaultLockTTL    = 30 * time.Second
	lockRetryInterval = 100 * time.Millisecond
)

// Locker is a ports.Locker shared by every instance talking to the same Redis.
type Locker struct {
	client *redislock.Client
	ttl    time.Duration
}

var _ ports.Locker = (*Locker)(nil)

// NewLocker creates a Locker. A non-positive ttl falls back to 30s.
func NewLocker(rdb *redis.Client, ttl time.Duration) *Locker {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &Locker{client: redislock.New(rdb), ttl: ttl}
}

// Obtain retries until the lock is free, the TTL elapses or ctx is done.
func (l *Locker) Obtain(ctx context.Context, key string) (func(context.Context) error, error) {
	retries := int(l.ttl / lockRetryInterval)
	lock, err := l.client.Obtain(ctx, key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(lockRetryInterval), retries),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: lock %s is held elsewhere", apperrors.ErrConcurrencyConflict, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to obtain lock %s: %w", key, err)
	}

	return func(ctx context.Context) error {
		if err := lock.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			return fmt.Errorf("failed to release lock %s: %w", key, err)
		}
		return nil
	}, nil
}
