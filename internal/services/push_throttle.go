package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	mem "mirage/pkg/memcache"
)

// PushThrottle keeps a phone from receiving a second STK prompt while the
// first one is still on the handset.
type PushThrottle interface {
	// Acquire reports whether a push to phone may go ahead.
	Acquire(ctx context.Context, phone string) (bool, error)
	// Release frees phone early, e.g. after the gateway rejected the push.
	Release(ctx context.Context, phone string) error
}

func throttleKey(phone string) string {
	return fmt.Sprintf("stkpush:lock:%s", phone)
}

type redisPushThrottle struct {
	redis  redis.Cmdable
	window time.Duration
}

func NewRedisPushThrottle(client redis.Cmdable, window time.Duration) PushThrottle {
	return &redisPushThrottle{redis: client, window: window}
}

func (r *redisPushThrottle) Acquire(ctx context.Context, phone string) (bool, error) {
	if r.window <= 0 {
		return true, nil
	}
	return r.redis.SetNX(ctx, throttleKey(phone), 1, r.window).Result()
}

func (r *redisPushThrottle) Release(ctx context.Context, phone string) error {
	if r.window <= 0 {
		return nil
	}
	return r.redis.Del(ctx, throttleKey(phone)).Err()
}

type memoryPushThrottle struct {
	locks  mem.PushLockStore
	window time.Duration
}

func NewMemoryPushThrottle(locks mem.PushLockStore, window time.Duration) PushThrottle {
	return &memoryPushThrottle{locks: locks, window: window}
}

func (m *memoryPushThrottle) Acquire(_ context.Context, phone string) (bool, error) {
	if m.window <= 0 {
		return true, nil
	}
	return m.locks.Acquire(throttleKey(phone), m.window), nil
}

func (m *memoryPushThrottle) Release(_ context.Context, phone string) error {
	m.locks.Release(throttleKey(phone))
	return nil
}
