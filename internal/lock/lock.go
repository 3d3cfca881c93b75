// Package lock provides short-lived named locks used to serialize callback
// deliveries for a single checkout request.
package lock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotObtained is returned when the key stayed held for the whole wait
var ErrNotObtained = errors.New("lock not obtained")

// DefaultWait bounds how long Obtain waits when no wait is configured
const DefaultWait = 30 * time.Second

// Retry backoff while polling a held redis key
const (
	minBackoff = 10 * time.Millisecond
	maxBackoff = 200 * time.Millisecond
)

// Locker obtains named locks. Obtain blocks while the key is held, until the
// holder releases it, the wait elapses (ErrNotObtained) or ctx is done.
type Locker interface {
	Obtain(ctx context.Context, key string) (Lock, error)
}

// Lock is a held lock
type Lock interface {
	Release(ctx context.Context) error
}

// releaseScript deletes the key only if we still own it
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLocker implements Locker with SET NX PX
type RedisLocker struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisLocker creates a new RedisLocker. Keys expire after ttl and a
// contended Obtain waits at most ttl, after which a crashed holder's key is gone.
func NewRedisLocker(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = DefaultWait
	}
	return &RedisLocker{client: client, prefix: prefix, ttl: ttl}
}

// Obtain polls SETNX with backoff until the key is free
func (l *RedisLocker) Obtain(ctx context.Context, key string) (Lock, error) {
	token := uuid.NewString()
	fullKey := l.prefix + key
	deadline := time.Now().Add(l.ttl)
	backoff := minBackoff

	for {
		ok, err := l.client.SetNX(ctx, fullKey, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return &redisLock{client: l.client, key: fullKey, token: token}, nil
		}
		if !time.Now().Before(deadline) {
			return nil, ErrNotObtained
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		if backoff *= 2; backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

type redisLock struct {
	client redis.UniversalClient
	key    string
	token  string
}

func (l *redisLock) Release(ctx context.Context) error {
	return releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Err()
}

// NopLocker always succeeds
type NopLocker struct{}

// Obtain returns a lock that does nothing
func (NopLocker) Obtain(context.Context, string) (Lock, error) {
	return nopLock{}, nil
}

type nopLock struct{}

func (nopLock) Release(context.Context) error { return nil }

// MemoryLocker is an in-process Locker. It only serializes callers that share it.
type MemoryLocker struct {
	wait time.Duration

	mu sync.Mutex
	// held maps a key to a channel closed on release
	held map[string]chan struct{}
}

// NewMemoryLocker creates a new MemoryLocker. A zero wait uses DefaultWait.
func NewMemoryLocker(wait time.Duration) *MemoryLocker {
	if wait <= 0 {
		wait = DefaultWait
	}
	return &MemoryLocker{wait: wait, held: make(map[string]chan struct{})}
}

// Obtain takes the key, waiting for the current holder to release it
func (l *MemoryLocker) Obtain(ctx context.Context, key string) (Lock, error) {
	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	for {
		l.mu.Lock()
		released, busy := l.held[key]
		if !busy {
			ch := make(chan struct{})
			l.held[key] = ch
			l.mu.Unlock()
			return &memoryLock{owner: l, key: key, released: ch}, nil
		}
		l.mu.Unlock()

		select {
		case <-released:
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
			return nil, ErrNotObtained
		}
	}
}

type memoryLock struct {
	owner    *MemoryLocker
	key      string
	released chan struct{}
	once     sync.Once
}

func (l *memoryLock) Release(context.Context) error {
	l.once.Do(func() {
		l.owner.mu.Lock()
		delete(l.owner.held, l.key)
		l.owner.mu.Unlock()
		close(l.released)
	})
	return nil
}
