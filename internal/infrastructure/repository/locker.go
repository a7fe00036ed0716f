package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bsm/redislock"
	domainRepo "github.com/climasgama/pos-terminal/internal/domain/repository"
	"github.com/redis/go-redis/v9"
)

type memoryLock struct {
	token uint64
	until time.Time
}

type memoryLocker struct {
	mu   sync.Mutex
	next uint64
	held map[string]memoryLock
}

// NewMemoryLocker guards keys within this process only.
func NewMemoryLocker() domainRepo.Locker {
	return &memoryLocker{held: make(map[string]memoryLock)}
}

func (l *memoryLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if cur, ok := l.held[key]; ok && time.Now().Before(cur.until) {
		return nil, domainRepo.ErrLockHeld
	}
	l.next++
	token := l.next
	l.held[key] = memoryLock{token: token, until: time.Now().Add(ttl)}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			// an expired lock may have been taken over by someone else
			if cur, ok := l.held[key]; ok && cur.token == token {
				delete(l.held, key)
			}
		})
	}, nil
}

type redisLocker struct {
	locker *redislock.Client
}

// NewRedisLocker guards keys across every terminal sharing the redis instance.
func NewRedisLocker(client *redis.Client) domainRepo.Locker {
	return &redisLocker{locker: redislock.New(client)}
}

func (l *redisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	lock, err := l.locker.Obtain(ctx, "lock:"+key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, domainRepo.ErrLockHeld
	}
	if err != nil {
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// the lock may already have expired; nothing else to do then
			_ = lock.Release(context.Background())
		})
	}, nil
}
