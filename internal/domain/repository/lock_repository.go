package repository

import (
	"context"
	"errors"
	"time"
)

// ErrLockHeld is returned when another holder owns the lock.
var ErrLockHeld = errors.New("lock already held")

// Locker hands out short exclusive locks keyed by name. The returned release
// func is safe to call once.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}
