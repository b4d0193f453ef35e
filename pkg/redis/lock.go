package redis

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrLockHeld is returned when another holder owns the lock.
var ErrLockHeld = errors.New("lock held by another process")

var (
	lockSetNX  = SetNX
	lockDelete = CompareAndDelete
)

// Locker hands out short-lived advisory locks backed by SET NX.
type Locker struct {
	prefix string
	ttl    time.Duration
}

// NewLocker creates a Locker whose keys live under prefix.
func NewLocker(prefix string, ttl time.Duration) *Locker {
	return &Locker{prefix: prefix, ttl: ttl}
}

// Acquire takes the lock for name and returns its release func.
func (l *Locker) Acquire(ctx context.Context, name string) (func(), error) {
	key := l.prefix + name
	token := uuid.NewString()

	ok, err := lockSetNX(ctx, key, token, l.ttl)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLockHeld
	}

	return func() {
		// a fresh context so cancellation of the request still releases the key
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_, _ = lockDelete(releaseCtx, key, token)
	}, nil
}
