package ports

import (
	"context"
	"time"
)

// Locker serialises work across processes. Acquire blocks until the lock is
// held or ctx ends; the returned release func is safe to call once.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, err error)
}
