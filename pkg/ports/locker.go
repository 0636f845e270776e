package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker coordinates conversation access across replicas so
// two instances never drive the same conversation concurrently.
type DistributedLocker interface {
	// Lock blocks until the lock for key (a conversation ID) is
	// acquired, the context is cancelled, or the TTL elapses. The
	// returned UnlockFunc MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
