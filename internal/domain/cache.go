package domain

import (
	"context"
	"time"
)

// Cache is the counter store behind request rate limiting.
// Implementations of this interface are adapters (e.g., RedisCacheAdapter).
type Cache interface {
	// Incr atomically increments the integer stored at key, creating it at 1.
	Incr(ctx context.Context, key string) (int64, error)

	// Expire sets an expiration time on key.
	Expire(ctx context.Context, key string, expiration time.Duration) error
}
