package service

import (
	"context"
	"time"

	"pdf-quiz/internal/cache"
	"pdf-quiz/internal/domain"
	"pdf-quiz/internal/logger"

	"go.uber.org/zap"
)

// RateLimitWindow is the length of one fixed counting window.
const RateLimitWindow = time.Minute

// RateLimitResult is the outcome of one rate limit check.
type RateLimitResult struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetIn   time.Duration
}

// RateLimiter decides whether a client may make another generation request.
type RateLimiter interface {
	Allow(ctx context.Context, clientID string) RateLimitResult
}

// NewRateLimiter returns a fixed-window limiter backed by store, or a limiter
// that allows everything when store is nil or requestsPerMinute is not positive.
func NewRateLimiter(store domain.Cache, requestsPerMinute int) RateLimiter {
	if store == nil || requestsPerMinute <= 0 {
		return noopRateLimiter{}
	}
	return &windowRateLimiter{store: store, limit: requestsPerMinute, now: time.Now}
}

type noopRateLimiter struct{}

func (noopRateLimiter) Allow(context.Context, string) RateLimitResult {
	return RateLimitResult{Allowed: true}
}

type windowRateLimiter struct {
	store domain.Cache
	limit int
	now   func() time.Time
}

// Allow counts the request in the current window. Store failures let the
// request through.
func (l *windowRateLimiter) Allow(ctx context.Context, clientID string) RateLimitResult {
	now := l.now()
	window := now.Unix() / int64(RateLimitWindow/time.Second)
	key := cache.RateLimitKey(clientID, window)
	resetIn := time.Unix((window+1)*int64(RateLimitWindow/time.Second), 0).Sub(now)

	count, err := l.store.Incr(ctx, key)
	if err != nil {
		logger.Get().Warn("Rate limit store unavailable, allowing request",
			zap.String("client", clientID), zap.Error(err))
		return RateLimitResult{Allowed: true, Limit: l.limit, Remaining: l.limit, ResetIn: resetIn}
	}
	if count == 1 {
		if err := l.store.Expire(ctx, key, 2*RateLimitWindow); err != nil {
			logger.Get().Warn("Failed to set rate limit expiry", zap.String("key", key), zap.Error(err))
		}
	}

	remaining := l.limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return RateLimitResult{
		Allowed:   count <= int64(l.limit),
		Limit:     l.limit,
		Remaining: remaining,
		ResetIn:   resetIn,
	}
}
