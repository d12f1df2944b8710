package middleware

import (
	"math"
	"strconv"

	"pdf-quiz/internal/domain"
	"pdf-quiz/internal/service"

	"github.com/gofiber/fiber/v2"
)

// RateLimit returns middleware that enforces per-client request limits.
// Clients are identified by IP address.
func RateLimit(limiter service.RateLimiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		result := limiter.Allow(c.UserContext(), c.IP())
		if result.Limit <= 0 {
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		if !result.Allowed {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(result.ResetIn.Seconds()))))
			return domain.NewRateLimitedError()
		}
		return c.Next()
	}
}
