package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pdf-quiz/internal/domain"
	"pdf-quiz/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLimiter struct {
	results []service.RateLimitResult
	clients []string
}

func (s *stubLimiter) Allow(_ context.Context, clientID string) service.RateLimitResult {
	s.clients = append(s.clients, clientID)
	r := s.results[0]
	if len(s.results) > 1 {
		s.results = s.results[1:]
	}
	return r
}

func newRateLimitedApp(limiter service.RateLimiter) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Post("/generate", RateLimit(limiter), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	return app
}

func TestRateLimit_AllowsAndSetsHeaders(t *testing.T) {
	limiter := &stubLimiter{results: []service.RateLimitResult{{Allowed: true, Limit: 5, Remaining: 4, ResetIn: time.Minute}}}
	app := newRateLimitedApp(limiter)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/generate", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "5", resp.Header.Get("X-RateLimit-Limit"))
	assert.Equal(t, "4", resp.Header.Get("X-RateLimit-Remaining"))
	assert.Len(t, limiter.clients, 1)
}

func TestRateLimit_Rejects(t *testing.T) {
	limiter := &stubLimiter{results: []service.RateLimitResult{{Allowed: false, Limit: 5, Remaining: 0, ResetIn: 1500 * time.Millisecond}}}
	app := newRateLimitedApp(limiter)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/generate", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "0", resp.Header.Get("X-RateLimit-Remaining"))
	assert.Equal(t, "2", resp.Header.Get("Retry-After"))
	assert.Equal(t, http.StatusTooManyRequests, StatusForCode(domain.ErrRateLimited))
}

func TestRateLimit_DisabledLimiterSetsNoHeaders(t *testing.T) {
	app := newRateLimitedApp(service.NewRateLimiter(nil, 0))

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/generate", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("X-RateLimit-Limit"))
}
