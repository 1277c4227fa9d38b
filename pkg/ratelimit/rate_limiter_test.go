package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		Enabled:                  true,
		WindowDuration:           time.Minute,
		DefaultRequests:          60,
		PublicRequests:           120,
		AuthRequests:             10,
		CheckoutRequests:         40,
		CheckoutCriticalRequests: 2,
		AdminRequests:            200,
		HealthRequests:           300,
		WhitelistedIPs:           []string{"10.0.0.1"},
	}
}

func newTestLimiter(t *testing.T) (*RateLimiter, redismock.ClientMock, time.Time) {
	t.Helper()
	client, mock := redismock.NewClientMock()
	limiter := NewRateLimiter(client, testConfig())
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	return limiter, mock, now
}

func expectWindow(mock redismock.ClientMock, key string, limit int, now time.Time) *redismock.ExpectedCmd {
	return mock.ExpectEval(slidingWindowScript, []string{key},
		now.Add(-time.Minute).UnixMilli(),
		now.UnixMilli(),
		limit,
		time.Minute.Milliseconds(),
		"1792152000000000000",
	)
}

func TestIsAllowed_WithinLimit(t *testing.T) {
	limiter, mock, now := newTestLimiter(t)
	expectWindow(mock, "ticketera:ratelimit:192.0.2.7:auth", 10, now).SetVal([]interface{}{int64(3), int64(7)})

	result, err := limiter.IsAllowed(context.Background(), "192.0.2.7", RateLimitTypeAuth)

	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, 10, result.Limit)
	assert.Equal(t, 7, result.Remaining)
	assert.Equal(t, now.Add(time.Minute).Unix(), result.ResetTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsAllowed_OverLimit(t *testing.T) {
	limiter, mock, now := newTestLimiter(t)
	expectWindow(mock, "ticketera:ratelimit:192.0.2.7:checkout_critical", 2, now).SetVal([]interface{}{int64(3), int64(0)})

	result, err := limiter.IsAllowed(context.Background(), "192.0.2.7", RateLimitTypeCheckoutCritical)

	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Equal(t, 0, result.Remaining)
}

func TestIsAllowed_WhitelistedAndDisabledSkipRedis(t *testing.T) {
	limiter, mock, _ := newTestLimiter(t)

	result, err := limiter.IsAllowed(context.Background(), "10.0.0.1", RateLimitTypeAuth)
	require.NoError(t, err)
	assert.True(t, result.Allowed)

	limiter.config.Enabled = false
	result, err = limiter.IsAllowed(context.Background(), "192.0.2.7", RateLimitTypeAuth)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, 10, result.Remaining)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsAllowed_RedisError(t *testing.T) {
	limiter, mock, now := newTestLimiter(t)
	expectWindow(mock, "ticketera:ratelimit:192.0.2.7:default", 60, now).SetErr(errors.New("connection refused"))

	_, err := limiter.IsAllowed(context.Background(), "192.0.2.7", RateLimitTypeDefault)

	assert.Error(t, err)
}

func TestGetRateLimitType(t *testing.T) {
	tests := map[string]RateLimitType{
		"/health":                              RateLimitTypeHealth,
		"/api/v1/admin/events":                 RateLimitTypeAdmin,
		"/api/v1/auth/login":                   RateLimitTypeAuth,
		"/api/v1/events/:id/selection/:seatId": RateLimitTypeCheckout,
		"/api/v1/payments/:id/details":         RateLimitTypeCheckout,
		"/api/v1/bookings/event":               RateLimitTypeCheckout,
		"/api/v1/events/:id/seats":             RateLimitTypePublic,
		"/api/v1/search":                       RateLimitTypePublic,
		"/api/v1/blog/:slug":                   RateLimitTypePublic,
		"/api/v1/users/me":                     RateLimitTypeDefault,
	}
	for path, want := range tests {
		assert.Equal(t, want, getRateLimitType(path), path)
	}
}

func TestMiddleware_RejectsOverLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter, mock, now := newTestLimiter(t)
	expectWindow(mock, "ticketera:ratelimit:192.0.2.7:checkout_critical", 2, now).SetVal([]interface{}{int64(3), int64(0)})

	router := gin.New()
	router.POST("/payments/:id/details", Limit(limiter, RateLimitTypeCheckoutCritical), func(c *gin.Context) {
		c.Status(http.StatusAccepted)
	})

	req := httptest.NewRequest(http.MethodPost, "/payments/abc/details", nil)
	req.Header.Set("X-Forwarded-For", "192.0.2.7, 10.0.0.2")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}
