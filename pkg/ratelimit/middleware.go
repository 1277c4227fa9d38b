package ratelimit

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"ticketera/internal/shared/utils/response"
	"ticketera/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Middleware picks the limit bucket from the matched route
func Middleware(rateLimiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		enforce(c, rateLimiter, getRateLimitType(c.FullPath()))
	}
}

// Limit applies one fixed bucket, for routes stricter than their path suggests
func Limit(rateLimiter *RateLimiter, limitType RateLimitType) gin.HandlerFunc {
	return func(c *gin.Context) {
		enforce(c, rateLimiter, limitType)
	}
}

func enforce(c *gin.Context, rateLimiter *RateLimiter, limitType RateLimitType) {
	clientIP := getClientIP(c)

	result, err := rateLimiter.IsAllowed(c.Request.Context(), clientIP, limitType)
	if err != nil {
		logger.GetDefault().WithComponent("ratelimit").WithError(err).Error("rate limit check failed")
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Rate limit check failed", nil, nil)
		c.Abort()
		return
	}

	c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetTime, 10))

	if !result.Allowed {
		logger.GetDefault().LogRateLimitExceeded(c.Request.Context(), clientIP, c.FullPath())
		response.RespondJSON(c, "error", http.StatusTooManyRequests, "Rate limit exceeded", nil, map[string]interface{}{
			"limit":      result.Limit,
			"reset_time": result.ResetTime,
		})
		c.Abort()
		return
	}

	c.Next()
}

func getRateLimitType(path string) RateLimitType {
	switch {
	case strings.HasPrefix(path, "/health"),
		strings.HasPrefix(path, "/ping"),
		strings.HasPrefix(path, "/status"):
		return RateLimitTypeHealth

	case strings.Contains(path, "/admin/"):
		return RateLimitTypeAdmin

	case strings.Contains(path, "/auth/"):
		return RateLimitTypeAuth

	case strings.Contains(path, "/selection"),
		strings.Contains(path, "/bookings"),
		strings.Contains(path, "/payments"):
		return RateLimitTypeCheckout

	case strings.Contains(path, "/events"),
		strings.Contains(path, "/routes"),
		strings.Contains(path, "/companies"),
		strings.Contains(path, "/venues"),
		strings.Contains(path, "/search"),
		strings.Contains(path, "/blog"):
		return RateLimitTypePublic

	default:
		return RateLimitTypeDefault
	}
}

// extracts real client IP
func getClientIP(c *gin.Context) string {
	if xForwardedFor := c.GetHeader("X-Forwarded-For"); xForwardedFor != "" {
		ip := strings.TrimSpace(strings.Split(xForwardedFor, ",")[0])
		if net.ParseIP(ip) != nil {
			return ip
		}
	}

	if xRealIP := c.GetHeader("X-Real-IP"); net.ParseIP(xRealIP) != nil {
		return xRealIP
	}

	ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return ip
}
