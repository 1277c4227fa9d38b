package middleware

import (
	"net/http"
	"strings"

	"ticketera/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

// JWTAuth requires a valid Bearer access token and stores the caller's Session
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "Authorization header is required", nil, nil)
			c.Abort()
			return
		}

		tokenString, ok := bearerToken(authHeader)
		if !ok {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "authorization header format must be Bearer {token}", nil, nil)
			c.Abort()
			return
		}

		claims, err := ParseToken(secret, tokenString)
		if err != nil {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "invalid or expired token", nil, nil)
			c.Abort()
			return
		}

		session, err := SessionFromClaims(claims)
		if err != nil {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "invalid token type", nil, nil)
			c.Abort()
			return
		}

		SetSession(c, session)
		c.Next()
	}
}

// OptionalAuth attaches a Session when a valid token is present but never rejects
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Next()
			return
		}
		if claims, err := ParseToken(secret, tokenString); err == nil {
			if session, err := SessionFromClaims(claims); err == nil {
				SetSession(c, session)
			}
		}
		c.Next()
	}
}

// RequireCapability rejects sessions the capability check refuses.
// Must run after JWTAuth.
func RequireCapability(can Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := GetSession(c)
		if !ok {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "user session not found in context", nil, nil)
			c.Abort()
			return
		}

		if !can(session) {
			response.RespondJSON(c, "error", http.StatusForbidden, "Insufficient permissions", nil, nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireAdmin middleware that requires admin role
func RequireAdmin() gin.HandlerFunc {
	return RequireCapability(CanAdminister)
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
