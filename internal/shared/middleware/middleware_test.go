package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-middleware"

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, claims Claims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func accessClaims(userID uuid.UUID, roles ...string) Claims {
	return Claims{
		UserID: userID.String(),
		Email:  "ana@example.pe",
		Roles:  roles,
		Type:   TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func setupTestRouter(mw ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	handlers := append(mw, func(c *gin.Context) {
		session, ok := GetSession(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": ok, "user_id": session.UserID.String(), "admin": session.IsAdmin()})
	})
	router.GET("/protected", handlers...)
	return router
}

func doGet(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	userID := uuid.New()

	t.Run("valid token", func(t *testing.T) {
		w := doGet(setupTestRouter(JWTAuth(testSecret)), signToken(t, accessClaims(userID, RoleUser), testSecret))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
	})

	t.Run("missing authorization header", func(t *testing.T) {
		w := doGet(setupTestRouter(JWTAuth(testSecret)), "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		w := doGet(setupTestRouter(JWTAuth(testSecret)), signToken(t, accessClaims(userID), "other"))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("refresh token rejected", func(t *testing.T) {
		claims := accessClaims(userID)
		claims.Type = TokenTypeRefresh
		w := doGet(setupTestRouter(JWTAuth(testSecret)), signToken(t, claims, testSecret))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := accessClaims(userID)
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		w := doGet(setupTestRouter(JWTAuth(testSecret)), signToken(t, claims, testSecret))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireCapability(t *testing.T) {
	userID := uuid.New()

	t.Run("admin passes", func(t *testing.T) {
		router := setupTestRouter(JWTAuth(testSecret), RequireAdmin())
		w := doGet(router, signToken(t, accessClaims(userID, RoleAdmin), testSecret))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("user forbidden", func(t *testing.T) {
		router := setupTestRouter(JWTAuth(testSecret), RequireAdmin())
		w := doGet(router, signToken(t, accessClaims(userID, RoleUser), testSecret))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("operator manages transport", func(t *testing.T) {
		router := setupTestRouter(JWTAuth(testSecret), RequireCapability(CanManageTransport))
		w := doGet(router, signToken(t, accessClaims(userID, RoleOperator), testSecret))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("no session", func(t *testing.T) {
		w := doGet(setupTestRouter(RequireAdmin()), "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestOptionalAuth(t *testing.T) {
	router := setupTestRouter(OptionalAuth(testSecret))

	w := doGet(router, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)

	w = doGet(router, "garbage")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)

	w = doGet(router, signToken(t, accessClaims(uuid.New(), RoleAdmin), testSecret))
	assert.Contains(t, w.Body.String(), `"admin":true`)
}

func TestSessionCapabilities(t *testing.T) {
	owner := uuid.New()
	user := Session{UserID: owner, Roles: []string{RoleUser}}
	operator := Session{UserID: uuid.New(), Roles: []string{RoleOperator}}

	assert.False(t, user.IsAdmin())
	assert.False(t, user.IsOperator())
	assert.True(t, operator.IsOperator())
	assert.False(t, CanAdminister(operator))
	assert.True(t, CanManageTransport(operator))
	assert.True(t, CanAccessBooking(user, owner))
	assert.False(t, CanAccessBooking(Session{UserID: uuid.New()}, owner))
	assert.True(t, CanAccessBooking(operator, owner))
}
