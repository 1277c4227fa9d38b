package middleware

import (
	"errors"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
	RoleUser     = "user"

	sessionKey = "session"

	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the JWT payload issued by the auth service.
type Claims struct {
	UserID string   `json:"user_id"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles"`
	Type   string   `json:"type"`
	jwt.RegisteredClaims
}

// Session is the authenticated caller, passed explicitly to handlers
// instead of being read from ambient state.
type Session struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Roles  []string  `json:"roles"`
}

func (s Session) HasRole(role string) bool {
	return slices.Contains(s.Roles, role)
}

func (s Session) IsAdmin() bool {
	return s.HasRole(RoleAdmin)
}

func (s Session) IsOperator() bool {
	return s.HasRole(RoleOperator)
}

// Capability decides whether a session may perform an action.
type Capability func(Session) bool

// CanAdminister is the capability for back-office screens.
func CanAdminister(s Session) bool {
	return s.IsAdmin()
}

// CanManageTransport lets operators maintain companies and routes alongside admins.
func CanManageTransport(s Session) bool {
	return s.IsAdmin() || s.IsOperator()
}

// CanAccessBooking allows owners and staff to see a booking.
func CanAccessBooking(s Session, ownerID uuid.UUID) bool {
	return s.UserID == ownerID || s.IsAdmin() || s.IsOperator()
}

// ParseToken validates an HMAC-signed token and returns its claims.
func ParseToken(secret, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// SessionFromClaims builds a Session from access token claims.
func SessionFromClaims(claims *Claims) (Session, error) {
	if claims.Type != TokenTypeAccess {
		return Session{}, ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return Session{}, ErrInvalidToken
	}
	return Session{UserID: userID, Email: claims.Email, Roles: claims.Roles}, nil
}

// SetSession stores the session on the request context.
func SetSession(c *gin.Context, s Session) {
	c.Set(sessionKey, s)
}

// GetSession returns the session placed by JWTAuth or OptionalAuth.
func GetSession(c *gin.Context) (Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return Session{}, false
	}
	s, ok := v.(Session)
	return s, ok
}
