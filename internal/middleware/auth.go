package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/omk2207/TestChat/internal/auth"
	"github.com/omk2207/TestChat/pkg/response"
)

const (
	UserIDKey     = "user_id"
	CookieName    = "token"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// AuthMiddleware validates credential tokens carried in the auth
// cookie (or a bearer header for non-browser clients).
type AuthMiddleware struct {
	tokens *auth.Manager
}

// NewAuthMiddleware creates a new auth middleware.
func NewAuthMiddleware(tokens *auth.Manager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// TokenFromRequest extracts the raw token from the request: the auth
// cookie first, then the Authorization header. Empty when neither is
// present.
func TokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(CookieName); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader(AuthHeaderKey)
	if strings.HasPrefix(header, BearerPrefix) {
		return strings.TrimPrefix(header, BearerPrefix)
	}
	return ""
}

// RequireAuth returns a Gin middleware that rejects requests without a
// valid token and stores the verified user id in the context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c)
		if token == "" {
			response.Unauthorized(c, "missing credentials")
			c.Abort()
			return
		}

		userID, err := m.tokens.Verify(token)
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// GetUserID extracts the verified user id from the Gin context. Zero
// when the request did not pass RequireAuth.
func GetUserID(c *gin.Context) uint {
	if id, exists := c.Get(UserIDKey); exists {
		if userID, ok := id.(uint); ok {
			return userID
		}
	}
	return 0
}
