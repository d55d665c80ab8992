package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/altibbe/transparency-api/internal/service"
	"github.com/altibbe/transparency-api/internal/utils"
)

// IdentityMiddleware resolves the caller's identity for every intake request.
// A valid bearer token binds the request to that account; everything else
// falls back to the seeded demo user, matching the platform's open demo flow.
type IdentityMiddleware struct {
	authService *service.AuthService
	demoUserID  string
}

// NewIdentityMiddleware constructs an IdentityMiddleware bound to the seeded
// demo user.
func NewIdentityMiddleware(authService *service.AuthService, demoUserID string) *IdentityMiddleware {
	return &IdentityMiddleware{authService: authService, demoUserID: demoUserID}
}

// Handle sets user_id in the request context. Malformed or expired tokens are
// rejected rather than silently downgraded to the demo user.
func (m *IdentityMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Set("user_id", m.demoUserID)
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.Error(c, 401, "UNAUTHORIZED", "Invalid authorization header")
			c.Abort()
			return
		}

		user, err := m.authService.Resolve(parts[1])
		if err != nil {
			utils.Error(c, 401, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("username", user.Username)
		c.Next()
	}
}
