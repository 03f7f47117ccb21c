package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"seoulholic-bot/internal/pkg/jwtutil"
	"seoulholic-bot/internal/transport/http/response"
)

const (
	ContextUserIDKey   = "user_id"
	ContextUsernameKey = "username"
	ContextRoleKey     = "role"

	bearerPrefix = "Bearer "
)

// AuthJWT authenticates a staff token and stores its identity and role on
// the request context.
func AuthJWT(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Abort()
			return
		}

		claims, err := jwtutil.ParseToken(secret, token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextUsernameKey, claims.Username)
		c.Set(ContextRoleKey, claims.Role)
		c.Next()
	}
}

// RequireRole guards routes that only a given staff role may use. It must
// run after AuthJWT.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got, exists := c.Get(ContextRoleKey)
		if !exists || got != role {
			response.Error(c, http.StatusForbidden, response.CodeForbidden, "insufficient role")
			c.Abort()
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if authHeader == "" {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "missing authorization header")
		return "", false
	}
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid authorization scheme")
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix)), true
}
