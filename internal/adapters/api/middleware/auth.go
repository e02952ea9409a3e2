package middleware

import (
	"context"
	"net/http"
	"strings"

	"topoplan/internal/config"
	domainAuth "topoplan/internal/domain/auth"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	// UserContextKey is the key used to store user in gin context
	UserContextKey = "user"
)

// Authenticator resolves a bearer token to a user
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domainAuth.User, error)
}

// VirtualAdmin is the identity used for every request when authentication is disabled
func VirtualAdmin() *domainAuth.User {
	return &domainAuth.User{
		ID:       "admin",
		Username: "admin",
		Role:     domainAuth.RoleAdministrator,
	}
}

// AuthMiddleware creates a middleware for authentication
func AuthMiddleware(authenticator Authenticator, cfg *config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		// If auth is disabled, set a default admin user and continue
		if !cfg.Enabled {
			c.Set(UserContextKey, VirtualAdmin())
			c.Next()
			return
		}

		// Extract token from Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format. Use 'Bearer <token>'"})
			c.Abort()
			return
		}

		user, err := authenticator.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			log.Debug().Err(err).Str("path", c.FullPath()).Msg("rejected bearer token")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		// Store user in context
		c.Set(UserContextKey, user)
		c.Next()
	}
}

// RequireAdmin is a middleware that requires administrator role
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := GetUserFromContext(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found in context"})
			c.Abort()
			return
		}

		if !user.IsAdministrator() {
			c.JSON(http.StatusForbidden, gin.H{"error": "administrator role required"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetUserFromContext retrieves the user from the gin context
func GetUserFromContext(c *gin.Context) *domainAuth.User {
	if user, exists := c.Get(UserContextKey); exists {
		if u, ok := user.(*domainAuth.User); ok {
			return u
		}
	}
	return nil
}
