package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/recipegram/backend/internal/models"
)

// PrincipalResolver turns a bearer token into a verified user
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware guards routes behind a valid "Bearer <token>" header. The
// resolved user is stored in the context under "currentUser" and its id under
// "user_id". A valid token for a missing user is rejected exactly like an
// invalid token.
func AuthMiddleware(resolver PrincipalResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No authentication token, access denied"})
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No authentication token, access denied"})
			return
		}

		user, err := resolver.ResolvePrincipal(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token is not valid"})
			return
		}

		c.Set("currentUser", user)
		c.Set("user_id", user.ID)
		c.Next()
	}
}
