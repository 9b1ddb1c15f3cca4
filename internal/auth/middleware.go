package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yourname/wellnesstracker/internal"
	"github.com/yourname/wellnesstracker/internal/response"
)

// UserKey is the gin context key holding the authenticated *internal.User.
const UserKey = "user"

func AuthMiddleware(provider Provider, logger internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Unauthorized("Unauthorized"))
			return
		}
		user, err := provider.ValidateToken(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			if !errors.Is(err, internal.ErrUnauthorized) {
				logger.Errorf("token validation failed: %v", err)
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Unauthorized("Unauthorized"))
			return
		}
		c.Set(UserKey, user)
		c.Next()
	}
}
