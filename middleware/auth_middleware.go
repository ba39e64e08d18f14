package middleware

import (
	"context"
	"strings"

	"github.com/dlsystem/blogbackend/apperr"
	"github.com/dlsystem/blogbackend/models"
	"github.com/gin-gonic/gin"
)

const userKey = "currentUser"

// IdentityResolver turns a raw bearer token into the current user.
type IdentityResolver interface {
	ResolveToken(ctx context.Context, raw string) (*models.User, error)
}

func AuthMiddleware(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			AbortWithError(c, err)
			return
		}

		user, err := resolver.ResolveToken(c.Request.Context(), raw)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by AuthMiddleware, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", apperr.Authentication("authentication credentials were not provided")
	}
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", apperr.Authentication("invalid authorization header format")
	}
	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", apperr.Authentication("authentication credentials were not provided")
	}
	return token, nil
}
