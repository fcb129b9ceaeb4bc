package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/yigit/courseapi/internal/app/models"
	"github.com/yigit/courseapi/internal/pkg/apperrors"
	"github.com/yigit/courseapi/internal/pkg/auth"
)

// Context keys set by JWTAuth
const (
	ContextUserIDKey   = "userID"
	ContextUsernameKey = "username"
)

// TokenAuthenticator resolves a bearer token to the user holding it
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware for authentication
type AuthMiddleware struct {
	authenticator TokenAuthenticator
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(authenticator TokenAuthenticator) *AuthMiddleware {
	return &AuthMiddleware{
		authenticator: authenticator,
	}
}

// JWTAuth middleware requires an "Authorization: Bearer <token>" header carrying the
// user's current token
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			HandleAPIError(c, apperrors.NewUnauthorizedError(apperrors.ErrTokenInvalid, "Authentication required"))
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			HandleAPIError(c, apperrors.NewUnauthorizedError(apperrors.ErrTokenInvalid, "Invalid authorization header format"))
			return
		}

		user, err := m.authenticator.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			HandleAPIError(c, err)
			return
		}

		c.Set(ContextUserIDKey, user.ID)
		c.Set(ContextUsernameKey, user.Username)

		c.Next()
	}
}

// GetUserID returns the authenticated user's id
func GetUserID(c *gin.Context) (int64, bool) {
	value, exists := c.Get(ContextUserIDKey)
	if !exists {
		return 0, false
	}
	userID, ok := value.(int64)
	return userID, ok
}
