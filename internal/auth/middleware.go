package auth

import (
	"context"
	stderrors "errors"
	"strings"

	"codeberg.org/taskflow/server/internal/errors"
	"codeberg.org/taskflow/server/internal/logger"
	"codeberg.org/taskflow/server/taskflow/users"
	"github.com/gin-gonic/gin"
)

// verifies bearer tokens
type TokenVerifier interface {
	Verify(token string, expected TokenType) (*Claims, error)
}

// re-resolves the token subject on every request
type UserResolver interface {
	FindByID(ctx context.Context, id string) (*users.User, error)
}

// requires a valid access token and a user that still exists
func Middleware(verifier TokenVerifier, resolver UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			errors.Unauthorized(c, "authorization header required")
			return
		}

		claims, err := verifier.Verify(token, TokenTypeAccess)
		if err != nil {
			if stderrors.Is(err, ErrExpired) {
				errors.Unauthorized(c, "token expired")
				return
			}

			errors.Unauthorized(c, "invalid token")
			return
		}

		user, err := resolver.FindByID(c.Request.Context(), claims.UserID)
		if stderrors.Is(err, users.ErrUserNotFound) {
			errors.Unauthorized(c, "user no longer exists")
			return
		}

		if err != nil {
			errors.InternalError(c, "failed to resolve user", err)
			return
		}

		c.Set(ContextKeyUserID, user.ID)
		c.Set(ContextKeyUser, user)

		ctx := logger.WithContext(c.Request.Context(), logger.With("user_id", user.ID))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// the header must be exactly "Bearer <token>"
func bearerToken(header string) (string, error) {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" || strings.ContainsAny(token, " \t") {
		return "", ErrMissingCredential
	}

	return token, nil
}

// extracts user_id from context after Middleware
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(ContextKeyUserID)
	if !exists {
		return "", false
	}

	id, ok := userID.(string)
	return id, ok
}

// extracts the resolved user from context after Middleware
func GetUser(c *gin.Context) (*users.User, bool) {
	value, exists := c.Get(ContextKeyUser)
	if !exists {
		return nil, false
	}

	user, ok := value.(*users.User)
	return user, ok
}
