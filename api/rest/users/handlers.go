package users

import (
	"net/http"

	"codeberg.org/taskflow/server/internal/auth"
	"codeberg.org/taskflow/server/internal/errors"
	"github.com/gin-gonic/gin"
)

// GetProfile godoc
// @Summary Get current user
// @Description Returns the authenticated user's profile
// @Tags users
// @Produce json
// @Success 200 {object} users.User
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/user/profile [get]
// @Security BearerAuth
func GetProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		// resolved by the auth middleware on this request
		user, exists := auth.GetUser(c)
		if !exists {
			errors.Unauthorized(c, "user not authenticated")
			return
		}

		c.JSON(http.StatusOK, user)
	}
}
