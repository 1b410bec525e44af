package auth

import (
	"codeberg.org/taskflow/server/internal/auth"
	"github.com/gin-gonic/gin"
)

// registers all authentication routes, every one behind the rate limiter
func RegisterRoutes(router *gin.RouterGroup, issuer SessionIssuer, states *auth.StateStore, rateLimit gin.HandlerFunc) {
	authGroup := router.Group("/auth", rateLimit)
	{
		authGroup.GET("/login", LoginHandler(issuer, states))
		authGroup.GET("/callback", CallbackHandler(issuer, states))
		authGroup.POST("/refresh", RefreshHandler(issuer))
		authGroup.GET("/logout", LogoutHandler(states))
	}
}
