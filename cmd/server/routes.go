package main

import (
	"codeberg.org/taskflow/server/api/rest/auth"
	"codeberg.org/taskflow/server/api/rest/health"
	"codeberg.org/taskflow/server/api/rest/tasks"
	"codeberg.org/taskflow/server/api/rest/users"
	internalauth "codeberg.org/taskflow/server/internal/auth"
	"github.com/gin-gonic/gin"
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) {
	router.Use(CORSMiddleware(server.config.CORSAllowedOrigins))
	router.GET("/health", health.Handler(server.store))

	auth.RegisterRoutes(
		router.Group(""),
		server.services.Issuer,
		server.services.States,
		server.services.Limiter.Middleware(),
	)

	api := router.Group("/api", internalauth.Middleware(server.services.Codec, server.services.Directory))
	{
		tasks.RegisterRoutes(api, server.services.Tasks)
		users.RegisterRoutes(api)
	}
}
