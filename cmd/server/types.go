package main

import (
	"codeberg.org/taskflow/server/internal/auth"
	"codeberg.org/taskflow/server/internal/config"
	"codeberg.org/taskflow/server/internal/ratelimit"
	"codeberg.org/taskflow/server/internal/sessions"
	"codeberg.org/taskflow/server/taskflow/tasks"
	"codeberg.org/taskflow/server/taskflow/users"
	"github.com/gin-gonic/gin"
)

// holds all dependencies and state for the API server
type Server struct {
	config   *config.Config
	store    *store
	services *Services
	router   *gin.Engine
}

// holds the domain services and auth components built on top of the store
type Services struct {
	Directory *users.Directory
	Tasks     *tasks.Service
	Codec     *auth.Codec
	Issuer    *sessions.Issuer
	States    *auth.StateStore
	Limiter   *ratelimit.Limiter
}
