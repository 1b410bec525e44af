package main

import (
	"context"
	"fmt"

	"codeberg.org/taskflow/server/internal/config"
	"github.com/gin-gonic/gin"
)

// creates and configures a new server instance with all dependencies
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	services, err := InitializeServices(ctx, cfg, st)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	server := &Server{
		config:   cfg,
		store:    st,
		services: services,
		router:   router,
	}

	RegisterRoutes(router, server)

	return server, nil
}

// releases the rate limiter and store connections
func (s *Server) Close() {
	s.services.Limiter.Close() //nolint:errcheck,gosec // best-effort cleanup on shutdown
	s.store.Close()
}
