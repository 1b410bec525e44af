package main

import (
	"context"
	"fmt"

	"codeberg.org/taskflow/server/internal/auth"
	"codeberg.org/taskflow/server/internal/config"
	"codeberg.org/taskflow/server/internal/idp"
	"codeberg.org/taskflow/server/internal/ratelimit"
	"codeberg.org/taskflow/server/internal/sessions"
	"codeberg.org/taskflow/server/taskflow/tasks"
	"codeberg.org/taskflow/server/taskflow/users"
)

// creates the domain services and auth components
func InitializeServices(ctx context.Context, cfg *config.Config, st *store) (*Services, error) {
	codec, err := auth.NewCodec(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create token codec: %w", err)
	}

	provider, err := idp.NewClient(idp.Config{
		TenantID:          cfg.IdentityProvider.TenantID,
		ClientID:          cfg.IdentityProvider.ClientID,
		ClientSecret:      cfg.IdentityProvider.ClientSecret,
		RedirectURI:       cfg.IdentityProvider.RedirectURI,
		AuthorizeURL:      cfg.IdentityProvider.AuthorizeURL,
		TokenURL:          cfg.IdentityProvider.TokenURL,
		UserInfoURL:       cfg.IdentityProvider.UserInfoURL,
		Scopes:            cfg.IdentityProvider.Scopes,
		Timeout:           cfg.IdentityProvider.Timeout,
		RequestsPerSecond: cfg.IdentityProvider.RequestsPerSecond,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create identity provider client: %w", err)
	}

	limiter, err := ratelimit.New(ctx, ratelimit.Config{
		Rate:     cfg.AuthRateLimit,
		RedisURL: cfg.RedisURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limiter: %w", err)
	}

	directory := users.NewDirectory(st.users)

	return &Services{
		Directory: directory,
		Tasks:     tasks.NewService(st.tasks),
		Codec:     codec,
		Issuer:    sessions.NewIssuer(provider, directory, codec),
		States:    auth.NewStateStore(cfg.SessionSecret, cfg.IsProduction()),
		Limiter:   limiter,
	}, nil
}
