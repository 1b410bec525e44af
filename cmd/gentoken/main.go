// Command gentoken prints a token pair for a local test user, for poking at the API with curl.
package main

import (
	"context"
	"fmt"

	"codeberg.org/taskflow/server/internal/auth"
	"codeberg.org/taskflow/server/internal/config"
	"codeberg.org/taskflow/server/internal/logger"
	"codeberg.org/taskflow/server/internal/storage"
	"codeberg.org/taskflow/server/taskflow/users"
)

const (
	testExternalID = "local-test-user"
	testEmail      = "test@taskflow.local"
	testName       = "Test User"
)

func main() {
	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}

	ctx := context.Background()

	store, closeStore, err := openUserStore(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to open store", "error", err)
	}
	defer closeStore()

	user, err := users.NewDirectory(store).FindOrCreate(ctx, testExternalID, testEmail, testName)
	if err != nil {
		logger.Fatal("failed to create test user", "error", err)
	}

	codec, err := auth.NewCodec(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	if err != nil {
		logger.Fatal("failed to create token codec", "error", err)
	}

	access, err := codec.IssueAccessToken(user)
	if err != nil {
		logger.Fatal("failed to issue access token", "error", err)
	}

	refresh, err := codec.IssueRefreshToken(user)
	if err != nil {
		logger.Fatal("failed to issue refresh token", "error", err)
	}

	fmt.Printf("user: %s (%s)\n\n", user.Email, user.ID)
	fmt.Printf("export TEST_TOKEN=%q\n", access)
	fmt.Printf("export TEST_REFRESH_TOKEN=%q\n", refresh)
}

func openUserStore(ctx context.Context, cfg *config.Config) (users.Store, func(), error) {
	if cfg.UseAzure {
		pool, err := storage.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}

		return users.NewPostgresStore(pool), pool.Close, nil
	}

	db, err := storage.OpenSQLite(ctx, cfg.SQLitePath)
	if err != nil {
		return nil, nil, err
	}

	return users.NewSQLiteStore(db), func() { _ = db.Close() }, nil
}
