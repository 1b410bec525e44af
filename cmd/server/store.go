package main

import (
	"context"
	"fmt"

	"codeberg.org/taskflow/server/internal/config"
	"codeberg.org/taskflow/server/internal/logger"
	"codeberg.org/taskflow/server/internal/storage"
	"codeberg.org/taskflow/server/taskflow/tasks"
	"codeberg.org/taskflow/server/taskflow/users"
)

// the persistence backend selected at startup
type store struct {
	users users.Store
	tasks tasks.Store
	ping  func(ctx context.Context) error
	close func()
}

// satisfies health.Pinger
func (s *store) PingContext(ctx context.Context) error {
	return s.ping(ctx)
}

func (s *store) Close() {
	s.close()
}

// opens Postgres when USE_AZURE is set, the local SQLite file otherwise
func openStore(ctx context.Context, cfg *config.Config) (*store, error) {
	if cfg.UseAzure {
		pool, err := storage.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres store: %w", err)
		}

		logger.Info("using postgres store")

		return &store{
			users: users.NewPostgresStore(pool),
			tasks: tasks.NewPostgresStore(pool),
			ping:  pool.Ping,
			close: pool.Close,
		}, nil
	}

	db, err := storage.OpenSQLite(ctx, cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite store: %w", err)
	}

	logger.Info("using sqlite store", "path", cfg.SQLitePath)

	return &store{
		users: users.NewSQLiteStore(db),
		tasks: tasks.NewSQLiteStore(db),
		ping:  db.PingContext,
		close: func() {
			db.Close() //nolint:errcheck,gosec // best-effort cleanup on shutdown
		},
	}, nil
}
