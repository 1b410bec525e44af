package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3/database"

	_ "modernc.org/sqlite"
)

// busy_timeout makes concurrent writers wait instead of failing with SQLITE_BUSY
const sqlitePragmas = "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

// opens the local SQLite database file and brings the schema up to date
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+sqlitePragmas)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// one connection so writers queue behind each other
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if err := migrate(ctx, database.DialectSQLite3, db, "migrations/sqlite"); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
