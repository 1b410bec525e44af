package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLite_AppliesMigrations(t *testing.T) {
	ctx := context.Background()

	db, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "taskflow.db"))
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck // test cleanup

	var tables int
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('users', 'tasks')`,
	).Scan(&tables)

	require.NoError(t, err)
	assert.Equal(t, 2, tables)
}

func TestOpenSQLite_ReopenIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "taskflow.db")

	first, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, second.Close())
}

func TestOpenSQLite_EnforcesForeignKeys(t *testing.T) {
	ctx := context.Background()

	db, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "taskflow.db"))
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck // test cleanup

	_, err = db.ExecContext(ctx, `
		INSERT INTO tasks (id, user_id, title, created_at, updated_at)
		VALUES ('t1', 'missing-user', 'orphan', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`)

	assert.Error(t, err)
}
