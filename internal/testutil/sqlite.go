package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"codeberg.org/taskflow/server/internal/storage"
	"github.com/stretchr/testify/require"
)

// opens a migrated SQLite database in the test's temp dir
func OpenSQLite(t *testing.T) *sql.DB {
	t.Helper()

	db, err := storage.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "taskflow.db"))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}
