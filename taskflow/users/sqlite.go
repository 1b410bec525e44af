package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sqlite3 "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"codeberg.org/taskflow/server/internal/storage"
)

// user store backed by the local SQLite file
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Upsert(ctx context.Context, u *User) (*User, error) {
	row := s.db.QueryRowContext(
		ctx,
		sqliteUpsert,
		u.ID,
		u.ExternalID,
		u.Email,
		u.DisplayName,
		storage.SQLiteTime(u.CreatedAt),
		storage.SQLiteTime(u.LastLoginAt),
	)

	user, err := scanSQLiteUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}

		return nil, fmt.Errorf("upsert user: %w", err)
	}

	return user, nil
}

func (s *SQLiteStore) FindByExternalID(ctx context.Context, externalID string) (*User, error) {
	return s.findOne(ctx, sqliteFindByExternalID, externalID)
}

func (s *SQLiteStore) FindByID(ctx context.Context, id string) (*User, error) {
	return s.findOne(ctx, sqliteFindByID, id)
}

func (s *SQLiteStore) findOne(ctx context.Context, query string, arg string) (*User, error) {
	user, err := scanSQLiteUser(s.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	return user, nil
}

func scanSQLiteUser(row *sql.Row) (*User, error) {
	var user User

	err := row.Scan(
		&user.ID,
		&user.ExternalID,
		&user.Email,
		&user.DisplayName,
		storage.ScanSQLiteTime(&user.CreatedAt),
		storage.ScanSQLiteTime(&user.LastLoginAt),
	)

	if err != nil {
		return nil, err
	}

	return &user, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_UNIQUE ||
			sqliteErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY
	}

	return false
}
