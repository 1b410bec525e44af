package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

// user store backed by the cloud Postgres database
type PostgresStore struct {
	db *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Upsert(ctx context.Context, u *User) (*User, error) {
	row := s.db.QueryRow(
		ctx,
		pgUpsert,
		u.ID,
		u.ExternalID,
		u.Email,
		u.DisplayName,
		u.CreatedAt,
		u.LastLoginAt,
	)

	user, err := scanPostgresUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrConflict
		}

		return nil, fmt.Errorf("upsert user: %w", err)
	}

	return user, nil
}

func (s *PostgresStore) FindByExternalID(ctx context.Context, externalID string) (*User, error) {
	return s.findOne(ctx, pgFindByExternalID, externalID)
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*User, error) {
	return s.findOne(ctx, pgFindByID, id)
}

func (s *PostgresStore) findOne(ctx context.Context, query string, arg string) (*User, error) {
	user, err := scanPostgresUser(s.db.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	return user, nil
}

func scanPostgresUser(row pgx.Row) (*User, error) {
	var user User

	err := row.Scan(
		&user.ID,
		&user.ExternalID,
		&user.Email,
		&user.DisplayName,
		&user.CreatedAt,
		&user.LastLoginAt,
	)

	if err != nil {
		return nil, err
	}

	user.CreatedAt = user.CreatedAt.UTC()
	user.LastLoginAt = user.LastLoginAt.UTC()

	return &user, nil
}
