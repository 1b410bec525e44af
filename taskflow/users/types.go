package users

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUserNotFound = errors.New("user not found")

	// returned by a store when the external id was taken by a concurrent insert
	ErrConflict = errors.New("user already exists")
)

// represents a person who has signed in through the identity provider
type User struct {
	ID          string    `json:"id"`
	ExternalID  string    `json:"-"`
	Email       string    `json:"email"`
	DisplayName string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
	LastLoginAt time.Time `json:"last_login"`
}

// persistence for users, keyed by the provider subject
type Store interface {
	// inserts u, or refreshes email, display name and last login of the row with the same external id
	Upsert(ctx context.Context, u *User) (*User, error)
	FindByExternalID(ctx context.Context, externalID string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
}
