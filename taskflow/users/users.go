package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// maps identity provider subjects to local user records
type Directory struct {
	store Store
	now   func() time.Time
}

// creates a new user directory over the given store
func NewDirectory(store Store) *Directory {
	return &Directory{store: store, now: time.Now}
}

// returns the user for externalID, creating it on first login and refreshing
// the profile and last login time on every later one
func (d *Directory) FindOrCreate(ctx context.Context, externalID, email, displayName string) (*User, error) {
	if externalID == "" {
		return nil, fmt.Errorf("find or create user: empty external id")
	}

	now := d.now().UTC()

	user, err := d.store.Upsert(ctx, &User{
		ID:          uuid.NewString(),
		ExternalID:  externalID,
		Email:       email,
		DisplayName: displayName,
		CreatedAt:   now,
		LastLoginAt: now,
	})

	if errors.Is(err, ErrConflict) {
		// lost a race with a concurrent first login for the same subject
		return d.store.FindByExternalID(ctx, externalID)
	}

	if err != nil {
		return nil, err
	}

	return user, nil
}

// finds a user by their ID
func (d *Directory) FindByID(ctx context.Context, id string) (*User, error) {
	return d.store.FindByID(ctx, id)
}
