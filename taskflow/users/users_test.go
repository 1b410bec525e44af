package users

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"codeberg.org/taskflow/server/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteDirectory(t *testing.T) *Directory {
	t.Helper()
	return NewDirectory(NewSQLiteStore(testutil.OpenSQLite(t)))
}

// exercises FindOrCreate against any store implementation
func runDirectoryContract(t *testing.T, directory *Directory) {
	ctx := context.Background()

	clock := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	directory.now = func() time.Time { return clock }

	t.Run("first login creates the user", func(t *testing.T) {
		user, err := directory.FindOrCreate(ctx, "subject-first", "first@example.com", "First User")

		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, "subject-first", user.ExternalID)
		assert.Equal(t, "first@example.com", user.Email)
		assert.Equal(t, "First User", user.DisplayName)
		assert.True(t, clock.Equal(user.CreatedAt))
		assert.True(t, clock.Equal(user.LastLoginAt))
	})

	t.Run("repeat login refreshes profile and keeps identity", func(t *testing.T) {
		first, err := directory.FindOrCreate(ctx, "subject-repeat", "old@example.com", "Old Name")
		require.NoError(t, err)

		clock = clock.Add(2 * time.Hour)

		second, err := directory.FindOrCreate(ctx, "subject-repeat", "new@example.com", "New Name")
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "new@example.com", second.Email)
		assert.Equal(t, "New Name", second.DisplayName)
		assert.True(t, first.CreatedAt.Equal(second.CreatedAt))
		assert.True(t, second.LastLoginAt.After(first.LastLoginAt))
	})

	t.Run("emails are not unique across subjects", func(t *testing.T) {
		a, err := directory.FindOrCreate(ctx, "subject-a", "shared@example.com", "A")
		require.NoError(t, err)

		b, err := directory.FindOrCreate(ctx, "subject-b", "shared@example.com", "B")
		require.NoError(t, err)

		assert.NotEqual(t, a.ID, b.ID)
	})

	t.Run("concurrent first logins yield one user", func(t *testing.T) {
		const workers = 16

		ids := make([]string, workers)
		errs := make([]error, workers)

		var wg sync.WaitGroup
		for i := range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()

				user, err := directory.FindOrCreate(ctx, "subject-race", "race@example.com", "Racer")
				errs[i] = err
				if err == nil {
					ids[i] = user.ID
				}
			}()
		}
		wg.Wait()

		for i := range workers {
			require.NoError(t, errs[i])
			assert.Equal(t, ids[0], ids[i])
		}

		found, err := directory.store.FindByExternalID(ctx, "subject-race")
		require.NoError(t, err)
		assert.Equal(t, ids[0], found.ID)
	})

	t.Run("find by id", func(t *testing.T) {
		created, err := directory.FindOrCreate(ctx, "subject-lookup", "lookup@example.com", "Lookup")
		require.NoError(t, err)

		found, err := directory.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ExternalID, found.ExternalID)

		_, err = directory.FindByID(ctx, "5b0c8a39-4a5e-4c4f-8d1f-000000000000")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestDirectory_SQLite(t *testing.T) {
	runDirectoryContract(t, newSQLiteDirectory(t))
}

func TestDirectory_RejectsEmptyExternalID(t *testing.T) {
	_, err := newSQLiteDirectory(t).FindOrCreate(context.Background(), "", "x@example.com", "X")
	assert.Error(t, err)
}

type fakeStore struct {
	upsertFn           func(ctx context.Context, u *User) (*User, error)
	findByExternalIDFn func(ctx context.Context, externalID string) (*User, error)
	findByIDFn         func(ctx context.Context, id string) (*User, error)
}

func (f *fakeStore) Upsert(ctx context.Context, u *User) (*User, error) {
	return f.upsertFn(ctx, u)
}

func (f *fakeStore) FindByExternalID(ctx context.Context, externalID string) (*User, error) {
	return f.findByExternalIDFn(ctx, externalID)
}

func (f *fakeStore) FindByID(ctx context.Context, id string) (*User, error) {
	return f.findByIDFn(ctx, id)
}

func TestDirectory_ConflictRereadsExistingRow(t *testing.T) {
	existing := &User{ID: "existing-id", ExternalID: "subject-1"}

	store := &fakeStore{
		upsertFn: func(context.Context, *User) (*User, error) {
			return nil, ErrConflict
		},
		findByExternalIDFn: func(_ context.Context, externalID string) (*User, error) {
			assert.Equal(t, "subject-1", externalID)
			return existing, nil
		},
	}

	user, err := NewDirectory(store).FindOrCreate(context.Background(), "subject-1", "a@example.com", "A")

	require.NoError(t, err)
	assert.Same(t, existing, user)
}

func TestUser_JSONHidesExternalID(t *testing.T) {
	user := User{
		ID:          "id-1",
		ExternalID:  "secret-subject",
		Email:       "a@example.com",
		DisplayName: "A",
	}

	body, err := json.Marshal(user)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(body, &fields))

	assert.NotContains(t, string(body), "secret-subject")
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "last_login")
	assert.Contains(t, fields, "created_at")
}
