package sessions

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"codeberg.org/taskflow/server/internal/auth"
	"codeberg.org/taskflow/server/internal/idp"
	"codeberg.org/taskflow/server/taskflow/users"
)

type IdentityProvider interface {
	AuthorizationURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*idp.TokenSet, error)
	FetchProfile(ctx context.Context, accessToken string) (*idp.Profile, error)
}

type Directory interface {
	FindOrCreate(ctx context.Context, externalID, email, displayName string) (*users.User, error)
	FindByID(ctx context.Context, id string) (*users.User, error)
}

type TokenCodec interface {
	IssueAccessToken(u *users.User) (string, error)
	IssueRefreshToken(u *users.User) (string, error)
	Verify(token string, expected auth.TokenType) (*auth.Claims, error)
	AccessTTL() time.Duration
}

// turns a completed provider sign-in into the service's own token pair
type Issuer struct {
	provider  IdentityProvider
	directory Directory
	codec     TokenCodec
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
	User         *users.User
}

type RefreshResult struct {
	AccessToken string
	ExpiresIn   time.Duration
}

// creates a new session issuer
func NewIssuer(provider IdentityProvider, directory Directory, codec TokenCodec) *Issuer {
	return &Issuer{provider: provider, directory: directory, codec: codec}
}

// provider sign-in URL for a freshly generated state
func (i *Issuer) AuthorizationURL(state string) string {
	return i.provider.AuthorizationURL(state)
}

// validates the callback, exchanges the code, upserts the user and issues tokens.
// the state comparison happens before any network or store call
func (i *Issuer) CompleteLogin(ctx context.Context, code, state, expectedState string) (*LoginResult, error) {
	if expectedState == "" || subtle.ConstantTimeCompare([]byte(state), []byte(expectedState)) != 1 {
		return nil, ErrStateMismatch
	}

	if code == "" {
		return nil, ErrMissingCode
	}

	tokens, err := i.provider.ExchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("complete login: %w", err)
	}

	profile, err := i.provider.FetchProfile(ctx, tokens.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("complete login: %w", err)
	}

	user, err := i.directory.FindOrCreate(ctx, profile.ExternalID, profile.Email, profile.DisplayName)
	if err != nil {
		return nil, fmt.Errorf("complete login: %w", err)
	}

	accessToken, err := i.codec.IssueAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("complete login: %w", err)
	}

	refreshToken, err := i.codec.IssueRefreshToken(user)
	if err != nil {
		return nil, fmt.Errorf("complete login: %w", err)
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    i.codec.AccessTTL(),
		User:         user,
	}, nil
}

// issues a new access token for a valid refresh token. the refresh token itself is not rotated
func (i *Issuer) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	if refreshToken == "" {
		return nil, ErrMissingRefreshToken
	}

	claims, err := i.codec.Verify(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRefreshToken, err)
	}

	user, err := i.directory.FindByID(ctx, claims.UserID)
	if errors.Is(err, users.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}

	accessToken, err := i.codec.IssueAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}

	return &RefreshResult{
		AccessToken: accessToken,
		ExpiresIn:   i.codec.AccessTTL(),
	}, nil
}
