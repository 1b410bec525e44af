package auth

import (
	"errors"
	"fmt"
	"time"

	"codeberg.org/taskflow/server/taskflow/users"
	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer = "taskflow"

	// tolerated difference between our clock and the one that issued the token
	clockSkew = 30 * time.Second
)

// signs and verifies the service's own access and refresh tokens
type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
	parser     *jwt.Parser
}

// creates a new HS256 token codec
func NewCodec(secret string, accessTTL, refreshTTL time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, fmt.Errorf("token secret must not be empty")
	}

	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, fmt.Errorf("token lifetimes must be positive")
	}

	c := &Codec{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}

	c.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(clockSkew),
		jwt.WithTimeFunc(func() time.Time { return c.now() }),
		jwt.WithIssuer(issuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
	)

	return c, nil
}

// lifetime of access tokens, reported to clients as expires_in
func (c *Codec) AccessTTL() time.Duration {
	return c.accessTTL
}

func (c *Codec) IssueAccessToken(u *users.User) (string, error) {
	return c.issue(Claims{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.DisplayName,
		Type:   TokenTypeAccess,
	}, c.accessTTL)
}

// refresh tokens carry only the subject
func (c *Codec) IssueRefreshToken(u *users.User) (string, error) {
	return c.issue(Claims{
		UserID: u.ID,
		Type:   TokenTypeRefresh,
	}, c.refreshTTL)
}

func (c *Codec) issue(claims Claims, ttl time.Duration) (string, error) {
	if claims.UserID == "" {
		return "", fmt.Errorf("sign token: empty user id")
	}

	now := c.now().UTC()

	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   claims.UserID,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// validates signature, expiry and token type. the signature is checked before
// any claim, so an expired token with a bad signature reports ErrSignatureInvalid
func (c *Codec) Verify(token string, expected TokenType) (*Claims, error) {
	var claims Claims

	_, err := c.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return nil, fmt.Errorf("%w: %w", ErrSignatureInvalid, err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		default:
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
	}

	if claims.UserID == "" || claims.UserID != claims.Subject {
		return nil, fmt.Errorf("%w: subject mismatch", ErrMalformed)
	}

	if claims.Type != expected {
		return nil, ErrTypeMismatch
	}

	return &claims, nil
}
