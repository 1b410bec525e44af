package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// distinguishes access tokens from refresh tokens signed with the same secret
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

var (
	ErrMalformed        = errors.New("token malformed")
	ErrSignatureInvalid = errors.New("token signature invalid")
	ErrExpired          = errors.New("token expired")
	ErrTypeMismatch     = errors.New("token type mismatch")

	ErrMissingCredential = errors.New("missing bearer credential")
)

// represents JWT claims
type Claims struct {
	UserID string    `json:"user_id"`
	Email  string    `json:"email,omitempty"`
	Name   string    `json:"name,omitempty"`
	Type   TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// context keys set by the authorization middleware
const (
	ContextKeyUserID = "user_id"
	ContextKeyUser   = "user"
)
