package sessions

import "errors"

var (
	ErrStateMismatch       = errors.New("oauth state mismatch")
	ErrMissingCode         = errors.New("authorization code missing")
	ErrMissingRefreshToken = errors.New("refresh token missing")
	ErrInvalidRefreshToken = errors.New("refresh token invalid")
	ErrUserNotFound        = errors.New("user not found")
)
