package auth

import "codeberg.org/taskflow/server/taskflow/users"

const tokenTypeBearer = "Bearer"

// LoginResponse returned after a successful OAuth callback
type LoginResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	TokenType    string      `json:"token_type"`
	ExpiresIn    int64       `json:"expires_in"`
	User         *users.User `json:"user"`
}

// RefreshRequest carries the refresh token issued at login
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshResponse carries a new access token
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// MessageResponse for simple success messages
type MessageResponse struct {
	Message string `json:"message"`
}
