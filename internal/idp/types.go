package idp

import (
	"errors"
	"time"
)

var (
	// any failure of the authorization code exchange
	ErrExchangeFailed = errors.New("authorization code exchange failed")

	// the token endpoint refused the grant, wrapped together with ErrExchangeFailed
	ErrCodeRejected = errors.New("authorization code rejected")

	ErrProfileFetchFailed = errors.New("profile fetch failed")
	ErrProfileIncomplete  = errors.New("profile is missing a subject id")
)

type Config struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	RedirectURI  string

	// optional endpoint overrides, default to Azure AD v2 and Microsoft Graph
	AuthorizeURL string
	TokenURL     string
	UserInfoURL  string

	Scopes            []string
	Timeout           time.Duration
	RequestsPerSecond float64
}

// tokens returned by the provider's token endpoint
type TokenSet struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	IDToken      string
	Expiry       time.Time
}

// the subset of the provider's user profile the service keeps
type Profile struct {
	ExternalID  string
	Email       string
	DisplayName string
}

// accepts both the Microsoft Graph /me shape and the OIDC userinfo shape
type userInfoResponse struct {
	ID                string `json:"id"`
	Subject           string `json:"sub"`
	UserPrincipalName string `json:"userPrincipalName"`
	Mail              string `json:"mail"`
	Email             string `json:"email"`
	DisplayName       string `json:"displayName"`
	Name              string `json:"name"`
}
