package idp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"
	"golang.org/x/time/rate"
)

const (
	defaultUserInfoURL = "https://graph.microsoft.com/v1.0/me"
	defaultTimeout     = 10 * time.Second

	// upper bound on profile responses we are willing to read
	maxResponseSize = 1 << 20
)

var defaultScopes = []string{"openid", "profile", "email", "User.Read"}

// talks to the external OAuth 2.0 identity provider
type Client struct {
	oauth       *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
	timeout     time.Duration
	limiter     *rate.Limiter
}

// creates a new identity provider client
func NewClient(cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("identity provider client id and secret are required")
	}

	if cfg.RedirectURI == "" {
		return nil, fmt.Errorf("identity provider redirect uri is required")
	}

	endpoint := microsoft.AzureADEndpoint(cfg.TenantID)
	if cfg.AuthorizeURL != "" {
		endpoint.AuthURL = cfg.AuthorizeURL
	}

	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}

	endpoint.AuthStyle = oauth2.AuthStyleInParams

	if cfg.TenantID == "" && (cfg.AuthorizeURL == "" || cfg.TokenURL == "") {
		return nil, fmt.Errorf("identity provider tenant id is required unless endpoints are overridden")
	}

	userInfoURL := cfg.UserInfoURL
	if userInfoURL == "" {
		userInfoURL = defaultUserInfoURL
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = defaultScopes
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 10
	}

	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       scopes,
			Endpoint:     endpoint,
		},
		userInfoURL: userInfoURL,
		httpClient:  &http.Client{Timeout: timeout},
		timeout:     timeout,
		limiter:     rate.NewLimiter(rate.Limit(rps), max(1, int(rps))),
	}, nil
}

// builds the provider sign-in URL carrying the anti-forgery state
func (c *Client) AuthorizationURL(state string) string {
	return c.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("response_mode", "query"))
}

// trades an authorization code for provider tokens. no retries: codes are single use
func (c *Client) ExchangeCode(ctx context.Context, code string) (*TokenSet, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExchangeFailed, err)
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) && rerr.Response != nil {
			if rerr.Response.StatusCode == http.StatusBadRequest || rerr.Response.StatusCode == http.StatusUnauthorized {
				return nil, fmt.Errorf("%w: %w: %s", ErrExchangeFailed, ErrCodeRejected, rerr.ErrorCode)
			}
		}

		return nil, fmt.Errorf("%w: %w", ErrExchangeFailed, err)
	}

	idToken, _ := token.Extra("id_token").(string)

	return &TokenSet{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.Type(),
		IDToken:      idToken,
		Expiry:       token.Expiry,
	}, nil
}

// reads the signed-in user's profile with a provider access token
func (c *Client) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProfileFetchFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProfileFetchFailed, err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProfileFetchFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrProfileFetchFailed, resp.StatusCode)
	}

	var info userInfoResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: decode profile: %w", ErrProfileFetchFailed, err)
	}

	externalID := firstNonEmpty(info.ID, info.Subject)
	if externalID == "" {
		return nil, ErrProfileIncomplete
	}

	email := firstNonEmpty(info.UserPrincipalName, info.Mail, info.Email)

	return &Profile{
		ExternalID:  externalID,
		Email:       email,
		DisplayName: firstNonEmpty(info.DisplayName, info.Name, email),
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
