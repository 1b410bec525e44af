package config

import "time"

type Config struct {
	Environment string
	Port        string

	JWTSecret     string
	SessionSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration

	IdentityProvider IdentityProviderConfig

	UseAzure    bool
	DatabaseURL string
	SQLitePath  string

	RedisURL           string
	AuthRateLimit      string
	CORSAllowedOrigins []string
}

// settings for the external OAuth provider
type IdentityProviderConfig struct {
	TenantID          string
	ClientID          string
	ClientSecret      string
	RedirectURI       string
	AuthorizeURL      string
	TokenURL          string
	UserInfoURL       string
	Scopes            []string
	Timeout           time.Duration
	RequestsPerSecond float64
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
