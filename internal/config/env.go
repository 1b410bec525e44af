package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort              = "8080"
	defaultRedirectURI       = "http://localhost:8080/auth/callback"
	defaultScopes            = "openid profile email User.Read"
	defaultIdPTimeout        = 10 * time.Second
	defaultIdPRequestsPerSec = 10.0
	defaultAccessTTLHours    = 24
	defaultRefreshTTLDays    = 30
	defaultSQLitePath        = "taskflow.db"
	defaultAuthRateLimit     = "30-M"
)

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have .env file
	}

	return FromEnvironment()
}

// builds a Config from the current process environment without reading .env
func FromEnvironment() (*Config, error) {
	required := map[string]string{}

	for _, key := range []string{
		"JWT_SECRET",
		"SESSION_SECRET",
		"AZURE_TENANT_ID",
		"AZURE_CLIENT_ID",
		"AZURE_CLIENT_SECRET",
	} {
		value := os.Getenv(key)
		if value == "" {
			return nil, fmt.Errorf("%s environment variable is required", key)
		}

		required[key] = value
	}

	accessHours, err := intFromEnv("JWT_EXPIRATION_HOURS", defaultAccessTTLHours)
	if err != nil {
		return nil, err
	}

	refreshDays, err := intFromEnv("REFRESH_TOKEN_DAYS", defaultRefreshTTLDays)
	if err != nil {
		return nil, err
	}

	timeout := defaultIdPTimeout
	if raw := os.Getenv("IDP_TIMEOUT"); raw != "" {
		timeout, err = time.ParseDuration(raw)
		if err != nil || timeout <= 0 {
			return nil, fmt.Errorf("IDP_TIMEOUT must be a positive duration, got %q", raw)
		}
	}

	rps := defaultIdPRequestsPerSec
	if raw := os.Getenv("IDP_RPS"); raw != "" {
		rps, err = strconv.ParseFloat(raw, 64)
		if err != nil || rps <= 0 {
			return nil, fmt.Errorf("IDP_RPS must be a positive number, got %q", raw)
		}
	}

	useAzure := false
	if raw := os.Getenv("USE_AZURE"); raw != "" {
		useAzure, err = strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("USE_AZURE must be a boolean, got %q", raw)
		}
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if useAzure && databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required when USE_AZURE is set")
	}

	return &Config{
		Environment:   getEnv("ENVIRONMENT", "development"),
		Port:          getEnv("PORT", defaultPort),
		JWTSecret:     required["JWT_SECRET"],
		SessionSecret: required["SESSION_SECRET"],
		AccessTTL:     time.Duration(accessHours) * time.Hour,
		RefreshTTL:    time.Duration(refreshDays) * 24 * time.Hour,
		IdentityProvider: IdentityProviderConfig{
			TenantID:          required["AZURE_TENANT_ID"],
			ClientID:          required["AZURE_CLIENT_ID"],
			ClientSecret:      required["AZURE_CLIENT_SECRET"],
			RedirectURI:       getEnv("AZURE_REDIRECT_URI", defaultRedirectURI),
			AuthorizeURL:      os.Getenv("IDP_AUTHORIZE_URL"),
			TokenURL:          os.Getenv("IDP_TOKEN_URL"),
			UserInfoURL:       os.Getenv("IDP_USERINFO_URL"),
			Scopes:            strings.Fields(getEnv("IDP_SCOPES", defaultScopes)),
			Timeout:           timeout,
			RequestsPerSecond: rps,
		},
		UseAzure:           useAzure,
		DatabaseURL:        databaseURL,
		SQLitePath:         getEnv("SQLITE_PATH", defaultSQLitePath),
		RedisURL:           os.Getenv("REDIS_URL"),
		AuthRateLimit:      getEnv("AUTH_RATE_LIMIT", defaultAuthRateLimit),
		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}

func intFromEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, raw)
	}

	return value, nil
}

func splitList(raw string) []string {
	var out []string

	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}
