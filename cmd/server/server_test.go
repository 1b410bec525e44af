package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/taskflow/server/internal/config"
)

// a stand-in identity provider with token and profile endpoints
func newProvider(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.PostForm.Get("code") != "valid-code" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"provider-access","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer provider-access" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"aad-object-1","userPrincipalName":"mira@contoso.com","displayName":"Mira"}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server
}

func newTestServer(t *testing.T, origins []string) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	provider := newProvider(t)

	cfg := &config.Config{
		Environment:   "test",
		Port:          "0",
		JWTSecret:     "server-test-jwt-secret",
		SessionSecret: "server-test-session-secret",
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
		IdentityProvider: config.IdentityProviderConfig{
			ClientID:     "client",
			ClientSecret: "secret",
			RedirectURI:  "http://localhost:8080/auth/callback",
			AuthorizeURL: provider.URL + "/authorize",
			TokenURL:     provider.URL + "/token",
			UserInfoURL:  provider.URL + "/me",
			Timeout:      2 * time.Second,
		},
		SQLitePath:         filepath.Join(t.TempDir(), "taskflow.db"),
		AuthRateLimit:      "100-M",
		CORSAllowedOrigins: origins,
	}

	srv, err := NewServer(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	return srv
}

func serve(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil)

	w := serve(srv, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"healthy"`)
}

func TestSignInThenManageTasks(t *testing.T) {
	srv := newTestServer(t, nil)

	w := serve(srv, httptest.NewRequest(http.MethodGet, "/auth/login", nil))
	require.Equal(t, http.StatusFound, w.Code)

	location, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	state := location.Query().Get("state")

	callback := httptest.NewRequest(http.MethodGet, "/auth/callback?code=valid-code&state="+url.QueryEscape(state), nil)
	for _, cookie := range w.Result().Cookies() {
		callback.AddCookie(cookie)
	}

	w = serve(srv, callback)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var login struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		User         struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	assert.Equal(t, "mira@contoso.com", login.User.Email)

	authed := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+login.AccessToken)
		req.Header.Set("Content-Type", "application/json")
		return serve(srv, req)
	}

	require.Equal(t, http.StatusCreated, authed(http.MethodPost, "/api/tasks", `{"title":"ship it","priority":"high"}`).Code)

	w = authed(http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"high_priority_tasks":1`)

	w = authed(http.MethodGet, "/api/user/profile", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Mira"`)

	refresh := httptest.NewRequest(http.MethodPost, "/auth/refresh",
		strings.NewReader(`{"refresh_token":"`+login.RefreshToken+`"}`))
	refresh.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusOK, serve(srv, refresh).Code)
}

func TestRejectedCodeIsUnauthorized(t *testing.T) {
	srv := newTestServer(t, nil)

	w := serve(srv, httptest.NewRequest(http.MethodGet, "/auth/login", nil))
	location, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)

	callback := httptest.NewRequest(http.MethodGet,
		"/auth/callback?code=stale-code&state="+url.QueryEscape(location.Query().Get("state")), nil)
	for _, cookie := range w.Result().Cookies() {
		callback.AddCookie(cookie)
	}

	assert.Equal(t, http.StatusUnauthorized, serve(srv, callback).Code)
}

func TestAPIRequiresToken(t *testing.T) {
	srv := newTestServer(t, nil)

	w := serve(srv, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCORS(t *testing.T) {
	t.Run("any origin by default", func(t *testing.T) {
		srv := newTestServer(t, nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://app.example.com")

		w := serve(srv, req)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("configured origins", func(t *testing.T) {
		srv := newTestServer(t, []string{"https://app.example.com"})

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://app.example.com")
		w := serve(srv, req)
		assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

		req = httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w = serve(srv, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
