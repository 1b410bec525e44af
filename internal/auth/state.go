package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	stateCookieName = "taskflow_oauth"
	stateKey        = "state"

	// enough time to complete the provider's sign-in page
	stateMaxAge = 300
)

// keeps the OAuth anti-forgery state in a signed, short-lived cookie
type StateStore struct {
	store *sessions.CookieStore
}

// creates a new state store, secure should be true when served over HTTPS
func NewStateStore(secret string, secure bool) *StateStore {
	store := sessions.NewCookieStore([]byte(secret))

	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   stateMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}

	return &StateStore{store: store}
}

// generates a fresh state, stores it in the cookie and returns it
func (s *StateStore) Begin(w http.ResponseWriter, r *http.Request) (string, error) {
	state, err := newState()
	if err != nil {
		return "", err
	}

	// a cookie that fails verification is replaced by a new session
	session, _ := s.store.Get(r, stateCookieName) //nolint:errcheck // see above
	session.Values[stateKey] = state

	if err := session.Save(r, w); err != nil {
		return "", fmt.Errorf("save oauth state: %w", err)
	}

	return state, nil
}

// returns the state saved by Begin, or "" when absent or tampered with
func (s *StateStore) Expected(r *http.Request) string {
	session, err := s.store.Get(r, stateCookieName)
	if err != nil {
		return ""
	}

	state, _ := session.Values[stateKey].(string)
	return state
}

// expires the state cookie so a state value is usable once
func (s *StateStore) Clear(w http.ResponseWriter, r *http.Request) error {
	session, _ := s.store.Get(r, stateCookieName) //nolint:errcheck // clearing a bad cookie is fine
	delete(session.Values, stateKey)
	session.Options.MaxAge = -1

	return session.Save(r, w)
}

func newState() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate oauth state: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}
