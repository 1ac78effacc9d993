package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"time"
)

const (
	SessionCookieName = "auth_token"
	SessionTTL        = 24 * time.Hour
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingToken       = errors.New("not authenticated")
	ErrInvalidToken       = errors.New("invalid token")
)

// SessionGuard issues, validates and clears the session cookie.
//
// There is exactly one valid session token: the configured secret. Every
// successful login hands out that same value, so all logged in clients share
// it and logging out only drops the client's copy. Anyone who holds the
// secret stays logged in until it is rotated in the configuration.
type SessionGuard struct {
	token        string
	secureCookie bool
	// ability to inject a clock (for unit testing)
	Now func() time.Time
}

func NewSessionGuard(token string, secureCookie bool) *SessionGuard {
	return &SessionGuard{
		token:        token,
		secureCookie: secureCookie,
		Now:          time.Now,
	}
}

// IssueSession attaches the session cookie to the response. Callers must
// verify the credentials first.
func (g *SessionGuard) IssueSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    g.token,
		Path:     "/",
		Expires:  g.Now().Add(SessionTTL),
		MaxAge:   int(SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   g.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearSession instructs the client to drop the session cookie.
func (g *SessionGuard) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   g.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}

// IsLogged never consults any session store, only the configured secret.
func (g *SessionGuard) IsLogged(_ context.Context, token string) (bool, error) {
	if g.token == "" || token == "" {
		return false, nil
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(g.token)) == 1, nil
}

// SessionToken extracts the session token from the request cookie.
func SessionToken(r *http.Request) (string, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", ErrMissingToken
	}
	return cookie.Value, nil
}
