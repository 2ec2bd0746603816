// Package csrf issues and validates anti-forgery tokens for state-changing
// form submissions.
//
// A token is a random nonce followed by a keyed BLAKE2b MAC over the session
// ID and the nonce. The most recently issued token is kept in the session;
// a submission is valid only if it equals that stored token and its MAC
// verifies for the submitting session. Issuing a new token therefore revokes
// the previous one, and a token lifted from one session is useless in
// another.
//
// Usage from a handler:
//
//	token, err := h.csrf.Issue(c)     // GET that renders a form
//	if !h.csrf.Validate(c) { ... }    // POST that consumes it
package csrf

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/blake2b"

	"github.com/keyxmakerx/storefront/internal/session"
)

const (
	// FormField is the hidden form field carrying the token.
	FormField = "__CSRF"

	// CookieName is the cookie mirroring the issued token.
	CookieName = "CSRF-TOKEN"

	// sessionKey is where the reference token lives in the session.
	sessionKey = "csrf_token"

	nonceLength = 32
	macLength   = blake2b.Size256
)

// errNoSession means the session middleware did not run for this request.
var errNoSession = errors.New("csrf: no session in request context")

// TokenManager issues and validates session-bound anti-forgery tokens.
type TokenManager interface {
	// Issue generates a token for the current session, stores it as the
	// session's only valid token, mirrors it in the CSRF-TOKEN cookie and
	// returns it for embedding in the form.
	Issue(c echo.Context) (string, error)

	// Validate reports whether the submitted __CSRF form value matches the
	// token most recently issued to this session.
	Validate(c echo.Context) bool
}

// Manager is the default TokenManager.
type Manager struct {
	key          [32]byte
	secureCookie bool
}

// NewManager creates a token manager. The secret keys the session-binding
// MAC; any length is accepted and hashed down to a 256-bit key.
func NewManager(secret string, secureCookie bool) *Manager {
	return &Manager{
		key:          blake2b.Sum256([]byte(secret)),
		secureCookie: secureCookie,
	}
}

// Issue implements TokenManager.
func (m *Manager) Issue(c echo.Context) (string, error) {
	s := session.FromContext(c)
	if s == nil {
		return "", errNoSession
	}

	sessionID, err := s.EnsureID()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, nonceLength)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generating CSRF nonce: %w", err)
	}

	raw := append(nonce, m.mac(sessionID, nonce)...)
	token := base64.RawURLEncoding.EncodeToString(raw)

	if err := s.Set(c.Request().Context(), sessionKey, token); err != nil {
		return "", fmt.Errorf("storing CSRF token: %w", err)
	}

	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})

	return token, nil
}

// Validate implements TokenManager.
func (m *Manager) Validate(c echo.Context) bool {
	s := session.FromContext(c)
	if s == nil || s.ID() == "" {
		return false
	}

	submitted := c.FormValue(FormField)
	stored := s.Get(sessionKey)
	if submitted == "" || stored == "" {
		return false
	}

	if subtle.ConstantTimeCompare([]byte(submitted), []byte(stored)) != 1 {
		return false
	}

	raw, err := base64.RawURLEncoding.DecodeString(submitted)
	if err != nil || len(raw) != nonceLength+macLength {
		return false
	}
	nonce, sum := raw[:nonceLength], raw[nonceLength:]

	return subtle.ConstantTimeCompare(sum, m.mac(s.ID(), nonce)) == 1
}

// mac computes the keyed BLAKE2b-256 MAC binding nonce to sessionID.
func (m *Manager) mac(sessionID string, nonce []byte) []byte {
	h, err := blake2b.New256(m.key[:])
	if err != nil {
		// Only possible with a key longer than 64 bytes.
		panic(err)
	}
	h.Write([]byte(sessionID))
	h.Write([]byte{0})
	h.Write(nonce)
	return h.Sum(nil)
}
