package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/storefront/internal/apperror"
)

// contextKey is the Echo context key holding the request's *Session.
const contextKey = "session"

// Options configures the session cookie and lifetime.
type Options struct {
	// CookieName is the name of the cookie carrying the session ID.
	CookieName string

	// Secure marks the cookie Secure (HTTPS only).
	Secure bool

	// IdleTimeout is how long a session lives without being used.
	IdleTimeout time.Duration
}

// Manager attaches sessions to requests.
type Manager struct {
	store Store
	opts  Options
}

// NewManager creates a session manager backed by the given store.
func NewManager(store Store, opts Options) *Manager {
	return &Manager{store: store, opts: opts}
}

// Middleware returns middleware that loads the session named by the session
// cookie and stores it in the Echo context. A request without a cookie, or
// with an unknown or expired ID, gets an empty session. No cookie is written
// until the session is first modified.
func (m *Manager) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s := &Session{manager: m, c: c, values: make(map[string]string)}

			if cookie, err := c.Cookie(m.opts.CookieName); err == nil && cookie.Value != "" {
				values, err := m.store.Load(c.Request().Context(), cookie.Value)
				switch {
				case err == nil:
					s.id = cookie.Value
					s.values = values
				case errors.Is(err, ErrNotFound):
					// Stale cookie. A fresh ID is issued on the next write.
				default:
					return apperror.NewInternal(fmt.Errorf("loading session: %w", err))
				}
			}

			c.Set(contextKey, s)
			return next(c)
		}
	}
}

// FromContext returns the request's session, or nil if the session
// middleware did not run.
func FromContext(c echo.Context) *Session {
	s, ok := c.Get(contextKey).(*Session)
	if !ok {
		return nil
	}
	return s
}

// Session is the per-request view of a server-side session. It is not safe
// for use by more than one goroutine.
type Session struct {
	manager *Manager
	c       echo.Context
	id      string
	values  map[string]string
}

// ID returns the session ID, or "" if the session has not been established.
func (s *Session) ID() string {
	return s.id
}

// Get returns the value stored under key, or "" if unset.
func (s *Session) Get(key string) string {
	return s.values[key]
}

// Set stores a value and writes the session through to the store, so the
// value is visible for the rest of this request and to later requests that
// carry the same cookie.
func (s *Session) Set(ctx context.Context, key, value string) error {
	if _, err := s.EnsureID(); err != nil {
		return err
	}
	s.values[key] = value
	return s.save(ctx)
}

// EnsureID establishes the session if needed, issuing a new ID and the
// session cookie, and returns the ID.
func (s *Session) EnsureID() (string, error) {
	if s.id != "" {
		return s.id, nil
	}
	id, err := generateID()
	if err != nil {
		return "", fmt.Errorf("generating session ID: %w", err)
	}
	s.id = id
	s.setCookie()
	return s.id, nil
}

// Renew moves the session's values to a freshly generated ID and deletes the
// old one. Called when privilege changes (login) to prevent session fixation.
func (s *Session) Renew(ctx context.Context) error {
	oldID := s.id

	id, err := generateID()
	if err != nil {
		return fmt.Errorf("generating session ID: %w", err)
	}
	s.id = id
	s.setCookie()

	if err := s.save(ctx); err != nil {
		return err
	}
	if oldID != "" {
		if err := s.manager.store.Delete(ctx, oldID); err != nil {
			return fmt.Errorf("deleting old session: %w", err)
		}
	}
	return nil
}

func (s *Session) save(ctx context.Context) error {
	if err := s.manager.store.Save(ctx, s.id, s.values, s.manager.opts.IdleTimeout); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// setCookie writes the session cookie. HttpOnly, SameSite=Strict, and no
// MaxAge so the browser drops it when closed.
func (s *Session) setCookie() {
	s.c.SetCookie(&http.Cookie{
		Name:     s.manager.opts.CookieName,
		Value:    s.id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.manager.opts.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}
