package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/storefront/internal/session"
)

// SessionKeyUserID is the session key holding the logged-in user's ID.
const SessionKeyUserID = "userId"

// publicPaths are reachable without a session. Matched exactly: "/login/"
// and "/products" are both gated.
var publicPaths = map[string]bool{
	"/":      true,
	"/login": true,
}

// IsPublicPath reports whether path bypasses the authentication gate.
func IsPublicPath(path string) bool {
	return publicPaths[path]
}

// RequireSession returns middleware that gates every non-public path on a
// non-empty user ID in the session. Requests without one are redirected to
// "/" and never reach the handler.
//
// The gate only checks that a user ID is present. Handlers resolve it to a
// live user themselves, since a session can outlive its user.
//
// Must run after the session middleware.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if IsPublicPath(c.Request().URL.Path) {
				return next(c)
			}

			if GetUserID(c) == "" {
				return c.Redirect(http.StatusFound, "/")
			}

			return next(c)
		}
	}
}

// GetUserID returns the user ID stored in the request's session, or "" if
// there is none.
func GetUserID(c echo.Context) string {
	s := session.FromContext(c)
	if s == nil {
		return ""
	}
	return s.Get(SessionKeyUserID)
}
