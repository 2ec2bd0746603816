package auth

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up the public auth routes. loginLimit, if non-nil,
// rate-limits login submissions per IP.
func RegisterRoutes(e *echo.Echo, h *Handler, loginLimit echo.MiddlewareFunc) {
	e.GET("/", h.LoginForm)

	if loginLimit != nil {
		e.POST("/login", h.Login, loginLimit)
	} else {
		e.POST("/login", h.Login)
	}
}
