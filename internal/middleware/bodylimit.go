package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// BodyLimit returns middleware that rejects request bodies exceeding maxBytes.
// A declared Content-Length over the limit is refused up front; otherwise the
// body is wrapped so reading past the limit fails.
func BodyLimit(maxBytes int64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().ContentLength > maxBytes {
				return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "Request body too large")
			}
			c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, maxBytes)
			return next(c)
		}
	}
}
