package products

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up the product listing routes. Sub-paths render the
// same listing.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET("/products", h.List)
	e.GET("/products/*", h.List)
}
