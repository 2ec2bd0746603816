package images

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up the image routes. The name always comes from the
// query string, so sub-paths behave like /images.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET("/images", h.Serve)
	e.GET("/images/*", h.Serve)
}
