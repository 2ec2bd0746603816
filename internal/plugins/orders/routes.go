package orders

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up the order routes. bodyLimit, if non-nil, caps the
// form body size.
func RegisterRoutes(e *echo.Echo, h *Handler, bodyLimit echo.MiddlewareFunc) {
	if bodyLimit != nil {
		e.POST("/place-order", h.PlaceOrder, bodyLimit)
		return
	}
	e.POST("/place-order", h.PlaceOrder)
}
