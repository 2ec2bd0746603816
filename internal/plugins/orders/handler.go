package orders

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/storefront/internal/apperror"
	"github.com/keyxmakerx/storefront/internal/csrf"
	"github.com/keyxmakerx/storefront/internal/middleware"
	"github.com/keyxmakerx/storefront/internal/plugins/auth"
)

const (
	// CSRFFailedMessage is returned with 403 when the anti-forgery token is
	// missing or does not match the session.
	CSRFFailedMessage = "CSRF validation failed"

	// InvalidProductIDMessage is returned with 400 for a non-numeric product_id.
	InvalidProductIDMessage = "Invalid product id"
)

// Handler handles HTTP requests for placing orders.
type Handler struct {
	service OrderService
	users   auth.AuthService
	csrf    csrf.TokenManager
}

// NewHandler creates a new order handler.
func NewHandler(service OrderService, users auth.AuthService, tokens csrf.TokenManager) *Handler {
	return &Handler{service: service, users: users, csrf: tokens}
}

// PlaceOrder processes an order form submission (POST /place-order).
// Checks run in a fixed order and each failure ends the request before
// anything is recorded: user, then CSRF token, then product.
func (h *Handler) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := h.users.CurrentUser(ctx, auth.GetUserID(c))
	if err != nil {
		if apperror.IsNotFound(err) {
			return c.Redirect(http.StatusFound, "/")
		}
		return err
	}

	if !h.csrf.Validate(c) {
		slog.Warn("csrf validation failed",
			slog.String("user_id", user.ID),
			slog.String("ip", c.RealIP()),
		)
		return apperror.NewForbidden(CSRFFailedMessage)
	}

	var req PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest(InvalidProductIDMessage)
	}
	productID, err := strconv.Atoi(strings.TrimSpace(req.ProductID))
	if err != nil {
		return apperror.NewBadRequest(InvalidProductIDMessage)
	}

	order, err := h.service.Place(ctx, user.ID, productID)
	if err != nil {
		return err
	}

	return middleware.Render(c, http.StatusOK, ConfirmationPage(order))
}
