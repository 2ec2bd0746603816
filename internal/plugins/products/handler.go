package products

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/storefront/internal/apperror"
	"github.com/keyxmakerx/storefront/internal/csrf"
	"github.com/keyxmakerx/storefront/internal/middleware"
	"github.com/keyxmakerx/storefront/internal/plugins/auth"
)

// Handler handles HTTP requests for the product listing.
type Handler struct {
	service ProductService
	users   auth.AuthService
	csrf    csrf.TokenManager
}

// NewHandler creates a new product handler.
func NewHandler(service ProductService, users auth.AuthService, tokens csrf.TokenManager) *Handler {
	return &Handler{service: service, users: users, csrf: tokens}
}

// List renders every product with its own order form (GET /products).
// A session whose user no longer resolves is sent back to the login page.
func (h *Handler) List(c echo.Context) error {
	ctx := c.Request().Context()

	if _, err := h.users.CurrentUser(ctx, auth.GetUserID(c)); err != nil {
		if apperror.IsNotFound(err) {
			return c.Redirect(http.StatusFound, "/")
		}
		return err
	}

	token, err := h.csrf.Issue(c)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("issuing csrf token: %w", err))
	}

	products, err := h.service.List(ctx)
	if err != nil {
		return err
	}

	return middleware.Render(c, http.StatusOK, ListPage(products, token))
}
