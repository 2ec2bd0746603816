package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/storefront/internal/apperror"
	"github.com/keyxmakerx/storefront/internal/middleware"
	"github.com/keyxmakerx/storefront/internal/session"
)

// Handler handles HTTP requests for the login page and login submission.
// Handlers are thin: they bind the request, call the service, and render the
// response.
type Handler struct {
	service AuthService
}

// NewHandler creates a new auth handler with the given service.
func NewHandler(service AuthService) *Handler {
	return &Handler{service: service}
}

// LoginForm renders the login page (GET /).
func (h *Handler) LoginForm(c echo.Context) error {
	return middleware.Render(c, http.StatusOK, LoginPage())
}

// Login processes the login form submission (POST /login). Success stores
// the user ID in a freshly rotated session and redirects to the product
// list. Failure answers 200 with a plain message and leaves the session
// untouched, so no session cookie is issued.
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	user, err := h.service.Login(c.Request().Context(), LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == http.StatusUnauthorized {
			return c.String(http.StatusOK, appErr.Message)
		}
		return err
	}

	s := session.FromContext(c)
	if s == nil {
		return apperror.NewInternal(errors.New("session middleware not installed"))
	}

	ctx := c.Request().Context()
	if s.ID() != "" {
		if err := s.Renew(ctx); err != nil {
			return apperror.NewInternal(fmt.Errorf("renewing session: %w", err))
		}
	}
	if err := s.Set(ctx, SessionKeyUserID, user.ID); err != nil {
		return apperror.NewInternal(fmt.Errorf("storing session user: %w", err))
	}

	return c.Redirect(http.StatusFound, "/products")
}
