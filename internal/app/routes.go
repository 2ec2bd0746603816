package app

import (
	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/storefront/internal/csrf"
	"github.com/keyxmakerx/storefront/internal/middleware"
	"github.com/keyxmakerx/storefront/internal/plugins/auth"
	"github.com/keyxmakerx/storefront/internal/plugins/images"
	"github.com/keyxmakerx/storefront/internal/plugins/orders"
	"github.com/keyxmakerx/storefront/internal/plugins/products"
	"github.com/keyxmakerx/storefront/internal/session"
)

// maxFormBytes caps login and place-order form bodies.
const maxFormBytes = 64 << 10

// RegisterRoutes installs the global middleware chain and every plugin's
// routes. This is the single place where plugins are wired together.
//
// Global middleware also runs for requests that match no route, so the auth
// gate sees every path: an unknown path without a session redirects to "/",
// and with one it reaches the 404 handler.
func (a *App) RegisterRoutes() {
	e := a.Echo
	cfg := a.Config

	sessions := session.NewManager(a.Sessions, session.Options{
		CookieName:  cfg.Session.CookieName,
		Secure:      cfg.Session.CookieSecure,
		IdleTimeout: cfg.Session.IdleTimeout,
	})
	tokens := csrf.NewManager(cfg.CSRF.Secret, cfg.Session.CookieSecure)

	// Order matters: the logger is outermost so it records the final status
	// of recovered panics; the gate runs last, after the session is loaded.
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recovery())
	e.Use(middleware.SecurityHeaders(cfg.Session.CookieSecure))
	e.Use(sessions.Middleware())
	e.Use(auth.RequireSession())

	// --- Services ---
	authService := auth.NewAuthService(a.Repos.Users)
	productService := products.NewProductService(a.Repos.Products)
	orderService := orders.NewOrderService(a.Repos.Orders, productService)
	imageService := images.NewImageService(cfg.Images.Path)

	// --- Plugin Routes ---
	bodyLimit := middleware.BodyLimit(maxFormBytes)

	var loginLimit echo.MiddlewareFunc
	if a.loginLimiter != nil {
		limiter := a.loginLimiter.Middleware()
		loginLimit = func(next echo.HandlerFunc) echo.HandlerFunc {
			return limiter(bodyLimit(next))
		}
	} else {
		loginLimit = bodyLimit
	}

	auth.RegisterRoutes(e, auth.NewHandler(authService), loginLimit)
	products.RegisterRoutes(e, products.NewHandler(productService, authService, tokens))
	images.RegisterRoutes(e, images.NewHandler(imageService))
	orders.RegisterRoutes(e, orders.NewHandler(orderService, authService, tokens), bodyLimit)
}
