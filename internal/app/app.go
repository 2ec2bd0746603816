// Package app is the application bootstrap and dependency injection root.
// It holds the shared infrastructure (session store, repositories, Echo
// instance) and wires the plugins into one request pipeline.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/storefront/internal/apperror"
	"github.com/keyxmakerx/storefront/internal/config"
	"github.com/keyxmakerx/storefront/internal/middleware"
	"github.com/keyxmakerx/storefront/internal/session"
)

// PageNotFoundMessage answers any (path, method) without a route.
const PageNotFoundMessage = "Page not found"

// App holds all shared dependencies and the Echo HTTP server instance.
// Created once at startup in main.go and used to register all routes.
type App struct {
	// Config holds the loaded application configuration.
	Config *config.Config

	// Sessions is the server-side session store (memory or Redis).
	Sessions session.Store

	// Repos provides users, products and orders (memory or MariaDB).
	Repos Repositories

	// Echo is the HTTP server instance.
	Echo *echo.Echo

	loginLimiter *middleware.RateLimiter
	stop         context.CancelFunc
}

// New creates a new App with the given dependencies and configures the Echo
// server with global middleware and error handling. Routes are added by
// RegisterRoutes.
func New(cfg *config.Config, sessions session.Store, repos Repositories) *App {
	e := echo.New()

	// We log our own startup line.
	e.HideBanner = true
	e.HidePort = true

	middleware.TrustedProxies(e, middleware.DefaultTrustedCIDRs)

	app := &App{
		Config:   cfg,
		Sessions: sessions,
		Repos:    repos,
		Echo:     e,
	}

	e.HTTPErrorHandler = app.errorHandler

	if cfg.LoginRateLimit > 0 {
		app.loginLimiter = middleware.NewRateLimiter(cfg.LoginRateLimit, time.Minute)
		ctx, cancel := context.WithCancel(context.Background())
		app.stop = cancel
		go app.loginLimiter.Run(ctx, time.Minute)
	}

	return app
}

// errorHandler is the custom Echo error handler. AppErrors are written as
// plain text with their own status and message; Echo's routing misses (no
// route, or no route for the method) all become 404 "Page not found".
func (a *App) errorHandler(err error, c echo.Context) {
	// Don't double-write if response is already committed.
	if c.Response().Committed {
		return
	}

	code := apperror.SafeCode(err)
	message := apperror.SafeMessage(err)

	var appErr *apperror.AppError
	var echoErr *echo.HTTPError
	switch {
	case errors.As(err, &appErr):
		code = appErr.Code
		message = appErr.Message

		if appErr.Internal != nil {
			slog.Error("internal error",
				slog.String("type", appErr.Type),
				slog.Any("internal", appErr.Internal),
				slog.String("path", c.Request().URL.Path),
			)
		}

	case errors.As(err, &echoErr):
		code = echoErr.Code
		switch code {
		case http.StatusNotFound, http.StatusMethodNotAllowed:
			code = http.StatusNotFound
			message = PageNotFoundMessage
		default:
			if msg, ok := echoErr.Message.(string); ok {
				message = msg
			} else {
				message = http.StatusText(code)
			}
		}

	default:
		slog.Error("unhandled error",
			slog.Any("error", err),
			slog.String("path", c.Request().URL.Path),
		)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.String(code, message)
	}
	if err != nil {
		slog.Warn("writing error response", slog.Any("error", err))
	}
}

// Start begins listening for HTTP requests on the configured port.
func (a *App) Start() error {
	addr := fmt.Sprintf(":%d", a.Config.Port)
	slog.Info("starting storefront server",
		slog.String("addr", addr),
		slog.String("env", a.Config.Env),
		slog.String("session_backend", a.Config.Session.Backend),
		slog.String("catalog_backend", a.Config.Catalog.Backend),
	)
	return a.Echo.Start(addr)
}

// Shutdown drains in-flight requests and stops background work.
func (a *App) Shutdown(ctx context.Context) error {
	if a.stop != nil {
		a.stop()
	}
	return a.Echo.Shutdown(ctx)
}
