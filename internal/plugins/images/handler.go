package images

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/storefront/internal/apperror"
)

// Handler handles HTTP requests for product images.
type Handler struct {
	service ImageService
}

// NewHandler creates a new image handler.
func NewHandler(service ImageService) *Handler {
	return &Handler{service: service}
}

// Serve streams the image named by the name query parameter (GET /images).
// Rejections are answered with 200 and a fixed message. If the client goes
// away mid-stream the copy is abandoned quietly.
func (h *Handler) Serve(c echo.Context) error {
	ctx := c.Request().Context()

	img, err := h.service.Open(ctx, c.QueryParam("name"))
	switch {
	case errors.Is(err, ErrInvalidName):
		return c.String(http.StatusOK, InvalidNameMessage)
	case errors.Is(err, ErrNotFound):
		return c.String(http.StatusOK, NotFoundMessage)
	case errors.Is(err, context.Canceled):
		return nil
	case err != nil:
		return apperror.NewInternal(err)
	}
	defer img.Close()

	header := c.Response().Header()
	header.Set(echo.HeaderContentType, img.ContentType)
	header.Set(echo.HeaderContentLength, strconv.FormatInt(img.Size, 10))
	header.Set(echo.HeaderLastModified, img.ModTime.UTC().Format(http.TimeFormat))
	header.Set("Cache-Control", "private, max-age=3600")
	c.Response().WriteHeader(http.StatusOK)

	if _, err := copyContext(ctx, c.Response(), img); err != nil {
		// Headers are already sent; nothing useful can reach the client.
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			slog.Warn("image stream failed",
				slog.String("name", img.Name),
				slog.Any("error", err),
			)
		}
	}
	return nil
}
