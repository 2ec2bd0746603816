package images

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/keyxmakerx/storefront/internal/safepath"
)

// ImageService resolves and opens images by untrusted name.
type ImageService interface {
	// Open returns the named image, ErrInvalidName or ErrNotFound. Any other
	// error is an internal failure.
	Open(ctx context.Context, name string) (*Image, error)
}

// imageService implements ImageService over a directory on disk.
type imageService struct {
	baseDir string
}

// NewImageService creates an image service rooted at baseDir. The directory
// is resolved on every call, so it may be created after startup.
func NewImageService(baseDir string) ImageService {
	return &imageService{baseDir: baseDir}
}

// Open resolves name under the base directory and opens it.
func (s *imageService) Open(ctx context.Context, name string) (*Image, error) {
	path, err := safepath.Resolve(s.baseDir, name)
	switch {
	case errors.Is(err, safepath.ErrInvalidName), errors.Is(err, safepath.ErrPathEscape):
		slog.Warn("image name rejected",
			slog.String("reason", err.Error()),
			slog.Int("name_length", len(name)),
		)
		return nil, ErrInvalidName
	case errors.Is(err, safepath.ErrNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("resolving image: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("opening image: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat image: %w", err)
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, ErrNotFound
	}

	br := bufio.NewReaderSize(f, 512)
	head, _ := br.Peek(12)

	return &Image{
		ReadCloser:  readCloser{Reader: br, Closer: f},
		Name:        info.Name(),
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		ContentType: sniffContentType(head),
	}, nil
}

// sniffContentType identifies common image formats by their magic bytes.
// The extension is not trusted.
func sniffContentType(data []byte) string {
	switch {
	case len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return "image/jpeg"
	case len(data) >= 8 &&
		data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47 &&
		data[4] == 0x0D && data[5] == 0x0A && data[6] == 0x1A && data[7] == 0x0A:
		return "image/png"
	case len(data) >= 6 && string(data[:3]) == "GIF":
		return "image/gif"
	case len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
