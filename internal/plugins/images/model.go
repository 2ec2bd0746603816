// Package images serves product images from a fixed directory. Names come
// from the client and are resolved through safepath before any file is
// opened.
package images

import (
	"errors"
	"io"
	"time"
)

// Client-facing rejection messages. Both are sent with status 200 and say
// nothing about the filesystem.
const (
	InvalidNameMessage = "Invalid image name!"
	NotFoundMessage    = "Image not found!"
)

// Rejection reasons returned by ImageService.Open.
var (
	// ErrInvalidName covers names outside the allowed character set and
	// names that resolve outside the images directory.
	ErrInvalidName = errors.New("images: invalid name")

	// ErrNotFound means the name is acceptable but no regular file exists.
	ErrNotFound = errors.New("images: not found")
)

// Image is an opened image file ready to stream. The caller must Close it.
type Image struct {
	io.ReadCloser

	Name        string
	Size        int64
	ModTime     time.Time
	ContentType string
}
