package images

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func serveImage(t *testing.T, h *Handler, ctx context.Context, name string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/images?name="+url.QueryEscape(name), nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	if err := h.Serve(echo.New().NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return rec
}

func TestServe_StreamsBytes(t *testing.T) {
	h := NewHandler(NewImageService(newImageDir(t)))

	rec := serveImage(t, h, context.Background(), "shoes.jpg")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", ct)
	}
	if rec.Body.String() != string(jpegHeader) {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}

func TestServe_RejectionMessages(t *testing.T) {
	h := NewHandler(NewImageService(newImageDir(t)))

	tests := []struct {
		name string
		want string
	}{
		{"../../etc/passwd", InvalidNameMessage},
		{"/etc/passwd", InvalidNameMessage},
		{"a/b.png", InvalidNameMessage},
		{"..", InvalidNameMessage},
		{"nope.png", NotFoundMessage},
	}
	for _, tt := range tests {
		rec := serveImage(t, h, context.Background(), tt.name)
		if rec.Code != http.StatusOK {
			t.Errorf("%q: expected 200, got %d", tt.name, rec.Code)
		}
		if rec.Body.String() != tt.want {
			t.Errorf("%q: expected %q, got %q", tt.name, tt.want, rec.Body.String())
		}
		if strings.Contains(rec.Body.String(), "/") {
			t.Errorf("%q: response leaks a path: %q", tt.name, rec.Body.String())
		}
	}
}

// stubService lets a test observe whether the filesystem layer was reached.
type stubService struct {
	openFn func(ctx context.Context, name string) (*Image, error)
}

func (s *stubService) Open(ctx context.Context, name string) (*Image, error) {
	return s.openFn(ctx, name)
}

func TestServe_CanceledBeforeOpen(t *testing.T) {
	h := NewHandler(NewImageService(newImageDir(t)))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := serveImage(t, h, ctx, "apple.png")
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body after cancellation, got %q", rec.Body.String())
	}
}

func TestServe_InternalError(t *testing.T) {
	h := NewHandler(&stubService{openFn: func(ctx context.Context, name string) (*Image, error) {
		return nil, errors.New("permission denied")
	}})
	req := httptest.NewRequest(http.MethodGet, "/images?name=x.png", nil)
	rec := httptest.NewRecorder()

	if err := h.Serve(echo.New().NewContext(req, rec)); err == nil {
		t.Fatal("expected an error for an unexpected open failure")
	}
}

// blockingReader yields one chunk, then cancels the context and keeps
// offering data.
type blockingReader struct {
	cancel context.CancelFunc
	reads  int
}

func (r *blockingReader) Read(p []byte) (int, error) {
	r.reads++
	if r.reads == 2 {
		r.cancel()
	}
	return copy(p, "chunk"), nil
}

func TestCopyContext_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := &blockingReader{cancel: cancel}
	var sb strings.Builder

	n, err := copyContext(ctx, &sb, src)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if n != 10 || sb.String() != "chunkchunk" {
		t.Errorf("expected two chunks before stopping, got %d bytes %q", n, sb.String())
	}
}
