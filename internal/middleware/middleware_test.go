package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/storefront/internal/apperror"
)

// --- Recovery ---

func TestRecovery_ConvertsPanicToInternalError(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	err := Recovery()(func(c echo.Context) error {
		panic("boom")
	})(c)

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 AppError, got %v", err)
	}
}

// --- Security headers ---

func TestSecurityHeaders(t *testing.T) {
	for _, hsts := range []bool{false, true} {
		e := echo.New()
		e.Use(SecurityHeaders(hsts))
		e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if got := rec.Header().Get("X-Frame-Options"); got != "SAMEORIGIN" {
			t.Errorf("X-Frame-Options = %q", got)
		}
		if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
			t.Errorf("X-Content-Type-Options = %q", got)
		}
		if !strings.Contains(rec.Header().Get("Content-Security-Policy"), "form-action 'self'") {
			t.Error("expected CSP to restrict form targets")
		}
		if got := rec.Header().Get("Strict-Transport-Security") != ""; got != hsts {
			t.Errorf("hsts=%v: HSTS header present=%v", hsts, got)
		}
	}
}

// --- Rate limiting ---

func TestRateLimiter_WindowAndReset(t *testing.T) {
	l := NewRateLimiter(2, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("1.2.3.4") {
		t.Error("third request within the window should be refused")
	}
	if !l.Allow("5.6.7.8") {
		t.Error("limits are per IP")
	}

	now = now.Add(2 * time.Minute)
	if !l.Allow("1.2.3.4") {
		t.Error("a new window should reset the count")
	}

	now = now.Add(5 * time.Minute)
	l.evict()
	l.mu.Lock()
	n := len(l.entries)
	l.mu.Unlock()
	if n != 0 {
		t.Errorf("expected stale entries evicted, %d left", n)
	}
}

func TestRateLimiter_Middleware(t *testing.T) {
	l := NewRateLimiter(1, time.Minute)
	mw := l.Middleware()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e := echo.New()

	call := func() error {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "9.9.9.9:1234"
		return mw(e.NewContext(req, httptest.NewRecorder()))
	}

	if err := call(); err != nil {
		t.Fatalf("first request: %v", err)
	}
	err := call()
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 AppError, got %v", err)
	}
}

func TestRateLimiter_RunStopsOnCancel(t *testing.T) {
	l := NewRateLimiter(1, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

// --- Body limit ---

func TestBodyLimit(t *testing.T) {
	e := echo.New()
	handler := BodyLimit(8)(func(c echo.Context) error {
		return c.String(http.StatusOK, c.FormValue("a"))
	})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("a=123456789012"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	err := handler(e.NewContext(req, httptest.NewRecorder()))

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %v", err)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("a=1"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Body.String() != "1" {
		t.Errorf("expected form value 1, got %q", rec.Body.String())
	}
}

// --- Trusted proxies ---

func TestIPExtractor(t *testing.T) {
	extract := buildIPExtractor([]string{"10.0.0.0/8", "not-a-cidr"})

	tests := []struct {
		remote, realIP, xff, want string
	}{
		{"10.1.2.3:80", "203.0.113.9", "", "203.0.113.9"},
		{"10.1.2.3:80", "", "198.51.100.1, 10.1.2.3", "198.51.100.1"},
		{"10.1.2.3:80", "", "", "10.1.2.3"},
		{"203.0.113.7:80", "1.1.1.1", "2.2.2.2", "203.0.113.7"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = tt.remote
		if tt.realIP != "" {
			req.Header.Set("X-Real-IP", tt.realIP)
		}
		if tt.xff != "" {
			req.Header.Set("X-Forwarded-For", tt.xff)
		}
		if got := extract(req); got != tt.want {
			t.Errorf("remote %s: got %s, want %s", tt.remote, got, tt.want)
		}
	}
}

// --- Render ---

func TestRender(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	err := Render(c, http.StatusAccepted, templ.Raw("<p>hi</p>"))
	if err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusAccepted || rec.Body.String() != "<p>hi</p>" {
		t.Errorf("unexpected response %d %q", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("unexpected content type %q", ct)
	}
}

// --- Request logging ---

func TestRequestLogger_WritesErrorResponse(t *testing.T) {
	e := echo.New()
	e.Use(RequestLogger())
	e.GET("/", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "short and stout")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTeapot {
		t.Errorf("expected 418, got %d", rec.Code)
	}
}
