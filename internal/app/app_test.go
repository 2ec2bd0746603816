package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/keyxmakerx/storefront/internal/config"
	"github.com/keyxmakerx/storefront/internal/csrf"
	"github.com/keyxmakerx/storefront/internal/plugins/orders"
	"github.com/keyxmakerx/storefront/internal/session"
)

const testCookieName = ".Storefront.Session"

var tokenPattern = regexp.MustCompile(`name="__CSRF" value="([^"]+)"`)

// testServer is a fully wired app over in-memory stores.
type testServer struct {
	app    *App
	orders *orders.MemoryOrderRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	imagesDir := filepath.Join(t.TempDir(), "images")
	if err := os.Mkdir(imagesDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(imagesDir, "apple.png"), []byte("\x89PNG\r\n\x1a\n...."), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{
		Env: "test",
		Session: config.SessionConfig{
			Backend:      config.BackendMemory,
			IdleTimeout:  20 * time.Minute,
			CookieName:   testCookieName,
			CookieSecure: true,
		},
		CSRF:    config.CSRFConfig{Secret: "test-secret-test-secret-test-secret"},
		Catalog: config.CatalogConfig{Backend: config.BackendMemory},
		Images:  config.ImagesConfig{Path: imagesDir},
	}

	store := session.NewMemoryStore(0)
	t.Cleanup(func() { store.Close() })

	repos := MemoryRepositories()
	a := New(cfg, store, repos)
	a.RegisterRoutes()
	t.Cleanup(func() { a.Shutdown(context.Background()) })

	return &testServer{app: a, orders: repos.Orders.(*orders.MemoryOrderRepository)}
}

// client carries cookies between requests by hand. The cookies are Secure,
// which a cookie jar would refuse to send over plain HTTP.
type client struct {
	t       *testing.T
	srv     *testServer
	cookies map[string]string
}

func (s *testServer) client(t *testing.T) *client {
	return &client{t: t, srv: s, cookies: map[string]string{}}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	for name, value := range c.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	rec := httptest.NewRecorder()
	c.srv.app.Echo.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		c.cookies[ck.Name] = ck.Value
	}
	return rec
}

func (c *client) get(target string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, target, nil))
}

func (c *client) post(target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *client) login(email, password string) *httptest.ResponseRecorder {
	return c.post("/login", url.Values{"email": {email}, "password": {password}})
}

// loggedIn returns a client logged in as Alice.
func (s *testServer) loggedIn(t *testing.T) *client {
	t.Helper()
	c := s.client(t)
	if rec := c.login("alice@example.com", "password1"); rec.Code != http.StatusFound {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	return c
}

// productToken loads the product list and returns the embedded CSRF token.
func (c *client) productToken() string {
	c.t.Helper()
	rec := c.get("/products")
	if rec.Code != http.StatusOK {
		c.t.Fatalf("GET /products: %d", rec.Code)
	}
	m := tokenPattern.FindStringSubmatch(rec.Body.String())
	if m == nil {
		c.t.Fatal("no CSRF token in product list")
	}
	return m[1]
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

// --- End-to-end scenarios ---

func TestLoginThenListProducts(t *testing.T) {
	c := newTestServer(t).client(t)

	rec := c.login("alice@example.com", "password1")
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/products" {
		t.Fatalf("expected 302 to /products, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	ck := findCookie(rec, testCookieName)
	if ck == nil {
		t.Fatal("expected a session cookie")
	}
	if !ck.HttpOnly || !ck.Secure || ck.SameSite != http.SameSiteStrictMode {
		t.Errorf("session cookie attributes: %+v", ck)
	}

	rec = c.get("/products")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	for _, name := range []string{"Shoes", "Apple", "Hat"} {
		if !strings.Contains(rec.Body.String(), name) {
			t.Errorf("expected product list to contain %s", name)
		}
	}
	if findCookie(rec, csrf.CookieName) == nil {
		t.Error("expected the CSRF cookie to mirror the issued token")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	c := newTestServer(t).client(t)

	rec := c.login("alice@example.com", "wrong")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "Invalid credentials. Please try again." {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
	if findCookie(rec, testCookieName) != nil {
		t.Error("no session cookie may be issued on failed login")
	}
}

func TestProductsWithoutLogin(t *testing.T) {
	c := newTestServer(t).client(t)

	rec := c.get("/products")
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/" {
		t.Errorf("expected 302 to /, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestPlaceOrderForgedToken(t *testing.T) {
	srv := newTestServer(t)
	c := srv.loggedIn(t)
	c.productToken()

	rec := c.post("/place-order", url.Values{"product_id": {"2"}, "__CSRF": {"forged"}})
	if rec.Code != http.StatusForbidden || rec.Body.String() != "CSRF validation failed" {
		t.Errorf("expected 403 CSRF validation failed, got %d %q", rec.Code, rec.Body.String())
	}
	if srv.orders.Count() != 0 {
		t.Errorf("expected no orders, got %d", srv.orders.Count())
	}
}

func TestPlaceOrderStaleToken(t *testing.T) {
	srv := newTestServer(t)
	c := srv.loggedIn(t)
	stale := c.productToken()
	fresh := c.productToken()
	if stale == fresh {
		t.Fatal("expected a new token per render")
	}

	rec := c.post("/place-order", url.Values{"product_id": {"2"}, "__CSRF": {stale}})
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected stale token to be refused, got %d", rec.Code)
	}

	rec = c.post("/place-order", url.Values{"product_id": {"2"}, "__CSRF": {fresh}})
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Thank you for placing an order for Apple.") {
		t.Errorf("expected confirmation, got %d %q", rec.Code, rec.Body.String())
	}
	if srv.orders.Count() != 1 {
		t.Errorf("expected one order, got %d", srv.orders.Count())
	}
}

func TestPlaceOrderTokenFromAnotherSession(t *testing.T) {
	srv := newTestServer(t)
	alice := srv.loggedIn(t)
	bob := srv.client(t)
	bob.login("bob@example.com", "password2")

	aliceToken := alice.productToken()
	bob.productToken()

	rec := bob.post("/place-order", url.Values{"product_id": {"1"}, "__CSRF": {aliceToken}})
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
	if srv.orders.Count() != 0 {
		t.Error("no order may be recorded")
	}
}

func TestImageTraversalRejected(t *testing.T) {
	c := newTestServer(t).loggedIn(t)

	rec := c.get("/images?name=" + url.QueryEscape("../../etc/passwd"))
	if rec.Code != http.StatusOK || rec.Body.String() != "Invalid image name!" {
		t.Errorf("expected invalid-name message, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestPlaceOrderUnknownProduct(t *testing.T) {
	srv := newTestServer(t)
	c := srv.loggedIn(t)
	token := c.productToken()

	rec := c.post("/place-order", url.Values{"product_id": {"999"}, "__CSRF": {token}})
	if rec.Code != http.StatusNotFound || rec.Body.String() != "Product not found" {
		t.Errorf("expected 404 Product not found, got %d %q", rec.Code, rec.Body.String())
	}
	if srv.orders.Count() != 0 {
		t.Error("no order may be recorded")
	}
}

// --- Routing and gate ---

func TestImages(t *testing.T) {
	c := newTestServer(t).loggedIn(t)

	rec := c.get("/images?name=apple.png")
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "image/png" {
		t.Errorf("expected png bytes, got %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}

	rec = c.get("/images?name=missing.png")
	if rec.Body.String() != "Image not found!" {
		t.Errorf("expected not-found message, got %q", rec.Body.String())
	}

	rec = c.get("/images/anything?name=apple.png")
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "image/png" {
		t.Errorf("expected sub-path to serve the same image, got %d", rec.Code)
	}
}

func TestUnknownRoutes(t *testing.T) {
	srv := newTestServer(t)
	anon := srv.client(t)
	authed := srv.loggedIn(t)

	tests := []struct {
		method, path string
	}{
		{http.MethodGet, "/nope"},
		{http.MethodGet, "/place-order"},
		{http.MethodPost, "/products"},
		{http.MethodDelete, "/images"},
	}
	for _, tt := range tests {
		rec := authed.do(httptest.NewRequest(tt.method, tt.path, nil))
		if rec.Code != http.StatusNotFound || rec.Body.String() != PageNotFoundMessage {
			t.Errorf("authed %s %s: expected 404 Page not found, got %d %q", tt.method, tt.path, rec.Code, rec.Body.String())
		}

		rec = anon.do(httptest.NewRequest(tt.method, tt.path, nil))
		if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/" {
			t.Errorf("anon %s %s: expected 302 to /, got %d", tt.method, tt.path, rec.Code)
		}
	}

	// Whitelisted paths reach the router even without a session.
	for _, tt := range []struct{ method, path string }{
		{http.MethodPost, "/"},
		{http.MethodGet, "/login"},
	} {
		rec := anon.do(httptest.NewRequest(tt.method, tt.path, nil))
		if rec.Code != http.StatusNotFound || rec.Body.String() != PageNotFoundMessage {
			t.Errorf("anon %s %s: expected 404, got %d %q", tt.method, tt.path, rec.Code, rec.Body.String())
		}
	}
}

func TestLoginPageAndHeaders(t *testing.T) {
	c := newTestServer(t).client(t)

	rec := c.get("/")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `action="/login"`) {
		t.Fatalf("expected login form, got %d", rec.Code)
	}
	if rec.Header().Get("X-Frame-Options") != "SAMEORIGIN" {
		t.Error("expected X-Frame-Options SAMEORIGIN")
	}
	if findCookie(rec, testCookieName) != nil {
		t.Error("rendering the login form must not create a session")
	}
}

func TestLoginRotatesExistingSession(t *testing.T) {
	srv := newTestServer(t)
	c := srv.loggedIn(t)
	first := c.cookies[testCookieName]

	rec := c.login("bob@example.com", "password2")
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if c.cookies[testCookieName] == first {
		t.Error("expected the session ID to change on login")
	}
	if _, err := srv.app.Sessions.Load(context.Background(), first); err == nil {
		t.Error("expected the old session to be deleted")
	}
}
