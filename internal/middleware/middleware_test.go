package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRateLimiter_AllowAndRefill(t *testing.T) {
	clock := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return clock }

	if !rl.allow("a") || !rl.allow("a") {
		t.Fatal("expected the first two requests to pass")
	}
	if rl.allow("a") {
		t.Fatal("expected the third request to be limited")
	}
	if !rl.allow("b") {
		t.Fatal("buckets must be independent per key")
	}

	clock = clock.Add(time.Minute)
	if !rl.allow("a") {
		t.Fatal("expected tokens to refill after the interval")
	}
}

func TestRateLimiter_MiddlewareBy(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	r := gin.New()
	r.POST("/imports/:id/remarks", rl.MiddlewareBy(ByClientIPAndParam("id")), func(c *gin.Context) {
		c.Status(http.StatusAccepted)
	})

	do := func(id string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/imports/"+id+"/remarks", nil)
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := do("one"); code != http.StatusAccepted {
		t.Fatalf("first request: got %d", code)
	}
	if code := do("one"); code != http.StatusTooManyRequests {
		t.Fatalf("second request: got %d, want 429", code)
	}
	if code := do("two"); code != http.StatusAccepted {
		t.Fatalf("other import: got %d", code)
	}
}

func TestRateLimiter_MiddlewarePerIP(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	r := gin.New()
	r.POST("/imports", rl.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	do := func(addr string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/imports", nil)
		req.RemoteAddr = addr
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := do("10.0.0.1:5000"); code != http.StatusCreated {
		t.Fatalf("first request: got %d", code)
	}
	if code := do("10.0.0.1:5001"); code != http.StatusTooManyRequests {
		t.Fatalf("same IP, other port: got %d, want 429", code)
	}
	if code := do("10.0.0.2:5000"); code != http.StatusCreated {
		t.Fatalf("other IP: got %d", code)
	}
}

func TestBrotli_SkipPathSuffix(t *testing.T) {
	body := strings.Repeat("تلميذ ", 1000)
	r := gin.New()
	r.Use(BrotliWithConfig(BrotliConfig{Skipper: SkipPathSuffix("/documents")}))
	r.GET("/imports/x", func(c *gin.Context) { c.String(http.StatusOK, body) })
	r.GET("/imports/x/documents", func(c *gin.Context) { c.String(http.StatusOK, body) })

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Accept-Encoding", "gzip, br")
		r.ServeHTTP(w, req)
		return w
	}

	w := get("/imports/x")
	if w.Header().Get("Content-Encoding") != "br" {
		t.Fatal("expected brotli encoding on JSON routes")
	}
	decoded, err := io.ReadAll(brotli.NewReader(bytes.NewReader(w.Body.Bytes())))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(decoded) != body {
		t.Error("decoded body mismatch")
	}

	w = get("/imports/x/documents")
	if w.Header().Get("Content-Encoding") != "" {
		t.Error("document downloads must not be compressed")
	}
}

func TestCacheHeaders(t *testing.T) {
	r := gin.New()
	r.GET("/c", CacheControl(3600), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/n", NoStore(), func(c *gin.Context) { c.Status(http.StatusOK) })

	for path, want := range map[string]string{"/c": "public, max-age=3600", "/n": "no-store"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if got := w.Header().Get("Cache-Control"); got != want {
			t.Errorf("%s Cache-Control = %q, want %q", path, got, want)
		}
	}
}
