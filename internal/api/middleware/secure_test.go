package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func serveSecure(development, forceHTTPS bool, req *http.Request) *httptest.ResponseRecorder {
	e := echo.New()
	e.Use(SecureHeaders(development, forceHTTPS))
	e.GET("/health", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSecureHeaders_PlainHTTPServedWithoutForceHTTPS(t *testing.T) {
	for _, development := range []bool{true, false} {
		rec := serveSecure(development, false, httptest.NewRequest(http.MethodGet, "http://api.local/health", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("development=%v: expected 200, got %d (Location=%q)", development, rec.Code, rec.Header().Get("Location"))
		}
		if rec.Header().Get("X-Frame-Options") != "DENY" {
			t.Fatalf("development=%v: missing X-Frame-Options", development)
		}
		if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
			t.Fatalf("development=%v: missing X-Content-Type-Options", development)
		}
	}
}

func TestSecureHeaders_ForceHTTPSRedirects(t *testing.T) {
	rec := serveSecure(false, true, httptest.NewRequest(http.MethodGet, "http://api.local/health", nil))
	if rec.Code != http.StatusMovedPermanently {
		t.Fatalf("expected 301, got %d", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "https://api.local/health" {
		t.Fatalf("unexpected Location %q", got)
	}
}

func TestSecureHeaders_ForceHTTPSAcceptsTLSProxy(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://api.local/health", nil)
	req.Header.Set("X-Forwarded-Proto", "https")

	rec := serveSecure(false, true, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 behind a TLS proxy, got %d", rec.Code)
	}
}
