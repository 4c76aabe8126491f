package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/unrolled/secure"
)

// SecureHeaders sets the standard security response headers. Plain HTTP
// requests are redirected to HTTPS only when forceHTTPS is set; a request
// forwarded by a TLS-terminating proxy with X-Forwarded-Proto=https passes.
func SecureHeaders(development, forceHTTPS bool) echo.MiddlewareFunc {
	s := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		SSLRedirect:           forceHTTPS,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:         development,
	})
	return echo.WrapMiddleware(s.Handler)
}
