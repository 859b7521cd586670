package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	authCookieName = "auth_token"
	csrfCookieName = "csrf_token"
)

// setSessionCookies writes the auth and CSRF cookies with a shared
// lifetime. The auth cookie is HTTP-only so script can never read the
// token; the CSRF cookie must stay readable so the client can echo it in
// the X-CSRF-Token header.
func setSessionCookies(c *gin.Context, token, csrfToken string, ttl time.Duration) {
	maxAge := int(ttl.Seconds())

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     csrfCookieName,
		Value:    csrfToken,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   !isLoopbackHost(c.Request.Host),
		HttpOnly: false,
		SameSite: http.SameSiteStrictMode,
	})
}

// clearSessionCookies expires both cookies immediately.
func clearSessionCookies(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     csrfCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: false,
		SameSite: http.SameSiteStrictMode,
	})
}

// isLoopbackHost reports whether the request host is a local development
// host. The CSRF cookie drops the Secure attribute there so plain-HTTP
// local testing works.
func isLoopbackHost(host string) bool {
	return strings.HasPrefix(host, "localhost") || strings.HasPrefix(host, "127.0.0.1")
}
