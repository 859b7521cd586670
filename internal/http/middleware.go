package http

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"auth-portal/internal/auth"
)

const csrfHeaderName = "X-CSRF-Token"

const identityContextKey = "auth.identity"

// Identity is the request-scoped caller identity attached by authRequired.
type Identity struct {
	ID    string
	Email string
}

func identityFromContext(c *gin.Context) (Identity, bool) {
	value, exists := c.Get(identityContextKey)
	if !exists {
		return Identity{}, false
	}
	identity, ok := value.(Identity)
	return identity, ok
}

// securityHeaders decorates every response, including 401/403 aborts from
// middleware further down the chain, with a fixed set of hardening
// headers. It must be registered before any middleware that can reject.
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.Writer.Header()
		header.Set("Content-Security-Policy", "default-src 'self'")
		header.Set("X-Content-Type-Options", "nosniff")
		header.Set("X-Frame-Options", "DENY")
		header.Set("X-XSS-Protection", "1; mode=block")
		header.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		header.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}

// csrfProtection enforces the double-submit cookie scheme on state-changing
// methods. Safe methods pass through untouched.
//
// A request without a csrf_token cookie also passes: a first-time visitor
// has no ambient session an attacker could ride, and requiring a token
// before signup/login would dead-lock anonymous clients. Once the cookie
// exists, the header must match it exactly.
func csrfProtection() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
		default:
			c.Next()
			return
		}

		cookie, err := c.Cookie(csrfCookieName)
		if err != nil || cookie == "" {
			c.Next()
			return
		}

		header := c.GetHeader(csrfHeaderName)
		if header == "" || subtle.ConstantTimeCompare([]byte(cookie), []byte(header)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "CSRF verification failed",
			})
			return
		}

		c.Next()
	}
}

// authRequired verifies the session cookie and attaches the caller
// identity to the request context. The handler is never invoked for
// missing or invalid tokens.
func authRequired(tokens *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(authCookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Authentication required",
			})
			return
		}

		claims, err := tokens.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Invalid or expired token",
			})
			return
		}

		c.Set(identityContextKey, Identity{
			ID:    claims.Subject,
			Email: claims.Email,
		})
		c.Next()
	}
}
