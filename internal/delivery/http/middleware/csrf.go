package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/delivery/http/response"
)

const (
	CSRFTokenCookie = "csrf_token"
	CSRFTokenHeader = "X-CSRF-Token"
	csrfTokenBytes  = 32
	csrfTokenMaxAge = 24 * time.Hour
)

// Routes a browser reaches before it holds a session, or that only mint one.
var csrfExemptPaths = map[string]bool{
	"/v1/auth/login":           true,
	"/v1/auth/register":        true,
	"/v1/auth/refresh":         true,
	"/v1/auth/forgot-password": true,
	"/v1/auth/reset-password":  true,
	"/v1/contact":              true,
}

func generateCSRFToken() (string, error) {
	buf := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// hasSessionCookie reports whether the browser would authenticate this request
// through cookies. Bearer-only clients cannot be driven cross-site.
func hasSessionCookie(c *gin.Context) bool {
	for _, name := range []string{AccessTokenCookie, LegacyTokenCookie, RefreshTokenCookie} {
		if v, err := c.Cookie(name); err == nil && v != "" {
			return true
		}
	}
	return false
}

// CSRF implements the double-submit cookie pattern. A readable csrf_token
// cookie is issued on every response that lacks one; unsafe requests that
// carry a session cookie must echo it in X-CSRF-Token.
func CSRF(cookies CookieSettings) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(CSRFTokenCookie)
		if err != nil || token == "" {
			fresh, err := generateCSRFToken()
			if err != nil {
				response.Abort(c, http.StatusInternalServerError, "Failed to generate security token")
				return
			}
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     CSRFTokenCookie,
				Value:    fresh,
				Path:     "/",
				Domain:   cookies.Domain,
				MaxAge:   int(csrfTokenMaxAge.Seconds()),
				Secure:   cookies.Secure,
				HttpOnly: false,
				SameSite: http.SameSiteLaxMode,
			})
			token = ""
		}

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		if csrfExemptPaths[c.Request.URL.Path] || !hasSessionCookie(c) {
			c.Next()
			return
		}

		header := c.GetHeader(CSRFTokenHeader)
		if header == "" {
			response.Abort(c, http.StatusForbidden, "Missing CSRF token")
			return
		}
		if token == "" || subtle.ConstantTimeCompare([]byte(header), []byte(token)) != 1 {
			response.Abort(c, http.StatusForbidden, "Invalid CSRF token")
			return
		}
		c.Next()
	}
}
