package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/security"
)

// PrincipalResolver turns an access token into the caller. (nil, nil) means
// the provider did not accept the token.
type PrincipalResolver interface {
	VerifySession(ctx context.Context, token string) (*domain.Principal, error)
}

// ExtractToken applies the credential precedence: access_token cookie, the
// legacy auth-token cookie, then the Authorization bearer header.
func ExtractToken(c *gin.Context) string {
	for _, name := range []string{AccessTokenCookie, LegacyTokenCookie} {
		if v, err := c.Cookie(name); err == nil && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}

	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// SessionGuard rejects requests without a verifiable session and attaches
// the principal otherwise.
func SessionGuard(resolver PrincipalResolver, cookies CookieSettings, audit *security.AuditLogger, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c)
		if token == "" {
			audit.LogAccessDenied(c.Request.Context(), http.StatusUnauthorized, "", c.ClientIP(), GetRequestID(c), c.FullPath(), "missing credentials")
			response.Abort(c, http.StatusUnauthorized, "authentication required")
			return
		}

		principal, err := resolver.VerifySession(c.Request.Context(), token)
		if err != nil {
			log.Warn("session verification failed", "error", err, "request_id", GetRequestID(c))
		}
		if err != nil || principal == nil {
			ClearSessionCookies(c, cookies)
			audit.LogAccessDenied(c.Request.Context(), http.StatusUnauthorized, "", c.ClientIP(), GetRequestID(c), c.FullPath(), "invalid session")
			response.Abort(c, http.StatusUnauthorized, "invalid or expired session")
			return
		}

		attachPrincipal(c, principal)
		c.Next()
	}
}

// OptionalSession attaches the principal when a valid token is present and
// never rejects.
func OptionalSession(resolver PrincipalResolver, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := ExtractToken(c); token != "" {
			principal, err := resolver.VerifySession(c.Request.Context(), token)
			if err != nil {
				log.Debug("optional session ignored", "error", err)
			}
			if principal != nil {
				attachPrincipal(c, principal)
			}
		}
		c.Next()
	}
}

func attachPrincipal(c *gin.Context, p *domain.Principal) {
	c.Set(string(domain.KeyPrincipal), p)
	c.Set(string(domain.KeyUserID), p.ID)
	c.Set(string(domain.KeyUserEmail), p.Email)
	c.Set(string(domain.KeyUserRole), p.Role)
	c.Request = c.Request.WithContext(domain.WithPrincipal(c.Request.Context(), p))
}

// CurrentPrincipal returns the principal attached by SessionGuard.
func CurrentPrincipal(c *gin.Context) (*domain.Principal, bool) {
	v, ok := c.Get(string(domain.KeyPrincipal))
	if !ok {
		return nil, false
	}
	p, ok := v.(*domain.Principal)
	return p, ok && p != nil
}
