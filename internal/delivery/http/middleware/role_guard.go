package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/security"
)

// RequireRole must run after SessionGuard.
func RequireRole(role string, audit *security.AuditLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		if !ok {
			audit.LogAccessDenied(c.Request.Context(), http.StatusForbidden, "", c.ClientIP(), GetRequestID(c), c.FullPath(), "not authenticated")
			response.Abort(c, http.StatusForbidden, "not authenticated")
			return
		}
		if p.Role != role {
			audit.LogAccessDenied(c.Request.Context(), http.StatusForbidden, p.ID, c.ClientIP(), GetRequestID(c), c.FullPath(), "role required")
			response.Abort(c, http.StatusForbidden, "role required")
			return
		}
		c.Next()
	}
}

func RequireAdmin(audit *security.AuditLogger) gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin, audit)
}
