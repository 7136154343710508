package v1

import (
	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/delivery/http/middleware"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
)

var errUnauthenticated = apperror.Unauthorized("authentication required")

// bindJSON decodes the body into dst and pushes a BadRequest on failure.
// Field rules are checked later by the usecase validator.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.Error(apperror.BadRequest("invalid request body"))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		c.Error(apperror.BadRequest("invalid query parameters"))
		return false
	}
	return true
}

// principal returns the caller or nil for anonymous requests.
func principal(c *gin.Context) *domain.Principal {
	p, _ := middleware.CurrentPrincipal(c)
	return p
}

func clientMeta(c *gin.Context) domain.ClientMeta {
	return domain.ClientMeta{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		RequestID: middleware.GetRequestID(c),
	}
}
