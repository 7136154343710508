package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCSRFEngine() *gin.Engine {
	r := gin.New()
	r.Use(CSRF(testCookies))
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }
	r.GET("/v1/projects", ok)
	r.POST("/v1/projects", ok)
	r.POST("/v1/auth/login", ok)
	return r
}

func serveCSRF(r *gin.Engine, method, path string, cookies map[string]string, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for name, value := range cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	if header != "" {
		req.Header.Set(CSRFTokenHeader, header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCSRFIssuesReadableToken(t *testing.T) {
	w := serveCSRF(newCSRFEngine(), http.MethodGet, "/v1/projects", nil, "")

	require.Equal(t, http.StatusNoContent, w.Code)
	var issued *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == CSRFTokenCookie {
			issued = c
		}
	}
	require.NotNil(t, issued)
	assert.False(t, issued.HttpOnly)
	assert.Len(t, issued.Value, 64)
}

func TestCSRFCookieSessions(t *testing.T) {
	r := newCSRFEngine()
	session := map[string]string{AccessTokenCookie: "tok", CSRFTokenCookie: "abc"}

	w := serveCSRF(r, http.MethodPost, "/v1/projects", session, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Missing CSRF token", envelope(t, w)["message"])

	w = serveCSRF(r, http.MethodPost, "/v1/projects", session, "xyz")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Invalid CSRF token", envelope(t, w)["message"])

	w = serveCSRF(r, http.MethodPost, "/v1/projects", session, "abc")
	assert.Equal(t, http.StatusNoContent, w.Code)

	// A header alone cannot stand in for a missing cookie
	w = serveCSRF(r, http.MethodPost, "/v1/projects", map[string]string{AccessTokenCookie: "tok"}, "abc")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCSRFSkipsBearerAndExemptRoutes(t *testing.T) {
	r := newCSRFEngine()

	w := serveCSRF(r, http.MethodPost, "/v1/projects", nil, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = serveCSRF(r, http.MethodPost, "/v1/auth/login", map[string]string{RefreshTokenCookie: "rt"}, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}
