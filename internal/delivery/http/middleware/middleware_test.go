package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/security"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeResolver struct {
	principals map[string]*domain.Principal
	err        error
	seen       []string
}

func (f *fakeResolver) VerifySession(_ context.Context, token string) (*domain.Principal, error) {
	f.seen = append(f.seen, token)
	if f.err != nil {
		return nil, f.err
	}
	return f.principals[token], nil
}

var testCookies = CookieSettings{SameSite: http.SameSiteStrictMode, AccessMaxAge: 3600, RefreshMaxAge: 7200}

func newGuardedEngine(resolver PrincipalResolver, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	audit := security.NewAuditLogger(nil, "test", "test")
	handlers := []gin.HandlerFunc{SessionGuard(resolver, testCookies, audit, logger.Discard())}
	handlers = append(handlers, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		p, _ := CurrentPrincipal(c)
		ctxP, _ := domain.PrincipalFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"id": p.ID, "ctx_id": ctxP.ID})
	})
	r.GET("/private", handlers...)
	return r
}

func envelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func clearedCookies(w *httptest.ResponseRecorder) map[string]bool {
	out := map[string]bool{}
	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 {
			out[c.Name] = true
		}
	}
	return out
}

func TestSessionGuardMissingCredentials(t *testing.T) {
	resolver := &fakeResolver{}
	w := httptest.NewRecorder()
	newGuardedEngine(resolver).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "error", envelope(t, w)["status"])
	assert.Empty(t, resolver.seen)
}

func TestSessionGuardCredentialPrecedence(t *testing.T) {
	resolver := &fakeResolver{principals: map[string]*domain.Principal{
		"cookie-token": {ID: "from-cookie"},
		"legacy-token": {ID: "from-legacy"},
		"bearer-token": {ID: "from-bearer"},
	}}
	engine := newGuardedEngine(resolver)

	tests := []struct {
		name    string
		cookies []*http.Cookie
		bearer  string
		want    string
	}{
		{"access cookie wins", []*http.Cookie{{Name: AccessTokenCookie, Value: "cookie-token"}, {Name: LegacyTokenCookie, Value: "legacy-token"}}, "bearer-token", "from-cookie"},
		{"legacy cookie before header", []*http.Cookie{{Name: LegacyTokenCookie, Value: "legacy-token"}}, "bearer-token", "from-legacy"},
		{"bearer header", nil, "bearer-token", "from-bearer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			for _, c := range tt.cookies {
				req.AddCookie(c)
			}
			if tt.bearer != "" {
				req.Header.Set("Authorization", "Bearer "+tt.bearer)
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			body := envelope(t, w)
			assert.Equal(t, tt.want, body["id"])
			assert.Equal(t, tt.want, body["ctx_id"])
		})
	}
}

func TestSessionGuardRejectedTokenClearsCookies(t *testing.T) {
	tests := map[string]*fakeResolver{
		"no principal":       {principals: map[string]*domain.Principal{}},
		"verification error": {err: errors.New("provider down: secret detail")},
	}
	for name, resolver := range tests {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "stale"})
			w := httptest.NewRecorder()
			newGuardedEngine(resolver).ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.NotContains(t, w.Body.String(), "secret detail")
			cleared := clearedCookies(w)
			for _, name := range []string{AccessTokenCookie, LegacyTokenCookie, RefreshTokenCookie, UserCookie} {
				assert.True(t, cleared[name], "cookie %s should be cleared", name)
			}
		})
	}
}

func TestRoleGuard(t *testing.T) {
	resolver := &fakeResolver{principals: map[string]*domain.Principal{
		"admin": {ID: "a1", Role: domain.RoleAdmin},
		"user":  {ID: "u1", Role: domain.RoleUser},
	}}
	engine := newGuardedEngine(resolver, RequireAdmin(nil))

	for token, want := range map[string]int{"admin": http.StatusOK, "user": http.StatusForbidden} {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, token)
		if want == http.StatusForbidden {
			assert.Equal(t, "role required", envelope(t, w)["message"])
		}
	}
}

func TestRoleGuardWithoutPrincipal(t *testing.T) {
	r := gin.New()
	r.GET("/admin", RequireAdmin(nil), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "not authenticated", envelope(t, w)["message"])
}

func TestOptionalSessionNeverRejects(t *testing.T) {
	resolver := &fakeResolver{err: errors.New("boom")}
	r := gin.New()
	r.GET("/public", OptionalSession(resolver, logger.Discard()), func(c *gin.Context) {
		_, ok := CurrentPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": ok})
	})

	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, envelope(t, w)["authenticated"])
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler(logger.Discard()))
	r.GET("/app", func(c *gin.Context) { _ = c.Error(apperror.NotFound("project not found")) })
	r.GET("/raw", func(c *gin.Context) { _ = c.Error(errors.New("pq: connection refused")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/app", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "project not found", envelope(t, w)["message"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/raw", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "3f1c2a9e-8b7d-4c6e-9f10-1a2b3c4d5e6f")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "3f1c2a9e-8b7d-4c6e-9f10-1a2b3c4d5e6f", w.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "<script>", w.Header().Get(RequestIDHeader))
}

func TestInMemoryRateLimit(t *testing.T) {
	rl := NewRateLimiter(nil, nil, logger.Discard())
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	r := gin.New()
	r.POST("/contact", rl.Middleware(RateLimitConfig{Limit: 2, Window: time.Minute, KeyPrefix: "rl:contact:"}),
		func(c *gin.Context) { c.Status(http.StatusCreated) })

	send := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader("{}"))
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusCreated, send().Code)
	assert.Equal(t, http.StatusCreated, send().Code)
	limited := send()
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "60", limited.Header().Get("Retry-After"))

	now = now.Add(61 * time.Second)
	assert.Equal(t, http.StatusCreated, send().Code)
}

func TestSetSessionCookies(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	SetSessionCookies(c, testCookies,
		&domain.Session{AccessToken: "at", RefreshToken: "rt", ExpiresIn: 900},
		&domain.User{ID: "u1", Email: "ada@example.com", Role: domain.RoleUser})

	byName := map[string]*http.Cookie{}
	for _, ck := range w.Result().Cookies() {
		byName[ck.Name] = ck
	}
	require.Contains(t, byName, AccessTokenCookie)
	assert.True(t, byName[AccessTokenCookie].HttpOnly)
	assert.Equal(t, 900, byName[AccessTokenCookie].MaxAge)
	assert.True(t, byName[RefreshTokenCookie].HttpOnly)
	assert.False(t, byName[UserCookie].HttpOnly)
}
