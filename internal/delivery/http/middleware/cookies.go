package middleware

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"portfolio-backend/config"
	"portfolio-backend/internal/domain"
)

const (
	AccessTokenCookie  = "access_token"
	LegacyTokenCookie  = "auth-token"
	RefreshTokenCookie = "refresh_token"
	UserCookie         = "user"
)

// CookieSettings controls the attributes of every session cookie.
type CookieSettings struct {
	Domain        string
	Secure        bool
	SameSite      http.SameSite
	AccessMaxAge  int
	RefreshMaxAge int
}

func NewCookieSettings(cfg *config.Config) CookieSettings {
	sameSite := http.SameSiteStrictMode
	switch cfg.CookieSameSite {
	case "lax":
		sameSite = http.SameSiteLaxMode
	case "none":
		sameSite = http.SameSiteNoneMode
	}
	return CookieSettings{
		Domain:        cfg.CookieDomain,
		Secure:        cfg.IsProduction() || sameSite == http.SameSiteNoneMode,
		SameSite:      sameSite,
		AccessMaxAge:  cfg.AccessTokenMaxAge,
		RefreshMaxAge: cfg.RefreshTokenMaxAge,
	}
}

func (s CookieSettings) set(c *gin.Context, name, value string, maxAge int, httpOnly bool) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   s.Domain,
		MaxAge:   maxAge,
		Secure:   s.Secure,
		HttpOnly: httpOnly,
		SameSite: s.SameSite,
	})
}

// SetSessionCookies writes the httpOnly token cookies plus a readable user
// cookie the frontend uses for display.
func SetSessionCookies(c *gin.Context, s CookieSettings, session *domain.Session, user *domain.User) {
	accessMaxAge := s.AccessMaxAge
	if session.ExpiresIn > 0 {
		accessMaxAge = session.ExpiresIn
	}
	s.set(c, AccessTokenCookie, session.AccessToken, accessMaxAge, true)
	if session.RefreshToken != "" {
		s.set(c, RefreshTokenCookie, session.RefreshToken, s.RefreshMaxAge, true)
	}
	if user != nil {
		payload, _ := json.Marshal(domain.Principal{ID: user.ID, Email: user.Email, Role: user.Role})
		s.set(c, UserCookie, url.QueryEscape(string(payload)), s.RefreshMaxAge, false)
	}
}

// ClearSessionCookies expires every credential cookie, including the legacy one.
func ClearSessionCookies(c *gin.Context, s CookieSettings) {
	for _, name := range []string{AccessTokenCookie, LegacyTokenCookie, RefreshTokenCookie, UserCookie} {
		s.set(c, name, "", -1, name != UserCookie)
	}
}
