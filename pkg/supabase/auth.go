package supabase

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"portfolio-backend/internal/domain"
)

// sessionResponse covers both shapes returned by /signup: a session when
// auto-confirm is on, a bare user otherwise.
type sessionResponse struct {
	AccessToken  string              `json:"access_token"`
	RefreshToken string              `json:"refresh_token"`
	TokenType    string              `json:"token_type"`
	ExpiresIn    int                 `json:"expires_in"`
	ExpiresAt    int64               `json:"expires_at"`
	User         domain.ProviderUser `json:"user"`

	domain.ProviderUser
}

func (r *sessionResponse) session() *domain.Session {
	if r.AccessToken == "" {
		return nil
	}
	return &domain.Session{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		TokenType:    r.TokenType,
		ExpiresIn:    r.ExpiresIn,
		ExpiresAt:    r.ExpiresAt,
		User:         r.User,
	}
}

func (r *sessionResponse) user() *domain.ProviderUser {
	if r.User.ID != "" {
		u := r.User
		return &u
	}
	u := r.ProviderUser
	return &u
}

func redirectQuery(redirectTo string) url.Values {
	if redirectTo == "" {
		return nil
	}
	return url.Values{"redirect_to": {redirectTo}}
}

func (c *Client) SignUp(ctx context.Context, email, password string, metadata map[string]any, redirectTo string) (*domain.ProviderUser, *domain.Session, error) {
	var out sessionResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/signup",
		query:  redirectQuery(redirectTo),
		body:   map[string]any{"email": email, "password": password, "data": metadata},
	}, &out)
	if err != nil {
		return nil, nil, err
	}
	return out.user(), out.session(), nil
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error) {
	return c.tokenGrant(ctx, "password", map[string]string{"email": email, "password": password})
}

func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*domain.Session, error) {
	return c.tokenGrant(ctx, "refresh_token", map[string]string{"refresh_token": refreshToken})
}

func (c *Client) tokenGrant(ctx context.Context, grant string, body map[string]string) (*domain.Session, error) {
	var out sessionResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  url.Values{"grant_type": {grant}},
		body:   body,
	}, &out)
	if err != nil {
		return nil, err
	}
	s := out.session()
	if s == nil {
		return nil, &Error{Status: http.StatusUnauthorized, Message: "no session returned"}
	}
	return s, nil
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/auth/v1/logout", bearer: accessToken}, nil)
}

// RecoverPassword sends the reset email. redirect_to must be a query parameter.
func (c *Client) RecoverPassword(ctx context.Context, email, redirectTo string) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/recover",
		query:  redirectQuery(redirectTo),
		body:   map[string]string{"email": email},
	}, nil)
}

func (c *Client) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	return c.do(ctx, request{
		method: http.MethodPut,
		path:   "/auth/v1/user",
		bearer: accessToken,
		body:   map[string]string{"password": newPassword},
	}, nil)
}

// SetUserRole writes app_metadata.role through the admin API.
func (c *Client) SetUserRole(ctx context.Context, userID, role string) error {
	return c.do(ctx, request{
		method:  http.MethodPut,
		path:    "/auth/v1/admin/users/" + url.PathEscape(userID),
		service: true,
		body:    map[string]any{"app_metadata": map[string]string{"role": role}},
	}, nil)
}

// VerifyToken asks GoTrue who owns the token. Rejected tokens yield (nil, nil).
func (c *Client) VerifyToken(ctx context.Context, token string) (*domain.ProviderUser, error) {
	var user domain.ProviderUser
	err := c.do(ctx, request{method: http.MethodGet, path: "/auth/v1/user", bearer: token}, &user)
	if err != nil {
		var se *Error
		if errors.As(err, &se) && (se.Status == http.StatusUnauthorized || se.Status == http.StatusForbidden) {
			return nil, nil
		}
		return nil, err
	}
	if user.ID == "" {
		return nil, nil
	}
	return &user, nil
}
