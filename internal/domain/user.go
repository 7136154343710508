package domain

import (
	"context"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the profile row mirrored from the provider's auth users.
type User struct {
	ID        string    `json:"id"` // Supabase UUID
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	AvatarURL *string   `json:"avatar_url"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Principal is the authenticated caller attached to a request by the session guard.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// PrincipalFromContext returns the principal stored under KeyPrincipal.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(KeyPrincipal).(*Principal)
	return p, ok && p != nil
}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, KeyPrincipal, p)
}

// ProviderUser is the subset of the provider's auth user we rely on.
type ProviderUser struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	AppMetadata  map[string]any `json:"app_metadata"`
	UserMetadata map[string]any `json:"user_metadata"`
}

// MetadataRole returns app_metadata.role when present.
func (u *ProviderUser) MetadataRole() string {
	if u == nil || u.AppMetadata == nil {
		return ""
	}
	role, _ := u.AppMetadata["role"].(string)
	return role
}

// MetadataString reads a string key from user_metadata.
func (u *ProviderUser) MetadataString(key string) string {
	if u == nil || u.UserMetadata == nil {
		return ""
	}
	v, _ := u.UserMetadata[key].(string)
	return v
}

// Session is a provider-issued token pair.
type Session struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"`
	ExpiresAt    int64        `json:"expires_at"`
	User         ProviderUser `json:"user"`
}

// AuthResult is returned by register/login/refresh. Session is nil while the
// provider waits for email confirmation.
type AuthResult struct {
	User    *User    `json:"user"`
	Session *Session `json:"session,omitempty"`
}

// ClientMeta carries request origin details used for auditing and throttling.
type ClientMeta struct {
	IP        string
	UserAgent string
	RequestID string
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"full_name" validate:"required,min=2,max=100,valid_name"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=72"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

type ResetPasswordRequest struct {
	AccessToken string `json:"access_token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

type UpdateProfileRequest struct {
	FullName  *string `json:"full_name" validate:"omitempty,min=2,max=100,valid_name"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url,max=500"`
}

type SetRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

type UserFilter struct {
	PageRequest
	Search string `form:"search"`
	Role   string `form:"role"`
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	List(ctx context.Context, filter UserFilter) ([]User, int64, error)
}

// AuthProvider is the provider's user/session management surface.
type AuthProvider interface {
	SignUp(ctx context.Context, email, password string, metadata map[string]any, redirectTo string) (*ProviderUser, *Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	RefreshSession(ctx context.Context, refreshToken string) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error
	RecoverPassword(ctx context.Context, email, redirectTo string) error
	UpdatePassword(ctx context.Context, accessToken, newPassword string) error
	SetUserRole(ctx context.Context, userID, role string) error
}

// SessionVerifier validates an access token and returns its owner. A nil user
// with nil error means the token was not accepted.
type SessionVerifier interface {
	VerifyToken(ctx context.Context, token string) (*ProviderUser, error)
}

// LoginGuard throttles repeated failed logins.
type LoginGuard interface {
	IsBlocked(ctx context.Context, email, ip string) (bool, error)
	RecordFailure(ctx context.Context, email string, meta ClientMeta) (blocked bool, err error)
	Reset(ctx context.Context, email, ip string) error
}

type AuthUsecase interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req *LoginRequest, meta ClientMeta) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, accessToken string) error
	VerifySession(ctx context.Context, token string) (*Principal, error)
	GetProfile(ctx context.Context, p *Principal) (*User, error)
	UpdateProfile(ctx context.Context, p *Principal, req *UpdateProfileRequest) (*User, error)
	ForgotPassword(ctx context.Context, req *ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req *ResetPasswordRequest) error
	ListUsers(ctx context.Context, filter UserFilter) (Page[User], error)
	SetRole(ctx context.Context, actor *Principal, userID string, req *SetRoleRequest) (*User, error)
}
