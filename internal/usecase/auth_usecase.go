package usecase

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/security"
)

type authUsecase struct {
	users       domain.UserRepository
	provider    domain.AuthProvider
	verifier    domain.SessionVerifier
	guard       domain.LoginGuard
	validate    *validator.Validate
	audit       *security.AuditLogger
	log         *slog.Logger
	frontendURL string
}

func NewAuthUsecase(
	users domain.UserRepository,
	provider domain.AuthProvider,
	verifier domain.SessionVerifier,
	guard domain.LoginGuard,
	validate *validator.Validate,
	audit *security.AuditLogger,
	log *slog.Logger,
	frontendURL string,
) domain.AuthUsecase {
	return &authUsecase{
		users:       users,
		provider:    provider,
		verifier:    verifier,
		guard:       guard,
		validate:    validate,
		audit:       audit,
		log:         log,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *authUsecase) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResult, error) {
	if err := validateStruct(u.validate, req); err != nil {
		return nil, err
	}
	email := normalizeEmail(req.Email)
	fullName := strings.TrimSpace(req.FullName)

	pu, session, err := u.provider.SignUp(ctx, email, req.Password,
		map[string]any{"full_name": fullName}, u.frontendURL+"/auth/callback")
	if err != nil {
		return nil, providerError(err)
	}
	if pu.UserMetadata == nil {
		pu.UserMetadata = map[string]any{}
	}
	if pu.MetadataString("full_name") == "" {
		pu.UserMetadata["full_name"] = fullName
	}

	user, err := u.ensureProfile(ctx, pu)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResult{User: user, Session: session}, nil
}

func (u *authUsecase) Login(ctx context.Context, req *domain.LoginRequest, meta domain.ClientMeta) (*domain.AuthResult, error) {
	if err := validateStruct(u.validate, req); err != nil {
		return nil, err
	}
	email := normalizeEmail(req.Email)

	blocked, err := u.guard.IsBlocked(ctx, email, meta.IP)
	if err != nil {
		u.log.Warn("login guard unavailable", "error", err)
	}
	if blocked {
		u.audit.LogLoginBlocked(ctx, email, meta.IP, meta.UserAgent, meta.RequestID)
		return nil, apperror.TooManyRequests("too many failed login attempts, try again later")
	}

	session, err := u.provider.SignInWithPassword(ctx, email, req.Password)
	if err != nil {
		if !isCredentialFailure(err) {
			return nil, providerError(err)
		}
		u.audit.LogLoginFailed(ctx, email, meta.IP, meta.UserAgent, meta.RequestID, "invalid_credentials")
		nowBlocked, gerr := u.guard.RecordFailure(ctx, email, meta)
		if gerr != nil {
			u.log.Warn("failed to record login failure", "error", gerr)
		}
		if nowBlocked {
			return nil, apperror.TooManyRequests("too many failed login attempts, try again later")
		}
		return nil, apperror.Unauthorized("invalid email or password")
	}

	if err := u.guard.Reset(ctx, email, meta.IP); err != nil {
		u.log.Warn("failed to reset login attempts", "error", err)
	}

	user, err := u.ensureProfile(ctx, &session.User)
	if err != nil {
		return nil, err
	}
	u.audit.LogLoginSuccess(ctx, user.ID, meta.IP, meta.UserAgent, meta.RequestID)
	return &domain.AuthResult{User: user, Session: session}, nil
}

func (u *authUsecase) Refresh(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, apperror.Unauthorized("refresh token required")
	}
	session, err := u.provider.RefreshSession(ctx, refreshToken)
	if err != nil {
		if isCredentialFailure(err) {
			return nil, apperror.Unauthorized("invalid or expired refresh token")
		}
		return nil, providerError(err)
	}
	user, err := u.ensureProfile(ctx, &session.User)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResult{User: user, Session: session}, nil
}

// Logout revokes the provider session when possible. Failures are logged only;
// the caller always clears cookies.
func (u *authUsecase) Logout(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	if err := u.provider.SignOut(ctx, accessToken); err != nil {
		u.log.Warn("provider sign-out failed", "error", err)
	}
	return nil
}

// VerifySession resolves a token into a principal. A nil principal with nil
// error means the token was rejected.
func (u *authUsecase) VerifySession(ctx context.Context, token string) (*domain.Principal, error) {
	pu, err := u.verifier.VerifyToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if pu == nil || pu.ID == "" {
		return nil, nil
	}

	p := &domain.Principal{ID: pu.ID, Email: pu.Email, Role: u.resolveRole(ctx, pu)}
	return p, nil
}

// resolveRole prefers the profile row, then app_metadata, then the default role.
func (u *authUsecase) resolveRole(ctx context.Context, pu *domain.ProviderUser) string {
	user, err := u.users.GetByID(ctx, pu.ID)
	if err == nil && user.Role != "" {
		return user.Role
	}
	if err != nil && !apperror.Is(err, http.StatusNotFound) {
		u.log.Warn("profile lookup failed during session verification", "error", err)
	}
	if role := pu.MetadataRole(); role == domain.RoleAdmin || role == domain.RoleUser {
		return role
	}
	return domain.RoleUser
}

// ensureProfile returns the profile row for pu, creating it on first sight.
func (u *authUsecase) ensureProfile(ctx context.Context, pu *domain.ProviderUser) (*domain.User, error) {
	existing, err := u.users.GetByID(ctx, pu.ID)
	if err == nil {
		return existing, nil
	}
	if !apperror.Is(err, http.StatusNotFound) {
		return nil, err
	}

	role := pu.MetadataRole()
	if role != domain.RoleAdmin {
		role = domain.RoleUser
	}
	now := time.Now().UTC()
	user := &domain.User{
		ID:        pu.ID,
		Email:     normalizeEmail(pu.Email),
		FullName:  pu.MetadataString("full_name"),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if avatar := pu.MetadataString("avatar_url"); avatar != "" {
		user.AvatarURL = &avatar
	}

	if err := u.users.Create(ctx, user); err != nil {
		// Lost a race with a concurrent first login.
		if apperror.Is(err, http.StatusConflict) {
			return u.users.GetByID(ctx, pu.ID)
		}
		return nil, err
	}
	return user, nil
}

func (u *authUsecase) GetProfile(ctx context.Context, p *domain.Principal) (*domain.User, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	return u.users.GetByID(ctx, p.ID)
}

func (u *authUsecase) UpdateProfile(ctx context.Context, p *domain.Principal, req *domain.UpdateProfileRequest) (*domain.User, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	if err := validateStruct(u.validate, req); err != nil {
		return nil, err
	}

	user, err := u.users.GetByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.AvatarURL != nil {
		avatar := strings.TrimSpace(*req.AvatarURL)
		user.AvatarURL = &avatar
		if avatar == "" {
			user.AvatarURL = nil
		}
	}
	user.UpdatedAt = time.Now().UTC()

	if err := u.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ForgotPassword never reveals whether the address is registered.
func (u *authUsecase) ForgotPassword(ctx context.Context, req *domain.ForgotPasswordRequest) error {
	if err := validateStruct(u.validate, req); err != nil {
		return err
	}
	err := u.provider.RecoverPassword(ctx, normalizeEmail(req.Email), u.frontendURL+"/auth/update-password")
	if err != nil {
		u.log.Warn("password recovery request failed", "error", err)
	}
	return nil
}

func (u *authUsecase) ResetPassword(ctx context.Context, req *domain.ResetPasswordRequest) error {
	if err := validateStruct(u.validate, req); err != nil {
		return err
	}
	if err := u.provider.UpdatePassword(ctx, req.AccessToken, req.NewPassword); err != nil {
		if apperror.Code(providerError(err)) == http.StatusUnauthorized {
			return apperror.Unauthorized("invalid or expired reset token")
		}
		return providerError(err)
	}
	return nil
}

func (u *authUsecase) ListUsers(ctx context.Context, filter domain.UserFilter) (domain.Page[domain.User], error) {
	if filter.Role != "" && filter.Role != domain.RoleUser && filter.Role != domain.RoleAdmin {
		return domain.Page[domain.User]{}, apperror.BadRequest("role must be one of: user, admin")
	}
	users, total, err := u.users.List(ctx, filter)
	if err != nil {
		return domain.Page[domain.User]{}, err
	}
	return domain.NewPage(users, total, filter.PageRequest), nil
}

func (u *authUsecase) SetRole(ctx context.Context, actor *domain.Principal, userID string, req *domain.SetRoleRequest) (*domain.User, error) {
	if err := requirePrincipal(actor); err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, apperror.Forbidden("role required")
	}
	if err := validateStruct(u.validate, req); err != nil {
		return nil, err
	}
	if actor.ID == userID && req.Role != domain.RoleAdmin {
		return nil, apperror.BadRequest("you cannot remove your own admin role")
	}

	user, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role == req.Role {
		return user, nil
	}

	if err := u.provider.SetUserRole(ctx, userID, req.Role); err != nil {
		return nil, providerError(err)
	}
	user.Role = req.Role
	user.UpdatedAt = time.Now().UTC()
	if err := u.users.Update(ctx, user); err != nil {
		return nil, err
	}

	u.audit.LogRoleModified(ctx, actor.ID, userID, req.Role)
	return user, nil
}
