package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/delivery/http/middleware"
	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"
)

type AuthHandler struct {
	authUC  domain.AuthUsecase
	cookies middleware.CookieSettings
}

// NewAuthHandler registers the auth routes. loginLimit throttles POST /auth/login.
func NewAuthHandler(public, protected, admin *gin.RouterGroup, authUC domain.AuthUsecase, cookies middleware.CookieSettings, loginLimit gin.HandlerFunc) {
	handler := &AuthHandler{authUC: authUC, cookies: cookies}

	publicAuth := public.Group("/auth")
	{
		publicAuth.POST("/register", handler.Register)
		publicAuth.POST("/login", loginLimit, handler.Login)
		publicAuth.POST("/refresh", handler.Refresh)
		publicAuth.POST("/logout", handler.Logout)
		publicAuth.POST("/forgot-password", loginLimit, handler.ForgotPassword)
		publicAuth.POST("/reset-password", handler.ResetPassword)
	}

	protectedAuth := protected.Group("/auth")
	{
		protectedAuth.GET("/me", handler.Me)
		protectedAuth.PATCH("/me", handler.UpdateMe)
	}

	adminAuth := admin.Group("/auth/users")
	{
		adminAuth.GET("", handler.ListUsers)
		adminAuth.PATCH("/:id/role", handler.SetRole)
	}
}

// Register godoc
// @Summary      Register
// @Description  Create an account. Cookies are set only when the provider returns a session right away.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        register  body      domain.RegisterRequest  true  "Registration details"
// @Success      201       {object}  response.Response{data=domain.AuthResult}
// @Failure      400       {object}  response.Response
// @Failure      409       {object}  response.Response
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req domain.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authUC.Register(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	message := "Registration successful. Please check your email to confirm your account."
	if result.Session != nil {
		middleware.SetSessionCookies(c, h.cookies, result.Session, result.User)
		message = "Registration successful"
	}
	response.Success(c, http.StatusCreated, message, result)
}

// Login godoc
// @Summary      Login
// @Description  Password login. Sets access_token and refresh_token httpOnly cookies plus a readable user cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        login  body      domain.LoginRequest  true  "Credentials"
// @Success      200    {object}  response.Response{data=domain.AuthResult}
// @Failure      400    {object}  response.Response
// @Failure      401    {object}  response.Response
// @Failure      429    {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authUC.Login(c.Request.Context(), &req, clientMeta(c))
	if err != nil {
		c.Error(err)
		return
	}

	middleware.SetSessionCookies(c, h.cookies, result.Session, result.User)
	response.Success(c, http.StatusOK, "Login successful", result)
}

// Refresh godoc
// @Summary      Refresh session
// @Description  Exchanges the refresh token from the body or the refresh_token cookie for a new session.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        refresh  body      domain.RefreshRequest  false  "Refresh token"
// @Success      200      {object}  response.Response{data=domain.AuthResult}
// @Failure      401      {object}  response.Response
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req domain.RefreshRequest
	// An empty body is fine when the cookie carries the token
	_ = c.ShouldBindJSON(&req)
	if req.RefreshToken == "" {
		req.RefreshToken, _ = c.Cookie(middleware.RefreshTokenCookie)
	}

	result, err := h.authUC.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		middleware.ClearSessionCookies(c, h.cookies)
		c.Error(err)
		return
	}

	middleware.SetSessionCookies(c, h.cookies, result.Session, result.User)
	response.Success(c, http.StatusOK, "Session refreshed", result)
}

// Logout godoc
// @Summary      Logout
// @Description  Revokes the session at the provider when possible and always clears the cookies.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	_ = h.authUC.Logout(c.Request.Context(), middleware.ExtractToken(c))
	middleware.ClearSessionCookies(c, h.cookies)
	response.Success(c, http.StatusOK, "Logged out", nil)
}

// Me godoc
// @Summary      Current profile
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.User}
// @Failure      401  {object}  response.Response
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authUC.GetProfile(c.Request.Context(), principal(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile retrieved", user)
}

// UpdateMe godoc
// @Summary      Update current profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        profile  body      domain.UpdateProfileRequest  true  "Profile fields"
// @Success      200      {object}  response.Response{data=domain.User}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /auth/me [patch]
// @Security     BearerAuth
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	var req domain.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authUC.UpdateProfile(c.Request.Context(), principal(c), &req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile updated", user)
}

// ForgotPassword godoc
// @Summary      Request a password reset email
// @Description  Always succeeds so the endpoint cannot be used to discover accounts.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      domain.ForgotPasswordRequest  true  "Email"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req domain.ForgotPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.authUC.ForgotPassword(c.Request.Context(), &req); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "If an account exists for this email, a reset link has been sent.", nil)
}

// ResetPassword godoc
// @Summary      Set a new password
// @Description  Uses the access token delivered by the reset link.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      domain.ResetPasswordRequest  true  "Token and new password"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req domain.ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.authUC.ResetPassword(c.Request.Context(), &req); err != nil {
		c.Error(err)
		return
	}
	middleware.ClearSessionCookies(c, h.cookies)
	response.Success(c, http.StatusOK, "Password updated. Please sign in again.", nil)
}

// ListUsers godoc
// @Summary      List profiles
// @Tags         auth
// @Produce      json
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Page size (max 100)"
// @Param        search  query     string  false  "Matches email or full name"
// @Param        role    query     string  false  "user or admin"
// @Success      200     {object}  response.Response{data=domain.Page[domain.User]}
// @Failure      403     {object}  response.Response
// @Router       /auth/users [get]
// @Security     BearerAuth
func (h *AuthHandler) ListUsers(c *gin.Context) {
	var filter domain.UserFilter
	if !bindQuery(c, &filter) {
		return
	}

	page, err := h.authUC.ListUsers(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Users retrieved", page)
}

// SetRole godoc
// @Summary      Change a user's role
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        id       path      string                 true  "User ID"
// @Param        request  body      domain.SetRoleRequest  true  "New role"
// @Success      200      {object}  response.Response{data=domain.User}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /auth/users/{id}/role [patch]
// @Security     BearerAuth
func (h *AuthHandler) SetRole(c *gin.Context) {
	var req domain.SetRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authUC.SetRole(c.Request.Context(), principal(c), c.Param("id"), &req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Role updated", user)
}
