package v1

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"portfolio-backend/config"
	"portfolio-backend/internal/delivery/http/middleware"
	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/usecase"
	"portfolio-backend/pkg/security"
)

type RouterDeps struct {
	AuthUC       domain.AuthUsecase
	ContactUC    domain.ContactUsecase
	CVUC         domain.CVUsecase
	CVSections   usecase.CVSections
	ProjectUC    domain.ProjectUsecase
	TechnologyUC domain.TechnologyUsecase
	UploadUC     domain.UploadUsecase
	HealthUC     usecase.HealthUsecase
	RateLimiter  *middleware.RateLimiter
	Audit        *security.AuditLogger
	Logger       *slog.Logger
	Config       *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORS(cfg)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware(cfg.IsProduction()))
	r.Use(middleware.ErrorHandler(deps.Logger))

	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second
	r.Use(deps.RateLimiter.Middleware(middleware.RateLimitConfig{
		Limit:     cfg.RateLimitGlobalThreshold,
		Window:    window,
		KeyPrefix: "rl:ip:",
	}))
	contactLimit := deps.RateLimiter.Middleware(middleware.RateLimitConfig{
		Limit:     cfg.RateLimitContactThreshold,
		Window:    window,
		KeyPrefix: "rl:contact:",
	})
	loginLimit := deps.RateLimiter.Middleware(middleware.RateLimitConfig{
		Limit:     cfg.RateLimitLoginThreshold,
		Window:    window,
		KeyPrefix: "rl:login:",
	})

	cookies := middleware.NewCookieSettings(cfg)
	if cfg.CSRFEnabled {
		r.Use(middleware.CSRF(cookies))
	}

	v1 := r.Group("/v1")
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Visitors; the caller is attached when a valid session is present
	optional := v1.Group("")
	optional.Use(middleware.OptionalSession(deps.AuthUC, deps.Logger))

	protected := v1.Group("")
	protected.Use(middleware.SessionGuard(deps.AuthUC, cookies, deps.Audit, deps.Logger))

	admin := protected.Group("")
	admin.Use(middleware.RequireAdmin(deps.Audit))

	NewHealthHandler(v1, deps.HealthUC)
	NewAuthHandler(v1, protected, admin, deps.AuthUC, cookies, loginLimit)
	NewContactHandler(v1, admin, deps.ContactUC, contactLimit)
	NewCVHandler(v1, protected, deps.CVUC, deps.CVSections)
	NewProjectHandler(optional, protected, admin, deps.ProjectUC)
	NewTechnologyHandler(v1, admin, deps.TechnologyUC)
	NewUploadHandler(protected, deps.UploadUC, cfg.UploadMaxMB)

	return r
}
