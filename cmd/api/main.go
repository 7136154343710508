package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"portfolio-backend/config"
	_ "portfolio-backend/docs" // Important for Swagger
	"portfolio-backend/internal/delivery/http/middleware"
	v1 "portfolio-backend/internal/delivery/http/v1"
	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/repository/postgres"
	"portfolio-backend/internal/usecase"
	"portfolio-backend/pkg/auth"
	"portfolio-backend/pkg/database"
	"portfolio-backend/pkg/email"
	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/redis"
	"portfolio-backend/pkg/security"
	"portfolio-backend/pkg/security/antivirus"
	"portfolio-backend/pkg/storage"
	"portfolio-backend/pkg/supabase"
	"portfolio-backend/pkg/validation"
)

// @title           Portfolio Backend API
// @version         1.0
// @description     Portfolio backend: auth, CV builder, projects, contact inbox, technologies and uploads.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Loggers
	appLog := logger.New(cfg)
	zapLogger := security.NewZapLogger()
	defer zapLogger.Sync()
	audit := security.NewAuditLogger(zapLogger, "portfolio-backend", cfg.Env)
	appLog.Info("Starting portfolio backend", "port", cfg.Port)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		appLog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Redis is optional; limiters fall back to memory or fail open
	var redisClient *goredis.Client
	redisClient, err = redis.NewClient(ctx, redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
	if err != nil {
		if !errors.Is(err, redis.ErrNotConfigured) {
			appLog.Warn("Redis unavailable, using in-memory fallback", "error", err)
		}
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	// 5. Provider clients
	sb := supabase.NewClient(cfg.SupabaseUrl, cfg.SupabaseAnonKey, cfg.SupabaseServiceKey)
	var verifier domain.SessionVerifier = sb
	if cfg.AuthVerifyMode == "jwt" {
		jwks := auth.NewProvider(cfg.SupabaseUrl + "/auth/v1/.well-known/jwks.json")
		verifier = auth.NewVerifier(cfg.SupabaseJWTSecret, jwks)
	}

	checks := map[string]usecase.Pinger{
		"database": dbPool.Ping,
		"redis":    nil,
		"scanner":  nil,
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redis.HealthCheck(ctx, redisClient) }
	}

	var objects domain.ObjectStorage
	switch cfg.StorageProvider {
	case "s3":
		s3cfg := storage.S3Config{
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Region:          cfg.S3Region,
			Bucket:          cfg.StorageBucket,
			Endpoint:        cfg.S3Endpoint,
			PublicBaseURL:   cfg.S3PublicBaseURL,
		}
		s3Client, err := storage.NewS3Client(ctx, s3cfg)
		if err != nil {
			appLog.Error("Failed to create S3 client", "error", err)
			os.Exit(1)
		}
		s3Storage := storage.NewS3Storage(s3Client, s3cfg)
		checks["storage"] = s3Storage.Ping
		objects = s3Storage
	default:
		objects = supabase.NewStorage(sb, cfg.StorageBucket)
	}

	var scanner domain.MalwareScanner
	if cfg.ClamAVAddress != "" {
		clam := antivirus.NewClamAVScanner(cfg.ClamAVAddress, time.Duration(cfg.ClamAVTimeoutSeconds)*time.Second)
		checks["scanner"] = clam.Ping
		scanner = clam
	}

	// 6. Setup Email Service
	emailService := email.NewEmailService(cfg)
	if !emailService.IsConfigured() {
		appLog.Warn("Email service not fully configured - contact notifications and replies will be unavailable")
	}

	// 7. Setup Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	contactRepo := postgres.NewContactRepository(dbPool)
	cvRepos := postgres.NewCVRepositories(dbPool)
	projectRepo := postgres.NewProjectRepository(dbPool)
	technologyRepo := postgres.NewTechnologyRepository(dbPool)

	// 8. Setup UseCases
	validate := validation.New()
	sanitizer := validation.NewSanitizer()
	loginTracker := security.NewLoginTracker(redisClient, security.LoginTrackerConfig{
		MaxAttempts:   cfg.FailedLoginMaxAttempts,
		AttemptWindow: time.Duration(cfg.FailedLoginBlockMinutes) * time.Minute,
		BlockDuration: time.Duration(cfg.FailedLoginBlockMinutes) * time.Minute,
		UseIPTracking: true,
	}, audit)
	uploadLimiter := security.NewUploadLimiter(redisClient, cfg.UploadsPerMinute, cfg.UploadsPerDay)

	authUC := usecase.NewAuthUsecase(userRepo, sb, verifier, loginTracker, validate, audit, appLog, cfg.FrontendURL)
	contactUC := usecase.NewContactUsecase(contactRepo, emailService, validate, sanitizer, audit, appLog, cfg.ContactAutoReply)
	cvUC := usecase.NewCVUsecase(cvRepos, validate, sanitizer)
	cvSections := usecase.NewCVSections(cvRepos, validate, sanitizer)
	projectUC := usecase.NewProjectUsecase(projectRepo, technologyRepo, validate, sanitizer, appLog)
	technologyUC := usecase.NewTechnologyUsecase(technologyRepo, validate, sanitizer)
	uploadUC := usecase.NewUploadUsecase(objects, uploadLimiter, scanner, audit, appLog, cfg.UploadMaxMB)
	healthUC := usecase.NewHealthUsecase(checks)

	rateLimiter := middleware.NewRateLimiter(redisClient, audit, appLog)
	rateLimiter.StartCleanup(ctx, time.Minute)

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:       authUC,
		ContactUC:    contactUC,
		CVUC:         cvUC,
		CVSections:   cvSections,
		ProjectUC:    projectUC,
		TechnologyUC: technologyUC,
		UploadUC:     uploadUC,
		HealthUC:     healthUC,
		RateLimiter:  rateLimiter,
		Audit:        audit,
		Logger:       appLog,
		Config:       cfg,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Error("Listen failed", "error", err)
			stop()
		}
	}()

	// Graceful Shutdown
	<-ctx.Done()
	appLog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("Server forced to shutdown", "error", err)
	}

	appLog.Info("Server exiting")
}
