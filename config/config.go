package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string // development | production
	DBUrl       string
	FrontendURL string

	// Supabase (row storage, auth, object storage)
	SupabaseUrl        string
	SupabaseAnonKey    string
	SupabaseServiceKey string
	SupabaseJWTSecret  string
	AuthVerifyMode     string // remote | jwt

	// Cookies
	CORSAllowedOrigins []string
	CookieDomain       string
	CookieSameSite     string // strict | lax
	AccessTokenMaxAge  int    // seconds
	RefreshTokenMaxAge int    // seconds
	CSRFEnabled        bool

	// SMTP
	SMTPHost         string
	SMTPPort         string
	SMTPUsername     string
	SMTPPassword     string
	SMTPFromEmail    string
	SMTPFromName     string
	ContactEmailTo   string
	ContactAutoReply bool

	// Redis
	RedisURL      string
	RedisPassword string

	// Rate limiting / login protection
	RateLimitWindowSeconds    int
	RateLimitGlobalThreshold  int
	RateLimitContactThreshold int
	RateLimitLoginThreshold   int
	FailedLoginMaxAttempts    int
	FailedLoginBlockMinutes   int

	// Object storage
	StorageProvider   string // supabase | s3
	StorageBucket     string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Endpoint        string
	S3PublicBaseURL   string
	UploadMaxMB       int
	UploadsPerMinute  int
	UploadsPerDay     int

	// Optional clamd daemon; uploads are not scanned when empty
	ClamAVAddress        string
	ClamAVTimeoutSeconds int

	// Logging
	LogLevel string
	LogFile  string
}

func LoadConfig() (*Config, error) {
	// .env is only present locally; ignore the error elsewhere
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         strings.ToLower(getEnv("APP_ENV", "development")),
		DBUrl:       getEnv("DATABASE_URL", ""),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),

		// Trailing slash would produce .co//auth style URLs
		SupabaseUrl:        strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
		SupabaseAnonKey:    getEnv("SUPABASE_ANON_KEY", getEnv("SUPABASE_KEY", "")),
		SupabaseServiceKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", getEnv("SUPABASE_SERVICE_KEY", "")),
		SupabaseJWTSecret:  getEnv("SUPABASE_JWT_SECRET", ""),
		AuthVerifyMode:     strings.ToLower(getEnv("AUTH_VERIFY_MODE", "remote")),

		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		CookieDomain:       getEnv("COOKIE_DOMAIN", ""),
		CookieSameSite:     strings.ToLower(getEnv("COOKIE_SAME_SITE", "strict")),
		AccessTokenMaxAge:  getEnvInt("ACCESS_TOKEN_MAX_AGE_SECONDS", 3600),
		RefreshTokenMaxAge: getEnvInt("REFRESH_TOKEN_MAX_AGE_SECONDS", 7*24*3600),
		CSRFEnabled:        getEnvBool("CSRF_ENABLED", true),

		SMTPHost:         getEnv("SMTP_HOST", ""),
		SMTPPort:         getEnv("SMTP_PORT", "587"),
		SMTPUsername:     getEnv("SMTP_USERNAME", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		SMTPFromEmail:    getEnv("SMTP_FROM_EMAIL", ""),
		SMTPFromName:     getEnv("SMTP_FROM_NAME", "Portfolio"),
		ContactEmailTo:   getEnv("CONTACT_EMAIL_TO", ""),
		ContactAutoReply: getEnvBool("CONTACT_AUTO_REPLY", true),

		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		RateLimitWindowSeconds:    getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitGlobalThreshold:  getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 120),
		RateLimitContactThreshold: getEnvInt("RATE_LIMIT_CONTACT_THRESHOLD", 5),
		RateLimitLoginThreshold:   getEnvInt("RATE_LIMIT_LOGIN_THRESHOLD", 10),
		FailedLoginMaxAttempts:    getEnvInt("FAILED_LOGIN_MAX_ATTEMPTS", 5),
		FailedLoginBlockMinutes:   getEnvInt("FAILED_LOGIN_BLOCK_MINUTES", 15),

		StorageProvider:   strings.ToLower(getEnv("STORAGE_PROVIDER", "supabase")),
		StorageBucket:     getEnv("STORAGE_BUCKET", "portfolio"),
		S3Region:          getEnv("S3_REGION", "us-east-1"),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3Endpoint:        strings.TrimRight(getEnv("S3_ENDPOINT", ""), "/"),
		S3PublicBaseURL:   strings.TrimRight(getEnv("S3_PUBLIC_BASE_URL", ""), "/"),
		UploadMaxMB:       getEnvInt("UPLOAD_MAX_MB", 5),
		UploadsPerMinute:  getEnvInt("UPLOADS_PER_MINUTE", 10),
		UploadsPerDay:     getEnvInt("UPLOADS_PER_DAY", 100),

		ClamAVAddress:        getEnv("CLAMAV_ADDRESS", ""),
		ClamAVTimeoutSeconds: getEnvInt("CLAMAV_TIMEOUT_SECONDS", 30),

		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFile:  getEnv("LOG_FILE", ""),
	}

	if cfg.ContactEmailTo == "" {
		cfg.ContactEmailTo = cfg.SMTPFromEmail
	}
	if cfg.SMTPFromEmail == "" {
		cfg.SMTPFromEmail = cfg.SMTPUsername
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}
	if cfg.SupabaseUrl == "" {
		log.Println("WARNING: SUPABASE_URL is missing. Auth and storage calls will fail.")
	}
	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

// IsProduction drives cookie Secure flags and CORS strictness.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvList splits a comma separated variable, dropping blanks.
func getEnvList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimRight(strings.TrimSpace(part), "/")
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
