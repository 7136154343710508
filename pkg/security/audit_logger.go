package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of security event
type EventType string

const (
	EventLoginFailed        EventType = "login_failed"
	EventLoginBlocked       EventType = "login_blocked"
	EventLoginSuccess       EventType = "login_success"
	EventRateLimitTriggered EventType = "rate_limit_triggered"
	EventUnauthorizedAccess EventType = "unauthorized_access"
	EventForbiddenAccess    EventType = "forbidden_access"
	EventBlockCreated       EventType = "block_created"
	EventRoleModified       EventType = "role_modified"
	EventDataExport         EventType = "data_export"
	EventUploadRejected     EventType = "upload_rejected"
)

// eventLevels maps each event to its log level. Unknown events log at warn.
var eventLevels = map[EventType]zapcore.Level{
	EventLoginSuccess:       zapcore.InfoLevel,
	EventDataExport:         zapcore.InfoLevel,
	EventRoleModified:       zapcore.WarnLevel,
	EventLoginFailed:        zapcore.WarnLevel,
	EventRateLimitTriggered: zapcore.WarnLevel,
	EventUnauthorizedAccess: zapcore.WarnLevel,
	EventForbiddenAccess:    zapcore.WarnLevel,
	EventUploadRejected:     zapcore.WarnLevel,
	EventLoginBlocked:       zapcore.ErrorLevel,
	EventBlockCreated:       zapcore.ErrorLevel,
}

// SecurityEvent represents a security-related event to be logged
type SecurityEvent struct {
	Timestamp    time.Time
	Event        EventType
	SubjectType  string // "email", "ip", "user_id"
	SubjectValue string // hashed for emails
	IP           string
	UserAgent    string
	RequestID    string
	Details      map[string]any
}

// AuditLogger writes security events as structured zap entries, separate from
// the application log.
type AuditLogger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
}

// NewZapLogger builds the production zap config used for the audit stream.
func NewZapLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build(zap.AddStacktrace(zapcore.DPanicLevel))
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return logger
}

func NewAuditLogger(zapLogger *zap.Logger, serviceName, environment string) *AuditLogger {
	if zapLogger == nil {
		zapLogger = zap.NewNop()
	}
	return &AuditLogger{
		zapLogger:   zapLogger,
		serviceName: serviceName,
		environment: environment,
	}
}

// Log logs a security event
func (al *AuditLogger) Log(ctx context.Context, event SecurityEvent) {
	if al == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	level, ok := eventLevels[event.Event]
	if !ok {
		level = zapcore.WarnLevel
	}

	fields := []zap.Field{
		zap.String("service", al.serviceName),
		zap.String("env", al.environment),
		zap.String("event", string(event.Event)),
		zap.Time("occurred_at", event.Timestamp),
	}
	if event.SubjectType != "" {
		fields = append(fields, zap.String("subject_type", event.SubjectType))
	}
	if event.SubjectValue != "" {
		fields = append(fields, zap.String("subject_value", event.SubjectValue))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.UserAgent != "" {
		fields = append(fields, zap.String("user_agent", event.UserAgent))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		fields = append(fields, zap.Any("details", event.Details))
	}

	al.zapLogger.Log(level, string(event.Event), fields...)
}

// LogLoginFailed logs a failed login attempt
func (al *AuditLogger) LogLoginFailed(ctx context.Context, email, ip, userAgent, requestID, reason string) {
	al.Log(ctx, SecurityEvent{
		Event:        EventLoginFailed,
		SubjectType:  "email",
		SubjectValue: HashValue(normalizeEmail(email)),
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      map[string]any{"reason": reason},
	})
}

// LogLoginBlocked logs a login refused because of an active block
func (al *AuditLogger) LogLoginBlocked(ctx context.Context, email, ip, userAgent, requestID string) {
	al.Log(ctx, SecurityEvent{
		Event:        EventLoginBlocked,
		SubjectType:  "email",
		SubjectValue: HashValue(normalizeEmail(email)),
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      map[string]any{"reason": "too_many_failed_attempts"},
	})
}

func (al *AuditLogger) LogLoginSuccess(ctx context.Context, userID, ip, userAgent, requestID string) {
	al.Log(ctx, SecurityEvent{
		Event:        EventLoginSuccess,
		SubjectType:  "user_id",
		SubjectValue: userID,
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
	})
}

// LogRateLimitTriggered logs when rate limiting is triggered
func (al *AuditLogger) LogRateLimitTriggered(ctx context.Context, ip, userAgent, requestID, endpoint string) {
	al.Log(ctx, SecurityEvent{
		Event:        EventRateLimitTriggered,
		SubjectType:  "ip",
		SubjectValue: ip,
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      map[string]any{"endpoint": endpoint},
	})
}

// LogAccessDenied records a guard rejection. status is 401 or 403.
func (al *AuditLogger) LogAccessDenied(ctx context.Context, status int, subject, ip, requestID, path, reason string) {
	event := EventUnauthorizedAccess
	if status == 403 {
		event = EventForbiddenAccess
	}
	al.Log(ctx, SecurityEvent{
		Event:        event,
		SubjectType:  "user_id",
		SubjectValue: subject,
		IP:           ip,
		RequestID:    requestID,
		Details:      map[string]any{"path": path, "reason": reason},
	})
}

// LogBlockCreated logs when a block is created
func (al *AuditLogger) LogBlockCreated(ctx context.Context, email, ip, requestID string, durationMinutes int) {
	al.Log(ctx, SecurityEvent{
		Event:        EventBlockCreated,
		SubjectType:  "email",
		SubjectValue: HashValue(normalizeEmail(email)),
		IP:           ip,
		RequestID:    requestID,
		Details:      map[string]any{"duration_minutes": durationMinutes},
	})
}

func (al *AuditLogger) LogRoleModified(ctx context.Context, actorID, targetID, role string) {
	al.Log(ctx, SecurityEvent{
		Event:        EventRoleModified,
		SubjectType:  "user_id",
		SubjectValue: targetID,
		Details:      map[string]any{"actor_id": actorID, "role": role},
	})
}

func (al *AuditLogger) LogDataExport(ctx context.Context, actorID, resource, format string, rows int) {
	al.Log(ctx, SecurityEvent{
		Event:        EventDataExport,
		SubjectType:  "user_id",
		SubjectValue: actorID,
		Details:      map[string]any{"resource": resource, "format": format, "rows": rows},
	})
}

func (al *AuditLogger) LogUploadRejected(ctx context.Context, userID, filename, reason string) {
	al.Log(ctx, SecurityEvent{
		Event:        EventUploadRejected,
		SubjectType:  "user_id",
		SubjectValue: userID,
		Details:      map[string]any{"filename": filename, "reason": reason},
	})
}

// Sync flushes any buffered log entries
func (al *AuditLogger) Sync() error {
	return al.zapLogger.Sync()
}

// MaskEmail masks an email for display (e.g., "j***@example.com")
func MaskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if len(email) < 3 || at < 0 {
		return "***"
	}
	if at <= 1 {
		return "***" + email[at:]
	}
	return email[:1] + "***" + email[at:]
}

// HashValue creates a SHA256 hash of a value (for logging without PII)
func HashValue(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8])
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
