package security

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"portfolio-backend/internal/domain"
)

// LoginTrackerConfig holds configuration for login tracking
type LoginTrackerConfig struct {
	MaxAttempts   int           // failed attempts before a block
	AttemptWindow time.Duration // window the counter lives for
	BlockDuration time.Duration
	UseIPTracking bool
}

// DefaultLoginTrackerConfig returns sensible defaults
func DefaultLoginTrackerConfig() LoginTrackerConfig {
	return LoginTrackerConfig{
		MaxAttempts:   5,
		AttemptWindow: 15 * time.Minute,
		BlockDuration: 15 * time.Minute,
		UseIPTracking: true,
	}
}

// LoginTracker tracks failed login attempts in Redis and enforces blocks.
// With a nil client it fails open.
type LoginTracker struct {
	client *goredis.Client
	config LoginTrackerConfig
	audit  *AuditLogger
}

var _ domain.LoginGuard = (*LoginTracker)(nil)

func NewLoginTracker(client *goredis.Client, config LoginTrackerConfig, audit *AuditLogger) *LoginTracker {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = DefaultLoginTrackerConfig().MaxAttempts
	}
	if config.AttemptWindow <= 0 {
		config.AttemptWindow = DefaultLoginTrackerConfig().AttemptWindow
	}
	if config.BlockDuration <= 0 {
		config.BlockDuration = DefaultLoginTrackerConfig().BlockDuration
	}
	return &LoginTracker{client: client, config: config, audit: audit}
}

// Redis key patterns
const (
	failLoginUserPrefix    = "fail:login:user:"
	failLoginIPPrefix      = "fail:login:ip:"
	blockedLoginUserPrefix = "blocked:login:user:"
	blockedLoginIPPrefix   = "blocked:login:ip:"
)

// KEYS[1] = counter key, ARGV[1] = TTL seconds. Returns the new count.
const incrWithTTLScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`

var incrWithTTL = goredis.NewScript(incrWithTTLScript)

// userKey hashes the email so addresses never appear in Redis.
func userKey(prefix, email string) string {
	return prefix + HashValue(strings.ToLower(strings.TrimSpace(email)))
}

// IsBlocked checks if the given email or IP is currently blocked
func (lt *LoginTracker) IsBlocked(ctx context.Context, email, ip string) (bool, error) {
	if lt.client == nil {
		return false, nil
	}

	keys := []string{userKey(blockedLoginUserPrefix, email)}
	if lt.config.UseIPTracking && ip != "" {
		keys = append(keys, blockedLoginIPPrefix+ip)
	}

	exists, err := lt.client.Exists(ctx, keys...).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check login block: %w", err)
	}
	return exists > 0, nil
}

// RecordFailure counts a failed attempt and creates a block once the limit is
// reached. It reports whether the subject is now blocked.
func (lt *LoginTracker) RecordFailure(ctx context.Context, email string, meta domain.ClientMeta) (bool, error) {
	lt.audit.LogLoginFailed(ctx, email, meta.IP, meta.UserAgent, meta.RequestID, "invalid_credentials")

	if lt.client == nil {
		return false, nil
	}

	ttlSeconds := int(lt.config.AttemptWindow.Seconds())

	count, err := incrWithTTL.Run(ctx, lt.client, []string{userKey(failLoginUserPrefix, email)}, ttlSeconds).Int()
	if err != nil {
		return false, fmt.Errorf("failed to increment user counter: %w", err)
	}

	if lt.config.UseIPTracking && meta.IP != "" {
		_ = incrWithTTL.Run(ctx, lt.client, []string{failLoginIPPrefix + meta.IP}, ttlSeconds).Err()
	}

	if count < lt.config.MaxAttempts {
		return false, nil
	}
	if err := lt.createBlock(ctx, email, meta); err != nil {
		return true, fmt.Errorf("failed to create block: %w", err)
	}
	return true, nil
}

func (lt *LoginTracker) createBlock(ctx context.Context, email string, meta domain.ClientMeta) error {
	pipe := lt.client.TxPipeline()
	pipe.Set(ctx, userKey(blockedLoginUserPrefix, email), "1", lt.config.BlockDuration)
	if lt.config.UseIPTracking && meta.IP != "" {
		pipe.Set(ctx, blockedLoginIPPrefix+meta.IP, "1", lt.config.BlockDuration)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}

	lt.audit.LogBlockCreated(ctx, email, meta.IP, meta.RequestID, int(lt.config.BlockDuration.Minutes()))
	return nil
}

// Reset clears failed login attempts on successful login
func (lt *LoginTracker) Reset(ctx context.Context, email, ip string) error {
	if lt.client == nil {
		return nil
	}

	keys := []string{userKey(failLoginUserPrefix, email)}
	if lt.config.UseIPTracking && ip != "" {
		keys = append(keys, failLoginIPPrefix+ip)
	}
	if err := lt.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to clear login attempts: %w", err)
	}
	return nil
}

// RemainingAttempts returns how many attempts remain before a block
func (lt *LoginTracker) RemainingAttempts(ctx context.Context, email string) (int, error) {
	if lt.client == nil {
		return lt.config.MaxAttempts, nil
	}

	count, err := lt.client.Get(ctx, userKey(failLoginUserPrefix, email)).Int()
	if errors.Is(err, goredis.Nil) {
		return lt.config.MaxAttempts, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get attempt count: %w", err)
	}
	return max(lt.config.MaxAttempts-count, 0), nil
}
