package security

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// UploadLimiter enforces per-user upload quotas with a Redis sliding window.
type UploadLimiter struct {
	client       *goredis.Client
	maxPerMinute int
	maxPerDay    int
}

// KEYS[1] = key, ARGV[1] = limit, ARGV[2] = window ms, ARGV[3] = now ms,
// ARGV[4] = unique member. Returns 1 if allowed, 0 if limited.
var slidingWindow = goredis.NewScript(`
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)

if redis.call('ZCARD', key) >= limit then
    return 0
end

redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return 1
`)

// NewUploadLimiter defaults to 10 uploads/min and 100 uploads/day per user.
func NewUploadLimiter(client *goredis.Client, perMin, perDay int) *UploadLimiter {
	if perMin <= 0 {
		perMin = 10
	}
	if perDay <= 0 {
		perDay = 100
	}
	return &UploadLimiter{client: client, maxPerMinute: perMin, maxPerDay: perDay}
}

// AllowUpload returns (allowed, retryAfterSeconds, error). Without Redis every
// upload is allowed.
func (ul *UploadLimiter) AllowUpload(ctx context.Context, userID string) (bool, int, error) {
	if ul == nil || ul.client == nil {
		return true, 0, nil
	}

	now := time.Now()
	windows := []struct {
		key    string
		limit  int
		window time.Duration
		retry  int
	}{
		{fmt.Sprintf("ratelimit:upload:min:%s", userID), ul.maxPerMinute, time.Minute, 60},
		{fmt.Sprintf("ratelimit:upload:day:%s", userID), ul.maxPerDay, 24 * time.Hour, 3600},
	}

	for _, w := range windows {
		member := fmt.Sprintf("%d-%s", now.UnixNano(), w.key)
		allowed, err := slidingWindow.Run(ctx, ul.client, []string{w.key},
			w.limit, w.window.Milliseconds(), now.UnixMilli(), member).Int()
		if err != nil {
			return false, w.retry, fmt.Errorf("upload rate limit check failed: %w", err)
		}
		if allowed != 1 {
			return false, w.retry, nil
		}
	}
	return true, 0, nil
}
