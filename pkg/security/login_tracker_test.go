package security

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-backend/internal/domain"
)

func TestLoginTrackerWithoutRedisFailsOpen(t *testing.T) {
	al, logs := newObservedLogger()
	lt := NewLoginTracker(nil, LoginTrackerConfig{}, al)

	blocked, err := lt.IsBlocked(context.Background(), "ada@example.com", "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, blocked)

	blocked, err = lt.RecordFailure(context.Background(), "ada@example.com", domain.ClientMeta{IP: "10.0.0.1"})
	require.NoError(t, err)
	assert.False(t, blocked)
	// the attempt is still audited
	assert.Equal(t, 1, logs.FilterMessage("login_failed").Len())

	remaining, err := lt.RemainingAttempts(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, 5, remaining)

	assert.NoError(t, lt.Reset(context.Background(), "ada@example.com", "10.0.0.1"))
}

func TestLoginTrackerDefaults(t *testing.T) {
	lt := NewLoginTracker(nil, LoginTrackerConfig{MaxAttempts: 3}, nil)
	assert.Equal(t, 3, lt.config.MaxAttempts)
	assert.Equal(t, DefaultLoginTrackerConfig().BlockDuration, lt.config.BlockDuration)
}

func TestUserKeyIsCaseInsensitiveAndHashed(t *testing.T) {
	a := userKey(failLoginUserPrefix, "Ada@Example.com")
	b := userKey(failLoginUserPrefix, "ada@example.com ")
	assert.Equal(t, a, b)
	assert.NotContains(t, a, "@")
}

func TestUploadLimiterWithoutRedisAllows(t *testing.T) {
	ul := NewUploadLimiter(nil, 0, 0)
	assert.Equal(t, 10, ul.maxPerMinute)
	assert.Equal(t, 100, ul.maxPerDay)

	allowed, retry, err := ul.AllowUpload(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Zero(t, retry)
}
