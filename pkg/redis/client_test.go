package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewClientRequiresURL(t *testing.T) {
	client, err := NewClient(context.Background(), Config{})
	assert.Nil(t, client)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewClientRejectsBadURL(t *testing.T) {
	client, err := NewClient(context.Background(), Config{URL: "://nope"})
	assert.Nil(t, client)
	assert.Error(t, err)
}

func TestHealthCheckNilClient(t *testing.T) {
	assert.Error(t, HealthCheck(context.Background(), nil))
}
