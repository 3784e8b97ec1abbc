package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisTokenBlacklist(t *testing.T) {
	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	bl, err := NewTokenBlacklist(ctx, redisURL)
	require.NoError(t, err)
	defer bl.Close()

	require.NoError(t, bl.Ping(ctx))

	token := "token-" + uuid.NewString()

	listed, err := bl.IsBlacklisted(ctx, token)
	require.NoError(t, err)
	assert.False(t, listed)

	require.NoError(t, bl.Blacklist(ctx, token, time.Now().Add(time.Minute)))

	listed, err = bl.IsBlacklisted(ctx, token)
	require.NoError(t, err)
	assert.True(t, listed)

	expired := "token-" + uuid.NewString()
	require.NoError(t, bl.Blacklist(ctx, expired, time.Now().Add(-time.Minute)))
	listed, err = bl.IsBlacklisted(ctx, expired)
	require.NoError(t, err)
	assert.False(t, listed)
}

func TestNewTokenBlacklistBadURL(t *testing.T) {
	_, err := NewTokenBlacklist(context.Background(), "not a url")
	assert.Error(t, err)
}
