package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("JWT_SECRET_KEY", "test_secret_key")
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("REDIS_URL", "")
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("TRUSTED_PROXIES", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "mongodb://db:27017", cfg.Database.URI)
	assert.Equal(t, "Meetings", cfg.Database.MeetingsCollection)
	assert.Equal(t, time.Hour, cfg.JWT.Expiration)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.RabbitMQ.Enabled)
	assert.Nil(t, cfg.Server.TrustedProxies)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("JWT_SECRET_KEY", "k")
	t.Setenv("MEETINGS_COLLECTION", "meetings_v2")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("JWT_EXPIRATION_TIME", "60")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1, 172.16.0.0/12")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "meetings_v2", cfg.Database.MeetingsCollection)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 2.5, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, time.Minute, cfg.JWT.Expiration)
	assert.Equal(t, []string{"10.0.0.1", "172.16.0.0/12"}, cfg.Server.TrustedProxies)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Database:  DatabaseConfig{URI: "mongodb://x", DatabaseName: "crm"},
		RateLimit: RateLimitConfig{RequestsPerSecond: 1, Burst: 1},
	}
	assert.EqualError(t, cfg.Validate(), "JWT_SECRET_KEY is required")

	cfg.JWT.SecretKey = "secret"
	assert.NoError(t, cfg.Validate())

	cfg.RateLimit.Burst = 0
	assert.Error(t, cfg.Validate())
}
