package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Innayatullahh/skydragon-test/utils"
	"github.com/joho/godotenv"
)

type ServerConfig struct {
	Port            string
	Mode            string
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
	// TrustedProxies lists the proxy IPs or CIDRs whose X-Forwarded-For is
	// honoured. Empty means the socket address is the client IP.
	TrustedProxies  []string
}

type RedisConfig struct {
	URL     string
	Enabled bool
}

type RabbitMQConfig struct {
	URL              string
	Exchange         string
	Enabled          bool
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

type JWTConfig struct {
	SecretKey  string
	Issuer     string
	Expiration time.Duration
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

type Config struct {
	Env       string
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	RabbitMQ  RabbitMQConfig
	JWT       JWTConfig
	Log       utils.LogConfig
	RateLimit RateLimitConfig
}

// Load reads a .env file when one is present and builds the configuration
// from the environment. Variables already set in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}
	env := utils.GetEnvAsString("GO_ENV", "development")

	redisURL := utils.GetEnvAsString("REDIS_URL", "")
	amqpURL := utils.GetEnvAsString("RABBITMQ_URL", "")

	cfg := &Config{
		Env: env,
		Server: ServerConfig{
			Port:            utils.GetEnvAsString("PORT", "8080"),
			Mode:            utils.GetEnvAsString("GIN_MODE", "release"),
			ShutdownTimeout: utils.GetEnvAsDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
			MaxBodyBytes:    int64(utils.GetEnvAsInt("MAX_BODY_BYTES", 1<<20)),
			TrustedProxies:  utils.GetEnvAsSlice("TRUSTED_PROXIES"),
		},
		Database: LoadDatabaseConfig(),
		Redis: RedisConfig{
			URL:     redisURL,
			Enabled: redisURL != "",
		},
		RabbitMQ: RabbitMQConfig{
			URL:              amqpURL,
			Exchange:         utils.GetEnvAsString("RABBITMQ_EXCHANGE", "crm.meetings.events"),
			Enabled:          amqpURL != "",
			FailureThreshold: uint32(utils.GetEnvAsUint64("RABBITMQ_BREAKER_FAILURES", 5)),
			OpenTimeout:      utils.GetEnvAsDuration("RABBITMQ_BREAKER_TIMEOUT", 30*time.Second),
		},
		JWT: JWTConfig{
			SecretKey:  os.Getenv("JWT_SECRET_KEY"),
			Issuer:     utils.GetEnvAsString("JWT_ISSUER", "crm"),
			Expiration: time.Duration(utils.GetEnvAsInt("JWT_EXPIRATION_TIME", 3600)) * time.Second,
		},
		Log: utils.LogConfig{
			Level: utils.GetEnvAsString("LOG_LEVEL", "info"),
			JSON:  utils.GetEnvAsBool("LOG_JSON", env == "production"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: utils.GetEnvAsFloat64("RATE_LIMIT_RPS", 20),
			Burst:             utils.GetEnvAsInt("RATE_LIMIT_BURST", 40),
		},
	}

	return cfg, nil
}

// Validate checks the values the server cannot start without.
func (c *Config) Validate() error {
	if c.JWT.SecretKey == "" {
		return errors.New("JWT_SECRET_KEY is required")
	}
	if c.Database.URI == "" {
		return errors.New("MONGO_URI is required")
	}
	if c.Database.DatabaseName == "" {
		return errors.New("MONGO_DB is required")
	}
	if c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0 {
		return errors.New("rate limit values must be positive")
	}
	return nil
}
