// Package config defines all configuration structures for the Lexia platform.
// No I/O or parsing logic lives here, only plain data types and validation.
package config

import (
	"fmt"
	"time"
)

// Version is the platform release tag reported in logs and analysis metadata.
const Version = "v1.0.0"

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// DraftWriteTimeout bounds the drafting stream endpoint, which holds the
	// response open far longer than ordinary JSON handlers.
	DraftWriteTimeout time.Duration `mapstructure:"draft_write_timeout"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	MinConns        int           `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	MigrationPath   string        `mapstructure:"migration_path"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// KafkaConfig holds Kafka producer parameters for completion events.
type KafkaConfig struct {
	Brokers         []string      `mapstructure:"brokers"`
	AnalysisTopic   string        `mapstructure:"analysis_topic"`
	DraftTopic      string        `mapstructure:"draft_topic"`
	ProducerRetries int           `mapstructure:"producer_retries"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	Enabled         bool          `mapstructure:"enabled"`
}

// MinIOConfig holds S3-compatible object-storage parameters for the draft
// archive.
type MinIOConfig struct {
	Endpoint      string        `mapstructure:"endpoint"`
	AccessKey     string        `mapstructure:"access_key"`
	SecretKey     string        `mapstructure:"secret_key"`
	Bucket        string        `mapstructure:"bucket"`
	UseSSL        bool          `mapstructure:"use_ssl"`
	PresignExpiry time.Duration `mapstructure:"presign_expiry"`
	Enabled       bool          `mapstructure:"enabled"`
}

// ModelConfig holds the external language-model provider parameters.
type ModelConfig struct {
	// Provider selects the completion backend: "gemini" | "openai".
	Provider string `mapstructure:"provider"`

	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`

	// PrimaryModel handles all structured-analysis calls and the first
	// drafting attempt; FallbackModel is tried when the primary fails on the
	// drafting stream.
	PrimaryModel  string `mapstructure:"primary_model"`
	FallbackModel string `mapstructure:"fallback_model"`

	MaxOutputTokens int           `mapstructure:"max_output_tokens"`
	Temperature     float64       `mapstructure:"temperature"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
}

// RateLimitConfig holds the per-user request budgets.
type RateLimitConfig struct {
	// AnalysisPerMinute bounds strategic-analysis runs per user.
	AnalysisPerMinute int `mapstructure:"analysis_per_minute"`
	// DraftPerMinute bounds drafting calls per user.
	DraftPerMinute int `mapstructure:"draft_per_minute"`
	// Window is the counting window for both limits.
	Window time.Duration `mapstructure:"window"`
	// Distributed selects the Redis-backed limiter; when false an
	// in-process token bucket is used instead.
	Distributed bool `mapstructure:"distributed"`
	// MonthlyTokenBudget caps model tokens per user per calendar month.
	// Zero disables the credit check.
	MonthlyTokenBudget int64 `mapstructure:"monthly_token_budget"`
}

// AuthConfig holds token validation parameters.
type AuthConfig struct {
	JWTSecret    string        `mapstructure:"jwt_secret"`
	TokenTTL     time.Duration `mapstructure:"token_ttl"`
	TenantHeader string        `mapstructure:"tenant_header"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format string `mapstructure:"format"` // "json" | "console"
}

// Config is the root configuration structure for the entire platform.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	MinIO     MinIOConfig     `mapstructure:"minio"`
	Model     ModelConfig     `mapstructure:"model"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Log       LogConfig       `mapstructure:"log"`
}

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers should treat any error as
// fatal and refuse to start the application.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("config: database.port %d is out of range [1, 65535]", c.Database.Port)
	}
	if c.Database.User == "" {
		return fmt.Errorf("config: database.user is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("config: database.db_name is required")
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("config: database.max_conns must be >= 1, got %d", c.Database.MaxConns)
	}

	if c.RateLimit.Distributed && c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required when rate_limit.distributed is set")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("config: redis.db must be >= 0, got %d", c.Redis.DB)
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("config: kafka.brokers must contain at least one broker when kafka is enabled")
	}
	if c.MinIO.Enabled && c.MinIO.Endpoint == "" {
		return fmt.Errorf("config: minio.endpoint is required when minio is enabled")
	}

	switch c.Model.Provider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("config: model.provider %q is invalid; expected gemini|openai", c.Model.Provider)
	}
	if c.Model.PrimaryModel == "" {
		return fmt.Errorf("config: model.primary_model is required")
	}
	if c.Model.Temperature < 0 || c.Model.Temperature > 2.0 {
		return fmt.Errorf("config: model.temperature %.2f is out of range [0, 2.0]", c.Model.Temperature)
	}
	if c.Model.MaxOutputTokens < 1 {
		return fmt.Errorf("config: model.max_output_tokens must be >= 1, got %d", c.Model.MaxOutputTokens)
	}

	if c.RateLimit.AnalysisPerMinute < 1 {
		return fmt.Errorf("config: rate_limit.analysis_per_minute must be >= 1, got %d", c.RateLimit.AnalysisPerMinute)
	}
	if c.RateLimit.DraftPerMinute < 1 {
		return fmt.Errorf("config: rate_limit.draft_per_minute must be >= 1, got %d", c.RateLimit.DraftPerMinute)
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("config: rate_limit.window must be positive")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}
