package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all platform settings.
const envPrefix = "LEXIA"

// newViper builds a pre-configured Viper instance with the platform's
// standard settings: YAML file type, LEXIA_ env prefix, automatic env
// binding, and a key replacer that maps "." → "_" so that nested keys like
// "database.host" resolve to "LEXIA_DATABASE_HOST".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	registerKeys(v)
	return v
}

// registerKeys declares every configuration key to viper.  Without an
// explicit registration viper's Unmarshal cannot see values that arrive only
// through AutomaticEnv, so env-only (12-factor) deployments would silently
// lose their overrides.
func registerKeys(v *viper.Viper) {
	for _, key := range []string{
		"server.port", "server.mode", "server.read_timeout", "server.write_timeout",
		"server.max_body_size", "server.shutdown_timeout", "server.draft_write_timeout",
		"database.host", "database.port", "database.user", "database.password",
		"database.db_name", "database.ssl_mode", "database.max_conns", "database.min_conns",
		"database.conn_max_lifetime", "database.conn_max_idle_time", "database.migration_path",
		"redis.addr", "redis.password", "redis.db", "redis.pool_size", "redis.min_idle_conns",
		"redis.dial_timeout", "redis.read_timeout", "redis.write_timeout", "redis.key_prefix",
		"kafka.brokers", "kafka.analysis_topic", "kafka.draft_topic",
		"kafka.producer_retries", "kafka.write_timeout", "kafka.enabled",
		"minio.endpoint", "minio.access_key", "minio.secret_key", "minio.bucket",
		"minio.use_ssl", "minio.presign_expiry", "minio.enabled",
		"model.provider", "model.base_url", "model.api_key",
		"model.primary_model", "model.fallback_model",
		"model.max_output_tokens", "model.temperature", "model.request_timeout",
		"rate_limit.analysis_per_minute", "rate_limit.draft_per_minute",
		"rate_limit.window", "rate_limit.distributed", "rate_limit.monthly_token_budget",
		"auth.jwt_secret", "auth.token_ttl", "auth.tenant_header",
		"log.level", "log.format",
	} {
		_ = v.BindEnv(key)
	}
}

// Load reads the YAML file at configPath, merges any LEXIA_* environment
// variable overrides, applies platform defaults for unset fields, and
// validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from LEXIA_* environment variables,
// with no config file required.  Preferred for containerised deployments.
func LoadFromEnv() (*Config, error) {
	v := newViper()
	return unmarshalAndFinalize(v)
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath for changes and invokes onChange with the newly
// parsed Config whenever the file is modified on disk.  Intended for
// hot-reloading non-critical settings such as log level and rate-limit
// budgets; callers are responsible for applying only the safe subset of
// changes at runtime.
//
// Watch is non-blocking; a changed file that fails to parse or validate does
// not trigger the callback.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
}

// MustLoad is a convenience wrapper around Load that panics on any error.
// Intended for use in main() where a config-load failure is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
