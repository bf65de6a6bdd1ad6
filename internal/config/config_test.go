package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := NewDefaultConfig()
	cfg.Model.APIKey = "test-key"
	return cfg
}

func TestNewDefaultConfig_IsValid(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestDefaults_RateLimitBudgets(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.RateLimit.AnalysisPerMinute != 5 {
		t.Errorf("expected analysis budget 5, got %d", cfg.RateLimit.AnalysisPerMinute)
	}
	if cfg.RateLimit.DraftPerMinute != 60 {
		t.Errorf("expected draft budget 60, got %d", cfg.RateLimit.DraftPerMinute)
	}
	if cfg.RateLimit.Window != time.Minute {
		t.Errorf("expected one-minute window, got %v", cfg.RateLimit.Window)
	}
	if cfg.Server.DraftWriteTimeout != 90*time.Second {
		t.Errorf("expected 90s draft write timeout, got %v", cfg.Server.DraftWriteTimeout)
	}
}

func TestApplyDefaults_DoesNotOverwrite(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9999
	cfg.RateLimit.AnalysisPerMinute = 2
	ApplyDefaults(cfg)
	if cfg.Server.Port != 9999 {
		t.Error("ApplyDefaults overwrote server.port")
	}
	if cfg.RateLimit.AnalysisPerMinute != 2 {
		t.Error("ApplyDefaults overwrote rate_limit.analysis_per_minute")
	}
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		frag   string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"bad mode", func(c *Config) { c.Server.Mode = "turbo" }, "server.mode"},
		{"no db host", func(c *Config) { c.Database.Host = "" }, "database.host"},
		{"no db user", func(c *Config) { c.Database.User = "" }, "database.user"},
		{"bad provider", func(c *Config) { c.Model.Provider = "oracle" }, "model.provider"},
		{"no primary model", func(c *Config) { c.Model.PrimaryModel = "" }, "model.primary_model"},
		{"hot temperature", func(c *Config) { c.Model.Temperature = 3.5 }, "model.temperature"},
		{"zero analysis budget", func(c *Config) { c.RateLimit.AnalysisPerMinute = -1 }, "analysis_per_minute"},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }, "log.level"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"distributed without redis", func(c *Config) { c.RateLimit.Distributed = true; c.Redis.Addr = "" }, "redis.addr"},
		{"kafka without brokers", func(c *Config) { c.Kafka.Enabled = true; c.Kafka.Brokers = nil }, "kafka.brokers"},
		{"minio without endpoint", func(c *Config) { c.MinIO.Enabled = true; c.MinIO.Endpoint = "" }, "minio.endpoint"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.frag) {
				t.Errorf("error %q does not mention %q", err, tc.frag)
			}
		})
	}
}

func TestLoad_ReadsYAMLAndAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9090
  mode: debug
database:
  host: db.internal
  user: svc
  db_name: lexia_test
model:
  provider: gemini
  primary_model: gemini-2.0-flash
rate_limit:
  analysis_per_minute: 3
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Model.Provider != "gemini" {
		t.Errorf("expected provider gemini, got %s", cfg.Model.Provider)
	}
	if cfg.RateLimit.AnalysisPerMinute != 3 {
		t.Errorf("expected overridden analysis budget 3, got %d", cfg.RateLimit.AnalysisPerMinute)
	}
	// Unset fields picked up defaults.
	if cfg.RateLimit.DraftPerMinute != 60 {
		t.Errorf("expected default draft budget, got %d", cfg.RateLimit.DraftPerMinute)
	}
	if cfg.Redis.KeyPrefix != "lexia:" {
		t.Errorf("expected default key prefix, got %q", cfg.Redis.KeyPrefix)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoad_InvalidConfigRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  mode: bogus\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation failure for bogus mode")
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("LEXIA_SERVER_PORT", "7070")
	t.Setenv("LEXIA_MODEL_PROVIDER", "gemini")
	t.Setenv("LEXIA_MODEL_PRIMARY_MODEL", "gemini-2.0-flash")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("expected env-overridden port 7070, got %d", cfg.Server.Port)
	}
	if cfg.Model.PrimaryModel != "gemini-2.0-flash" {
		t.Errorf("expected env-overridden model, got %s", cfg.Model.PrimaryModel)
	}
}

func TestMustLoad_PanicsOnError(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	MustLoad(filepath.Join(t.TempDir(), "absent.yaml"))
}
