package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Retrieval.OutputK != 5 {
		t.Errorf("OutputK = %d, want 5", cfg.Retrieval.OutputK)
	}
	if cfg.Retrieval.Signature.Width != 64 || cfg.Retrieval.Signature.BitsPerTerm != 4 {
		t.Errorf("signature = %+v, want width 64 and 4 bits", cfg.Retrieval.Signature)
	}
	if cfg.Store.Backend != "json" {
		t.Errorf("Backend = %q, want json", cfg.Store.Backend)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
retrieval:
  model: vector
  outputK: 10
  signature:
    width: 128
redis:
  cacheTTL: 5s
store:
  backend: sqlite
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("IR_RETRIEVAL_STEMMER", "snowball")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Retrieval.Model != "vector" || cfg.Retrieval.OutputK != 10 {
		t.Errorf("retrieval = %+v", cfg.Retrieval)
	}
	if cfg.Retrieval.Signature.Width != 128 || cfg.Retrieval.Signature.BitsPerTerm != 4 {
		t.Errorf("signature = %+v, want width from file and default bits", cfg.Retrieval.Signature)
	}
	if cfg.Redis.CacheTTL != 5*time.Second {
		t.Errorf("CacheTTL = %v", cfg.Redis.CacheTTL)
	}
	if cfg.Retrieval.Stemmer != "snowball" {
		t.Errorf("Stemmer = %q, want env override", cfg.Retrieval.Stemmer)
	}
	if cfg.Store.Backend != "sqlite" {
		t.Errorf("Backend = %q", cfg.Store.Backend)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero k", func(c *Config) { c.Retrieval.OutputK = 0 }},
		{"zero width", func(c *Config) { c.Retrieval.Signature.Width = 0 }},
		{"zero bits", func(c *Config) { c.Retrieval.Signature.BitsPerTerm = 0 }},
		{"bad match", func(c *Config) { c.Retrieval.Signature.Match = "xor" }},
		{"bad backend", func(c *Config) { c.Store.Backend = "mongo" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load of a missing file should fail")
	}
}

func TestEnvOverridesServiceToggles(t *testing.T) {
	t.Setenv("IR_ANALYTICS_ENABLED", "true")
	t.Setenv("IR_RATE_LIMIT_RPS", "0")
	t.Setenv("IR_REDIS_ADDR", "cache:6379")
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Analytics.Enabled {
		t.Error("analytics not enabled")
	}
	if cfg.RateLimit.RequestsPerSecond != 0 || cfg.RateLimit.Burst != 100 {
		t.Errorf("rate limit = %+v", cfg.RateLimit)
	}
	if !cfg.Redis.Enabled || cfg.Redis.Addr != "cache:6379" {
		t.Errorf("redis = %+v", cfg.Redis)
	}
}
