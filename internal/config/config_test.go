package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != ProviderGoogle {
		t.Errorf("expected default provider %q, got %q", ProviderGoogle, cfg.Provider)
	}
	if cfg.Model != "gemini-2.0-flash-exp" {
		t.Errorf("expected default model, got %q", cfg.Model)
	}
	if cfg.Port != 8000 || cfg.Host != "0.0.0.0" {
		t.Errorf("unexpected listen address %s:%d", cfg.Host, cfg.Port)
	}
	if !cfg.AllowAllOrigins {
		t.Error("expected all origins allowed by default")
	}
	if cfg.Timeout() != 60*time.Second {
		t.Errorf("expected 60s timeout, got %s", cfg.Timeout())
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.finxan.yml")

	original := DefaultConfig()
	original.Provider = ProviderOpenAI
	original.Model = "gpt-4o"
	original.Port = 9090
	original.AllowAllOrigins = false
	original.LogFormat = "json"
	original.UsageDB = ""

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Provider != original.Provider {
		t.Errorf("provider: got %q, want %q", loaded.Provider, original.Provider)
	}
	if loaded.Model != original.Model {
		t.Errorf("model: got %q, want %q", loaded.Model, original.Model)
	}
	if loaded.Port != 9090 {
		t.Errorf("port: got %d", loaded.Port)
	}
	if loaded.AllowAllOrigins {
		t.Error("allow_all_origins should round-trip false")
	}
	if loaded.LogFormat != "json" {
		t.Errorf("log_format: got %q", loaded.LogFormat)
	}
	if loaded.UsageDB != "" {
		t.Errorf("usage_db: got %q, want empty", loaded.UsageDB)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yml"))
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Provider != ProviderGoogle {
		t.Errorf("expected default provider, got %q", cfg.Provider)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yml")
	if err := DefaultConfig().Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("FINXAN_PORT", "9999")
	t.Setenv("FINXAN_LOG_LEVEL", "debug")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Port != 9999 {
		t.Errorf("env override failed: got port %d", loaded.Port)
	}
	if loaded.LogLevel != "debug" {
		t.Errorf("env override failed: got log_level %q", loaded.LogLevel)
	}
}

func TestLoadProviderSwitchPicksDefaultModel(t *testing.T) {
	t.Setenv("FINXAN_PROVIDER", "ollama")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Model != "llama3" {
		t.Errorf("expected ollama default model, got %q", cfg.Model)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("FINXAN_TEST_DOTENV=loaded\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FINXAN_TEST_DOTENV", "")
	os.Unsetenv("FINXAN_TEST_DOTENV")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("FINXAN_TEST_DOTENV"); got != "loaded" {
		t.Errorf("expected variable from .env, got %q", got)
	}

	if err := LoadDotEnv(filepath.Join(dir, "absent.env")); err != nil {
		t.Errorf("missing .env should not be an error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"invalid provider", func(c *Config) { c.Provider = "anthropic" }, true},
		{"empty provider", func(c *Config) { c.Provider = "" }, true},
		{"empty model", func(c *Config) { c.Model = " " }, true},
		{"zero port", func(c *Config) { c.Port = 0 }, true},
		{"port too large", func(c *Config) { c.Port = 70000 }, true},
		{"negative timeout", func(c *Config) { c.RequestTimeout = -1 }, true},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }, false},
		{"negative retention", func(c *Config) { c.UsageRetention = -7 }, true},
		{"retention off", func(c *Config) { c.UsageRetention = 0 }, false},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, true},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, true},
		{"json log format", func(c *Config) { c.LogFormat = "json" }, false},
		{"bad mode", func(c *Config) { c.DefaultMode = "stream" }, true},
		{"prompt mode", func(c *Config) { c.DefaultMode = "prompt" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAPIKeyEnvVars(t *testing.T) {
	tests := []struct {
		provider ProviderType
		want     int
	}{
		{ProviderGoogle, 2},
		{ProviderOpenAI, 1},
		{ProviderOllama, 0},
	}
	for _, tt := range tests {
		if got := len(APIKeyEnvVars(tt.provider)); got != tt.want {
			t.Errorf("APIKeyEnvVars(%q) has %d vars, want %d", tt.provider, got, tt.want)
		}
	}
}

func TestRequireAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	cfg := DefaultConfig()
	if err := cfg.RequireAPIKey(); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}

	t.Setenv("GOOGLE_API_KEY", "alias-key")
	if err := cfg.RequireAPIKey(); err != nil {
		t.Errorf("alias should satisfy the key requirement: %v", err)
	}
	if got := cfg.APIKey(); got != "alias-key" {
		t.Errorf("APIKey() = %q", got)
	}

	t.Setenv("GEMINI_API_KEY", "primary-key")
	if got := cfg.APIKey(); got != "primary-key" {
		t.Errorf("GEMINI_API_KEY should take precedence, got %q", got)
	}

	cfg.Provider = ProviderOllama
	if err := cfg.RequireAPIKey(); err != nil {
		t.Errorf("ollama is keyless: %v", err)
	}
}

func TestProviderConfig(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg := DefaultConfig()
	cfg.Provider = ProviderOpenAI
	cfg.Model = "gpt-4o"
	pc := cfg.ProviderConfig()
	if pc.Type != "openai" || pc.Model != "gpt-4o" || pc.APIKey != "sk-test" {
		t.Errorf("unexpected provider config %+v", pc)
	}

	cfg.Provider = ProviderOllama
	cfg.OllamaHost = "http://gpu:11434"
	if got := cfg.ProviderConfig().BaseURL; got != "http://gpu:11434" {
		t.Errorf("ollama base url = %q", got)
	}
}

func TestValidatePort(t *testing.T) {
	for _, s := range []string{"80", "8000", "65535"} {
		if err := validatePort(s); err != nil {
			t.Errorf("validatePort(%q) = %v", s, err)
		}
	}
	for _, s := range []string{"", "0", "abc", "70000"} {
		if err := validatePort(s); err == nil {
			t.Errorf("validatePort(%q) should fail", s)
		}
	}
}

func TestRetention(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.Retention(); got != 90*24*time.Hour {
		t.Errorf("default Retention() = %v, want 90 days", got)
	}
	cfg.UsageRetention = 0
	if got := cfg.Retention(); got != 0 {
		t.Errorf("Retention() with 0 days = %v, want 0", got)
	}
}

func TestLoadRetentionFromEnv(t *testing.T) {
	t.Setenv("FINXAN_USAGE_RETENTION", "7")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.UsageRetention != 7 {
		t.Errorf("UsageRetention = %d, want 7", cfg.UsageRetention)
	}
}
