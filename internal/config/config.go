package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/finxan/ai-service/internal/llm"
	"github.com/finxan/ai-service/internal/logging"
)

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "FINXAN_"

// ErrMissingAPIKey is returned when the selected provider needs a key and
// none is set.
var ErrMissingAPIKey = errors.New("backend API key is not configured")

// LoadDotEnv loads a .env file into the process environment. Variables
// already set are not overwritten and a missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (FINXAN_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// FINXAN_REQUEST_TIMEOUT -> request_timeout, etc.
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// A provider switch without an explicit model picks that provider's default.
	if !k.Exists("model") && cfg.Provider != ProviderGoogle {
		cfg.Model = DefaultModel(cfg.Provider)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validProviders = map[ProviderType]bool{
	ProviderGoogle: true,
	ProviderOpenAI: true,
	ProviderOllama: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if !validProviders[c.Provider] {
		return fmt.Errorf("invalid provider %q: must be one of google, openai, ollama", c.Provider)
	}

	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("model is required")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}

	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must be non-negative")
	}
	if c.UsageRetention < 0 {
		return fmt.Errorf("usage_retention must be non-negative")
	}

	switch c.DefaultMode {
	case "", "chat", "prompt":
	default:
		return fmt.Errorf("invalid default_mode %q: must be chat or prompt", c.DefaultMode)
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q: must be text or json", c.LogFormat)
	}

	return nil
}

// Timeout returns the per-request deadline, or zero for none.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// Retention returns how long usage records are kept, or zero to keep them
// forever.
func (c *Config) Retention() time.Duration {
	return time.Duration(c.UsageRetention) * 24 * time.Hour
}

// APIKeyEnvVars returns the environment variables consulted, in order, for
// the API key of the given provider.
func APIKeyEnvVars(provider ProviderType) []string {
	switch provider {
	case ProviderGoogle:
		return []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}
	case ProviderOpenAI:
		return []string{"OPENAI_API_KEY"}
	default:
		return nil
	}
}

// APIKey returns the first non-empty key for the configured provider.
func (c *Config) APIKey() string {
	for _, name := range APIKeyEnvVars(c.Provider) {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v
		}
	}
	return ""
}

// RequireAPIKey returns ErrMissingAPIKey when the provider needs a key and
// none of its variables is set.
func (c *Config) RequireAPIKey() error {
	vars := APIKeyEnvVars(c.Provider)
	if len(vars) == 0 {
		return nil
	}
	if c.APIKey() == "" {
		return fmt.Errorf("%w: set %s", ErrMissingAPIKey, strings.Join(vars, " or "))
	}
	return nil
}

// ProviderConfig builds the backend provider settings from c.
func (c *Config) ProviderConfig() llm.ProviderConfig {
	base := c.BaseURL
	if c.Provider == ProviderOllama && c.OllamaHost != "" {
		base = c.OllamaHost
	}
	return llm.ProviderConfig{
		Type:    string(c.Provider),
		Model:   c.Model,
		APIKey:  c.APIKey(),
		BaseURL: base,
	}
}
