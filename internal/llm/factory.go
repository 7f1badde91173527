package llm

import (
	"fmt"
)

// DefaultOllamaHost is used when no Ollama base URL is configured.
const DefaultOllamaHost = "http://localhost:11434"

// ProviderConfig selects and configures a backend provider.
type ProviderConfig struct {
	Type    string
	Model   string
	APIKey  string
	BaseURL string
}

// NewProvider creates a new LLM provider from the given configuration.
// Supported provider types: "google", "openai", "ollama".
func NewProvider(cfg ProviderConfig) (Provider, error) {
	switch cfg.Type {
	case "google":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("google provider requires an API key (set GEMINI_API_KEY)")
		}
		p := NewGoogleProvider(cfg.APIKey, cfg.Model)
		if cfg.BaseURL != "" {
			p.baseURL = cfg.BaseURL
		}
		return p, nil

	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key (set OPENAI_API_KEY)")
		}
		return NewOpenAIProvider(cfg.APIKey, cfg.Model, cfg.BaseURL), nil

	case "ollama":
		host := cfg.BaseURL
		if host == "" {
			host = DefaultOllamaHost
		}
		return NewOllamaProvider(host, cfg.Model), nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", cfg.Type)
	}
}
