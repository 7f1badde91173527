package config

// DefaultConfigPath is where init writes and serve reads by default.
const DefaultConfigPath = ".finxan.yml"

// defaultModels maps each provider to the model used when none is configured.
var defaultModels = map[ProviderType]string{
	ProviderGoogle: "gemini-2.0-flash-exp",
	ProviderOpenAI: "gpt-4o-mini",
	ProviderOllama: "llama3",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:        ProviderGoogle,
		Model:           defaultModels[ProviderGoogle],
		Host:            "0.0.0.0",
		Port:            8000,
		AllowAllOrigins: true,
		RequestTimeout:  60,
		DefaultMode:     "chat",
		LogLevel:        "info",
		LogFormat:       "text",
		UsageDB:         "data/finxan.db",
		UsageRetention:  90,
	}
}

// DefaultModel returns the default model for a provider, or "" if the
// provider is unknown.
func DefaultModel(p ProviderType) string {
	return defaultModels[p]
}
