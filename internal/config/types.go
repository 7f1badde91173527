package config

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderGoogle ProviderType = "google"
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
)

// Config is the top-level service configuration, corresponding to .finxan.yml.
type Config struct {
	Provider        ProviderType `yaml:"provider" koanf:"provider"`
	Model           string       `yaml:"model" koanf:"model"`
	BaseURL         string       `yaml:"base_url,omitempty" koanf:"base_url"`
	OllamaHost      string       `yaml:"ollama_host,omitempty" koanf:"ollama_host"`
	Host            string       `yaml:"host" koanf:"host"`
	Port            int          `yaml:"port" koanf:"port"`
	AllowAllOrigins bool         `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	RequestTimeout  int          `yaml:"request_timeout" koanf:"request_timeout"` // seconds
	DefaultMode     string       `yaml:"default_mode" koanf:"default_mode"`
	LogLevel        string       `yaml:"log_level" koanf:"log_level"`
	LogFormat       string       `yaml:"log_format" koanf:"log_format"`
	UsageDB         string       `yaml:"usage_db" koanf:"usage_db"`
	UsageRetention  int          `yaml:"usage_retention" koanf:"usage_retention"` // days, 0 keeps everything
}
