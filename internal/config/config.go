// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger" yaml:"logger"`
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	GitHub    GitHubConfig    `mapstructure:"github" yaml:"github"`
	LLM       LLMRouterConfig `mapstructure:"llm" yaml:"llm"`
	Retrieval RetrievalConfig `mapstructure:"retrieval" yaml:"retrieval"`
	Analysis  AnalysisConfig  `mapstructure:"analysis" yaml:"analysis"`
	Signature SignatureConfig `mapstructure:"signature" yaml:"signature"`
}

// LoggerConfig controls the zap logger and its file rotation.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// ServerConfig controls the HTTP transport exposed to the dashboard.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" yaml:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

// GitHubConfig controls the commit provider client.
type GitHubConfig struct {
	BaseURL    string        `mapstructure:"base_url" yaml:"base_url"`
	Token      string        `mapstructure:"token" yaml:"token"`
	APITimeout time.Duration `mapstructure:"api_timeout" yaml:"api_timeout"`
	UserAgent  string        `mapstructure:"user_agent" yaml:"user_agent"`
	// Client-side request rate toward the provider, requests per second.
	RateLimit float64 `mapstructure:"rate_limit" yaml:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst" yaml:"rate_burst"`
	// FetchConcurrency caps parallel commit-detail fetches inside one batch.
	FetchConcurrency int `mapstructure:"fetch_concurrency" yaml:"fetch_concurrency"`
}

// LLMProvider identifies a supported language-model backend.
type LLMProvider string

const (
	ProviderAzureOpenAI LLMProvider = "azure-openai"
	ProviderOpenAI      LLMProvider = "openai"
	ProviderGoogle      LLMProvider = "google"
)

// LLMRouterConfig selects the default model and holds per-model settings.
type LLMRouterConfig struct {
	DefaultModel string                    `mapstructure:"default_model" yaml:"default_model"`
	Models       map[string]LLMModelConfig `mapstructure:"models" yaml:"models"`
}

// LLMModelConfig defines the configuration for a single LLM.
type LLMModelConfig struct {
	Provider   LLMProvider   `mapstructure:"provider" yaml:"provider"`
	Model      string        `mapstructure:"model" yaml:"model"`
	APIKey     string        `mapstructure:"api_key" yaml:"api_key"`
	Endpoint   string        `mapstructure:"endpoint" yaml:"endpoint"`
	APIVersion string        `mapstructure:"api_version" yaml:"api_version"`
	Deployment string        `mapstructure:"deployment" yaml:"deployment"`
	APITimeout time.Duration `mapstructure:"api_timeout" yaml:"api_timeout"`
	MaxTokens  int           `mapstructure:"max_tokens" yaml:"max_tokens"`
}

// RetrievalConfig controls the knowledge-index search client and the
// formatting rules applied to its hits before prompt insertion.
type RetrievalConfig struct {
	Endpoint   string        `mapstructure:"endpoint" yaml:"endpoint"`
	APIKey     string        `mapstructure:"api_key" yaml:"api_key"`
	IndexName  string        `mapstructure:"index_name" yaml:"index_name"`
	APITimeout time.Duration `mapstructure:"api_timeout" yaml:"api_timeout"`
	// TopK is deliberately 1 by default: precision over recall keeps the
	// prompt size bounded.
	TopK            int     `mapstructure:"top_k" yaml:"top_k"`
	MinScore        float64 `mapstructure:"min_score" yaml:"min_score"`
	MaxContentChars int     `mapstructure:"max_content_chars" yaml:"max_content_chars"`
	// Synonyms expands a detected category into search terms. Empty means
	// the built-in table.
	Synonyms map[string][]string `mapstructure:"synonyms" yaml:"synonyms"`
}

// AnalysisConfig holds the sampling parameters per prompt mode.
type AnalysisConfig struct {
	GeneralTemperature  float32 `mapstructure:"general_temperature" yaml:"general_temperature"`
	CriticalTemperature float32 `mapstructure:"critical_temperature" yaml:"critical_temperature"`
	MaxTokens           int     `mapstructure:"max_tokens" yaml:"max_tokens"`
}

// SignatureConfig overrides the detector's keyword and hostname tables.
// The detection heuristics are data, not logic; empty means the built-ins.
type SignatureConfig struct {
	Keywords  map[string][]string `mapstructure:"keywords" yaml:"keywords"`
	Hostnames map[string]string   `mapstructure:"hostnames" yaml:"hostnames"`
}

// NewDefaultConfig creates a configuration populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Cannot happen with the defaults above, but fail loudly if it does.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "commitlens")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Server --
	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// -- GitHub --
	v.SetDefault("github.base_url", "https://api.github.com")
	v.SetDefault("github.api_timeout", "8s")
	v.SetDefault("github.user_agent", "commitlens/1.0")
	v.SetDefault("github.rate_limit", 5.0)
	v.SetDefault("github.rate_burst", 5)
	v.SetDefault("github.fetch_concurrency", 4)

	// -- LLM --
	v.SetDefault("llm.default_model", "azure-gpt4o")
	v.SetDefault("llm.models.azure-gpt4o.provider", "azure-openai")
	v.SetDefault("llm.models.azure-gpt4o.model", "gpt-4o")
	v.SetDefault("llm.models.azure-gpt4o.api_version", "2024-02-01")
	v.SetDefault("llm.models.azure-gpt4o.api_timeout", "60s")
	v.SetDefault("llm.models.azure-gpt4o.max_tokens", 2000)

	// -- Retrieval --
	v.SetDefault("retrieval.api_timeout", "8s")
	v.SetDefault("retrieval.top_k", 1)
	v.SetDefault("retrieval.min_score", 0.5)
	v.SetDefault("retrieval.max_content_chars", 1500)

	// -- Analysis --
	v.SetDefault("analysis.general_temperature", 0.3)
	v.SetDefault("analysis.critical_temperature", 0.1)
	v.SetDefault("analysis.max_tokens", 2000)
}

// NewConfigFromViper creates a configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config

	// Bind environment variables for sensitive data.
	v.BindEnv("github.token", "COMMITLENS_GITHUB_TOKEN")
	v.BindEnv("retrieval.api_key", "COMMITLENS_SEARCH_API_KEY")
	v.BindEnv("retrieval.endpoint", "COMMITLENS_SEARCH_ENDPOINT")
	v.BindEnv("retrieval.index_name", "COMMITLENS_SEARCH_INDEX")

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// ModelConfig resolves a model id to its configuration, falling back to the
// configured default when id is empty.
func (c *Config) ModelConfig(id string) (LLMModelConfig, error) {
	if id == "" {
		id = c.LLM.DefaultModel
	}
	mc, ok := c.LLM.Models[id]
	if !ok {
		return LLMModelConfig{}, fmt.Errorf("unknown model id %q", id)
	}
	return mc, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.GitHub.BaseURL == "" {
		return fmt.Errorf("github.base_url is a required configuration field")
	}
	if c.GitHub.RateLimit <= 0 {
		return fmt.Errorf("github.rate_limit must be positive")
	}
	if c.GitHub.FetchConcurrency <= 0 {
		return fmt.Errorf("github.fetch_concurrency must be a positive integer")
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("retrieval.top_k must be a positive integer")
	}
	if c.Analysis.MaxTokens <= 0 {
		return fmt.Errorf("analysis.max_tokens must be a positive integer")
	}
	if c.LLM.DefaultModel != "" {
		if _, ok := c.LLM.Models[c.LLM.DefaultModel]; !ok {
			return fmt.Errorf("llm.default_model %q has no entry under llm.models", c.LLM.DefaultModel)
		}
	}
	return nil
}
