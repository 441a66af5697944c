package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Veraticus/formsiq/internal/common"
	"github.com/Veraticus/formsiq/internal/llm"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables that override config keys.
const EnvPrefix = "FORMSIQ"

// Config is the materialized application configuration.
type Config struct {
	Logging    LoggingConfig
	LLM        LLMConfig
	Server     ServerConfig
	Extraction ExtractionConfig
}

// LLMConfig selects and tunes the LLM provider.
type LLMConfig struct {
	Provider    string
	Model       string
	BaseURL     string
	APIKey      string
	Temperature float64
	MaxTokens   int
	RateLimit   int
	Timeout     time.Duration
}

// ExtractionConfig tunes the extraction prompt.
type ExtractionConfig struct {
	Examples bool
}

// ServerConfig configures the HTTP endpoint.
type ServerConfig struct {
	Host         string
	Port         int
	MaxBodyBytes int64
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	Level  string
	Format string
}

// apiKeyEnv lists the conventional environment variables per provider,
// consulted when no key is configured.
var apiKeyEnv = map[string][]string{
	llm.ProviderGemini:    {"GOOGLE_API_KEY", "GEMINI_API_KEY"},
	llm.ProviderOpenAI:    {"OPENAI_API_KEY"},
	llm.ProviderAnthropic: {"ANTHROPIC_API_KEY"},
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("llm.provider", llm.ProviderGemini)
	v.SetDefault("llm.temperature", 0.2)
	v.SetDefault("llm.max_tokens", 1024)
	v.SetDefault("llm.timeout", 30*time.Second)
	v.SetDefault("llm.rate_limit", 0)
	v.SetDefault("extraction.examples", true)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// BindEnv makes every key overridable by FORMSIQ_ prefixed variables,
// e.g. FORMSIQ_LLM_PROVIDER.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load materializes the configuration held by v. Precedence for the API key
// is the llm.<provider>_api_key key, then the provider's conventional
// environment variable.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		LLM: LLMConfig{
			Provider:    strings.ToLower(v.GetString("llm.provider")),
			Model:       v.GetString("llm.model"),
			BaseURL:     v.GetString("llm.base_url"),
			Temperature: v.GetFloat64("llm.temperature"),
			MaxTokens:   v.GetInt("llm.max_tokens"),
			RateLimit:   v.GetInt("llm.rate_limit"),
			Timeout:     v.GetDuration("llm.timeout"),
		},
		Extraction: ExtractionConfig{
			Examples: v.GetBool("extraction.examples"),
		},
		Server: ServerConfig{
			Host:         v.GetString("server.host"),
			Port:         v.GetInt("server.port"),
			MaxBodyBytes: v.GetInt64("server.max_body_bytes"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
	}

	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = llm.ProviderGemini
	}
	cfg.LLM.APIKey = resolveAPIKey(v, cfg.LLM.Provider)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolveAPIKey(v *viper.Viper, provider string) string {
	if key := v.GetString("llm." + provider + "_api_key"); key != "" {
		return key
	}
	for _, name := range apiKeyEnv[provider] {
		if key := os.Getenv(name); key != "" {
			return key
		}
	}
	return ""
}

// Validate checks value ranges. A missing API key is reported later, by the
// commands that need a client.
func (c *Config) Validate() error {
	if _, ok := apiKeyEnv[c.LLM.Provider]; !ok {
		return fmt.Errorf("%w: unsupported llm.provider %q", common.ErrInvalidConfig, c.LLM.Provider)
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("%w: llm.timeout must be positive", common.ErrInvalidConfig)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("%w: llm.temperature must be between 0 and 2", common.ErrInvalidConfig)
	}
	if c.LLM.MaxTokens < 0 || c.LLM.RateLimit < 0 {
		return fmt.Errorf("%w: llm.max_tokens and llm.rate_limit cannot be negative", common.ErrInvalidConfig)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", common.ErrInvalidConfig, c.Server.Port)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: server.max_body_bytes must be positive", common.ErrInvalidConfig)
	}
	if _, err := common.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "console", "json", "":
	default:
		return fmt.Errorf("%w: invalid logging.format %q", common.ErrInvalidConfig, c.Logging.Format)
	}
	return nil
}

// ClientConfig converts the LLM settings for llm.NewClient.
func (c LLMConfig) ClientConfig() llm.Config {
	temperature := c.Temperature
	return llm.Config{
		Provider:    c.Provider,
		APIKey:      c.APIKey,
		Model:       c.Model,
		BaseURL:     c.BaseURL,
		Timeout:     c.Timeout,
		RateLimit:   c.RateLimit,
		Temperature: &temperature,
		MaxTokens:   c.MaxTokens,
	}
}

// APIKeyHint names where the API key for the provider can be set.
func (c LLMConfig) APIKeyHint() string {
	names := append([]string{"llm." + c.Provider + "_api_key"}, apiKeyEnv[c.Provider]...)
	return strings.Join(names, " or ")
}
