package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/formsiq/internal/common"
	"github.com/Veraticus/formsiq/internal/llm"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func clearKeyEnv(t *testing.T) {
	t.Helper()
	for _, names := range apiKeyEnv {
		for _, name := range names {
			t.Setenv(name, "")
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearKeyEnv(t)

	cfg, err := Load(newViper())
	require.NoError(t, err)

	assert.Equal(t, llm.ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 1024, cfg.LLM.MaxTokens)
	assert.InDelta(t, 0.2, cfg.LLM.Temperature, 1e-9)
	assert.Empty(t, cfg.LLM.APIKey)
	assert.True(t, cfg.Extraction.Examples)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, int64(1<<20), cfg.Server.MaxBodyBytes)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_APIKey(t *testing.T) {
	tests := []struct {
		env      map[string]string
		settings map[string]any
		name     string
		want     string
	}{
		{
			name:     "configured key wins",
			settings: map[string]any{"llm.gemini_api_key": "from-config"},
			env:      map[string]string{"GOOGLE_API_KEY": "from-env"},
			want:     "from-config",
		},
		{
			name: "gemini env fallback",
			env:  map[string]string{"GOOGLE_API_KEY": "google"},
			want: "google",
		},
		{
			name: "secondary gemini env",
			env:  map[string]string{"GEMINI_API_KEY": "gemini"},
			want: "gemini",
		},
		{
			name:     "openai",
			settings: map[string]any{"llm.provider": "OpenAI"},
			env:      map[string]string{"OPENAI_API_KEY": "sk-test", "GOOGLE_API_KEY": "google"},
			want:     "sk-test",
		},
		{
			name:     "anthropic from config",
			settings: map[string]any{"llm.provider": "anthropic", "llm.anthropic_api_key": "ant"},
			want:     "ant",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearKeyEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			v := newViper()
			for k, val := range tt.settings {
				v.Set(k, val)
			}

			cfg, err := Load(v)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.LLM.APIKey)
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearKeyEnv(t)
	t.Setenv("FORMSIQ_SERVER_PORT", "9090")
	t.Setenv("FORMSIQ_LLM_TIMEOUT", "5s")
	t.Setenv("FORMSIQ_EXTRACTION_EXAMPLES", "false")

	v := newViper()
	BindEnv(v)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout)
	assert.False(t, cfg.Extraction.Examples)
}

func TestLoad_ConfigFile(t *testing.T) {
	clearKeyEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm:\n  provider: anthropic\n  model: claude-test\n  rate_limit: 20\nserver:\n  port: 8100\n"), 0o600))

	v := newViper()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderAnthropic, cfg.LLM.Provider)
	assert.Equal(t, "claude-test", cfg.LLM.Model)
	assert.Equal(t, 20, cfg.LLM.RateLimit)
	assert.Equal(t, 8100, cfg.Server.Port)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key   string
		value any
	}{
		{key: "llm.provider", value: "watson"},
		{key: "llm.timeout", value: "0s"},
		{key: "llm.temperature", value: 3.5},
		{key: "llm.rate_limit", value: -1},
		{key: "server.port", value: 70000},
		{key: "server.max_body_bytes", value: 0},
		{key: "logging.level", value: "verbose"},
		{key: "logging.format", value: "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v := newViper()
			v.Set(tt.key, tt.value)

			_, err := Load(v)
			assert.ErrorIs(t, err, common.ErrInvalidConfig)
		})
	}
}

func TestLLMConfig_ClientConfig(t *testing.T) {
	c := LLMConfig{Provider: "openai", APIKey: "k", Model: "m", Timeout: time.Second, RateLimit: 3, Temperature: 0.1, MaxTokens: 9}
	temperature := 0.1

	assert.Equal(t, llm.Config{
		Provider:    "openai",
		APIKey:      "k",
		Model:       "m",
		Timeout:     time.Second,
		RateLimit:   3,
		Temperature: &temperature,
		MaxTokens:   9,
	}, c.ClientConfig())
	assert.Equal(t, "llm.openai_api_key or OPENAI_API_KEY", c.APIKeyHint())

	c.Temperature = 0
	got := c.ClientConfig()
	require.NotNil(t, got.Temperature)
	assert.Zero(t, *got.Temperature)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("FORMSIQ_TEST_DIR", "/tmp/transcripts")

	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "~", want: home},
		{in: "~/calls", want: filepath.Join(home, "calls")},
		{in: "$FORMSIQ_TEST_DIR/a.txt", want: "/tmp/transcripts/a.txt"},
		{in: "relative/path", want: "relative/path"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}
