package llm

import (
	"testing"

	"github.com/Veraticus/formsiq/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		wantType any
		wantErr  error
	}{
		{name: "default is gemini", config: Config{APIKey: "k"}, wantType: &geminiClient{}},
		{name: "gemini", config: Config{Provider: "Gemini", APIKey: "k"}, wantType: &geminiClient{}},
		{name: "openai", config: Config{Provider: ProviderOpenAI, APIKey: "k"}, wantType: &openAIClient{}},
		{name: "anthropic", config: Config{Provider: ProviderAnthropic, APIKey: "k"}, wantType: &anthropicClient{}},
		{name: "rate limited", config: Config{Provider: ProviderOpenAI, APIKey: "k", RateLimit: 30}, wantType: &rateLimitedClient{}},
		{name: "unknown provider", config: Config{Provider: "mystery", APIKey: "k"}, wantErr: common.ErrInvalidConfig},
		{name: "missing key", config: Config{Provider: ProviderAnthropic}, wantErr: common.ErrMissingConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.config)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, client)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, client)
		})
	}
}
