package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Veraticus/formsiq/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAnthropicClient(t *testing.T) {
	_, err := newAnthropicClient(Config{})
	require.ErrorIs(t, err, common.ErrMissingConfig)

	client, err := newAnthropicClient(Config{APIKey: "test-key", MaxTokens: 300})
	require.NoError(t, err)
	assert.Equal(t, "claude-3-5-haiku-latest", client.model)
	assert.Equal(t, 300, client.maxTokens)
	assert.InDelta(t, defaultTemperature, client.temperature, 1e-9)
}

func TestAnthropicClient_Complete(t *testing.T) {
	t.Run("joins text blocks", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/messages", r.URL.Path)
			assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
			assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, systemPrompt, body["system"])

			_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Borrower Name: Jane Doe\n"},{"type":"tool_use"},{"type":"text","text":"Loan Amount: $1"}]}`))
		}))
		defer server.Close()

		client, err := newAnthropicClient(Config{APIKey: "test-key", BaseURL: server.URL})
		require.NoError(t, err)

		got, err := client.Complete(context.Background(), "prompt")
		require.NoError(t, err)
		assert.Equal(t, "Borrower Name: Jane Doe\nLoan Amount: $1", got)
	})

	t.Run("empty content", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"content":[]}`))
		}))
		defer server.Close()

		client, err := newAnthropicClient(Config{APIKey: "test-key", BaseURL: server.URL})
		require.NoError(t, err)

		_, err = client.Complete(context.Background(), "prompt")
		assert.ErrorIs(t, err, common.ErrUpstreamFailure)
	})

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client, err := newAnthropicClient(Config{APIKey: "test-key", BaseURL: server.URL})
		require.NoError(t, err)

		_, err = client.Complete(context.Background(), "prompt")
		require.ErrorIs(t, err, common.ErrUpstreamFailure)
		assert.Contains(t, err.Error(), "status 503")
	})
}
