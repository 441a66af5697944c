package llm

import (
	"context"
	"time"
)

// Client defines the interface for LLM providers.
type Client interface {
	// Complete sends a single prompt and returns the raw text completion.
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config holds configuration for an LLM provider.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	Timeout     time.Duration
	RateLimit   int // requests per minute, 0 disables limiting
	// Temperature is the sampling temperature; nil selects the default. Zero
	// is a valid setting.
	Temperature *float64
	MaxTokens   int
}

const (
	defaultTemperature = 0.2
	defaultMaxTokens   = 1024
	defaultTimeout     = 30 * time.Second
)

// systemPrompt is sent to providers that accept a separate system message.
const systemPrompt = "You are a mortgage loan processor expert. Respond only with one 'Field: Value' line per field, in the exact format requested. Do not add commentary or markdown."

func (c Config) temperature() float64 {
	if c.Temperature == nil {
		return defaultTemperature
	}
	return *c.Temperature
}

func (c Config) maxTokens() int {
	if c.MaxTokens == 0 {
		return defaultMaxTokens
	}
	return c.MaxTokens
}

func (c Config) timeout() time.Duration {
	if c.Timeout == 0 {
		return defaultTimeout
	}
	return c.Timeout
}
