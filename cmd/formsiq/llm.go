package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/formsiq/internal/common"
	"github.com/Veraticus/formsiq/internal/confidence"
	"github.com/Veraticus/formsiq/internal/config"
	"github.com/Veraticus/formsiq/internal/extraction"
	"github.com/Veraticus/formsiq/internal/llm"
	"github.com/spf13/viper"
)

// loadConfig materializes the configuration read by initConfig.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, common.NewUserError("Invalid configuration", err)
	}
	return cfg, nil
}

// createExtractor builds the LLM client and extractor described by cfg.
// This function is shared by every command that extracts fields.
func createExtractor(cfg *config.Config, opts ...extraction.Option) (*extraction.Extractor, error) {
	client, err := llm.NewClient(cfg.LLM.ClientConfig())
	if err != nil {
		if errors.Is(err, common.ErrMissingConfig) {
			return nil, common.NewUserError(
				fmt.Sprintf("No API key for %s: set %s", cfg.LLM.Provider, cfg.LLM.APIKeyHint()), err)
		}
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	slog.Debug("Created LLM client",
		"provider", cfg.LLM.Provider,
		"model", cfg.LLM.Model,
		"examples", cfg.Extraction.Examples)

	base := []extraction.Option{
		extraction.WithLogger(slog.Default()),
		extraction.WithProvider(cfg.LLM.Provider),
		extraction.WithTimeout(cfg.LLM.Timeout),
		extraction.WithExamples(cfg.Extraction.Examples),
	}
	return extraction.New(client, confidence.New(nil), append(base, opts...)...), nil
}
