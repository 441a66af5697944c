// Package extraction turns a transcript into scored form fields: it prompts
// the LLM once, parses the "Field: Value" reply and scores every value
// against the transcript.
package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/formsiq/internal/common"
	"github.com/Veraticus/formsiq/internal/confidence"
	"github.com/Veraticus/formsiq/internal/llm"
	"github.com/Veraticus/formsiq/internal/model"
)

// Extractor orchestrates a single extraction. It holds no per-request state
// and is safe for concurrent use.
type Extractor struct {
	client   llm.Client
	scorer   *confidence.Scorer
	prompt   *llm.PromptBuilder
	logger   *slog.Logger
	metrics  *Metrics
	provider string
	timeout  time.Duration
	examples bool
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTimeout bounds each LLM call. Zero leaves the call bounded only by the
// caller's context.
func WithTimeout(timeout time.Duration) Option {
	return func(e *Extractor) {
		e.timeout = timeout
	}
}

// WithExamples selects whether the prompt carries the worked examples.
func WithExamples(enabled bool) Option {
	return func(e *Extractor) {
		e.examples = enabled
	}
}

// WithPromptBuilder replaces the default prompt.
func WithPromptBuilder(pb *llm.PromptBuilder) Option {
	return func(e *Extractor) {
		e.prompt = pb
	}
}

// WithMetrics records extraction metrics.
func WithMetrics(m *Metrics) Option {
	return func(e *Extractor) {
		e.metrics = m
	}
}

// WithProvider names the LLM provider in log output.
func WithProvider(name string) Option {
	return func(e *Extractor) {
		e.provider = name
	}
}

// New creates an Extractor. A nil scorer uses the default field rules.
func New(client llm.Client, scorer *confidence.Scorer, opts ...Option) *Extractor {
	if scorer == nil {
		scorer = confidence.New(nil)
	}

	e := &Extractor{
		client:   client,
		scorer:   scorer,
		logger:   slog.Default(),
		examples: true,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.prompt == nil {
		var examples []llm.Example
		if e.examples {
			examples = llm.DefaultExamples()
		}
		pb, err := llm.NewPromptBuilder(scorer.Registry().Names(), examples)
		if err != nil {
			panic(fmt.Sprintf("invalid extraction prompt template: %v", err))
		}
		e.prompt = pb
	}

	return e
}

// ValidateTranscript rejects a transcript with no content.
func ValidateTranscript(transcript string) error {
	if strings.TrimSpace(transcript) == "" {
		return fmt.Errorf("%w: transcript is required", common.ErrInvalidInput)
	}
	return nil
}

// Extract returns the scored fields found in transcript, in the order the LLM
// listed them. LLM and parse failures yield an empty slice, never an error.
func (e *Extractor) Extract(ctx context.Context, transcript string) []model.ExtractedField {
	start := time.Now()
	fields := []model.ExtractedField{}

	prompt, err := e.prompt.Build(transcript)
	if err != nil {
		e.logger.Error("Failed to build extraction prompt", "error", err)
		e.metrics.outcome(OutcomePromptFailure)
		return fields
	}

	raw, err := e.complete(ctx, prompt)
	if err != nil {
		e.logger.Warn("LLM completion failed",
			"provider", e.provider,
			"error", err)
		e.metrics.outcome(OutcomeUpstreamFailure)
		return fields
	}

	pairs := llm.ParseResponseWithSkips(raw, func(line string, reason error) {
		e.logger.Debug("Skipping response line", "line", line, "reason", reason)
	})

	for _, pair := range pairs {
		score := e.scorer.Score(pair.Name, pair.Value, transcript)
		e.metrics.confidence(score)
		fields = append(fields, model.ExtractedField{
			Name:       pair.Name,
			Value:      pair.Value,
			Confidence: score,
		})
	}

	if len(fields) == 0 {
		e.metrics.outcome(OutcomeEmpty)
	} else {
		e.metrics.outcome(OutcomeSuccess)
	}

	e.logger.Info("Extraction complete",
		"fields", len(fields),
		"duration", time.Since(start))

	return fields
}

func (e *Extractor) complete(ctx context.Context, prompt string) (string, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := e.client.Complete(ctx, prompt)
	e.metrics.llmDuration(time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrUpstreamFailure, err)
	}
	return raw, nil
}
