// Package confidence estimates how reliable an extracted field value is,
// given the transcript it was extracted from.
package confidence

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/Veraticus/formsiq/internal/fields"
)

// Score components.
const (
	Base            = 0.5
	TriggerBonus    = 0.20
	FormatBonus     = 0.15
	ContextBonus    = 0.15
	CompetingWeight = 0.10
	FieldBonus      = 0.10

	// ContextWindow is the number of characters inspected on each side of
	// the value's first occurrence in the transcript.
	ContextWindow = 50
)

// Scorer computes confidence scores from a field registry. It holds no
// mutable state and is safe for concurrent use.
type Scorer struct {
	registry *fields.Registry
}

// New creates a Scorer. A nil registry uses fields.Default.
func New(registry *fields.Registry) *Scorer {
	if registry == nil {
		registry = fields.Default()
	}
	return &Scorer{registry: registry}
}

// Registry returns the field registry backing the scorer.
func (s *Scorer) Registry() *fields.Registry {
	return s.registry
}

// Score returns a confidence in [0, 1], rounded to two decimals, for value
// as the extraction of fieldName from transcript.
func (s *Scorer) Score(fieldName, value, transcript string) float64 {
	rule := s.registry.Lookup(fieldName)
	trimmed := strings.TrimSpace(value)

	score := Base

	if rule.Triggered(transcript) {
		score += TriggerBonus
	}

	if rule.Formatted(trimmed) {
		score += FormatBonus
	}

	if window, ok := contextAround(transcript, value); ok && rule.Triggered(window) {
		score += ContextBonus
	}

	if rule.HasCompeting() {
		if n := rule.CompetingCount(transcript); n > 1 {
			score -= CompetingWeight * float64(n-1)
		}
	}

	score += fieldAdjustment(rule, trimmed, transcript)

	return clampRound(score)
}

// fieldAdjustment applies the field-specific bonuses declared on the rule.
func fieldAdjustment(rule *fields.Rule, value, transcript string) float64 {
	var adj float64

	if rule.MinTokens > 0 && len(strings.Fields(value)) >= rule.MinTokens {
		adj += FieldBonus
	}

	if n := rule.MentionCount(transcript); n > 1 {
		adj -= CompetingWeight * float64(n-1)
	}

	if rule.StrictlyFormatted(value) {
		adj += FieldBonus
	}

	if len(rule.Enumeration) > 0 && rule.InEnumeration(value) {
		adj += FieldBonus
	}

	return adj
}

// contextAround returns the text within ContextWindow characters of the
// first verbatim occurrence of value, clamped to the transcript bounds.
func contextAround(transcript, value string) (string, bool) {
	if value == "" {
		return "", false
	}

	pos := strings.Index(transcript, value)
	if pos == -1 {
		return "", false
	}

	start := pos
	for i := 0; i < ContextWindow && start > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(transcript[:start])
		start -= size
	}

	end := pos + len(value)
	for i := 0; i < ContextWindow && end < len(transcript); i++ {
		_, size := utf8.DecodeRuneInString(transcript[end:])
		end += size
	}

	return transcript[start:end], true
}

func clampRound(score float64) float64 {
	score = math.Min(math.Max(score, 0.0), 1.0)
	return math.Round(score*100) / 100
}
