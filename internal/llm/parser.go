package llm

import (
	"fmt"
	"strings"

	"github.com/Veraticus/formsiq/internal/common"
	"github.com/Veraticus/formsiq/internal/model"
)

// FieldPair is a field name and value as written by the LLM.
type FieldPair struct {
	Name  string
	Value string
}

// SkipFunc is told about every response line that was not turned into a pair.
type SkipFunc func(line string, reason error)

// ParseResponse splits a raw "Field: Value" completion into pairs, in order.
// Lines without a colon, with an empty name or value, or with the
// "Not specified" placeholder are skipped.
func ParseResponse(raw string) []FieldPair {
	return ParseResponseWithSkips(raw, nil)
}

// ParseResponseWithSkips is ParseResponse, reporting skipped lines to onSkip.
func ParseResponseWithSkips(raw string, onSkip SkipFunc) []FieldPair {
	skip := func(line string, reason string) {
		if onSkip != nil {
			onSkip(line, fmt.Errorf("%w: %s", common.ErrParseAnomaly, reason))
		}
	}

	var pairs []FieldPair
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)

		// Skip empty lines and markdown fences
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "```") {
			skip(line, "code fence")
			continue
		}

		name, value, found := strings.Cut(line, ":")
		if !found {
			skip(line, "no colon")
			continue
		}

		name = cleanFieldName(name)
		value = strings.TrimSpace(value)

		if name == "" {
			skip(line, "empty field name")
			continue
		}
		if value == "" {
			skip(line, "empty value")
			continue
		}
		if IsPlaceholder(value) {
			continue
		}

		pairs = append(pairs, FieldPair{Name: name, Value: value})
	}

	return pairs
}

// IsPlaceholder reports whether value is the LLM's "not specified" marker.
func IsPlaceholder(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), model.NotSpecified)
}

// cleanFieldName strips list bullets and bold markers the LLM sometimes adds.
func cleanFieldName(name string) string {
	name = strings.TrimSpace(name)
	for _, prefix := range []string{"- ", "* ", "• "} {
		name = strings.TrimPrefix(name, prefix)
	}
	name = strings.Trim(name, "*_ ")
	return strings.TrimSpace(name)
}
