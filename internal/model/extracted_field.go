// Package model contains the core value types shared across the application.
package model

import (
	"fmt"
	"strings"
)

// NotSpecified is the placeholder the LLM uses for fields it could not extract.
const NotSpecified = "Not specified"

// ExtractedField is a single form field pulled from a transcript together with
// the heuristic confidence in its value.
type ExtractedField struct {
	Name       string  `json:"field_name"`
	Value      string  `json:"field_value"`
	Confidence float64 `json:"confidence_score"`
}

// Validate ensures the ExtractedField has valid data.
func (f *ExtractedField) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("field name is required")
	}

	if strings.TrimSpace(f.Value) == "" {
		return fmt.Errorf("field value is required")
	}

	if strings.EqualFold(strings.TrimSpace(f.Value), NotSpecified) {
		return fmt.Errorf("field value must not be the %q placeholder", NotSpecified)
	}

	if f.Confidence < 0.0 || f.Confidence > 1.0 {
		return fmt.Errorf("confidence must be between 0.0 and 1.0, got %.2f", f.Confidence)
	}

	return nil
}

// String renders the field the way it is displayed to loan processors.
func (f ExtractedField) String() string {
	return fmt.Sprintf("%s: %s (Confidence: %.2f)", f.Name, f.Value, f.Confidence)
}
