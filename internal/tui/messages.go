package tui

import "github.com/Veraticus/formsiq/internal/model"

// extractionResultMsg carries the outcome of an extraction.
type extractionResultMsg struct {
	err    error
	fields []model.ExtractedField
}

// copyResultMsg reports whether the results reached the clipboard.
type copyResultMsg struct {
	err error
}
