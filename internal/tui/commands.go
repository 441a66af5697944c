package tui

import (
	"context"

	"github.com/Veraticus/formsiq/internal/model"
	tea "github.com/charmbracelet/bubbletea"
)

func extractCmd(ctx context.Context, extractor Extractor, transcript string) tea.Cmd {
	return func() tea.Msg {
		fields, err := extractor.Extract(ctx, transcript)
		return extractionResultMsg{fields: fields, err: err}
	}
}

func copyCmd(write func(string) error, text string) tea.Cmd {
	return func() tea.Msg {
		return copyResultMsg{err: write(text)}
	}
}

// localExtractor adapts an in-process extractor, which never fails.
type localExtractor struct {
	extractor interface {
		Extract(ctx context.Context, transcript string) []model.ExtractedField
	}
}

// Local wraps an in-process extractor for use by the TUI.
func Local(extractor interface {
	Extract(ctx context.Context, transcript string) []model.ExtractedField
}) Extractor {
	return localExtractor{extractor: extractor}
}

func (l localExtractor) Extract(ctx context.Context, transcript string) ([]model.ExtractedField, error) {
	return l.extractor.Extract(ctx, transcript), nil
}
