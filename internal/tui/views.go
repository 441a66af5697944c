package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/formsiq/internal/cli"
	"github.com/charmbracelet/lipgloss"
)

const (
	appTitle = "FormsiQ - Form Field Extractor"

	// Below this width the panes stack vertically.
	minSideBySideWidth = 80
)

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	title := m.theme.Title.Render(appTitle)

	editorPane := m.paneStyle(PaneTranscript).Render(m.editor.View())
	resultsPane := m.paneStyle(PaneResults).Render(m.resultsView())

	var panes string
	if m.width >= minSideBySideWidth {
		panes = lipgloss.JoinHorizontal(lipgloss.Top, editorPane, " ", resultsPane)
	} else {
		panes = lipgloss.JoinVertical(lipgloss.Left, editorPane, resultsPane)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		panes,
		m.statusView(),
		m.help.View(m.keymap),
	)
}

func (m Model) paneStyle(p Pane) lipgloss.Style {
	if m.focus == p {
		return m.theme.FocusedPane
	}
	return m.theme.Pane
}

func (m Model) resultsView() string {
	if m.output == "" {
		placeholder := m.theme.Placeholder.Render("Extracted fields will appear here.")
		return lipgloss.NewStyle().
			Width(m.results.Width).
			Height(m.results.Height).
			Render(placeholder)
	}
	return m.results.View()
}

func (m Model) statusView() string {
	if m.extracting {
		return m.spinner.View() + " " + m.statusStyle.Render(m.status)
	}
	return m.statusStyle.Render(m.status)
}

// renderFields renders the extracted fields with colored confidence.
func (m Model) renderFields() string {
	if len(m.fields) == 0 {
		return m.theme.StatusWarning.Render(cli.NoFieldsMessage)
	}

	lines := make([]string, len(m.fields))
	for i, f := range m.fields {
		lines[i] = fmt.Sprintf("%s: %s %s",
			m.theme.FieldName.Render(f.Name),
			f.Value,
			m.theme.Confidence(f.Confidence).Render(fmt.Sprintf("(Confidence: %.2f)", f.Confidence)))
	}
	return strings.Join(lines, "\n")
}

// handleResize fits both panes to the terminal.
func (m *Model) handleResize() {
	// Title, blank line, status and help.
	chrome := 4
	if m.help.ShowAll {
		chrome += 3
	}

	// Border (2) and horizontal padding (2) per pane.
	const frame = 4

	paneWidth := m.width - frame
	paneHeight := m.height - chrome - 2
	if m.width >= minSideBySideWidth {
		paneWidth = (m.width-1)/2 - frame
	} else {
		paneHeight = (m.height-chrome)/2 - 2
	}

	paneWidth = max(paneWidth, 10)
	paneHeight = max(paneHeight, 3)

	m.editor.SetWidth(paneWidth)
	m.editor.SetHeight(paneHeight)
	m.results.Width = paneWidth
	m.results.Height = paneHeight
	m.help.Width = m.width
}
