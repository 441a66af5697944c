// Package tui provides the interactive terminal interface: a transcript
// editor, an extract action and a results pane that can be copied.
package tui

import (
	"context"
	"strings"

	"github.com/Veraticus/formsiq/internal/cli"
	"github.com/Veraticus/formsiq/internal/common"
	"github.com/Veraticus/formsiq/internal/model"
	"github.com/Veraticus/formsiq/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Extractor produces scored fields for a transcript.
type Extractor interface {
	Extract(ctx context.Context, transcript string) ([]model.ExtractedField, error)
}

// Pane identifies which pane has keyboard focus.
type Pane int

const (
	PaneTranscript Pane = iota
	PaneResults
)

// Status messages.
const (
	msgEnterTranscript = "Please enter a transcript."
	msgExtracting      = "Extracting fields..."
	msgCopied          = "Content copied to clipboard!"
	msgCopyFailed      = "Failed to copy to clipboard"
	msgNothingToCopy   = "Nothing to copy yet."
)

// Model holds the TUI state.
type Model struct {
	ctx         context.Context
	extractor   Extractor
	lastError   error
	statusStyle lipgloss.Style
	config      Config
	theme       themes.Theme
	keymap      KeyMap
	status      string
	output      string
	fields      []model.ExtractedField
	results     viewport.Model
	help        help.Model
	spinner     spinner.Model
	editor      textarea.Model
	width       int
	height      int
	focus       Pane
	extracting  bool
	quitting    bool
}

func newModel(ctx context.Context, extractor Extractor, cfg Config) Model {
	editor := textarea.New()
	editor.Placeholder = "Enter the call transcript here..."
	editor.ShowLineNumbers = false
	editor.CharLimit = 0
	editor.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(cfg.Theme.Primary)

	m := Model{
		ctx:       ctx,
		extractor: extractor,
		config:    cfg,
		theme:     cfg.Theme,
		keymap:    DefaultKeyMap(),
		help:      help.New(),
		editor:    editor,
		results:   viewport.New(0, 0),
		spinner:   spin,
		width:     cfg.Width,
		height:    cfg.Height,
		focus:     PaneTranscript,
	}
	m.handleResize()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.handleResize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case extractionResultMsg:
		m.extracting = false
		m.setResults(msg.fields, msg.err)
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			m.setStatus(msgCopyFailed, m.theme.StatusError)
		} else {
			m.setStatus(msgCopied, m.theme.StatusSuccess)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.extracting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.ToggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		m.handleResize()
		return m, nil

	case key.Matches(msg, m.keymap.Extract):
		return m.startExtraction()

	case key.Matches(msg, m.keymap.Copy):
		if m.output == "" {
			m.setStatus(msgNothingToCopy, m.theme.StatusWarning)
			return m, nil
		}
		return m, copyCmd(m.config.Clipboard, m.output)

	case key.Matches(msg, m.keymap.Clear):
		m.clear()
		return m, nil

	case key.Matches(msg, m.keymap.SwitchPane):
		m.toggleFocus()
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == PaneResults {
		m.results, cmd = m.results.Update(msg)
	} else {
		m.editor, cmd = m.editor.Update(msg)
	}
	return m, cmd
}

func (m Model) startExtraction() (tea.Model, tea.Cmd) {
	if m.extracting {
		return m, nil
	}

	transcript := m.editor.Value()
	if strings.TrimSpace(transcript) == "" {
		m.setStatus(msgEnterTranscript, m.theme.StatusWarning)
		return m, nil
	}

	m.extracting = true
	m.setStatus(msgExtracting, m.theme.StatusInfo)
	return m, tea.Batch(m.spinner.Tick, extractCmd(m.ctx, m.extractor, transcript))
}

// setResults stores an extraction outcome. output holds the plain text that
// Copy places on the clipboard.
func (m *Model) setResults(fields []model.ExtractedField, err error) {
	m.lastError = err
	m.fields = fields

	if err != nil {
		m.output = "Error: " + common.UserMessage(err)
		m.results.SetContent(m.theme.StatusError.Render(m.output))
		m.setStatus("", m.theme.StatusInfo)
		return
	}

	m.output = cli.FormatFields(fields)
	m.results.SetContent(m.renderFields())
	m.results.GotoTop()
	m.setStatus("", m.theme.StatusInfo)
}

func (m *Model) clear() {
	m.editor.Reset()
	m.fields = nil
	m.output = ""
	m.lastError = nil
	m.results.SetContent("")
	m.setStatus("", m.theme.StatusInfo)
	if m.focus != PaneTranscript {
		m.toggleFocus()
	}
}

func (m *Model) toggleFocus() {
	if m.focus == PaneTranscript {
		m.focus = PaneResults
		m.editor.Blur()
		return
	}
	m.focus = PaneTranscript
	m.editor.Focus()
}

func (m *Model) setStatus(text string, style lipgloss.Style) {
	m.status = text
	m.statusStyle = style
}

// Output returns the results text as it would be copied.
func (m Model) Output() string {
	return m.output
}
