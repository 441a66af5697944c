package tui

import (
	"github.com/Veraticus/formsiq/internal/tui/themes"
	"github.com/atotto/clipboard"
)

// Config holds TUI configuration.
type Config struct {
	Theme     themes.Theme
	Clipboard func(string) error
	Width     int
	Height    int
	AltScreen bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:     themes.Default,
		Clipboard: clipboard.WriteAll,
		Width:     100,
		Height:    30,
		AltScreen: true,
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(c *Config) {
		c.Clipboard = write
	}
}

// WithAltScreen controls whether the TUI takes over the full terminal.
func WithAltScreen(enabled bool) Option {
	return func(c *Config) {
		c.AltScreen = enabled
	}
}
