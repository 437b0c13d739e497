// Package styles defines shared lipgloss styles for the TUI.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	primaryColor   = lipgloss.Color("#5FAFAF") // Teal accent
	secondaryColor = lipgloss.Color("#666666") // Gray for secondary text
	warnColor      = lipgloss.Color("#D7AF5F") // Amber for alerts
	errorColor     = lipgloss.Color("#AF5F5F") // Muted terracotta for blocks
	successColor   = lipgloss.Color("#87AF87") // Muted sage for clean verdicts

	// TitleStyle for headers
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	// SubtleStyle for hints/help text
	SubtleStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	// SelectedStyle for selected items in lists
	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	// StatusBarStyle for bottom status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	// ContinueStyle for clean verdicts
	ContinueStyle = lipgloss.NewStyle().
			Foreground(successColor)

	// AlertStyle for advisory verdicts
	AlertStyle = lipgloss.NewStyle().
			Foreground(warnColor)

	// BlockStyle for blocking verdicts
	BlockStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(errorColor)
)

// ActionStyle returns the style for an action name.
func ActionStyle(action string) lipgloss.Style {
	switch action {
	case "block":
		return BlockStyle
	case "alert":
		return AlertStyle
	default:
		return ContinueStyle
	}
}
