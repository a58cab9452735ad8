package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors - Professional blue/purple theme
	primaryColor   = lipgloss.Color("#7C3AED") // Purple
	secondaryColor = lipgloss.Color("#3B82F6") // Blue
	accentColor    = lipgloss.Color("#06B6D4") // Cyan
	successColor   = lipgloss.Color("#10B981") // Green
	warningColor   = lipgloss.Color("#F59E0B") // Amber
	errorColor     = lipgloss.Color("#EF4444") // Red
	mutedColor     = lipgloss.Color("#6B7280") // Gray
	textColor      = lipgloss.Color("#F9FAFB") // Light gray

	// Box container
	boxStyle = lipgloss.NewStyle().
			Padding(2, 3).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(secondaryColor).
			Align(lipgloss.Left)

	// Title styles
	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			PaddingBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(textColor).
			PaddingBottom(1)

	// Input styles
	inputFieldStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Bold(true)

	inputTextStyle = lipgloss.NewStyle().
			Foreground(textColor)

	// Placeholder text style
	placeholderStyle = lipgloss.NewStyle().
				Foreground(mutedColor).
				Italic(true)

	// Status styles
	successStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	errorTitleStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true).
			PaddingBottom(1)

	// Highlight style
	highlightStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	// Help text
	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	// Connection indicator
	connectedStyle = lipgloss.NewStyle().
			Foreground(successColor)

	disconnectedStyle = lipgloss.NewStyle().
				Foreground(mutedColor)

	// Session summary pane styles
	sessionActionStyle = lipgloss.NewStyle().
				Foreground(accentColor).
				Italic(true)

	sessionStatusStyle = lipgloss.NewStyle().
				Foreground(mutedColor)

	sessionSuccessValueStyle = lipgloss.NewStyle().
					Foreground(successColor)

	sessionWarningValueStyle = lipgloss.NewStyle().
					Foreground(warningColor)

	sessionErrorValueStyle = lipgloss.NewStyle().
				Foreground(errorColor)

	sessionNeutralValueStyle = lipgloss.NewStyle().
					Foreground(textColor)
)
