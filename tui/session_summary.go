package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderOutputSummary generates the content for the right pane with scrolling
func (m Model) renderOutputSummary() string {
	var s strings.Builder

	// Title for the output summary pane
	s.WriteString(highlightStyle.Render("Session Activity") + "\n\n")

	if len(m.outputSummary) == 0 {
		s.WriteString(helpStyle.Render("No operations yet.\n\nLoads, sends, conversions and\ntheir outcomes will appear\nhere as you work."))
	} else {
		// Calculate visible area (approximate based on height)
		visibleLines := m.height - 8 // Account for borders, padding, title
		if visibleLines < 5 {
			visibleLines = 5
		}

		// Apply scroll offset
		startIdx := m.outputScrollOffset
		endIdx := startIdx + visibleLines

		if startIdx >= len(m.outputSummary) {
			startIdx = len(m.outputSummary) - 1
			if startIdx < 0 {
				startIdx = 0
			}
		}

		if endIdx > len(m.outputSummary) {
			endIdx = len(m.outputSummary)
		}

		// Render visible lines
		for i := startIdx; i < endIdx; i++ {
			if i < len(m.outputSummary) {
				s.WriteString(m.outputSummary[i])
				if i < endIdx-1 {
					s.WriteString("\n")
				}
			}
		}

		// Add scroll indicator if content is scrollable
		if len(m.outputSummary) > visibleLines {
			s.WriteString("\n\n" + helpStyle.Render("PgUp/PgDn or mouse wheel to scroll"))
		}
	}

	return s.String()
}

// addToOutputSummary adds an item to the output summary
func (m *Model) addToOutputSummary(item string) {
	m.outputSummary = append(m.outputSummary, item)
}

// formatSessionAction formats an action description with italic styling
func formatSessionAction(action string) string {
	return sessionActionStyle.Render(action)
}

// formatSessionStatus formats a status line with key: value format and intelligent coloring
func formatSessionStatus(key, value string) string {
	keyStyled := sessionStatusStyle.Render(key + ": ")
	valueStyled := determineValueStyle(key, value).Render(value)
	return keyStyled + valueStyled
}

// determineValueStyle intelligently determines the appropriate style for a status value
func determineValueStyle(key, value string) lipgloss.Style {
	// Convert to lowercase for easier comparison
	lowerKey := strings.ToLower(key)
	lowerValue := strings.ToLower(value)

	// Handle special cases first before pattern matching
	switch lowerKey {
	case "file", "package", "source", "output":
		// File names stand out in warning color
		return sessionWarningValueStyle
	case "printing", "saved":
		return sessionSuccessValueStyle
	case "findings":
		if strings.HasPrefix(lowerValue, "0 errors") {
			return sessionSuccessValueStyle
		}
		return sessionWarningValueStyle
	}

	// Error indicators (red)
	errorPatterns := []string{
		"error", "failed", "failure", "not found", "missing", "invalid", "refused", "timeout",
	}
	for _, pattern := range errorPatterns {
		if strings.Contains(lowerValue, pattern) {
			return sessionErrorValueStyle
		}
	}

	// Success indicators (green)
	successPatterns := []string{
		"sent", "printing", "saved", "formatted", "hit", "complete", "ok",
	}
	for _, pattern := range successPatterns {
		if strings.Contains(lowerValue, pattern) || strings.Contains(lowerKey, pattern) {
			return sessionSuccessValueStyle
		}
	}

	// Counts read as progress
	if lowerKey == "lines" && lowerValue != "0" && lowerValue != "" {
		return sessionSuccessValueStyle
	}

	// Default neutral styling
	return sessionNeutralValueStyle
}

// addFormattedAction adds a formatted action to the output summary
func (m *Model) addFormattedAction(action string) {
	m.addToOutputSummary(formatSessionAction(action))
}

// addFormattedStatus adds a formatted status line to the output summary
func (m *Model) addFormattedStatus(key, value string) {
	m.addToOutputSummary(formatSessionStatus(key, value))
}

// addFormattedStatusIndented adds a formatted status line with indentation
func (m *Model) addFormattedStatusIndented(key, value string) {
	m.addToOutputSummary("  " + formatSessionStatus(key, value))
}

// addFormattedMapping adds a formatted source to output mapping line
func (m *Model) addFormattedMapping(source, target string) {
	sourceStyled := sessionNeutralValueStyle.Render(source)
	arrowStyled := sessionStatusStyle.Render(" -> ")
	targetStyled := sessionSuccessValueStyle.Render(target)
	m.addToOutputSummary("  " + sourceStyled + arrowStyled + targetStyled)
}
