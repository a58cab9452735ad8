package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"cutplot/client"
	"cutplot/threemf"
	"cutplot/utils"
)

// Report state handlers
func (m Model) updateReport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc", " ":
		m.state = StateEditor
		m.report = reportContent{}
	}

	return m, nil
}

func (m Model) viewReport() string {
	var s strings.Builder

	title := titleStyle.Render(m.report.title)
	s.WriteString(title + "\n\n")

	if m.report.ok {
		s.WriteString(successStyle.Render("✅ "+m.report.title+" succeeded") + "\n\n")
	} else {
		s.WriteString(warningStyle.Render("Problems found") + "\n\n")
	}

	maxLineLength := 80
	if m.width > 0 {
		maxLineLength = m.width - 20 // Leave room for indentation and borders
		if maxLineLength < 40 {
			maxLineLength = 40
		}
	}

	for _, line := range m.report.lines {
		if line == "" {
			s.WriteString("\n")
			continue
		}
		styled := func(parts ...string) string { return strings.Join(parts, " ") }
		if strings.HasPrefix(line, "error:") {
			styled = errorStyle.Render
		} else if strings.HasPrefix(line, "warning:") {
			styled = warningStyle.Render
		}
		for i, wrapped := range m.wrapText(line, maxLineLength) {
			if i == 0 {
				s.WriteString(styled(wrapped) + "\n")
			} else {
				s.WriteString("    " + styled(wrapped) + "\n") // Extra indent for continuation
			}
		}
	}

	s.WriteString("\n" + helpStyle.Render("Enter or Esc to return to the editor"))

	return m.renderWithDynamicWidth(s.String())
}

// summaryLines flattens a package summary for the report screen
func summaryLines(sum threemf.Summary) []string {
	lines := []string{
		fmt.Sprintf("Archive entries: %d", sum.Entries),
		fmt.Sprintf("Payload: %s", utils.FormatFileSize(sum.PayloadSize)),
	}
	if sum.Title != "" {
		lines = append(lines, fmt.Sprintf("Title: %s", sum.Title))
	}
	if sum.ModelUnit != "" {
		lines = append(lines, fmt.Sprintf("Model unit: %s", sum.ModelUnit))
	}
	if len(sum.GCodeFiles) > 0 {
		lines = append(lines, "Embedded G-code:")
		for _, f := range sum.GCodeFiles {
			lines = append(lines, "  "+f)
		}
	}
	return lines
}

// Error state handlers
func (m Model) updateError(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.state = StateEditor
		m.err = nil
	}

	return m, nil
}

func (m Model) viewError() string {
	var s strings.Builder

	title := errorTitleStyle.Render("Error")
	s.WriteString(title + "\n\n")

	maxLineLength := 80
	if m.width > 0 {
		maxLineLength = m.width - 20
		if maxLineLength < 40 {
			maxLineLength = 40
		}
	}

	if m.err != nil {
		var apiErr *client.APIError
		if errors.As(m.err, &apiErr) {
			head := fmt.Sprintf("The server rejected %s", apiErr.Endpoint)
			if apiErr.Status > 0 {
				head = fmt.Sprintf("The server rejected %s (status %d)", apiErr.Endpoint, apiErr.Status)
			}
			s.WriteString(errorStyle.Render(head) + "\n\n")
			for _, msg := range apiErr.Messages {
				for i, wrapped := range m.wrapText(msg, maxLineLength) {
					if i == 0 {
						s.WriteString("  • " + wrapped + "\n")
					} else {
						s.WriteString("    " + wrapped + "\n")
					}
				}
			}
			if len(apiErr.Messages) > 0 {
				s.WriteString("\n")
			}
		} else {
			for _, wrapped := range m.wrapText(m.err.Error(), maxLineLength) {
				s.WriteString(errorStyle.Render(wrapped) + "\n")
			}
			s.WriteString("\n")
		}
	}

	s.WriteString(helpStyle.Render("Esc to return to the editor, Ctrl+C to quit"))

	return m.renderWithDynamicWidth(s.String())
}
