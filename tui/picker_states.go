package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"cutplot/gcode"
)

// File picker state handlers
func (m Model) updateFilePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.state = StateEditor
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if didSelect, path := m.picker.DidSelectFile(msg); didSelect {
		m.state = StateEditor
		return m, loadFileCmd(path)
	}
	if didSelect, path := m.picker.DidSelectDisabledFile(msg); didSelect {
		m.setStatus(fmt.Sprintf("%s is not an editable file", filepath.Base(path)), true)
		return m, cmd
	}

	return m, cmd
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	title := titleStyle.Render("Open G-code File")
	s.WriteString(title + "\n")
	s.WriteString(helpStyle.Render("Looking for "+strings.Join(gcode.EditorExtensions, ", ")+" files") + "\n\n")

	s.WriteString(m.picker.View() + "\n")

	if m.statusLine != "" && m.statusBad {
		s.WriteString(warningStyle.Render(m.statusLine) + "\n")
	}

	s.WriteString(helpStyle.Render("Enter to open, Esc to go back, Ctrl+C to quit"))

	return m.renderWithDynamicWidth(s.String())
}

// Vector picker state handlers
func (m Model) updateVectorPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.state = StateEditor
		return m, nil
	}

	var cmd tea.Cmd
	m.vectorPicker, cmd = m.vectorPicker.Update(msg)

	if didSelect, path := m.vectorPicker.DidSelectFile(msg); didSelect {
		m.state = StateEditor
		m.pending++
		m.setStatus(fmt.Sprintf("converting %s", filepath.Base(path)), false)
		return m, m.startOp(convertCmd(m.api, m.store, m.convs, path))
	}
	if didSelect, path := m.vectorPicker.DidSelectDisabledFile(msg); didSelect {
		m.setStatus(fmt.Sprintf("%s is not a drawing", filepath.Base(path)), true)
		return m, cmd
	}

	return m, cmd
}

func (m Model) viewVectorPicker() string {
	var s strings.Builder

	title := titleStyle.Render("Convert a Drawing")
	s.WriteString(title + "\n")
	s.WriteString(helpStyle.Render("Looking for "+strings.Join(gcode.VectorExtensions, ", ")+" files, the server turns them into G-code") + "\n\n")

	s.WriteString(m.vectorPicker.View() + "\n")

	if m.statusLine != "" && m.statusBad {
		s.WriteString(warningStyle.Render(m.statusLine) + "\n")
	}

	s.WriteString(helpStyle.Render("Enter to convert, Esc to go back, Ctrl+C to quit"))

	return m.renderWithDynamicWidth(s.String())
}
