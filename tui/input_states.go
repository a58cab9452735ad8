package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"cutplot/utils"
)

// Save-as state handlers
func (m Model) updateSaveAs(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = StateEditor
	case "enter":
		name := utils.CleanFilename(m.saveAsInput)
		if name == "" {
			name = m.session.CurrentFileName // Use default when field is empty
		}
		if filepath.Ext(name) == "" {
			name += ".gcode"
		}
		if !filepath.IsAbs(name) && m.loadedPath != "" {
			name = filepath.Join(filepath.Dir(m.loadedPath), name)
		}
		m.state = StateEditor
		return m, saveFileCmd(name, m.editor.Value())
	case "backspace":
		if len(m.saveAsInput) > 0 {
			m.saveAsInput = m.saveAsInput[:len(m.saveAsInput)-1]
		}
	default:
		if len(msg.String()) == 1 {
			m.saveAsInput += msg.String()
		}
	}

	return m, nil
}

func (m Model) viewSaveAs() string {
	var s strings.Builder

	title := titleStyle.Render("Save Buffer As")
	s.WriteString(title + "\n")

	s.WriteString("Enter a file name for the buffer:\n")
	s.WriteString(helpStyle.Render("Relative names land next to the loaded file, bare names get .gcode") + "\n\n")

	// Clean input styling with placeholder support
	cursor := "█"

	if m.saveAsInput == "" {
		// Show placeholder text when field is empty
		s.WriteString(inputFieldStyle.Render("Name: ") + placeholderStyle.Render(m.session.CurrentFileName) + cursor + "\n\n")
	} else {
		// Show actual input text
		s.WriteString(inputFieldStyle.Render("Name: ") + inputTextStyle.Render(m.saveAsInput) + cursor + "\n\n")
	}

	s.WriteString(helpStyle.Render("Enter to save, Esc to go back, Ctrl+C to quit"))

	return m.renderWithDynamicWidth(s.String())
}

// Discard confirmation state handlers
func (m Model) updateConfirmDiscard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		action := m.confirm
		m.confirm = actionNone
		m.setStatus("", false)
		// The buffer stays dirty until something actually replaces it;
		// backing out of the next screen keeps the edits marked.
		switch action {
		case actionOpenFile:
			m.state = StateFilePicker
			return m, m.picker.Init()
		case actionOpenVector:
			m.state = StateVectorPicker
			return m, m.vectorPicker.Init()
		case actionReload:
			m.state = StateEditor
			return m, loadFileCmd(m.loadedPath)
		case actionQuit:
			return m, tea.Quit
		}
		m.state = StateEditor
	case "n", "N", "esc":
		m.confirm = actionNone
		m.state = StateEditor
	}

	return m, nil
}

func (m Model) viewConfirmDiscard() string {
	var s strings.Builder

	title := titleStyle.Render("Unsaved Changes")
	s.WriteString(title + "\n")

	s.WriteString(warningStyle.Render(fmt.Sprintf("%s has unsaved changes.", m.session.CurrentFileName)) + "\n\n")

	var next string
	switch m.confirm {
	case actionOpenFile:
		next = "open another file"
	case actionOpenVector:
		next = "convert a drawing"
	case actionReload:
		next = "reload from disk"
	case actionQuit:
		next = "quit"
	default:
		next = "continue"
	}
	s.WriteString(fmt.Sprintf("Discard them and %s?\n\n", next))

	s.WriteString(helpStyle.Render("y to discard, n or Esc to keep editing"))

	return m.renderWithDynamicWidth(s.String())
}
