package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"cutplot/gcode"
)

// updateEditor handles keys on the home screen. Control combinations
// drive the application, everything else falls through to the editor
// widget.
func (m Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+o":
		if m.dirty {
			m.confirm = actionOpenFile
			m.state = StateConfirmDiscard
			return m, nil
		}
		m.setStatus("", false)
		m.state = StateFilePicker
		return m, m.picker.Init()

	case "ctrl+v":
		if m.dirty {
			m.confirm = actionOpenVector
			m.state = StateConfirmDiscard
			return m, nil
		}
		m.setStatus("", false)
		m.state = StateVectorPicker
		return m, m.vectorPicker.Init()

	case "ctrl+s":
		if m.loadedPath != "" {
			return m, saveFileCmd(m.loadedPath, m.editor.Value())
		}
		m.saveAsInput = ""
		m.state = StateSaveAs
		return m, nil

	case "ctrl+a":
		m.saveAsInput = ""
		m.state = StateSaveAs
		return m, nil

	case "ctrl+p":
		if gcode.IsBlank(m.editor.Value()) {
			m.setStatus("nothing to send, the buffer is empty", true)
			return m, nil
		}
		m.pending++
		m.setStatus(fmt.Sprintf("packaging %s", gcode.PackageName(m.session.CurrentFileName)), false)
		return m, m.startOp(sendPackageCmd(m.api, m.store, m.editor.Value(), m.session.CurrentFileName))

	case "ctrl+r":
		if gcode.IsBlank(m.editor.Value()) {
			m.setStatus("nothing to send, the buffer is empty", true)
			return m, nil
		}
		m.pending++
		m.setStatus("sending raw lines", false)
		return m, m.startOp(sendRawCmd(m.api, m.store, m.editor.Value(), m.session.CurrentFileName))

	case "ctrl+d":
		if gcode.IsBlank(m.editor.Value()) {
			m.setStatus("nothing to package, the buffer is empty", true)
			return m, nil
		}
		out := gcode.PackageName(m.session.CurrentFileName)
		if m.loadedPath != "" {
			out = filepath.Join(filepath.Dir(m.loadedPath), out)
		}
		m.pending++
		m.setStatus(fmt.Sprintf("requesting %s", filepath.Base(out)), false)
		return m, m.startOp(downloadPackageCmd(m.api, m.store, m.editor.Value(), m.session.CurrentFileName, out))

	case "ctrl+l":
		if gcode.IsBlank(m.editor.Value()) {
			m.setStatus("nothing to validate, the buffer is empty", true)
			return m, nil
		}
		m.pending++
		m.setStatus("validating", false)
		return m, m.startOp(validateCmd(m.api, m.store, m.editor.Value(), m.session.CurrentFileName))

	case "ctrl+f":
		if gcode.IsBlank(m.editor.Value()) {
			m.setStatus("nothing to format, the buffer is empty", true)
			return m, nil
		}
		m.pending++
		m.setStatus("formatting", false)
		return m, m.startOp(formatCmd(m.api, m.store, m.editor.Value(), m.session.CurrentFileName))

	case "ctrl+g":
		if m.loadedPath == "" {
			m.setStatus("no file on disk to reload", true)
			return m, nil
		}
		if m.dirty {
			m.confirm = actionReload
			m.state = StateConfirmDiscard
			return m, nil
		}
		return m, loadFileCmd(m.loadedPath)

	case "esc":
		m.setStatus("", false)
		return m, nil
	}

	prev := m.editor.Value()
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	if m.editor.Value() != prev {
		m.dirty = true
	}
	return m, cmd
}

// startOp pairs a request command with the dots animation, starting
// the ticker only for the first outstanding request
func (m Model) startOp(cmd tea.Cmd) tea.Cmd {
	if m.pending == 1 {
		return tea.Batch(cmd, tickCmd())
	}
	return cmd
}

func (m Model) viewEditor() string {
	var s strings.Builder

	title := titleStyle.Render("CutPlot")
	s.WriteString(title + "\n")

	name := m.session.CurrentFileName
	if m.dirty {
		name += "*"
	}
	stats := gcode.Analyze(m.editor.Value())

	conn := disconnectedStyle.Render("○ printer offline")
	if m.session.PrinterConnected {
		conn = connectedStyle.Render("● printer online")
	}

	working := ""
	if m.pending > 0 {
		working = "  " + warningStyle.Render("working"+strings.Repeat(".", m.processingDots))
	}

	s.WriteString(highlightStyle.Render(name) + subtitleStyle.Render("  "+stats.Summary()) + "  " + conn + working + "\n\n")

	s.WriteString(m.editor.View() + "\n\n")

	if m.statusLine != "" {
		if m.statusBad {
			s.WriteString(warningStyle.Render(m.statusLine) + "\n")
		} else {
			s.WriteString(successStyle.Render(m.statusLine) + "\n")
		}
	}

	s.WriteString(helpStyle.Render("Ctrl+O open, Ctrl+V convert, Ctrl+S save, Ctrl+A save as, Ctrl+P print, Ctrl+R raw, Ctrl+D package, Ctrl+L validate, Ctrl+F format, Ctrl+C quit"))

	return m.renderWithDynamicWidth(s.String())
}
