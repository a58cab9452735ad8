package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"cutplot/gcode"
	"cutplot/utils"
)

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)
	case tea.KeyMsg:
		return m.handleKeyMessage(msg)
	case tea.MouseMsg:
		return m.handleMouseMessage(msg)
	case TickMsg:
		return m.handleTickMessage()
	case StatusTickMsg:
		return m, tea.Batch(statusCmd(m.api), statusTickCmd(m.cfg.StatusInterval))
	case StatusResult:
		m.session.PrinterConnected = msg.Connected
		return m, nil
	case FileChangedMsg:
		return m.handleFileChanged(msg)
	case FileLoadedMsg:
		return m.handleFileLoaded(msg)
	case SaveResult:
		return m.handleSaveResult(msg)
	case SendPackageResult:
		return m.handleSendPackageResult(msg)
	case SendRawResult:
		return m.handleSendRawResult(msg)
	case PackageResult:
		return m.handlePackageResult(msg)
	case ConvertResult:
		return m.handleConvertResult(msg)
	case ValidateResult:
		return m.handleValidateResult(msg)
	case FormatResult:
		return m.handleFormatResult(msg)
	}

	return m.updateActiveComponent(msg)
}

// handleWindowSize handles window resize events
func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	// Calculate pane sizes
	m.showRightPane = m.width >= 100
	if m.showRightPane {
		m.leftPaneWidth = int(float64(m.width) * 0.6)    // 60% for left pane
		m.rightPaneWidth = m.width - m.leftPaneWidth - 1 // 40% for right pane (minus 1 for separator)
	} else {
		m.leftPaneWidth = m.width
		m.rightPaneWidth = 0
	}

	editorWidth := m.leftPaneWidth - 6
	if editorWidth < 20 {
		editorWidth = 20
	}
	editorHeight := m.height - 9
	if editorHeight < 5 {
		editorHeight = 5
	}
	m.editor.SetWidth(editorWidth)
	m.editor.SetHeight(editorHeight)

	pickerHeight := m.height - 10
	if pickerHeight < 5 {
		pickerHeight = 5
	}
	m.picker.Height = pickerHeight
	m.vectorPicker.Height = pickerHeight

	return m, nil
}

// handleKeyMessage handles keyboard input based on current state
func (m Model) handleKeyMessage(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		if m.state == StateEditor && m.dirty {
			m.confirm = actionQuit
			m.state = StateConfirmDiscard
			return m, nil
		}
		return m, tea.Quit
	}

	// Handle global scroll keys for right pane when it's visible
	if m.showRightPane {
		switch msg.String() {
		case "pgup":
			if m.outputScrollOffset > 0 {
				m.outputScrollOffset -= 5
				if m.outputScrollOffset < 0 {
					m.outputScrollOffset = 0
				}
			}
			return m, nil
		case "pgdown":
			maxScroll := len(m.outputSummary) - 10 // Approximate visible lines
			if maxScroll < 0 {
				maxScroll = 0
			}
			if m.outputScrollOffset < maxScroll {
				m.outputScrollOffset += 5
				if m.outputScrollOffset > maxScroll {
					m.outputScrollOffset = maxScroll
				}
			}
			return m, nil
		}
	}

	// Delegate to state-specific handlers
	switch m.state {
	case StateEditor:
		model, cmd := m.updateEditor(msg)
		return model.(Model), cmd
	case StateFilePicker:
		model, cmd := m.updateFilePicker(msg)
		return model.(Model), cmd
	case StateVectorPicker:
		model, cmd := m.updateVectorPicker(msg)
		return model.(Model), cmd
	case StateSaveAs:
		model, cmd := m.updateSaveAs(msg)
		return model.(Model), cmd
	case StateConfirmDiscard:
		model, cmd := m.updateConfirmDiscard(msg)
		return model.(Model), cmd
	case StateReport:
		model, cmd := m.updateReport(msg)
		return model.(Model), cmd
	case StateError:
		model, cmd := m.updateError(msg)
		return model.(Model), cmd
	}

	return m, nil
}

// handleMouseMessage handles mouse input
func (m Model) handleMouseMessage(msg tea.MouseMsg) (Model, tea.Cmd) {
	// Handle mouse wheel scrolling for right pane when visible
	if m.showRightPane {
		switch msg.Type {
		case tea.MouseWheelUp:
			if m.outputScrollOffset > 0 {
				m.outputScrollOffset -= 2 // Scroll up 2 lines
				if m.outputScrollOffset < 0 {
					m.outputScrollOffset = 0
				}
			}
			return m, nil
		case tea.MouseWheelDown:
			maxScroll := len(m.outputSummary) - 10 // Approximate visible lines
			if maxScroll < 0 {
				maxScroll = 0
			}
			if m.outputScrollOffset < maxScroll {
				m.outputScrollOffset += 2 // Scroll down 2 lines
				if m.outputScrollOffset > maxScroll {
					m.outputScrollOffset = maxScroll
				}
			}
			return m, nil
		}
	}

	return m, nil
}

// handleTickMessage handles tick messages for animations
func (m Model) handleTickMessage() (Model, tea.Cmd) {
	if m.pending > 0 {
		m.processingDots = (m.processingDots + 1) % 4
		return m, tickCmd()
	}
	return m, nil
}

// updateActiveComponent forwards component-internal messages, such as
// cursor blinks and directory listings, to whichever widget is on
// screen
func (m Model) updateActiveComponent(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.state {
	case StateEditor:
		m.editor, cmd = m.editor.Update(msg)
	case StateFilePicker:
		m.picker, cmd = m.picker.Update(msg)
	case StateVectorPicker:
		m.vectorPicker, cmd = m.vectorPicker.Update(msg)
	}
	return m, cmd
}

// handleFileChanged reacts to the loaded file being rewritten on disk.
// Saving from the editor raises a watch event too; an event that left
// the file exactly as last written or loaded is our own.
func (m Model) handleFileChanged(msg FileChangedMsg) (Model, tea.Cmd) {
	if m.loadedPath != "" && filepath.Clean(msg.Path) == m.loadedPath {
		info, err := os.Stat(m.loadedPath)
		if err != nil || info.Size() != m.diskSize || !info.ModTime().Equal(m.diskModTime) {
			m.fileChanged = true
			m.setStatus(fmt.Sprintf("%s changed on disk, ctrl+g reloads", filepath.Base(m.loadedPath)), true)
		}
	}
	if m.watcher != nil {
		return m, waitForChangeCmd(m.watcher)
	}
	return m, nil
}

// handleFileLoaded installs freshly read file content into the editor
func (m Model) handleFileLoaded(msg FileLoadedMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		m.state = StateError
		m.err = msg.Err
		return m, nil
	}

	lines := gcode.LineCount(msg.Content)
	m.editor.SetValue(msg.Content)
	m.loadedPath = msg.Path
	m.session.SetFile(msg.Name)
	m.dirty = false
	m.fileChanged = false
	m.diskSize = msg.Size
	m.diskModTime = msg.ModTime
	m.setStatus(fmt.Sprintf("loaded %s, %d lines", msg.Name, lines), false)

	if m.watcher != nil {
		m.watcher.Watch(msg.Path)
	}
	if m.store != nil {
		m.store.TouchRecent(msg.Path, m.cfg.RecentFilesMax)
	}

	m.addFormattedAction("Open File")
	m.addFormattedStatus("File", msg.Name)
	m.addFormattedStatusIndented("Lines", strconv.Itoa(lines))
	return m, nil
}

// handleSaveResult finishes a buffer write
func (m Model) handleSaveResult(msg SaveResult) (Model, tea.Cmd) {
	if msg.Err != nil {
		m.state = StateError
		m.err = msg.Err
		return m, nil
	}

	m.dirty = false
	m.fileChanged = false
	m.loadedPath = msg.Path
	m.session.SetFile(filepath.Base(msg.Path))
	m.diskSize = msg.Size
	m.diskModTime = msg.ModTime
	m.setStatus(fmt.Sprintf("saved %s (%s)", filepath.Base(msg.Path), utils.FormatFileSize(msg.Size)), false)

	if m.watcher != nil {
		m.watcher.Watch(msg.Path)
	}
	if m.store != nil {
		m.store.TouchRecent(msg.Path, m.cfg.RecentFilesMax)
	}

	m.addFormattedAction("Save")
	m.addFormattedStatus("Saved", filepath.Base(msg.Path))
	m.addFormattedStatusIndented("Size", utils.FormatFileSize(msg.Size))
	return m, nil
}

// handleSendPackageResult finishes a package-and-print request
func (m Model) handleSendPackageResult(msg SendPackageResult) (Model, tea.Cmd) {
	if m.pending > 0 {
		m.pending--
	}
	if msg.Err != nil {
		m.addFormattedStatus("Send package", "failed")
		m.state = StateError
		m.err = msg.Err
		return m, nil
	}

	name := msg.Filename
	if name == "" {
		name = gcode.PackageName(m.session.CurrentFileName)
	}
	m.setStatus(fmt.Sprintf("printing %s, %d lines (%s)", name, msg.Lines, utils.FormatDuration(msg.Dur)), false)

	m.addFormattedAction("Send Package")
	m.addFormattedStatus("Printing", name)
	m.addFormattedStatusIndented("Lines", strconv.Itoa(msg.Lines))
	m.addFormattedStatusIndented("Took", utils.FormatDuration(msg.Dur))
	return m, nil
}

// handleSendRawResult finishes a line-by-line send
func (m Model) handleSendRawResult(msg SendRawResult) (Model, tea.Cmd) {
	if m.pending > 0 {
		m.pending--
	}
	if msg.Err != nil {
		m.addFormattedStatus("Send raw", "failed")
		m.state = StateError
		m.err = msg.Err
		return m, nil
	}

	sent := msg.SentCount
	if sent == 0 {
		sent = msg.Lines
	}
	m.setStatus(fmt.Sprintf("sent %d lines (%s)", sent, utils.FormatDuration(msg.Dur)), false)

	m.addFormattedAction("Send Raw")
	m.addFormattedStatus("Sent", fmt.Sprintf("%d lines", sent))
	m.addFormattedStatusIndented("Took", utils.FormatDuration(msg.Dur))
	return m, nil
}

// handlePackageResult finishes a package download
func (m Model) handlePackageResult(msg PackageResult) (Model, tea.Cmd) {
	if m.pending > 0 {
		m.pending--
	}
	if msg.Err != nil {
		m.addFormattedStatus("Download", "failed")
		m.state = StateError
		m.err = msg.Err
		return m, nil
	}

	m.setStatus(fmt.Sprintf("saved %s", filepath.Base(msg.SavedPath)), false)

	m.addFormattedAction("Download Package")
	m.addFormattedStatus("Package", filepath.Base(msg.SavedPath))
	m.addFormattedStatusIndented("Size", utils.FormatFileSize(msg.Size))

	lines := []string{
		fmt.Sprintf("Saved to %s", msg.SavedPath),
		fmt.Sprintf("Size: %s", utils.FormatFileSize(msg.Size)),
		"",
	}
	lines = append(lines, summaryLines(msg.Summary)...)
	m.report = reportContent{title: "Package Ready", ok: true, lines: lines}
	m.state = StateReport
	return m, nil
}

// handleConvertResult installs converted G-code into the editor
func (m Model) handleConvertResult(msg ConvertResult) (Model, tea.Cmd) {
	if m.pending > 0 {
		m.pending--
	}
	if msg.Err != nil {
		m.addFormattedStatus("Convert", "failed")
		m.state = StateError
		m.err = msg.Err
		return m, nil
	}

	m.editor.SetValue(msg.GCode)
	m.session.SetFile(msg.DerivedName)
	m.dirty = true
	m.loadedPath = ""
	m.fileChanged = false
	if m.watcher != nil {
		m.watcher.Watch("")
	}

	note := ""
	if msg.FromCache {
		note = ", cached"
	}
	m.setStatus(fmt.Sprintf("converted %s, %d lines%s", msg.SourceName, msg.LineCount, note), false)

	m.addFormattedAction("Convert Drawing")
	m.addFormattedMapping(msg.SourceName, msg.DerivedName)
	m.addFormattedStatusIndented("Lines", strconv.Itoa(msg.LineCount))
	if msg.FromCache {
		m.addFormattedStatusIndented("Cache", "hit")
	}
	return m, nil
}

// handleValidateResult shows server lint findings
func (m Model) handleValidateResult(msg ValidateResult) (Model, tea.Cmd) {
	if m.pending > 0 {
		m.pending--
	}
	if msg.Err != nil {
		m.addFormattedStatus("Validate", "failed")
		m.state = StateError
		m.err = msg.Err
		return m, nil
	}

	resp := msg.Resp
	var lines []string
	if resp.LineCount > 0 {
		lines = append(lines, fmt.Sprintf("Checked %d lines", resp.LineCount))
	}
	if len(resp.Errors) == 0 && len(resp.Warnings) == 0 {
		lines = append(lines, "No problems found")
	}
	for _, e := range resp.Errors {
		lines = append(lines, fmt.Sprintf("error: %s", e))
	}
	for _, w := range resp.Warnings {
		lines = append(lines, fmt.Sprintf("warning: %s", w))
	}

	m.report = reportContent{title: "Validation", ok: resp.Valid, lines: lines}
	m.state = StateReport

	m.addFormattedAction("Validate")
	m.addFormattedStatus("Findings", fmt.Sprintf("%d errors, %d warnings", len(resp.Errors), len(resp.Warnings)))
	return m, nil
}

// handleFormatResult installs the reflowed buffer
func (m Model) handleFormatResult(msg FormatResult) (Model, tea.Cmd) {
	if m.pending > 0 {
		m.pending--
	}
	if msg.Err != nil {
		m.addFormattedStatus("Format", "failed")
		m.state = StateError
		m.err = msg.Err
		return m, nil
	}

	lines := gcode.LineCount(msg.Formatted)
	m.editor.SetValue(msg.Formatted)
	m.dirty = true
	m.setStatus(fmt.Sprintf("formatted, %d lines (%s)", lines, utils.FormatDuration(msg.Dur)), false)

	m.addFormattedAction("Format")
	m.addFormattedStatus("Formatted", fmt.Sprintf("%d lines", lines))
	return m, nil
}
