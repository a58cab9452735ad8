package tui

import (
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"cutplot/cache"
	"cutplot/client"
	"cutplot/gcode"
	"cutplot/history"
	"cutplot/models"
)

// AppState represents the current state of the application
type AppState int

const (
	StateEditor AppState = iota
	StateFilePicker
	StateVectorPicker
	StateSaveAs
	StateConfirmDiscard
	StateReport
	StateError
)

// pendingAction is what proceeds once the user confirms discarding
// unsaved changes
type pendingAction int

const (
	actionNone pendingAction = iota
	actionOpenFile
	actionOpenVector
	actionReload
	actionQuit
)

// reportContent is a finished operation's detail screen
type reportContent struct {
	title string
	ok    bool
	lines []string
}

// Model represents the main TUI model
type Model struct {
	state  AppState
	width  int
	height int

	// Pane layout
	leftPaneWidth  int
	rightPaneWidth int
	showRightPane  bool

	// Wiring
	cfg     models.Config
	api     *client.Client
	session *models.Session
	store   *history.Store
	convs   *cache.ConvertCache

	// Editor
	editor     textarea.Model
	dirty      bool
	loadedPath string
	statusLine string
	statusBad  bool

	// File selection
	picker       filepicker.Model
	vectorPicker filepicker.Model

	// Save-as input
	saveAsInput string

	// Discard guard
	confirm pendingAction

	// In-flight requests
	pending        int
	processingDots int

	// Results
	report reportContent

	// External file change notice. diskSize and diskModTime describe
	// the on-disk state the buffer already reflects, so the editor's
	// own saves are not reported as foreign changes.
	watcher     *fileWatcher
	fileChanged bool
	diskSize    int64
	diskModTime time.Time

	// Error handling
	err error

	// File to load once the program starts
	startFile string

	// Output summary for right pane
	outputSummary      []string
	outputScrollOffset int
}

// NewModel creates a new TUI model. startFile, when non-empty, is
// loaded into the editor on startup.
func NewModel(cfg models.Config, api *client.Client, store *history.Store, convs *cache.ConvertCache, startFile string) Model {
	ed := textarea.New()
	ed.Placeholder = "; type or load G-code"
	ed.ShowLineNumbers = true
	ed.CharLimit = 0
	ed.Focus()

	cwd, _ := os.Getwd()

	picker := filepicker.New()
	picker.AllowedTypes = gcode.EditorExtensions
	picker.CurrentDirectory = cwd
	if store != nil {
		// Start the load dialog where the user last worked
		if recent, err := store.RecentFiles(); err == nil && len(recent) > 0 {
			dir := filepath.Dir(recent[0].Path)
			if info, err := os.Stat(dir); err == nil && info.IsDir() {
				picker.CurrentDirectory = dir
			}
		}
	}

	vectorPicker := filepicker.New()
	vectorPicker.AllowedTypes = gcode.VectorExtensions
	vectorPicker.CurrentDirectory = cwd

	m := Model{
		state:         StateEditor,
		cfg:           cfg,
		api:           api,
		session:       models.NewSession(cfg.DefaultFileName),
		store:         store,
		convs:         convs,
		editor:        ed,
		picker:        picker,
		vectorPicker:  vectorPicker,
		showRightPane: false,
		outputSummary: []string{},
	}

	if w, err := newFileWatcher(); err == nil {
		m.watcher = w
	}

	if startFile != "" {
		m.statusLine = "loading " + startFile
	}
	m.startFile = startFile

	return m
}

// setStatus replaces the one-line notice under the editor
func (m *Model) setStatus(text string, bad bool) {
	m.statusLine = text
	m.statusBad = bad
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textarea.Blink,
		statusCmd(m.api),
		statusTickCmd(m.cfg.StatusInterval),
	}
	if m.startFile != "" {
		cmds = append(cmds, loadFileCmd(m.startFile))
	}
	if m.watcher != nil {
		cmds = append(cmds, waitForChangeCmd(m.watcher))
	}
	return tea.Batch(cmds...)
}
