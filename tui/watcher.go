package tui

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	tea "github.com/charmbracelet/bubbletea"
)

// fileWatcher reports on-disk changes to the file currently loaded in
// the editor. Watching the parent directory instead of the file itself
// survives editors that replace the file on save.
type fileWatcher struct {
	fs      *fsnotify.Watcher
	changes chan string

	mu      sync.Mutex
	path    string
	dir     string
	closed  bool
	started bool
}

func newFileWatcher() (*fileWatcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &fileWatcher{
		fs:      fs,
		changes: make(chan string, 8),
	}
	go w.run()
	return w, nil
}

func (w *fileWatcher) run() {
	defer close(w.changes)
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			w.mu.Lock()
			match := w.path != "" && filepath.Clean(event.Name) == w.path
			w.mu.Unlock()
			if !match {
				continue
			}
			select {
			case w.changes <- event.Name:
			default:
			}
		case _, ok := <-w.fs.Errors:
			if !ok {
				return
			}
		}
	}
}

// Watch switches the watcher to a new file. An empty path stops
// watching without closing the watcher.
func (w *fileWatcher) Watch(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}

	if w.dir != "" {
		w.fs.Remove(w.dir)
		w.dir = ""
	}
	w.path = ""

	if path == "" {
		return nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)
	if err := w.fs.Add(dir); err != nil {
		return err
	}
	w.path = filepath.Clean(abs)
	w.dir = dir
	return nil
}

func (w *fileWatcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()
	return w.fs.Close()
}

// waitForChangeCmd blocks until the watched file changes on disk. The
// update loop re-issues it after each delivery.
func waitForChangeCmd(w *fileWatcher) tea.Cmd {
	return func() tea.Msg {
		path, ok := <-w.changes
		if !ok {
			return nil
		}
		return FileChangedMsg{Path: path}
	}
}
