package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"cutplot/cache"
	"cutplot/client"
	"cutplot/history"
	"cutplot/models"
)

// Run starts the TUI application. startFile, when non-empty, is opened
// in the editor immediately.
func Run(cfg models.Config, api *client.Client, store *history.Store, convs *cache.ConvertCache, startFile string) error {
	// Create the model
	m := NewModel(cfg, api, store, convs, startFile)

	// Create the program with alt screen and mouse support to fully isolate TUI
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	// Start the program
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	// Handle any final state
	if final, ok := finalModel.(Model); ok {
		if final.watcher != nil {
			final.watcher.Close()
		}
		if final.err != nil {
			return final.err
		}
	}

	return nil
}
