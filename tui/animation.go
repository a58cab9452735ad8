package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent periodically for animations
type TickMsg time.Time

// StatusTickMsg schedules the next backend reachability probe
type StatusTickMsg time.Time

// tickCmd returns a command that sends periodic tick messages
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// statusTickCmd schedules the next status poll after interval
func statusTickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return StatusTickMsg(t)
	})
}
