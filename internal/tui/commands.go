package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// LogWatcher reports changes to the log directory
type LogWatcher interface {
	Changes() <-chan struct{}
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

// WatchLogsCmd waits for the next change batch of w. It must be re-issued
// after every LogsChangedMsg.
func WatchLogsCmd(w LogWatcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-w.Changes(); !ok {
			return nil
		}
		return LogsChangedMsg{}
	}
}
