package tui

// Message types for the TUI. Everything the state layer produces arrives as
// a state.Action instead.

// StatusMsg shows a transient message in the footer
type StatusMsg struct {
	Message string
	IsError bool
}

// ClearStatusMsg clears the footer message
type ClearStatusMsg struct{}

// LogsChangedMsg signals that files in the log directory changed
type LogsChangedMsg struct{}
