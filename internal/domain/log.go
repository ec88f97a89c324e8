package domain

import "time"

// Log is one log file in the log directory
type Log struct {
	FileName string
	Contents []string // lines
	ModTime  time.Time
	Size     int64
}
