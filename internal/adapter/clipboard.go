package adapter

import (
	"log/slog"

	"github.com/atotto/clipboard"
)

// Clipboard writes to the system clipboard. It implements domain.Clipboard.
type Clipboard struct {
	logger *slog.Logger
	write  func(string) error
}

// NewClipboard creates a Clipboard backed by the system clipboard
func NewClipboard(logger *slog.Logger) *Clipboard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Clipboard{logger: logger, write: clipboard.WriteAll}
}

// Copy replaces the clipboard contents with text
func (c *Clipboard) Copy(text string) error {
	if clipboard.Unsupported {
		c.logger.Warn("clipboard is not supported on this system")
	}
	if err := c.write(text); err != nil {
		c.logger.Error("clipboard write failed", "error", err)
		return err
	}
	return nil
}
