package adapter

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Opener hands URLs and folders to other applications. It implements
// domain.AppLauncher.
type Opener struct {
	browser string // configured command, empty for system default
	logDir  string
	logger  *slog.Logger

	// start launches a command without waiting for it
	start func(name string, args ...string) error
}

// NewOpener creates an Opener. browser may be empty to use the system
// default handler, and may carry arguments ("firefox --private-window").
func NewOpener(browser, logDir string, logger *slog.Logger) *Opener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Opener{
		browser: browser,
		logDir:  logDir,
		logger:  logger,
		start:   startCommand,
	}
}

func startCommand(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// OpenURL opens url in the configured browser or the system default
func (o *Opener) OpenURL(url string) error {
	if url == "" {
		return fmt.Errorf("no URL to open")
	}

	// Tier 1: user configured a specific browser
	if fields := strings.Fields(o.browser); len(fields) > 0 {
		o.logger.Info("opening with configured browser", "command", fields[0], "url", url)
		args := append(fields[1:len(fields):len(fields)], url)
		return o.start(fields[0], args...)
	}

	// Tier 2: system default (open/xdg-open/start)
	return o.openDefault(url)
}

// OpenLogsFolder opens the log directory in the system file manager
func (o *Opener) OpenLogsFolder() error {
	if err := os.MkdirAll(o.logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return o.openDefault(o.logDir)
}

// openDefault opens target using the system default handler
func (o *Opener) openDefault(target string) error {
	name, args := defaultHandler(runtime.GOOS, target)
	o.logger.Info("opening with system default", "os", runtime.GOOS, "target", target)
	return o.start(name, args...)
}

// defaultHandler returns the command line that opens target on goos
func defaultHandler(goos, target string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{target}
	case "windows":
		return "cmd", []string{"/c", "start", "", target}
	default:
		// Linux and other Unix-like systems
		return "xdg-open", []string{target}
	}
}
