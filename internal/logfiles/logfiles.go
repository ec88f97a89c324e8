// Package logfiles lists, reads and deletes the application's log files.
package logfiles

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mmcdole/panda/internal/domain"
)

// Ext is the extension of every file Dir manages
const Ext = ".log"

// Dir implements domain.FileRepository over one log directory
type Dir struct {
	path   string
	logger *slog.Logger
}

// NewDir creates a Dir for path. The directory does not need to exist yet.
func NewDir(path string, logger *slog.Logger) *Dir {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dir{path: path, logger: logger}
}

// Path returns the directory Dir reads from
func (d *Dir) Path() string {
	return d.path
}

// FetchLogs returns every log, newest first
func (d *Dir) FetchLogs(ctx context.Context) ([]domain.Log, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read log directory: %w", err)
	}

	var logs []domain.Log
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || !strings.HasSuffix(e.Name(), Ext) {
			continue
		}
		log, err := d.readLog(e.Name())
		if err != nil {
			d.logger.Warn("skipping unreadable log", "file", e.Name(), "error", err)
			continue
		}
		logs = append(logs, log)
	}

	sort.Slice(logs, func(i, j int) bool {
		if !logs[i].ModTime.Equal(logs[j].ModTime) {
			return logs[i].ModTime.After(logs[j].ModTime)
		}
		return logs[i].FileName > logs[j].FileName
	})
	return logs, nil
}

func (d *Dir) readLog(name string) (domain.Log, error) {
	f, err := os.Open(filepath.Join(d.path, name))
	if err != nil {
		return domain.Log{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return domain.Log{}, err
	}

	log := domain.Log{FileName: name, ModTime: info.ModTime(), Size: info.Size()}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			log.Contents = append(log.Contents, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return domain.Log{}, err
	}
	return log, nil
}

// DeleteLog removes the named log and returns its name
func (d *Dir) DeleteLog(_ context.Context, name string) (string, error) {
	if err := validName(name); err != nil {
		return "", err
	}
	if err := os.Remove(filepath.Join(d.path, name)); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", domain.ErrNotFound, name)
		}
		return "", fmt.Errorf("failed to delete log: %w", err)
	}
	d.logger.Info("deleted log", "file", name)
	return name, nil
}

// validName rejects names that would leave the log directory
func validName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || filepath.Base(name) != name ||
		!strings.HasSuffix(name, Ext) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidLogName, name)
	}
	return nil
}
