package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/panda/internal/adapter"
	"github.com/mmcdole/panda/internal/ehentai"
	"github.com/mmcdole/panda/internal/logfiles"
	"github.com/mmcdole/panda/internal/state"
	"github.com/mmcdole/panda/internal/store"
	"github.com/mmcdole/panda/internal/tui"
	"github.com/spf13/cobra"
)

// app holds everything a command needs: configuration, the settings
// database, the effect clients and the state they act on
type app struct {
	cfg     *adapter.Config
	logger  *slog.Logger
	logFile io.Closer
	logName string
	db      *store.Store
	state   *state.AppState
	env     *state.Environment
}

func newApp() (*app, error) {
	cfg, err := adapter.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	now := time.Now()
	logger, logFile, err := adapter.SetupLogger(&cfg.Logging, now)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
		logFile = nil
	}
	slog.SetDefault(logger)
	logger.Info("starting panda", "version", Version)

	db, err := store.Open(cfg.Storage.Dir)
	if err != nil {
		if logFile != nil {
			logFile.Close()
		}
		return nil, fmt.Errorf("failed to open settings store: %w", err)
	}

	s := state.New(db, logger)
	seedSetting(s, cfg)

	client, err := ehentai.NewClient(ehentai.Options{
		Host:        s.Settings.Setting().GalleryHost,
		Timeout:     cfg.Site.Timeout,
		Concurrency: cfg.Site.Concurrency,
		Logger:      logger,
	})
	if err != nil {
		db.Close()
		if logFile != nil {
			logFile.Close()
		}
		return nil, fmt.Errorf("failed to create gallery client: %w", err)
	}

	cookies := store.NewCookieStore(db, logger)
	cookies.OnChange = client.UpdateCookies
	cookies.Sync()

	env := &state.Environment{
		Gallery:      client,
		Files:        logfiles.NewDir(cfg.Logging.Dir, logger),
		App:          adapter.NewOpener(cfg.UI.Browser, cfg.Logging.Dir, logger),
		Clipboard:    adapter.NewClipboard(logger),
		Cookies:      cookies,
		GalleryState: db,
		Logger:       logger,
		Timeout:      effectTimeout(cfg),
	}

	return &app{cfg: cfg, logger: logger, logFile: logFile, logName: adapter.LogFileName(now), db: db, state: s, env: env}, nil
}

// effectTimeout leaves room for the image page fan-out of FetchContents,
// which issues several site requests in one effect
func effectTimeout(cfg *adapter.Config) time.Duration {
	if cfg.Site.Timeout <= 0 {
		return 0
	}
	return 2 * cfg.Site.Timeout
}

// seedSetting applies the configured host and preview rows on first run.
// Once a setting is stored the account view owns it.
func seedSetting(s *state.AppState, cfg *adapter.Config) {
	if s.Settings.SettingStored() {
		return
	}
	setting := s.Settings.Setting()
	setting.GalleryHost = cfg.GalleryHost()
	if cfg.UI.PreviewRows > 0 {
		setting.PreviewRows = cfg.UI.PreviewRows
	}
	state.Reduce(s, state.SetSetting{Setting: setting}, nil)
}

func (a *app) close() {
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close settings store", "error", err)
	}
	a.logger.Info("shutting down")
	if a.logFile != nil {
		a.logFile.Close()
	}
}

// headless runs fn against a state store driven by a background goroutine.
// The store is stopped once fn returns.
func (a *app) headless(ctx context.Context, fn func(ctx context.Context, st *state.Store) error) error {
	st := state.NewStore(a.state, a.env)

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := st.Run(runCtx); err != nil && runCtx.Err() == nil {
			a.logger.Error("state store stopped", "error", err)
		}
	}()

	err := fn(ctx, st)
	cancel()
	<-done
	return err
}

// watchLogs starts a watcher on the log directory that ignores the app's own
// log writes
func (a *app) watchLogs(ctx context.Context) (*logfiles.Watcher, error) {
	w, err := logfiles.NewWatcher(a.cfg.Logging.Dir, a.logger)
	if err != nil {
		return nil, err
	}
	w.IgnoreWrites(a.logName)
	if err := w.Start(ctx); err != nil {
		w.Stop()
		return nil, err
	}
	return w, nil
}

// withApp opens the app for the duration of fn
func withApp(fn func(a *app) error) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()
	return fn(a)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	return withApp(func(a *app) error {
		ctx := cmd.Context()

		var watcher tui.LogWatcher
		if w, err := a.watchLogs(ctx); err != nil {
			a.logger.Warn("log watcher unavailable", "dir", a.cfg.Logging.Dir, "error", err)
		} else {
			defer w.Stop()
			watcher = w
		}

		p := tea.NewProgram(
			tui.NewModel(a.state, a.env, watcher),
			tea.WithAltScreen(),
			tea.WithContext(ctx),
		)

		a.logger.Info("starting TUI")
		if _, err := p.Run(); err != nil {
			a.logger.Error("TUI error", "error", err)
			return fmt.Errorf("TUI error: %w", err)
		}
		return nil
	})
}
