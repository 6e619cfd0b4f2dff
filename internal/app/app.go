// Package app wires the services together and owns their lifecycle.
package app

import (
	"context"
	"database/sql"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/notedown-sh/notedown/internal/assist"
	"github.com/notedown-sh/notedown/internal/config"
	"github.com/notedown-sh/notedown/internal/logging"
	"github.com/notedown-sh/notedown/internal/note"
	"github.com/notedown-sh/notedown/internal/revision"
	"github.com/notedown-sh/notedown/internal/status"
	"github.com/notedown-sh/notedown/internal/tui/theme"
)

type App struct {
	Logs      logging.Service
	Notes     note.Service
	Revisions revision.Service
	Status    status.Service

	conn       *sql.DB
	workingDir string

	assistOnce sync.Once
	assistProv assist.Provider
	assistErr  error

	watcher            *fsnotify.Watcher
	watcherCancelFuncs []context.CancelFunc
	cancelFuncsMutex   sync.Mutex
	watcherWG          sync.WaitGroup
}

func New(ctx context.Context, conn *sql.DB) (*App, error) {
	err := logging.InitService(conn)
	if err != nil {
		slog.Error("Failed to initialize logging service", "error", err)
		return nil, err
	}
	err = note.InitService(conn)
	if err != nil {
		slog.Error("Failed to initialize note service", "error", err)
		return nil, err
	}
	err = revision.InitService(conn)
	if err != nil {
		slog.Error("Failed to initialize revision service", "error", err)
		return nil, err
	}

	app := &App{
		Logs:       logging.GetService(),
		Notes:      note.GetService(),
		Revisions:  revision.GetService(),
		Status:     status.GetService(),
		conn:       conn,
		workingDir: config.WorkingDirectory(),
	}

	// Initialize theme based on configuration
	app.initTheme()

	if synced, err := note.Discover(ctx, app.workingDir); err != nil {
		slog.Warn("Workspace discovery failed", "error", err)
	} else if synced > 0 {
		slog.Info("Workspace notes synced", "count", synced)
	}

	if err := app.startWatcher(ctx); err != nil {
		slog.Warn("File watcher unavailable", "error", err)
	}

	return app, nil
}

// Assist lazily builds the configured assist provider; building it eagerly
// would require credentials even when the feature is never used.
// WorkingDir is the directory notes are discovered in and saved to.
func (app *App) WorkingDir() string {
	return app.workingDir
}

func (app *App) Assist() (assist.Provider, error) {
	app.assistOnce.Do(func() {
		app.assistProv, app.assistErr = assist.New(config.Get().Assist)
	})
	return app.assistProv, app.assistErr
}

// initTheme sets the application theme based on the configuration
func (app *App) initTheme() {
	cfg := config.Get()
	if cfg == nil {
		return
	}

	if len(cfg.TUI.CustomTheme) > 0 {
		if err := theme.LoadCustomTheme(cfg.TUI.CustomTheme); err != nil {
			slog.Warn("Failed to load custom theme from config", "error", err)
		}
	}

	if cfg.TUI.Theme == "" {
		return // Use default theme
	}

	err := theme.SetTheme(cfg.TUI.Theme)
	if err != nil {
		slog.Warn("Failed to set theme from config, using default theme", "theme", cfg.TUI.Theme, "error", err)
	} else {
		slog.Debug("Set theme from config", "theme", cfg.TUI.Theme)
	}
}

// startWatcher re-syncs the library when markdown files change on disk.
// Events are debounced so editors that write in bursts trigger one sync.
func (app *App) startWatcher(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(app.workingDir); err != nil {
		watcher.Close()
		return err
	}
	app.watcher = watcher

	watchCtx, cancel := context.WithCancel(ctx)
	app.cancelFuncsMutex.Lock()
	app.watcherCancelFuncs = append(app.watcherCancelFuncs, cancel)
	app.cancelFuncsMutex.Unlock()

	app.watcherWG.Add(1)
	go func() {
		defer logging.RecoverPanic("file-watcher", nil)
		defer app.watcherWG.Done()

		var debounce *time.Timer
		for {
			select {
			case <-watchCtx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !strings.HasSuffix(event.Name, ".md") {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if base := filepath.Base(event.Name); strings.HasPrefix(base, ".") {
					continue
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(500*time.Millisecond, func() {
					if _, err := note.Discover(watchCtx, app.workingDir); err != nil {
						slog.Warn("Workspace re-sync failed", "error", err)
					}
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("File watcher error", "error", err)
			}
		}
	}()

	return nil
}

// Shutdown performs a clean shutdown of the application
func (app *App) Shutdown() {
	app.cancelFuncsMutex.Lock()
	for _, cancel := range app.watcherCancelFuncs {
		cancel()
	}
	app.cancelFuncsMutex.Unlock()

	if app.watcher != nil {
		app.watcher.Close()
	}
	app.watcherWG.Wait()

	if app.conn != nil {
		app.conn.Close()
	}
}
