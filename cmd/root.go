package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"

	"github.com/notedown-sh/notedown/internal/app"
	"github.com/notedown-sh/notedown/internal/config"
	"github.com/notedown-sh/notedown/internal/db"
	"github.com/notedown-sh/notedown/internal/logging"
	"github.com/notedown-sh/notedown/internal/note"
	"github.com/notedown-sh/notedown/internal/pubsub"
	"github.com/notedown-sh/notedown/internal/revision"
	"github.com/notedown-sh/notedown/internal/tui"
	"github.com/notedown-sh/notedown/internal/tui/page"
	"github.com/notedown-sh/notedown/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "notedown [file]",
	Short: "A block-based notes editor for the terminal",
	Long: `Notedown is a terminal notes editor built around typed blocks: type / at
the start of a block to turn it into a heading, list, quote, code block and
more. Notes live as markdown files in the working directory and are indexed
in a local database with full revision history.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flag("help").Changed {
			cmd.Help()
			return nil
		}
		if cmd.Flag("version").Changed {
			fmt.Println(version.Version)
			return nil
		}

		// Setup logging
		lvl := new(slog.LevelVar)
		logger := slog.New(slog.NewTextHandler(logging.NewSlogWriter(), &slog.HandlerOptions{Level: lvl}))
		slog.SetDefault(logger)

		// Load the config
		debug, _ := cmd.Flags().GetBool("debug")
		cwd, _ := cmd.Flags().GetString("cwd")
		if cwd != "" {
			err := os.Chdir(cwd)
			if err != nil {
				return fmt.Errorf("failed to change directory: %v", err)
			}
		}
		if cwd == "" {
			c, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get current working directory: %v", err)
			}
			cwd = c
		}
		_, err := config.Load(cwd, debug, lvl)
		if err != nil {
			return err
		}

		// Connect DB, this will also run migrations
		conn, err := db.Connect()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		app, err := app.New(ctx, conn)
		if err != nil {
			slog.Error("Failed to create app", "error", err)
			return err
		}

		// An optional path argument opens that note directly. Discovery in
		// app.New has already indexed it if the file exists on disk.
		var initial *note.Note
		if len(args) == 1 {
			rel, err := filepath.Rel(app.WorkingDir(), filepath.Clean(args[0]))
			if err != nil || strings.HasPrefix(rel, "..") {
				rel = filepath.Clean(args[0])
			}
			n, err := note.GetByPath(ctx, rel)
			if err != nil {
				return fmt.Errorf("no note at %q: %v", args[0], err)
			}
			initial = &n
		}

		// Set up the TUI
		zone.NewGlobal()
		program := tea.NewProgram(
			tui.New(app),
			tea.WithAltScreen(),
			tea.WithMouseCellMotion(),
		)

		// Setup the subscriptions, this will send services events to the TUI
		ch, cancelSubs := setupSubscriptions(app, ctx)

		tuiCtx, tuiCancel := context.WithCancel(ctx)
		var tuiWg sync.WaitGroup
		tuiWg.Add(1)

		go func() {
			defer tuiWg.Done()
			defer logging.RecoverPanic("TUI-message-handler", func() {
				program.Quit()
			})

			for {
				select {
				case <-tuiCtx.Done():
					slog.Info("TUI message handler shutting down")
					return
				case msg, ok := <-ch:
					if !ok {
						slog.Info("TUI message channel closed")
						return
					}
					program.Send(msg)
				}
			}
		}()

		cleanup := func() {
			cancelSubs()
			app.Shutdown()
			tuiCancel()
			tuiWg.Wait()
			slog.Info("All goroutines cleaned up")
		}

		if initial != nil {
			n := *initial
			go program.Send(page.NoteSelectedMsg{Note: n})
		}

		result, err := program.Run()
		cleanup()

		if err != nil {
			slog.Error("TUI error", "error", err)
			return fmt.Errorf("TUI error: %v", err)
		}

		slog.Info("TUI exited", "result", result)
		return nil
	},
}

// initConsole prepares config, database, and services for the
// non-interactive subcommands. Console logging is expected to be set up by
// the caller; the caller also owns the returned connection.
func initConsole(cmd *cobra.Command) (*sql.DB, error) {
	lvl := new(slog.LevelVar)

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current working directory: %v", err)
	}
	debug, _ := cmd.Root().PersistentFlags().GetBool("debug")
	if _, err := config.Load(cwd, debug, lvl); err != nil {
		return nil, err
	}

	conn, err := db.Connect()
	if err != nil {
		return nil, err
	}

	if err := logging.InitService(conn); err != nil {
		return nil, err
	}
	if err := note.InitService(conn); err != nil {
		return nil, err
	}
	if err := revision.InitService(conn); err != nil {
		return nil, err
	}
	return conn, nil
}

func setupSubscriber[T any](
	ctx context.Context,
	wg *sync.WaitGroup,
	name string,
	subscriber func(context.Context) <-chan pubsub.Event[T],
	outputCh chan<- tea.Msg,
) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer logging.RecoverPanic(fmt.Sprintf("subscription-%s", name), nil)

		subCh := subscriber(ctx)
		if subCh == nil {
			slog.Warn("subscription channel is nil", "name", name)
			return
		}

		for {
			select {
			case event, ok := <-subCh:
				if !ok {
					slog.Info("subscription channel closed", "name", name)
					return
				}

				var msg tea.Msg = event

				select {
				case outputCh <- msg:
				case <-time.After(2 * time.Second):
					slog.Warn("message dropped due to slow consumer", "name", name)
				case <-ctx.Done():
					slog.Info("subscription cancelled", "name", name)
					return
				}
			case <-ctx.Done():
				slog.Info("subscription cancelled", "name", name)
				return
			}
		}
	}()
}

func setupSubscriptions(app *app.App, parentCtx context.Context) (chan tea.Msg, func()) {
	ch := make(chan tea.Msg, 100)

	wg := sync.WaitGroup{}
	ctx, cancel := context.WithCancel(parentCtx)

	setupSubscriber(ctx, &wg, "logging", app.Logs.Subscribe, ch)
	setupSubscriber(ctx, &wg, "notes", app.Notes.Subscribe, ch)
	setupSubscriber(ctx, &wg, "revisions", app.Revisions.Subscribe, ch)
	setupSubscriber(ctx, &wg, "status", app.Status.Subscribe, ch)

	cleanupFunc := func() {
		slog.Info("Cancelling all subscriptions")
		cancel()

		waitCh := make(chan struct{})
		go func() {
			defer logging.RecoverPanic("subscription-cleanup", nil)
			wg.Wait()
			close(waitCh)
		}()

		select {
		case <-waitCh:
			slog.Info("All subscription goroutines completed successfully")
			close(ch)
		case <-time.After(5 * time.Second):
			slog.Warn("Timed out waiting for some subscription goroutines to complete")
			close(ch)
		}
	}
	return ch, cleanupFunc
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("help", "h", false, "Help")
	rootCmd.Flags().BoolP("version", "v", false, "Version")
	rootCmd.Flags().StringP("cwd", "c", "", "Current working directory")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")
}
