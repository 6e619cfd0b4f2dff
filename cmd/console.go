package cmd

import (
	"io"
	"os"
	"sync"
	"time"

	"log/slog"

	charmlog "github.com/charmbracelet/log"
)

// syncWriter serializes writes so spinner frames and log lines from
// different goroutines never interleave on the same terminal.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (sw *syncWriter) Write(p []byte) (n int, err error) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.w.Write(p)
}

func newSyncWriter(w io.Writer) io.Writer {
	return &syncWriter{w: w}
}

// setupConsoleLogging routes slog through charmbracelet/log for the
// non-interactive subcommands so output reads like a console tool rather
// than logfmt records.
func setupConsoleLogging(verbose bool) {
	level := charmlog.WarnLevel
	if verbose {
		level = charmlog.DebugLevel
	}

	charmLogger := charmlog.NewWithOptions(newSyncWriter(os.Stderr), charmlog.Options{
		Level:           level,
		ReportTimestamp: verbose,
		TimeFormat:      time.RFC3339,
		Prefix:          "notedown",
	})

	charmlog.SetDefault(charmLogger)
	slog.SetDefault(slog.New(charmLogger))
}
