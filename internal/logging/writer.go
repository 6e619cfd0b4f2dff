package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-logfmt/logfmt"
)

type slogWriter struct{}

func (sw *slogWriter) Write(p []byte) (n int, err error) {
	// Example: time=2024-05-09T12:34:56.789-05:00 level=INFO msg="Note saved" note=xyz foo=bar
	d := logfmt.NewDecoder(bytes.NewReader(p))
	for d.ScanRecord() {
		var timestamp time.Time
		var level string
		var message string
		attributes := make(map[string]string)
		hasTimestamp := false

		for d.ScanKeyval() {
			key := string(d.Key())
			value := string(d.Value())

			switch key {
			case "time":
				parsedTime, timeErr := time.Parse(time.RFC3339Nano, value)
				if timeErr != nil {
					parsedTime, timeErr = time.Parse(time.RFC3339, value)
					if timeErr != nil {
						slog.Error("Failed to parse time in slog writer", "value", value, "error", timeErr)
						timestamp = time.Now().UTC()
						hasTimestamp = true
						continue
					}
				}
				timestamp = parsedTime
				hasTimestamp = true
			case "level":
				level = strings.ToLower(value)
			case "msg", "message":
				message = value
			default:
				attributes[key] = value
			}
		}
		if d.Err() != nil {
			return len(p), fmt.Errorf("logfmt.ScanRecord: %w", d.Err())
		}

		if !hasTimestamp {
			timestamp = time.Now()
		}

		// Persist via the service in a goroutine to keep slog itself cheap.
		go func(timestamp time.Time, level, message string, attributes map[string]string) {
			if globalLoggingService == nil {
				return
			}
			if err := Create(context.Background(), timestamp, level, message, attributes); err != nil {
				fmt.Fprintf(os.Stderr, "ERROR [logging.slogWriter]: failed to persist log: %v\n", err)
			}
		}(timestamp, level, message, attributes)
	}
	if d.Err() != nil {
		return len(p), fmt.Errorf("logfmt.ScanRecord final: %w", d.Err())
	}
	return len(p), nil
}

func NewSlogWriter() io.Writer {
	return &slogWriter{}
}

// RecoverPanic logs the panic, writes a panic log file with the stack trace,
// and runs an optional cleanup function.
func RecoverPanic(name string, cleanup func()) {
	if r := recover(); r != nil {
		errorMsg := fmt.Sprintf("Panic in %s: %v", name, r)
		// Use slog directly here, as our service might be the one panicking.
		slog.Error(errorMsg)

		timestamp := time.Now().Format("20060102-150405")
		filename := fmt.Sprintf("notedown-panic-%s-%s.log", name, timestamp)

		file, err := os.Create(filename)
		if err != nil {
			slog.Error(fmt.Sprintf("Failed to create panic log file '%s': %v", filename, err))
		} else {
			defer file.Close()
			fmt.Fprintf(file, "Panic in %s: %v\n\n", name, r)
			fmt.Fprintf(file, "Time: %s\n\n", time.Now().Format(time.RFC3339))
			fmt.Fprintf(file, "Stack Trace:\n%s\n", string(debug.Stack()))
			slog.Info(fmt.Sprintf("Panic details written to %s", filename))
		}

		if cleanup != nil {
			cleanup()
		}
	}
}
