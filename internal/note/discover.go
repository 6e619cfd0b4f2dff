package note

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Discover walks the workspace for markdown files and syncs them into the
// library. Files already known keep their IDs; files whose content changed on
// disk win over the stored body. Returns the number of notes imported or
// refreshed.
func Discover(ctx context.Context, workingDir string) (int, error) {
	fsys := os.DirFS(workingDir)
	matches, err := doublestar.Glob(fsys, "**/*.md")
	if err != nil {
		return 0, fmt.Errorf("doublestar.Glob: %w", err)
	}

	synced := 0
	for _, match := range matches {
		if strings.HasPrefix(match, ".") || strings.Contains(match, "/.") {
			continue
		}
		abs := filepath.Join(workingDir, match)
		body, err := os.ReadFile(abs)
		if err != nil {
			slog.Warn("Skipping unreadable note file", "path", abs, "error", err)
			continue
		}

		title := titleFromFile(match, string(body))
		existing, err := GetByPath(ctx, abs)
		switch {
		case err == nil:
			if existing.Body != string(body) {
				if _, err := Update(ctx, existing.ID, title, string(body)); err != nil {
					return synced, err
				}
				synced++
			}
		case errors.Is(err, sql.ErrNoRows) || strings.Contains(err.Error(), "no rows"):
			if _, err := Create(ctx, title, abs, string(body)); err != nil {
				return synced, err
			}
			synced++
		default:
			return synced, err
		}
	}
	return synced, nil
}

// titleFromFile prefers the first H1 in the body, falling back to the file
// name without extension.
func titleFromFile(path, body string) string {
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(trimmed, "# "))
		}
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
