// Package backup snapshots the notes library into a blob bucket.
package backup

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"golang.org/x/sync/errgroup"

	"github.com/notedown-sh/notedown/internal/note"
)

// Snapshot writes every note to destURL under a timestamped prefix and
// returns the prefix. destURL is a gocloud blob URL (e.g. file:///backups);
// plain paths are treated as local directories.
func Snapshot(ctx context.Context, destURL string) (string, error) {
	bucket, err := openBucket(ctx, destURL)
	if err != nil {
		return "", err
	}
	defer bucket.Close()

	notes, err := note.List(ctx)
	if err != nil {
		return "", fmt.Errorf("listing notes: %w", err)
	}

	prefix := time.Now().UTC().Format("20060102-150405")
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, n := range notes {
		key := path.Join(prefix, keyFor(n))
		body := n.Body
		g.Go(func() error {
			w, err := bucket.NewWriter(gctx, key, &blob.WriterOptions{
				ContentType: "text/markdown",
			})
			if err != nil {
				return fmt.Errorf("bucket.NewWriter %s: %w", key, err)
			}
			if _, err := w.Write([]byte(body)); err != nil {
				w.Close()
				return fmt.Errorf("writing %s: %w", key, err)
			}
			if err := w.Close(); err != nil {
				return fmt.Errorf("closing %s: %w", key, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	slog.Info("Backup complete", "destination", destURL, "prefix", prefix, "notes", len(notes))
	return prefix, nil
}

func openBucket(ctx context.Context, destURL string) (*blob.Bucket, error) {
	if strings.Contains(destURL, "://") {
		bucket, err := blob.OpenBucket(ctx, destURL)
		if err != nil {
			return nil, fmt.Errorf("blob.OpenBucket %s: %w", destURL, err)
		}
		return bucket, nil
	}

	if err := os.MkdirAll(destURL, 0o755); err != nil {
		return nil, fmt.Errorf("creating backup directory: %w", err)
	}
	bucket, err := fileblob.OpenBucket(destURL, &fileblob.Options{
		NoTempDir: true,
	})
	if err != nil {
		return nil, fmt.Errorf("fileblob.OpenBucket %s: %w", destURL, err)
	}
	return bucket, nil
}

// keyFor derives a stable object key from the note. Paths become relative
// keys; notes without usable paths fall back to their ID.
func keyFor(n note.Note) string {
	p := strings.TrimPrefix(n.Path, "/")
	p = strings.ReplaceAll(p, "..", "")
	if p == "" {
		return n.ID + ".md"
	}
	return p
}
