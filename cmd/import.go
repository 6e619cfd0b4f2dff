package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/notedown-sh/notedown/internal/config"
	"github.com/notedown-sh/notedown/internal/importer"
	"github.com/notedown-sh/notedown/internal/note"
	"github.com/notedown-sh/notedown/internal/revision"
	"github.com/notedown-sh/notedown/internal/tui/components/spinner"
)

var importCmd = &cobra.Command{
	Use:   "import <file|url>",
	Short: "Import an HTML or markdown document as a note",
	Long: `Import converts a document into a note in the working directory.
HTML files and URLs are converted to markdown; markdown files are taken
as-is. The first heading becomes the title unless --title is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		setupConsoleLogging(verbose)

		titleFlag, _ := cmd.Flags().GetString("title")
		source := args[0]

		conn, err := initConsole(cmd)
		if err != nil {
			return err
		}
		defer conn.Close()

		ctx := cmd.Context()

		var result importer.Result
		switch {
		case strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://"):
			s := spinner.NewSpinner("Fetching " + source + "...")
			s.Start()
			result, err = importer.FromURL(ctx, source)
			s.Stop()
			if err != nil {
				return fmt.Errorf("importer.FromURL: %w", err)
			}
		case strings.HasSuffix(source, ".html") || strings.HasSuffix(source, ".htm"):
			raw, err := os.ReadFile(source)
			if err != nil {
				return fmt.Errorf("os.ReadFile: %w", err)
			}
			result, err = importer.FromHTML(string(raw))
			if err != nil {
				return fmt.Errorf("importer.FromHTML: %w", err)
			}
		case strings.HasSuffix(source, ".md"):
			raw, err := os.ReadFile(source)
			if err != nil {
				return fmt.Errorf("os.ReadFile: %w", err)
			}
			result = importer.Result{
				Title:    strings.TrimSuffix(filepath.Base(source), ".md"),
				Markdown: string(raw),
			}
		default:
			return fmt.Errorf("unsupported source %q: expected a URL, .html, or .md file", source)
		}

		title := titleFlag
		if title == "" {
			title = result.Title
		}
		if title == "" {
			title = "Untitled"
		}

		path := note.Slug(title) + ".md"
		n, err := note.Create(ctx, title, path, result.Markdown)
		if err != nil {
			return fmt.Errorf("note.Create: %w", err)
		}
		if _, err := revision.Create(ctx, n.ID, n.Body); err != nil {
			return fmt.Errorf("revision.Create: %w", err)
		}

		target := filepath.Join(config.WorkingDirectory(), path)
		if err := os.WriteFile(target, []byte(result.Markdown), 0o644); err != nil {
			return fmt.Errorf("os.WriteFile: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %q as %s\n", title, path)
		return nil
	},
}

func init() {
	importCmd.Flags().StringP("title", "t", "", "Title for the imported note")
	importCmd.Flags().Bool("verbose", false, "Verbose console logging")
	rootCmd.AddCommand(importCmd)
}
