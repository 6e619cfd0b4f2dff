package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/notedown-sh/notedown/internal/format"
	"github.com/notedown-sh/notedown/internal/note"
)

var exportCmd = &cobra.Command{
	Use:   "export <note>",
	Short: "Export a note to stdout or a file",
	Long: `Export renders a note in the requested format. The note argument is
matched against note IDs, file paths, and titles, in that order.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		setupConsoleLogging(verbose)

		formatFlag, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		outputFormat := format.OutputFormat(formatFlag)
		if !outputFormat.IsValid() {
			return fmt.Errorf("invalid format %q (markdown, text, terminal, json, html)", formatFlag)
		}

		conn, err := initConsole(cmd)
		if err != nil {
			return err
		}
		defer conn.Close()

		ctx := cmd.Context()
		n, err := resolveNote(ctx, args[0])
		if err != nil {
			return err
		}

		rendered, err := format.FormatNote(n.Title, n.Body, outputFormat)
		if err != nil {
			return fmt.Errorf("format.FormatNote: %w", err)
		}

		if output != "" {
			if err := os.WriteFile(output, []byte(rendered), 0o644); err != nil {
				return fmt.Errorf("os.WriteFile: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %q to %s\n", n.Title, output)
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), rendered)
		return nil
	},
}

// resolveNote finds a note by ID, then by path, then by a unique
// case-insensitive title match.
func resolveNote(ctx context.Context, ref string) (note.Note, error) {
	if n, err := note.Get(ctx, ref); err == nil {
		return n, nil
	}
	if n, err := note.GetByPath(ctx, ref); err == nil {
		return n, nil
	}

	all, err := note.List(ctx)
	if err != nil {
		return note.Note{}, fmt.Errorf("note.List: %w", err)
	}

	var matches []note.Note
	for _, n := range all {
		if strings.EqualFold(n.Title, ref) {
			matches = append(matches, n)
		}
	}
	switch len(matches) {
	case 0:
		return note.Note{}, fmt.Errorf("no note matching %q", ref)
	case 1:
		return matches[0], nil
	default:
		return note.Note{}, fmt.Errorf("%d notes titled %q, use the ID or path", len(matches), ref)
	}
}

func init() {
	exportCmd.Flags().StringP("format", "f", "markdown", "Output format (markdown, text, terminal, json, html)")
	exportCmd.Flags().StringP("output", "o", "", "Write to file instead of stdout")
	exportCmd.Flags().Bool("verbose", false, "Verbose console logging")
	rootCmd.AddCommand(exportCmd)
}
