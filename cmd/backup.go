package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/notedown-sh/notedown/internal/backup"
	"github.com/notedown-sh/notedown/internal/config"
	"github.com/notedown-sh/notedown/internal/tui/components/spinner"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Snapshot the notes library to a blob store",
	Long: `Backup writes every note and its revision history to the configured
blob destination as a timestamped snapshot. The destination is any gocloud
blob URL, e.g. file:///var/backups/notes or s3://bucket/prefix.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		setupConsoleLogging(verbose)

		dest, _ := cmd.Flags().GetString("dest")

		conn, err := initConsole(cmd)
		if err != nil {
			return err
		}
		defer conn.Close()

		if dest == "" {
			dest = config.Get().Backup.Destination
		}
		if dest == "" {
			return fmt.Errorf("no backup destination: pass --dest or set backup.destination in config")
		}

		s := spinner.NewSpinner("Backing up to " + dest + "...")
		s.Start()
		name, err := backup.Snapshot(cmd.Context(), dest)
		s.Stop()
		if err != nil {
			return fmt.Errorf("backup.Snapshot: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Backup written: %s\n", name)
		return nil
	},
}

func init() {
	backupCmd.Flags().String("dest", "", "Blob destination URL (defaults to config backup.destination)")
	rootCmd.AddCommand(backupCmd)
}
