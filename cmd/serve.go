package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"log/slog"

	"github.com/spf13/cobra"

	"github.com/notedown-sh/notedown/pkg/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the notes library over HTTP",
	Long: `Serve starts a read-only HTTP server for the notes library. Notes are
listed at /notes and rendered as HTML at /notes/:id; the OpenAPI document
is served at /openapi.json.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		setupConsoleLogging(verbose)

		port, _ := cmd.Flags().GetInt("port")

		conn, err := initConsole(cmd)
		if err != nil {
			return err
		}
		defer conn.Close()

		srv, err := server.New(port)
		if err != nil {
			return fmt.Errorf("server.New: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(cmd.OutOrStdout(), "Serving notes on http://localhost:%d\n", srv.Port())
		if err := srv.Start(ctx); err != nil {
			slog.Error("Server stopped", "error", err)
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntP("port", "p", 8910, "Port to listen on")
	serveCmd.Flags().Bool("verbose", false, "Verbose console logging")
	rootCmd.AddCommand(serveCmd)
}
