package cmd

import (
	"github.com/spf13/cobra"

	"github.com/notedown-sh/notedown/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose the notes library as an MCP server on stdio",
	Long: `Mcp runs a Model Context Protocol server over stdin/stdout so LLM
clients can list, read, and search notes. Logging stays off stdout to keep
the protocol stream clean.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// stdio carries the protocol; logs must go to stderr only.
		setupConsoleLogging(false)

		conn, err := initConsole(cmd)
		if err != nil {
			return err
		}
		defer conn.Close()

		return mcp.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
