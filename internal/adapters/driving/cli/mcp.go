package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/risklists/internal/adapters/driving/mcpserver"
	"github.com/custodia-labs/risklists/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the list tools over MCP on stdio",
	Long: `Run a Model Context Protocol server on stdin and stdout. Tools:
get_list, clean_list, compare_versions, translate_query and
extract_pptx_tables. Tools whose service is not configured are omitted.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	server, err := mcpserver.New(version, mcpserver.Dependencies{
		Lists:         listService,
		History:       historyService,
		Query:         queryService,
		Presentations: presentationService,
		Logger:        logger.L(),
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmdContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return server.RunStdio(ctx)
}
