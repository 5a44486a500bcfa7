package cmd

import (
	"github.com/huangsam/evotrack/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd starts the MCP server for AI assistant integration.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for AI assistant integration",
	Long: `Start a Model Context Protocol (MCP) server that exposes evotrack
analyses as callable tools for AI assistants.

The server communicates over stdio and exposes tools for change detection,
transformation discovery, evolution reports, score analytics and composite
scoring against any observation bundle.

Example client configuration (e.g. for Claude Desktop):

  {
    "mcpServers": {
      "evotrack": {
        "command": "/path/to/evotrack",
        "args": ["mcp", "/path/to/bundle"]
      }
    }
  }`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Full setup so tools inherit backend/cache configuration, but all
		// logging must stay off stdout to keep the stdio transport clean.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
