package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/christopherbholland/PaperBoi/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

The server exposes the process_paper, list_papers and read_summary tools and the
paperboi://papers resource. By default it communicates over stdio using
JSON-RPC, which suits desktop assistants that launch it as a subprocess.

Use --port to start an HTTP server instead, which enables:
  - Testing with MCP Inspector
  - Sharing one server between several clients

Examples:
  # Stdio mode (default)
  paperboi mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  paperboi mcp serve --port 8080

Client configuration:
  {
    "mcpServers": {
      "paperboi": {
        "command": "/path/to/paperboi",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	papers, err := loadPaperService()
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{Paper: papers})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		cmd.Printf("MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
