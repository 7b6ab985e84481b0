package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vibe-coder/vibe/internal/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for the workspace",
	Long: `Start the Model Context Protocol (MCP) server so coding assistants can drive
the workspace.

The MCP server provides:
- vibe_command: run any command of the vibe command language
- vibe_outline: functions, structs and enums of a file as JSON
- vibe_tree: the workspace directory tree

It communicates via stdio; logs go to stderr.

Example:
  vibe mcp --root ./my-game`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	s, err := sessionFromFlags()
	if err != nil {
		return err
	}
	defer s.close()

	server, err := mcp.NewServer(s.exec, Version, s.logger)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	// Serve (blocks until shutdown)
	if err := server.Serve(cmd.Context()); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}
