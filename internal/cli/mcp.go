package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/scriptlens/internal/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for script analysis",
	Long: `Start the Model Context Protocol (MCP) server that lets LLM-powered coding
assistants analyze automation scripts.

The MCP server provides:
- script_outline: structural outline of a script
- script_references: members accessed off root objects
- Communicates via stdio (standard MCP transport)

Relative file_path arguments resolve against the current directory.

Example:
  scriptlens mcp`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	projectPath, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	logger := slog.Default()
	svc, err := newService(cfg, logger)
	if err != nil {
		return err
	}

	server, err := mcp.NewMCPServer(&mcp.MCPServerConfig{
		ProjectPath:  projectPath,
		DefaultRoots: cfg.References.Roots,
	}, svc, logger)
	if err != nil {
		svc.Close()
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer server.Close()

	fmt.Fprintf(cmd.ErrOrStderr(), "Scriptlens MCP Server\nProject: %s\n\n", projectPath)

	if err := server.Serve(cmd.Context()); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}
