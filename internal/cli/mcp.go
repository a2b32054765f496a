package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/semanta/internal/config"
	"github.com/mvp-joe/semanta/internal/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp [path]",
	Short: "Serve the scanner over the Model Context Protocol on stdio",
	Long: `Mcp starts an MCP server exposing two tools: semanta_symbols
(scan a directory, return its symbol table as JSON) and semanta_tree
(parse one file, return its syntax tree dump). Intended to be launched
by an MCP client, not interactively.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	cfg, err := config.LoadFromDir(root)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	return mcp.NewServer(root, cfg).Serve(context.Background())
}
