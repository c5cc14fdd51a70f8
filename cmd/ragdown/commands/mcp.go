package commands

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/ragdown/internal/logger"
	"github.com/jmylchreest/ragdown/internal/mcptools"
	"github.com/jmylchreest/ragdown/internal/version"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve ragdown tools over the Model Context Protocol (stdio)",
	Long: `Run an MCP server on stdin/stdout exposing the tools
convert_to_markdown, create_chunks, chunking_stats and invalidate_cache.

Logs go to stderr; stdout carries the protocol.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	svc, closeSvc, err := loadService()
	if err != nil {
		return err
	}
	defer closeSvc()

	ctx, cancel := signalContext()
	defer cancel()

	server := mcptools.NewServer(svc)
	logger.Info("mcp server starting", "name", mcptools.ServerName, "version", version.String())
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		logger.Error("mcp server stopped", "error", err)
		return err
	}
	return nil
}
