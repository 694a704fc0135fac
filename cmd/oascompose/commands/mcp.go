package commands

import (
	"github.com/spf13/cobra"

	"github.com/erraggy/oascompose/internal/mcpserver"
)

var mcpRunner = mcpserver.Run

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server on stdio",
		Long: "Run a Model Context Protocol server on stdin/stdout exposing the parse, join, " +
			"nest and validate tools. Settings are read from OASCOMPOSE_* environment variables.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return mcpRunner(cmd.Context())
		},
	}
}
