package cli

import (
	mcpadapter "github.com/migrakit/migrakit/internal/adapters/inbound/mcp"
	"github.com/migrakit/migrakit/internal/adapters/outbound/progress"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the migrakit MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd())
	return cmd
}

func newMCPServeCmd() *cobra.Command {
	var projectPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start migrakit MCP server (stdio)",
		Long:  "Start the migrakit MCP server using stdio transport. Assistants can run evaluations and read the latest report and decision history.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if projectPath == "" {
				projectPath = "."
			}
			s := mcpadapter.NewMigrakitMCPServer(projectPath, NewReadinessService("", progress.NoOp{}))
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&projectPath, "path", "", "Project path (defaults to current working directory)")

	return cmd
}
