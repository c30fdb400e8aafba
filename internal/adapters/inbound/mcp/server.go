package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/migrakit/migrakit/internal/application"
)

// NewMigrakitMCPServer creates a new MCP server with all migrakit tools and
// resources registered. The projectPath is the directory holding
// .migrakit.yaml and the saved reports.
func NewMigrakitMCPServer(projectPath string, svc *application.ReadinessService) *server.MCPServer {
	s := server.NewMCPServer(
		"migrakit",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, projectPath, svc)
	registerResources(s, projectPath, svc)

	return s
}
