package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/migrakit/migrakit/internal/application"
	"github.com/migrakit/migrakit/internal/domain"
)

const (
	uriLatestReport = "migrakit://report/latest"
	uriHistory      = "migrakit://history"
	uriConfig       = "migrakit://config"
)

// registerResources registers all migrakit MCP resources on the given server.
func registerResources(s *server.MCPServer, projectPath string, svc *application.ReadinessService) {
	// 1. migrakit://report/latest - most recently saved report
	s.AddResource(
		mcplib.NewResource(
			uriLatestReport,
			"Latest Report",
			mcplib.WithResourceDescription("The most recently saved Go/No-Go report"),
			mcplib.WithMIMEType("application/json"),
		),
		handleLatestReportResource(projectPath, svc),
	)

	// 2. migrakit://history - decision history
	s.AddResource(
		mcplib.NewResource(
			uriHistory,
			"Decision History",
			mcplib.WithResourceDescription("Past Go/No-Go decisions, oldest first"),
			mcplib.WithMIMEType("application/json"),
		),
		handleHistoryResource(projectPath, svc),
	)

	// 3. migrakit://config - effective configuration
	s.AddResource(
		mcplib.NewResource(
			uriConfig,
			"Configuration",
			mcplib.WithResourceDescription("Effective configuration after defaults and environment overrides"),
			mcplib.WithMIMEType("application/json"),
		),
		handleConfigResource(projectPath, svc),
	)
}

func handleLatestReportResource(projectPath string, svc *application.ReadinessService) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		report, err := svc.LatestReport(projectPath)
		if err != nil {
			return nil, err
		}
		if report == nil {
			return nil, fmt.Errorf("no saved report (run migrakit evaluate first)")
		}
		return jsonResource(uriLatestReport, report)
	}
}

func handleHistoryResource(projectPath string, svc *application.ReadinessService) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		entries, err := svc.History(projectPath)
		if err != nil {
			return nil, err
		}
		if entries == nil {
			entries = []domain.DecisionEntry{}
		}
		return jsonResource(uriHistory, entries)
	}
}

func handleConfigResource(projectPath string, svc *application.ReadinessService) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		cfg, err := svc.Config(projectPath)
		if err != nil {
			return nil, err
		}
		cfg.Source.DatabaseURL = redactURL(cfg.Source.DatabaseURL)
		return jsonResource(uriConfig, cfg)
	}
}

func jsonResource(uri string, v any) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// redactURL hides the password of a database URL.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	return u.Redacted()
}
