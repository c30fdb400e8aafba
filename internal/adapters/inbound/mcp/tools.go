package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/migrakit/migrakit/internal/application"
)

// registerTools registers all migrakit MCP tools on the given server.
func registerTools(s *server.MCPServer, projectPath string, svc *application.ReadinessService) {
	// 1. migrakit_evaluate
	s.AddTool(
		mcplib.NewTool("migrakit_evaluate",
			mcplib.WithDescription("Runs a full readiness evaluation and returns the Go/No-Go report as JSON"),
			mcplib.WithBoolean("no_save",
				mcplib.Description("Skip writing the report file and history entry"),
			),
		),
		handleEvaluate(projectPath, svc),
	)

	// 2. migrakit_validate
	s.AddTool(
		mcplib.NewTool("migrakit_validate",
			mcplib.WithDescription("Runs one constraint validator and returns its report"),
			mcplib.WithString("validator",
				mcplib.Required(),
				mcplib.Description("Validator to run: referential, unique or required"),
			),
		),
		handleValidate(projectPath, svc),
	)

	// 3. migrakit_quality
	s.AddTool(
		mcplib.NewTool("migrakit_quality",
			mcplib.WithDescription("Scores completeness, accuracy, consistency and validity of the dataset"),
		),
		handleQuality(projectPath, svc),
	)

	// 4. migrakit_history
	s.AddTool(
		mcplib.NewTool("migrakit_history",
			mcplib.WithDescription("Returns past Go/No-Go decisions, oldest first"),
		),
		handleHistory(projectPath, svc),
	)
}

func handleEvaluate(projectPath string, svc *application.ReadinessService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		noSave, _ := request.GetArguments()["no_save"].(bool)

		result, err := svc.Evaluate(ctx, projectPath, application.EvaluateOptions{NoSave: noSave})
		if err != nil {
			return errorResult(fmt.Sprintf("evaluation failed: %v", err)), nil
		}
		return jsonResult(result.Report)
	}
}

func handleValidate(projectPath string, svc *application.ReadinessService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		validator, err := request.RequireString("validator")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		report, err := svc.Validate(ctx, projectPath, validator)
		if err != nil {
			return errorResult(fmt.Sprintf("validation failed: %v", err)), nil
		}
		return jsonResult(report)
	}
}

func handleQuality(projectPath string, svc *application.ReadinessService) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		report, err := svc.AssessQuality(ctx, projectPath)
		if err != nil {
			return errorResult(fmt.Sprintf("quality assessment failed: %v", err)), nil
		}
		return jsonResult(report)
	}
}

func handleHistory(projectPath string, svc *application.ReadinessService) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		entries, err := svc.History(projectPath)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		if len(entries) == 0 {
			return textResult("No decision history found."), nil
		}
		return jsonResult(entries)
	}
}

// jsonResult marshals v to indented JSON and returns it as a text content result.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// textResult returns a plain text content result.
func textResult(text string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(text)},
	}
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
