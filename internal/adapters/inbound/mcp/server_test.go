package mcp_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/migrakit/migrakit/internal/adapters/inbound/cli"
	mcpadapter "github.com/migrakit/migrakit/internal/adapters/inbound/mcp"
	"github.com/migrakit/migrakit/internal/adapters/outbound/progress"
	"github.com/migrakit/migrakit/internal/domain"
)

func newTestServer(t *testing.T) *server.MCPServer {
	t.Helper()
	t.Setenv("MIGRAKIT_DATASET", "")
	t.Setenv("MIGRAKIT_DATABASE_URL", "")

	dataset, err := filepath.Abs(filepath.Join("..", "..", "..", "..", "testdata", "datasets", "clean.yaml"))
	require.NoError(t, err)
	dir := t.TempDir()
	cfg := fmt.Sprintf("source:\n  driver: dataset\n  dataset: %s\nreadiness:\n  min_free_disk_bytes: 1\n  backup_dir: backups\n", dataset)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".migrakit.yaml"), []byte(cfg), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "backups"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "backups", "crm.dump"), []byte("dump"), 0644))

	return mcpadapter.NewMigrakitMCPServer(dir, cli.NewReadinessService("", progress.NoOp{}))
}

func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) *mcplib.CallToolResult {
	t.Helper()
	tool, ok := s.ListTools()[name]
	require.True(t, ok, "tool %q should be registered", name)

	var req mcplib.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	result, err := tool.Handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func resultText(t *testing.T, result *mcplib.CallToolResult) string {
	t.Helper()
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcplib.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestMCPServerHasTools(t *testing.T) {
	s := newTestServer(t)

	tools := s.ListTools()
	require.NotNil(t, tools)

	expectedTools := []string{
		"migrakit_evaluate",
		"migrakit_validate",
		"migrakit_quality",
		"migrakit_history",
	}

	for _, name := range expectedTools {
		_, exists := tools[name]
		assert.True(t, exists, "tool %q should be registered", name)
	}

	assert.Len(t, tools, len(expectedTools), "should have exactly %d tools", len(expectedTools))
}

func TestEvaluateTool(t *testing.T) {
	s := newTestServer(t)

	result := callTool(t, s, "migrakit_evaluate", map[string]any{"no_save": true})
	assert.False(t, result.IsError)

	var report domain.ReadinessReport
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &report))
	assert.Equal(t, domain.RecommendGo, report.Decision.Recommendation)

	history := callTool(t, s, "migrakit_history", nil)
	assert.Equal(t, "No decision history found.", resultText(t, history))
}

func TestEvaluateTool_RecordsHistory(t *testing.T) {
	s := newTestServer(t)

	result := callTool(t, s, "migrakit_evaluate", nil)
	require.False(t, result.IsError)

	history := callTool(t, s, "migrakit_history", nil)
	var entries []domain.DecisionEntry
	require.NoError(t, json.Unmarshal([]byte(resultText(t, history)), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, 100, entries[0].Confidence)
}

func TestValidateTool(t *testing.T) {
	s := newTestServer(t)

	result := callTool(t, s, "migrakit_validate", map[string]any{"validator": "unique"})
	assert.False(t, result.IsError)
	var report domain.ValidationReport
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &report))
	assert.Equal(t, domain.StatusPassed, report.Status)

	unknown := callTool(t, s, "migrakit_validate", map[string]any{"validator": "spelling"})
	assert.True(t, unknown.IsError)
	assert.Contains(t, resultText(t, unknown), "unknown validator")

	missing := callTool(t, s, "migrakit_validate", map[string]any{})
	assert.True(t, missing.IsError)
}

func TestQualityTool(t *testing.T) {
	s := newTestServer(t)

	result := callTool(t, s, "migrakit_quality", nil)
	assert.False(t, result.IsError)

	var report domain.QualityReport
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &report))
	assert.InDelta(t, 100.0, report.OverallScore, 0.001)
}
