package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcp_internal "github.com/huangsam/devlog/internal/mcp"
	"github.com/huangsam/devlog/internal/store"
	"github.com/huangsam/devlog/schema"
)

func newServerWithData(t *testing.T) *server.MCPServer {
	t.Helper()
	st, err := store.Open(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	ctx := context.Background()
	_, err = st.UpsertCommit(ctx, &schema.Commit{
		Hash: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", AuthorName: "Alice", AuthorEmail: "alice@example.com",
		AuthoredAt: "2026-02-01T09:00:00Z", Message: "Fix crash", IsFix: true, ErrorTags: "fix,crash",
		Files: []schema.FileChange{{Path: "a.go", Additions: 5, Deletions: 1}},
	})
	require.NoError(t, err)

	return mcp_internal.NewMCPServer(st, 10)
}

func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	return res
}

func TestMCPServerTools(t *testing.T) {
	s := newServerWithData(t)

	t.Run("get_kpis returns totals", func(t *testing.T) {
		res := callTool(t, s, "get_kpis", map[string]any{})
		require.False(t, res.IsError)

		var kpis schema.KPIResult
		require.NoError(t, json.Unmarshal([]byte(res.Content[0].(mcp.TextContent).Text), &kpis))
		assert.Equal(t, 1, kpis.Commits)
		assert.Equal(t, 1, kpis.FixCommits)
	})

	t.Run("get_commit_volume returns day buckets", func(t *testing.T) {
		res := callTool(t, s, "get_commit_volume", map[string]any{})
		require.False(t, res.IsError)

		var points []schema.VolumePoint
		require.NoError(t, json.Unmarshal([]byte(res.Content[0].(mcp.TextContent).Text), &points))
		require.Len(t, points, 1)
		assert.Equal(t, "2026-02-01", points[0].Day)
	})

	t.Run("get_top_authors honors limit", func(t *testing.T) {
		res := callTool(t, s, "get_top_authors", map[string]any{"limit": 5.0})
		require.False(t, res.IsError)

		var authors []schema.AuthorActivity
		require.NoError(t, json.Unmarshal([]byte(res.Content[0].(mcp.TextContent).Text), &authors))
		require.Len(t, authors, 1)
		assert.Equal(t, "alice@example.com", authors[0].Email)
	})

	t.Run("get_top_authors filters by author email", func(t *testing.T) {
		tool := s.GetTool("get_top_authors")
		require.NotNil(t, tool)
		assert.Contains(t, tool.Tool.InputSchema.Properties, "authors")

		res := callTool(t, s, "get_top_authors", map[string]any{"authors": "bob@example.com"})
		require.False(t, res.IsError)
		assert.Equal(t, "null", res.Content[0].(mcp.TextContent).Text, "no commits by bob")
	})

	t.Run("get_kpis applies fix_only", func(t *testing.T) {
		res := callTool(t, s, "get_kpis", map[string]any{"fix_only": true})
		require.False(t, res.IsError)

		var kpis schema.KPIResult
		require.NoError(t, json.Unmarshal([]byte(res.Content[0].(mcp.TextContent).Text), &kpis))
		assert.Equal(t, 1, kpis.Commits)
		assert.Equal(t, 1, kpis.FixCommits)
	})

	t.Run("get_file_trend requires pattern", func(t *testing.T) {
		res := callTool(t, s, "get_file_trend", map[string]any{})
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "pattern is required")
	})

	t.Run("get_kpis rejects malformed dates", func(t *testing.T) {
		res := callTool(t, s, "get_kpis", map[string]any{"start": "02/01/2026"})
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "invalid filter parameters")
	})

	t.Run("get_top_files applies pattern", func(t *testing.T) {
		res := callTool(t, s, "get_top_files", map[string]any{"pattern": "%.md"})
		require.False(t, res.IsError)
		assert.Equal(t, "null", res.Content[0].(mcp.TextContent).Text, "no markdown files ingested")
	})
}
