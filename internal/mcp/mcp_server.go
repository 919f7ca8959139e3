// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/huangsam/devlog/internal/store"
)

// NewMCPServer initializes and configures the DevLog MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(st *store.Store, limit int) *server.MCPServer {
	s := server.NewMCPServer(
		"DevLog Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		store: st,
		limit: limit,
	}

	// --- 1. Tool: get_kpis ---
	s.AddTool(mcp.NewTool("get_kpis",
		mcp.WithDescription("Get commit, addition, deletion and fix-commit totals over the ingested git history."),
		mcp.WithString("start", mcp.Description("Inclusive start date (YYYY-MM-DD).")),
		mcp.WithString("end", mcp.Description("Inclusive end date (YYYY-MM-DD).")),
		mcp.WithString("authors", mcp.Description("Comma-separated author emails to include.")),
		mcp.WithString("pattern", mcp.Description("SQL LIKE pattern limiting commits to those touching matching paths (e.g. '%.go').")),
		mcp.WithBoolean("fix_only", mcp.Description("Only include fix-tagged commits.")),
	), h.handleGetKPIs)

	// --- 2. Tool: get_commit_volume ---
	s.AddTool(mcp.NewTool("get_commit_volume",
		mcp.WithDescription("Get commits-per-day counts over the ingested git history."),
		mcp.WithString("start", mcp.Description("Inclusive start date (YYYY-MM-DD).")),
		mcp.WithString("end", mcp.Description("Inclusive end date (YYYY-MM-DD).")),
		mcp.WithString("authors", mcp.Description("Comma-separated author emails to include.")),
		mcp.WithString("pattern", mcp.Description("SQL LIKE pattern limiting commits to those touching matching paths.")),
		mcp.WithBoolean("fix_only", mcp.Description("Only include fix-tagged commits.")),
	), h.handleGetCommitVolume)

	// --- 3. Tool: get_top_authors ---
	s.AddTool(mcp.NewTool("get_top_authors",
		mcp.WithDescription("Rank authors by commit count over the ingested git history."),
		mcp.WithString("start", mcp.Description("Inclusive start date (YYYY-MM-DD).")),
		mcp.WithString("end", mcp.Description("Inclusive end date (YYYY-MM-DD).")),
		mcp.WithString("authors", mcp.Description("Comma-separated author emails to include.")),
		mcp.WithString("pattern", mcp.Description("SQL LIKE pattern limiting commits to those touching matching paths.")),
		mcp.WithBoolean("fix_only", mcp.Description("Only include fix-tagged commits.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleGetTopAuthors)

	// --- 4. Tool: get_top_files ---
	s.AddTool(mcp.NewTool("get_top_files",
		mcp.WithDescription("Rank file paths by the number of distinct commits touching them."),
		mcp.WithString("start", mcp.Description("Inclusive start date (YYYY-MM-DD).")),
		mcp.WithString("end", mcp.Description("Inclusive end date (YYYY-MM-DD).")),
		mcp.WithString("authors", mcp.Description("Comma-separated author emails to include.")),
		mcp.WithString("pattern", mcp.Description("SQL LIKE pattern on file paths (e.g. 'src/%').")),
		mcp.WithBoolean("fix_only", mcp.Description("Only include fix-tagged commits.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleGetTopFiles)

	// --- 5. Tool: get_file_trend ---
	s.AddTool(mcp.NewTool("get_file_trend",
		mcp.WithDescription("Get per-day churn (additions+deletions) for files matching a path pattern."),
		mcp.WithString("pattern", mcp.Description("SQL LIKE pattern on file paths (e.g. '%.go')."), mcp.Required()),
		mcp.WithString("start", mcp.Description("Inclusive start date (YYYY-MM-DD).")),
		mcp.WithString("end", mcp.Description("Inclusive end date (YYYY-MM-DD).")),
		mcp.WithString("authors", mcp.Description("Comma-separated author emails to include.")),
		mcp.WithBoolean("fix_only", mcp.Description("Only include fix-tagged commits.")),
	), h.handleGetFileTrend)

	return s
}

// StartMCPServer starts the DevLog MCP server.
func StartMCPServer(_ context.Context, st *store.Store, limit int) error {
	s := NewMCPServer(st, limit)
	return server.ServeStdio(s)
}
