package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/huangsam/devlog/internal/contract"
	"github.com/huangsam/devlog/internal/store"
	"github.com/huangsam/devlog/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	store *store.Store
	limit int
}

// filterFromRequest parses the shared filter parameters from a tool request.
func filterFromRequest(request mcp.CallToolRequest) (schema.Filter, error) {
	f, err := contract.ParseFilter(
		request.GetString("start", ""),
		request.GetString("end", ""),
		request.GetString("authors", ""),
		request.GetString("pattern", ""),
	)
	if err != nil {
		return schema.Filter{}, err
	}
	f.FixOnly = request.GetBool("fix_only", false)
	return f, nil
}

func (h *toolHandler) limitFromRequest(request mcp.CallToolRequest) int {
	if l := request.GetInt("limit", 0); l > 0 {
		if l > contract.MaxResultLimit {
			return contract.MaxResultLimit
		}
		return l
	}
	return h.limit
}

func (h *toolHandler) handleGetKPIs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f, err := filterFromRequest(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid filter parameters: %v", err)), nil
	}

	kpis, err := h.store.KPIs(ctx, f)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(kpis, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetCommitVolume(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f, err := filterFromRequest(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid filter parameters: %v", err)), nil
	}

	points, err := h.store.CommitVolume(ctx, f)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(points, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetTopAuthors(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f, err := filterFromRequest(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid filter parameters: %v", err)), nil
	}

	authors, err := h.store.TopAuthors(ctx, f, h.limitFromRequest(request))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(authors, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetTopFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f, err := filterFromRequest(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid filter parameters: %v", err)), nil
	}

	files, err := h.store.TopFiles(ctx, f, h.limitFromRequest(request))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(files, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetFileTrend(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f, err := filterFromRequest(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid filter parameters: %v", err)), nil
	}
	if f.FilePattern == "" {
		return mcp.NewToolResultError("pattern is required"), nil
	}

	points, err := h.store.FileTrend(ctx, f)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(points, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
