package mcpserver

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	julierrors "github.com/standardbeagle/julie/internal/errors"
)

// referenceTTL bounds how long an on-demand reference workspace stays
// registered before manager.ExpireReferences reclaims it.
const referenceTTL = 24 * time.Hour

type manageWorkspaceParams struct {
	Operation   string `json:"operation"`
	Path        string `json:"path"`
	Force       bool   `json:"force"`
	Name        string `json:"name"`
	WorkspaceID string `json:"workspace_id"`
	Detailed    bool   `json:"detailed"`
}

func (s *Server) registerWorkspaceTool() {
	s.server.AddTool(&mcp.Tool{
		Name:        "manage_workspace",
		Description: "Index, register, inspect, or retire workspaces: the primary codebase plus any number of reference workspaces opened for cross-repo lookups.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"operation":    stringSchema("index | add | remove | list | clean | refresh | stats | health"),
				"path":         stringSchema("Filesystem path, for add/index"),
				"force":        boolSchema("Force a full reindex instead of an incremental refresh"),
				"name":         stringSchema("Display name, for add"),
				"workspace_id": stringSchema("Target workspace ID, for remove/refresh/stats/clean when not primary"),
				"detailed":     boolSchema("Include semantic-search availability in stats"),
			},
			Required: []string{"operation"},
		},
	}, s.handleManageWorkspace)
}

func (s *Server) handleManageWorkspace(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p manageWorkspaceParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errorResponse("manage_workspace", julierrors.NewUsageError("manage_workspace", "arguments", err.Error()))
	}

	switch p.Operation {
	case "index":
		return s.workspaceIndex(ctx, p)
	case "refresh":
		return s.workspaceRefresh(ctx, p)
	case "add":
		return s.workspaceAdd(ctx, p)
	case "remove":
		return s.workspaceRemove(p)
	case "list":
		return s.workspaceList()
	case "clean":
		return s.workspaceClean(ctx, p)
	case "stats":
		return s.workspaceStats(ctx, p)
	case "health":
		return s.workspaceHealth(ctx, p)
	default:
		return errorResponse("manage_workspace", julierrors.NewUsageError("manage_workspace", "operation", "unknown operation: "+p.Operation))
	}
}

func (s *Server) workspaceIndex(ctx context.Context, p manageWorkspaceParams) (*mcp.CallToolResult, error) {
	pipeline, err := s.manager.Pipeline(p.WorkspaceID)
	if err != nil {
		return errorResponse("manage_workspace", err)
	}
	stats, err := pipeline.IndexWorkspace(ctx, p.Force)
	if err != nil {
		return errorResponse("manage_workspace", err)
	}
	return jsonResponse(stats)
}

func (s *Server) workspaceRefresh(ctx context.Context, p manageWorkspaceParams) (*mcp.CallToolResult, error) {
	pipeline, err := s.manager.Pipeline(p.WorkspaceID)
	if err != nil {
		return errorResponse("manage_workspace", err)
	}
	stats, err := pipeline.Refresh(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		return errorResponse("manage_workspace", err)
	}
	return jsonResponse(stats)
}

func (s *Server) workspaceAdd(ctx context.Context, p manageWorkspaceParams) (*mcp.CallToolResult, error) {
	if p.Path == "" {
		return errorResponse("manage_workspace", julierrors.NewUsageError("manage_workspace", "path", "path is required for add"))
	}
	ws, err := s.manager.AddReference(p.Path, p.Name, referenceTTL)
	if err != nil {
		return errorResponse("manage_workspace", err)
	}
	pipeline, err := s.manager.Pipeline(ws.ID)
	if err != nil {
		return errorResponse("manage_workspace", err)
	}
	stats, err := pipeline.IndexWorkspace(ctx, true)
	if err != nil {
		return errorResponse("manage_workspace", err)
	}
	return jsonResponse(map[string]interface{}{"workspace": ws, "index": stats})
}

func (s *Server) workspaceRemove(p manageWorkspaceParams) (*mcp.CallToolResult, error) {
	if p.WorkspaceID == "" {
		return errorResponse("manage_workspace", julierrors.NewUsageError("manage_workspace", "workspace_id", "workspace_id is required for remove"))
	}
	if err := s.manager.Remove(p.WorkspaceID); err != nil {
		return errorResponse("manage_workspace", err)
	}
	return jsonResponse(map[string]interface{}{"removed": p.WorkspaceID})
}

func (s *Server) workspaceList() (*mcp.CallToolResult, error) {
	return jsonResponse(s.manager.List())
}

func (s *Server) workspaceClean(ctx context.Context, p manageWorkspaceParams) (*mcp.CallToolResult, error) {
	pipeline, err := s.manager.Pipeline(p.WorkspaceID)
	if err != nil {
		return errorResponse("manage_workspace", err)
	}
	if err := pipeline.Clean(ctx); err != nil {
		return errorResponse("manage_workspace", err)
	}
	return jsonResponse(map[string]interface{}{"cleaned": pipeline.WorkspaceID})
}

func (s *Server) workspaceStats(ctx context.Context, p manageWorkspaceParams) (*mcp.CallToolResult, error) {
	engine, err := s.manager.Engine(p.WorkspaceID)
	if err != nil {
		return errorResponse("manage_workspace", err)
	}
	symbolCount, err := engine.Store.GetSymbolCountForWorkspace(ctx, engine.WorkspaceID)
	if err != nil {
		return errorResponse("manage_workspace", err)
	}
	relCount, err := engine.Store.GetRelationshipCountForWorkspace(ctx, engine.WorkspaceID)
	if err != nil {
		return errorResponse("manage_workspace", err)
	}
	fileCount, err := engine.Store.GetFileCountForWorkspace(ctx, engine.WorkspaceID)
	if err != nil {
		return errorResponse("manage_workspace", err)
	}
	stats := map[string]interface{}{
		"workspace_id":  engine.WorkspaceID,
		"files":         fileCount,
		"symbols":       symbolCount,
		"relationships": relCount,
	}
	if p.Detailed {
		stats["semantic_search_available"] = engine.Vectors != nil && engine.Embedder != nil
	}
	return jsonResponse(stats)
}

func (s *Server) workspaceHealth(ctx context.Context, p manageWorkspaceParams) (*mcp.CallToolResult, error) {
	engine, err := s.manager.Engine(p.WorkspaceID)
	if err != nil {
		return errorResponse("manage_workspace", err)
	}
	health := map[string]interface{}{
		"workspace_id":     engine.WorkspaceID,
		"store_open":       engine.Store != nil,
		"search_index":     engine.Index != nil,
		"semantic_search":  engine.Vectors != nil && engine.Embedder != nil,
	}
	return jsonResponse(health)
}
