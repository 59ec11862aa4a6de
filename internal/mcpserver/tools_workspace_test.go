package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/julie/internal/diagnostics"
)

// newTestServer wraps newTestManager's manager in a Server with no live
// mcp.Server transport — every handler under test reaches the filesystem
// and the store only through s.manager.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	m := newTestManager(t)
	return &Server{cfg: nil, log: diagnostics.NewLogger(false), manager: m}
}

func writeGoFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestHandleManageWorkspace_IndexThenStats(t *testing.T) {
	s := newTestServer(t)
	writeGoFile(t, s.manager.cfg.Project.Root, "main.go", "package main\n\nfunc main() {}\n")

	ctx := context.Background()
	idxArgs, err := json.Marshal(manageWorkspaceParams{Operation: "index", Force: true})
	require.NoError(t, err)
	res, err := s.handleManageWorkspace(ctx, callToolRequest(idxArgs))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	statsArgs, err := json.Marshal(manageWorkspaceParams{Operation: "stats"})
	require.NoError(t, err)
	res, err = s.handleManageWorkspace(ctx, callToolRequest(statsArgs))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(textOf(t, res.Content[0])), &decoded))
	assert.EqualValues(t, 1, decoded["files"])
}

func TestHandleManageWorkspace_UnknownOperation(t *testing.T) {
	s := newTestServer(t)
	args, err := json.Marshal(manageWorkspaceParams{Operation: "nonsense"})
	require.NoError(t, err)
	res, err := s.handleManageWorkspace(context.Background(), callToolRequest(args))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestHandleManageWorkspace_AddListRemove(t *testing.T) {
	s := newTestServer(t)
	refRoot := t.TempDir()
	writeGoFile(t, refRoot, "lib.go", "package lib\n")

	addArgs, err := json.Marshal(manageWorkspaceParams{Operation: "add", Path: refRoot, Name: "lib"})
	require.NoError(t, err)
	res, err := s.handleManageWorkspace(context.Background(), callToolRequest(addArgs))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var added struct {
		Workspace struct {
			ID string `json:"ID"`
		} `json:"workspace"`
	}
	require.NoError(t, json.Unmarshal([]byte(textOf(t, res.Content[0])), &added))
	require.NotEmpty(t, added.Workspace.ID)

	listArgs, err := json.Marshal(manageWorkspaceParams{Operation: "list"})
	require.NoError(t, err)
	res, err = s.handleManageWorkspace(context.Background(), callToolRequest(listArgs))
	require.NoError(t, err)
	assert.Contains(t, textOf(t, res.Content[0]), added.Workspace.ID)

	removeArgs, err := json.Marshal(manageWorkspaceParams{Operation: "remove", WorkspaceID: added.Workspace.ID})
	require.NoError(t, err)
	res, err = s.handleManageWorkspace(context.Background(), callToolRequest(removeArgs))
	require.NoError(t, err)
	assert.False(t, res.IsError)
}

func TestHandleManageWorkspace_Health(t *testing.T) {
	s := newTestServer(t)
	args, err := json.Marshal(manageWorkspaceParams{Operation: "health"})
	require.NoError(t, err)
	res, err := s.handleManageWorkspace(context.Background(), callToolRequest(args))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(textOf(t, res.Content[0])), &decoded))
	assert.Equal(t, true, decoded["store_open"])
}

func TestHandleManageWorkspace_BadArguments(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleManageWorkspace(context.Background(), callToolRequest([]byte("not json")))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
