// Package mcpserver exposes Julie's 7 navigation/search tools plus
// manage_workspace over the MCP tool-invocation protocol
// (modelcontextprotocol/go-sdk), grounded on the teacher's
// internal/mcp/server.go registration style.
package mcpserver

import (
	"context"
	"sync"
	"time"

	"github.com/standardbeagle/julie/internal/config"
	"github.com/standardbeagle/julie/internal/diagnostics"
	"github.com/standardbeagle/julie/internal/embedding"
	julierrors "github.com/standardbeagle/julie/internal/errors"
	"github.com/standardbeagle/julie/internal/indexing"
	"github.com/standardbeagle/julie/internal/query"
	"github.com/standardbeagle/julie/internal/searchindex"
	"github.com/standardbeagle/julie/internal/store"
	"github.com/standardbeagle/julie/internal/types"
	"github.com/standardbeagle/julie/internal/vectorstore"
	"github.com/standardbeagle/julie/internal/workspace"
)

// handle bundles one workspace's open Store/Index/Vectors/Embedder, the
// minimum a query.Engine needs plus what an indexing.Pipeline needs to
// (re)index it.
type handle struct {
	ws       types.Workspace
	layout   workspace.Layout
	store    *store.Store
	index    *searchindex.Index
	vectors  *vectorstore.Store
	embedder *embedding.Embedder
}

func (h *handle) close() {
	if h.vectors != nil {
		_ = h.vectors.Save()
	}
	if h.embedder != nil {
		h.embedder.Close()
	}
	if h.index != nil {
		_ = h.index.Close()
	}
	if h.store != nil {
		_ = h.store.Close()
	}
}

// Manager owns every open workspace handle for one server process: the
// single primary workspace plus zero or more reference workspaces,
// opened lazily and kept around for the process lifetime. It is the
// implementation of spec §4.9's workspace-filter resolution rule —
// "primary"/unset -> primary store; any other string -> that reference
// workspace's isolated store — which internal/query.Engine deliberately
// does not do itself.
type Manager struct {
	cfg *config.Config
	log *diagnostics.Logger

	mu       sync.Mutex
	registry *workspace.Registry
	handles  map[string]*handle // workspace ID -> handle, primary included
	primary  string             // primary workspace ID, once opened
}

// NewManager opens (creating on first run) the primary workspace rooted
// at cfg.Project.Root.
func NewManager(cfg *config.Config, log *diagnostics.Logger) (*Manager, error) {
	if err := workspace.EnsurePrimaryTree(cfg.Project.Root); err != nil {
		return nil, err
	}
	reg, err := workspace.OpenRegistry(cfg.Project.Root)
	if err != nil {
		return nil, err
	}

	m := &Manager{cfg: cfg, log: log, registry: reg, handles: make(map[string]*handle)}

	ws, ok := reg.Primary()
	if !ok {
		ws = types.Workspace{
			ID:          workspace.DeriveID(cfg.Project.Root),
			Root:        cfg.Project.Root,
			Kind:        types.WorkspacePrimary,
			DisplayName: cfg.Project.Name,
			CreatedAt:   time.Now(),
		}
		if err := reg.Add(ws); err != nil {
			return nil, err
		}
	}
	m.primary = ws.ID

	if _, err := m.open(ws, workspace.PrimaryLayout(cfg.Project.Root)); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) open(ws types.Workspace, layout workspace.Layout) (*handle, error) {
	if err := workspace.EnsureLayout(layout); err != nil {
		return nil, err
	}
	st, err := store.Open(layout.DBPath)
	if err != nil {
		return nil, err
	}
	idx, err := searchindex.Open(layout.SearchDir)
	if err != nil {
		st.Close()
		return nil, err
	}

	h := &handle{
		ws:     ws,
		layout: layout,
		store:  st,
		index:  idx,
		embedder: embedding.New(embedding.Options{
			ModelName:      m.cfg.Embedding.ModelName,
			Dimensions:     m.cfg.Embedding.Dimensions,
			IdleTimeoutSec: m.cfg.Embedding.IdleTimeoutSec,
			BatchSize:      m.cfg.Embedding.BatchSize,
			SkipEnvVar:     m.cfg.Embedding.SkipEnvVar,
		}),
	}

	vs, err := vectorstore.Open(layout.VectorsDir, m.cfg.Embedding.Dimensions, m.cfg.Embedding.ModelName)
	if err == nil {
		h.vectors = vs
	} else {
		m.log.Printf("vector store unavailable for workspace %s, semantic search disabled: %v", ws.ID, err)
	}

	m.mu.Lock()
	m.handles[ws.ID] = h
	m.mu.Unlock()
	return h, nil
}

// resolve implements spec §4.9's workspace-filter rule for a single
// already-registered workspace ID or the sentinel "primary"/"".
func (m *Manager) resolve(filter string) (*handle, error) {
	m.mu.Lock()
	if filter == "" || filter == "primary" {
		h, ok := m.handles[m.primary]
		m.mu.Unlock()
		if !ok {
			return nil, julierrors.NewNotFoundError("workspace", "primary")
		}
		return h, nil
	}
	h, ok := m.handles[filter]
	m.mu.Unlock()
	if ok {
		return h, nil
	}

	ws, ok := m.registry.Get(filter)
	if !ok {
		return nil, julierrors.NewNotFoundError("workspace", filter)
	}
	layout := workspace.ReferenceLayout(m.cfg.Project.Root, ws.ID)
	return m.open(ws, layout)
}

// Engine resolves filter to a query.Engine scoped to that one workspace.
func (m *Manager) Engine(filter string) (*query.Engine, error) {
	h, err := m.resolve(filter)
	if err != nil {
		return nil, err
	}
	root := h.ws.Root
	if root == "" {
		root = m.cfg.Project.Root
	}
	return &query.Engine{
		WorkspaceID:             h.ws.ID,
		Root:                    root,
		Store:                   h.store,
		Index:                   h.index,
		Vectors:                 h.vectors,
		Embedder:                h.embedder,
		SemanticBridgeThreshold: m.cfg.Search.SemanticBridgeThreshold,
	}, nil
}

// Pipeline builds an indexing.Pipeline for filter, for manage_workspace's
// index/refresh/clean operations.
func (m *Manager) Pipeline(filter string) (*indexing.Pipeline, error) {
	h, err := m.resolve(filter)
	if err != nil {
		return nil, err
	}
	root := h.ws.Root
	if root == "" {
		root = m.cfg.Project.Root
	}
	return &indexing.Pipeline{
		WorkspaceID: h.ws.ID,
		Root:        root,
		Excludes:    m.cfg.Exclude,
		Store:       h.store,
		Index:       h.index,
		Vectors:     h.vectors,
		Embedder:    h.embedder,
	}, nil
}

// AddReference registers and opens a new reference workspace rooted at
// root, returning its derived ID.
func (m *Manager) AddReference(root, name string, ttl time.Duration) (types.Workspace, error) {
	id := workspace.DeriveID(root)
	expires := time.Now().Add(ttl)
	ws := types.Workspace{
		ID:          id,
		Root:        root,
		Kind:        types.WorkspaceReference,
		DisplayName: name,
		CreatedAt:   time.Now(),
		ExpiresAt:   &expires,
	}
	m.mu.Lock()
	err := m.registry.Add(ws)
	m.mu.Unlock()
	if err != nil {
		return types.Workspace{}, err
	}
	layout := workspace.ReferenceLayout(m.cfg.Project.Root, id)
	if _, err := m.open(ws, layout); err != nil {
		return types.Workspace{}, err
	}
	return ws, nil
}

// Remove closes and unregisters a reference workspace.
func (m *Manager) Remove(id string) error {
	if id == m.primary {
		return julierrors.NewUsageError("manage_workspace", "workspace_id", "cannot remove the primary workspace")
	}
	m.mu.Lock()
	h, ok := m.handles[id]
	delete(m.handles, id)
	err := m.registry.Remove(id)
	m.mu.Unlock()
	if ok {
		h.close()
	}
	return err
}

// List returns every registered workspace.
func (m *Manager) List() []types.Workspace {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]types.Workspace, len(m.registry.Workspaces))
	copy(out, m.registry.Workspaces)
	return out
}

// ExpireReferences drops and closes any reference workspace past its TTL.
func (m *Manager) ExpireReferences(ctx context.Context) []types.Workspace {
	m.mu.Lock()
	expired := m.registry.ExpireReferences(time.Now())
	for _, ws := range expired {
		if h, ok := m.handles[ws.ID]; ok {
			h.close()
			delete(m.handles, ws.ID)
		}
	}
	m.mu.Unlock()
	for _, ws := range expired {
		if st, err := store.Open(workspace.ReferenceLayout(m.cfg.Project.Root, ws.ID).DBPath); err == nil {
			_ = st.DeleteWorkspace(ctx, ws.ID)
			st.Close()
		}
	}
	return expired
}

// PrimaryID returns the primary workspace's derived ID.
func (m *Manager) PrimaryID() string { return m.primary }

// Close shuts down every open handle.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, h := range m.handles {
		h.close()
	}
}
