// Package workspace manages Julie's on-disk layout (C7): deriving stable
// workspace IDs, creating the bit-exact `.julie/` / `.memories/` tree
// spec §6 requires, and persisting the registry of known workspaces.
//
// Directory layout mirrors the teacher's project-root detection style in
// internal/indexing/project_initializer.go (a small focused type over
// stdlib os/filepath, no framework), generalized from "find an existing
// root" to "create and track a root's derived state directory".
package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"

	julierrors "github.com/standardbeagle/julie/internal/errors"
	"github.com/standardbeagle/julie/internal/types"
)

// Layout is the set of paths derived for one workspace, primary or
// reference, per spec §6's bit-exact tree.
type Layout struct {
	Root       string // the indexed codebase's root (primary) or unused (reference)
	StateDir   string // .julie/ for primary, .julie/indexes/<id>/ for reference
	DBPath     string // StateDir/db/symbols.db
	SearchDir  string // StateDir/search/
	VectorsDir string // StateDir/vectors/
}

var slugDisallowed = regexp.MustCompile(`[^a-z0-9-]+`)

// DeriveID computes the stable `<name-slug>_<8hex>` workspace ID from a
// canonical (absolute, symlink-resolved) root path.
func DeriveID(canonicalRoot string) string {
	name := filepath.Base(canonicalRoot)
	slug := slugify(name)
	h := xxhash.Sum64String(canonicalRoot)
	return fmt.Sprintf("%s_%08x", slug, uint32(h))
}

func slugify(name string) string {
	lower := strings.ToLower(name)
	slug := slugDisallowed.ReplaceAllString(lower, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "workspace"
	}
	return slug
}

// PrimaryLayout returns the directory layout for root's primary
// workspace, rooted at root/.julie.
func PrimaryLayout(root string) Layout {
	stateDir := filepath.Join(root, ".julie")
	return Layout{
		Root:       root,
		StateDir:   stateDir,
		DBPath:     filepath.Join(stateDir, "db", "symbols.db"),
		SearchDir:  filepath.Join(stateDir, "search"),
		VectorsDir: filepath.Join(stateDir, "vectors"),
	}
}

// ReferenceLayout returns the directory layout for a reference
// workspace with the given ID, nested under the primary's .julie/indexes/.
func ReferenceLayout(primaryRoot, refWorkspaceID string) Layout {
	stateDir := filepath.Join(primaryRoot, ".julie", "indexes", refWorkspaceID)
	return Layout{
		StateDir:   stateDir,
		DBPath:     filepath.Join(stateDir, "db", "symbols.db"),
		SearchDir:  filepath.Join(stateDir, "search"),
		VectorsDir: filepath.Join(stateDir, "vectors"),
	}
}

// MemoriesDir returns the primary workspace's .memories/ root.
func MemoriesDir(primaryRoot string) string {
	return filepath.Join(primaryRoot, ".memories")
}

// PlansDir returns the primary workspace's .memories/plans/ directory.
func PlansDir(primaryRoot string) string {
	return filepath.Join(MemoriesDir(primaryRoot), "plans")
}

// EnsureLayout creates every directory in l, idempotently.
func EnsureLayout(l Layout) error {
	for _, dir := range []string{filepath.Dir(l.DBPath), l.SearchDir, l.VectorsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return julierrors.NewStorageError("ensure_layout", err)
		}
	}
	return nil
}

// EnsurePrimaryTree creates the full primary-workspace tree: .julie/
// (db, search, vectors, indexes) and .memories/ (plans).
func EnsurePrimaryTree(root string) error {
	l := PrimaryLayout(root)
	if err := EnsureLayout(l); err != nil {
		return err
	}
	for _, dir := range []string{
		filepath.Join(l.StateDir, "indexes"),
		MemoriesDir(root),
		PlansDir(root),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return julierrors.NewStorageError("ensure_primary_tree", err)
		}
	}
	return nil
}

// Registry persists the list of known workspaces to registry.json, a
// pretty-printed JSON array per spec §6's "checkpoints are pretty-
// printed JSON" requirement applied to the registry file too.
type Registry struct {
	path      string
	Workspaces []types.Workspace
}

// OpenRegistry loads primaryRoot/.julie/registry.json, or starts an
// empty registry if it does not yet exist.
func OpenRegistry(primaryRoot string) (*Registry, error) {
	path := filepath.Join(primaryRoot, ".julie", "registry.json")
	r := &Registry{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return r, nil
	}
	if err != nil {
		return nil, julierrors.NewStorageError("registry_read", err)
	}
	if err := json.Unmarshal(data, &r.Workspaces); err != nil {
		return nil, julierrors.NewStorageError("registry_parse", err)
	}
	return r, nil
}

// Save writes the registry back to disk, pretty-printed.
func (r *Registry) Save() error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return julierrors.NewStorageError("registry_mkdir", err)
	}
	data, err := json.MarshalIndent(r.Workspaces, "", "  ")
	if err != nil {
		return julierrors.NewStorageError("registry_marshal", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return julierrors.NewStorageError("registry_write", err)
	}
	return nil
}

// Add inserts or replaces a workspace entry and persists the registry.
func (r *Registry) Add(ws types.Workspace) error {
	for i, existing := range r.Workspaces {
		if existing.ID == ws.ID {
			r.Workspaces[i] = ws
			return r.Save()
		}
	}
	r.Workspaces = append(r.Workspaces, ws)
	return r.Save()
}

// Remove deletes a workspace entry by ID and persists the registry.
func (r *Registry) Remove(id string) error {
	out := r.Workspaces[:0]
	for _, ws := range r.Workspaces {
		if ws.ID != id {
			out = append(out, ws)
		}
	}
	r.Workspaces = out
	return r.Save()
}

// Get returns the workspace with the given ID, if registered.
func (r *Registry) Get(id string) (types.Workspace, bool) {
	for _, ws := range r.Workspaces {
		if ws.ID == id {
			return ws, true
		}
	}
	return types.Workspace{}, false
}

// Primary returns the registered primary workspace, if any.
func (r *Registry) Primary() (types.Workspace, bool) {
	for _, ws := range r.Workspaces {
		if ws.Kind == types.WorkspacePrimary {
			return ws, true
		}
	}
	return types.Workspace{}, false
}

// ExpireReferences removes and returns reference workspaces whose
// ExpiresAt has passed, relative to now. Callers are responsible for
// also deleting each returned workspace's on-disk store and vectors dir.
func (r *Registry) ExpireReferences(now time.Time) []types.Workspace {
	var expired []types.Workspace
	kept := r.Workspaces[:0]
	for _, ws := range r.Workspaces {
		if ws.Kind == types.WorkspaceReference && ws.ExpiresAt != nil && now.After(*ws.ExpiresAt) {
			expired = append(expired, ws)
			continue
		}
		kept = append(kept, ws)
	}
	r.Workspaces = kept
	return expired
}
