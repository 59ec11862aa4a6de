package types

import "time"

// FileRecord tracks one indexed file's identity and change-detection hash.
type FileRecord struct {
	Path          string // workspace-relative, forward-slash
	WorkspaceID   string
	Language      string
	Size          int64
	ContentHash   uint64
	LastIndexedAt time.Time
	Content       string // populated only when content FTS is enabled
}

// WorkspaceKind distinguishes the single primary workspace from any
// number of reference workspaces.
type WorkspaceKind string

const (
	WorkspacePrimary   WorkspaceKind = "primary"
	WorkspaceReference WorkspaceKind = "reference"
)

// Workspace is a registered, independently-stored codebase root.
type Workspace struct {
	ID            string // derived from the canonical filesystem path
	Root          string // absolute path
	Kind          WorkspaceKind
	DisplayName   string
	CreatedAt     time.Time
	LastIndexedAt time.Time
	ExpiresAt     *time.Time // nil for the primary workspace
}

// EmbeddingEntry is a single symbol's vector, ready for HNSW insertion.
type EmbeddingEntry struct {
	SymbolID string
	Vector   []float32
	Norm     float32
}
