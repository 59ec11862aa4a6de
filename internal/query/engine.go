package query

import (
	"github.com/standardbeagle/julie/internal/embedding"
	"github.com/standardbeagle/julie/internal/searchindex"
	"github.com/standardbeagle/julie/internal/store"
	"github.com/standardbeagle/julie/internal/vectorstore"
)

// Engine answers every navigation/search tool for one already-resolved
// workspace. Callers (the MCP tool handlers) resolve "primary" vs a
// reference workspace id to a concrete Store/Index/Vectors/Embedder set
// per spec §4.9's workspace-filter resolution rule before constructing
// one — Engine itself never does multi-workspace fan-out.
type Engine struct {
	WorkspaceID string
	Root        string // absolute workspace root, for body-extraction file I/O

	Store    *store.Store
	Index    *searchindex.Index  // may be nil: degrades text search to FTS-only
	Vectors  *vectorstore.Store  // may be nil: semantic mode degrades to text
	Embedder *embedding.Embedder // may be nil: semantic mode degrades to text

	// SemanticBridgeThreshold is the cross-language semantic-neighbour
	// cutoff trace_call_path applies (spec §9 Open Question 2: "kept as
	// a configurable value, never hard-coded"). Zero means "not set" and
	// falls back to defaultSemanticBridgeThreshold.
	SemanticBridgeThreshold float64
}

const defaultSemanticBridgeThreshold = 0.7

// semanticBridgeThreshold returns the configured cutoff, or the default
// when the caller left it unset.
func (e *Engine) semanticBridgeThreshold() float64 {
	if e.SemanticBridgeThreshold > 0 {
		return e.SemanticBridgeThreshold
	}
	return defaultSemanticBridgeThreshold
}

// hasSemanticSearch reports whether semantic search inputs are
// configured; when false, fast_search's semantic mode degrades to text
// (spec §4.9: "requires embeddings present; otherwise degrade to text").
func (e *Engine) hasSemanticSearch() bool {
	return e.Vectors != nil && e.Embedder != nil
}
