// Package types defines Julie's symbol/relationship/identifier data model —
// the common representation every language extractor produces and every
// store, index, and query operation consumes.
package types

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// SymbolKind enumerates the constructs extractors recognize across
// languages. Not every language produces every kind.
type SymbolKind string

const (
	KindFunction    SymbolKind = "function"
	KindMethod      SymbolKind = "method"
	KindClass       SymbolKind = "class"
	KindStruct      SymbolKind = "struct"
	KindInterface   SymbolKind = "interface"
	KindEnum        SymbolKind = "enum"
	KindUnion       SymbolKind = "union"
	KindNamespace   SymbolKind = "namespace"
	KindModule      SymbolKind = "module"
	KindVariable    SymbolKind = "variable"
	KindConstant    SymbolKind = "constant"
	KindType        SymbolKind = "type"
	KindImport      SymbolKind = "import"
	KindField       SymbolKind = "field"
	KindConstructor SymbolKind = "constructor"
)

// Visibility is the common visibility lattice every language's modifiers
// are mapped onto.
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityPrivate   Visibility = "private"
	VisibilityProtected Visibility = "protected"
	VisibilityInternal  Visibility = "internal"
	VisibilityDefault   Visibility = "default"
)

// Symbol is a named, locatable construct extracted from source.
//
// ID is computed, not assigned: xxhash64 of workspace+file+kind+name+start
// byte, hex-encoded. It is therefore stable across re-indexing runs as
// long as the symbol's identity (those five fields) is unchanged, which is
// what callers that cache symbol IDs across tool calls require.
type Symbol struct {
	ID          string
	Name        string
	Kind        SymbolKind
	Language    string
	FilePath    string // workspace-relative, forward-slash
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
	StartByte   uint32
	EndByte     uint32
	Signature   string
	DocComment  string
	Visibility  Visibility
	ParentID    string // empty when top-level

	// Free-form analysis fields populated by later passes (find_logic,
	// deep_dive); nil/empty until computed.
	SemanticGroup string
	Confidence    float64
	CodeContext   string
	ContentType   string
}

// ComputeSymbolID derives the deterministic Symbol.ID per spec §3: stable
// within and across indexing runs for the same (workspace, file, kind,
// name, start_byte) tuple.
func ComputeSymbolID(workspaceID, filePath string, kind SymbolKind, name string, startByte uint32) string {
	h := xxhash.New()
	fmt.Fprintf(h, "%s\x1f%s\x1f%s\x1f%s\x1f%d", workspaceID, filePath, kind, name, startByte)
	return fmt.Sprintf("%016x", h.Sum64())
}
