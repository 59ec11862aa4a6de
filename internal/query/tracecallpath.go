package query

import (
	"context"
	"math"

	"github.com/standardbeagle/julie/internal/types"
)

// TraceDirection selects which edges trace_call_path follows.
type TraceDirection string

const (
	DirectionUpstream   TraceDirection = "upstream"
	DirectionDownstream TraceDirection = "downstream"
	DirectionBoth       TraceDirection = "both"
)

const (
	maxTraceDepth = 10
	maxTraceNodes = 300
	semanticTopK  = 8
)

// TraceParams are trace_call_path's parameters (spec §6).
type TraceParams struct {
	Symbol      string
	Direction   TraceDirection
	MaxDepth    int
	ContextFile string
}

// PathNode is one node in the call-path tree trace_call_path returns —
// Julie's distinguishing feature per spec §4.9.
type PathNode struct {
	Symbol     types.Symbol
	Depth      int
	Kind       types.RelationshipKind
	Confidence float64
	Children   []*PathNode
}

// TraceCallPath builds a call-path tree rooted at symbol's best-ranked
// definition, following direct relationship edges, naming-variant
// bridges across languages, and (when an embedder/vector store are
// configured) semantic neighbours at or above the configured similarity
// floor (semanticBridgeThreshold).
func (e *Engine) TraceCallPath(ctx context.Context, p TraceParams) (*PathNode, error) {
	defs, err := e.findDefinitions(ctx, p.Symbol)
	if err != nil {
		return nil, err
	}
	if len(defs) == 0 {
		return nil, nil
	}
	root := rankDefinitions(defs, p.ContextFile, 0)[0]

	maxDepth := p.MaxDepth
	if maxDepth <= 0 || maxDepth > maxTraceDepth {
		maxDepth = maxTraceDepth
	}

	visited := map[string]bool{root.ID: true}
	rootNode := &PathNode{Symbol: root, Depth: 0}

	if err := e.expand(ctx, rootNode, p.Direction, maxDepth, visited, new(int)); err != nil {
		return nil, err
	}
	return rootNode, nil
}

func (e *Engine) expand(ctx context.Context, node *PathNode, direction TraceDirection, maxDepth int, visited map[string]bool, budget *int) error {
	if node.Depth >= maxDepth || *budget >= maxTraceNodes {
		return nil
	}

	neighbors, err := e.neighborsOf(ctx, node.Symbol, direction)
	if err != nil {
		return err
	}

	for _, nb := range neighbors {
		if visited[nb.symbol.ID] || *budget >= maxTraceNodes {
			continue
		}
		visited[nb.symbol.ID] = true
		*budget++

		child := &PathNode{Symbol: nb.symbol, Depth: node.Depth + 1, Kind: nb.kind, Confidence: nb.confidence}
		node.Children = append(node.Children, child)

		if err := e.expand(ctx, child, direction, maxDepth, visited, budget); err != nil {
			return err
		}
	}
	return nil
}

type neighbor struct {
	symbol     types.Symbol
	kind       types.RelationshipKind
	confidence float64
}

// neighborsOf unions trace_call_path's three neighbour sources: direct
// Calls|References edges, naming-variant cross-language bridges, and
// (if configured) semantic nearest-neighbours above semanticBridgeThreshold.
func (e *Engine) neighborsOf(ctx context.Context, sym types.Symbol, direction TraceDirection) ([]neighbor, error) {
	var out []neighbor

	rels, err := e.directRelationships(ctx, sym.ID, direction)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rels))
	for _, r := range rels {
		id := r.ToSymbolID
		if id == sym.ID {
			id = r.FromSymbolID
		}
		ids = append(ids, id)
	}
	related, err := e.Store.GetSymbolsByIDs(ctx, e.WorkspaceID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]types.Symbol, len(related))
	for _, s := range related {
		byID[s.ID] = s
	}
	for _, r := range rels {
		id := r.ToSymbolID
		if id == sym.ID {
			id = r.FromSymbolID
		}
		if s, ok := byID[id]; ok {
			out = append(out, neighbor{symbol: s, kind: r.Kind, confidence: r.Confidence})
		}
	}

	for _, variant := range Variants(sym.Name) {
		matches, err := e.Store.GetSymbolsByName(ctx, e.WorkspaceID, variant)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if m.Language != sym.Language {
				out = append(out, neighbor{symbol: m, kind: types.RelCalls, confidence: 1.0})
			}
		}
	}

	if e.hasSemanticSearch() {
		semNeighbors, err := e.semanticNeighbors(ctx, sym)
		if err != nil {
			return nil, err
		}
		out = append(out, semNeighbors...)
	}

	return out, nil
}

func (e *Engine) directRelationships(ctx context.Context, symbolID string, direction TraceDirection) ([]types.Relationship, error) {
	var out []types.Relationship
	if direction == DirectionDownstream || direction == DirectionBoth {
		rels, err := e.Store.GetRelationshipsForSymbol(ctx, e.WorkspaceID, symbolID)
		if err != nil {
			return nil, err
		}
		out = append(out, filterCallLike(rels)...)
	}
	if direction == DirectionUpstream || direction == DirectionBoth {
		rels, err := e.Store.GetRelationshipsToSymbols(ctx, e.WorkspaceID, []string{symbolID})
		if err != nil {
			return nil, err
		}
		out = append(out, filterCallLike(rels)...)
	}
	return out, nil
}

func filterCallLike(rels []types.Relationship) []types.Relationship {
	out := make([]types.Relationship, 0, len(rels))
	for _, r := range rels {
		if r.Kind == types.RelCalls || r.Kind == types.RelReferences {
			out = append(out, r)
		}
	}
	return out
}

func (e *Engine) semanticNeighbors(ctx context.Context, sym types.Symbol) ([]neighbor, error) {
	vectors, err := e.Embedder.Embed(ctx, []string{traceEmbeddingText(sym)})
	if err != nil || len(vectors) == 0 {
		return nil, err
	}
	hits := e.Vectors.Search(vectors[0], semanticTopK)

	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.SymbolID
	}
	symbols, err := e.Store.GetSymbolsByIDs(ctx, e.WorkspaceID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]types.Symbol, len(symbols))
	for _, s := range symbols {
		byID[s.ID] = s
	}

	var out []neighbor
	for _, h := range hits {
		s, ok := byID[h.SymbolID]
		if !ok || s.Language == sym.Language {
			continue
		}
		sim := cosineSimilarity(vectors[0], h.Vector)
		if sim < e.semanticBridgeThreshold() {
			continue
		}
		out = append(out, neighbor{symbol: s, kind: types.RelCalls, confidence: sim})
	}
	return out, nil
}

// traceEmbeddingText mirrors internal/indexing's embeddingText shape:
// name, signature, and doc comment concatenated, so a node's on-the-fly
// embedding lands in the same space as the vectors the background
// embedding job (C8) wrote for it.
func traceEmbeddingText(sym types.Symbol) string {
	return sym.Name + " " + sym.Signature + " " + sym.DocComment
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
