package query

import (
	"context"
	"sort"

	"github.com/standardbeagle/julie/internal/types"
)

// RefsParams are fast_refs's parameters (spec §6).
type RefsParams struct {
	Symbol            string
	IncludeDefinition bool
	Limit             int
	ReferenceKind     string // optional filter on relationship/identifier kind
}

// Reference is one usage site of a symbol, sourced either from a
// Relationship edge or an Identifier row.
type Reference struct {
	FilePath   string
	LineNumber int
	Confidence float64
	Kind       string
	SymbolID   string // from_symbol_id (relationship) or containing symbol (identifier); may be empty
}

// RefsResult is fast_refs's return value.
type RefsResult struct {
	Definitions []types.Symbol
	References  []Reference
}

// FastRefs finds every reference to symbol: relationship edges pointing
// at its definition(s), plus identifier usage sites under any of its
// naming-convention variants, deduplicated against the relationships by
// (file, line). Import symbols sharing the name are reported as
// references, never as definitions (spec §4.9).
func (e *Engine) FastRefs(ctx context.Context, p RefsParams) (RefsResult, error) {
	defs, err := e.findDefinitions(ctx, p.Symbol)
	if err != nil {
		return RefsResult{}, err
	}

	defIDs := make([]string, len(defs))
	for i, d := range defs {
		defIDs[i] = d.ID
	}

	rels, err := e.relationshipsForReferenceKind(ctx, defIDs, p.ReferenceKind)
	if err != nil {
		return RefsResult{}, err
	}

	seen := make(map[[2]any]bool, len(rels)+len(defs))
	for _, d := range defs {
		seen[[2]any{d.FilePath, d.StartLine}] = true
	}

	out := make([]Reference, 0, len(rels))
	for _, r := range rels {
		key := [2]any{r.FilePath, r.LineNumber}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, Reference{
			FilePath:   r.FilePath,
			LineNumber: r.LineNumber,
			Confidence: r.Confidence,
			Kind:       string(r.Kind),
			SymbolID:   r.FromSymbolID,
		})
	}

	names := append([]string{p.Symbol}, Variants(p.Symbol)...)
	idents, err := e.identifiersForReferenceKind(ctx, names, p.ReferenceKind)
	if err != nil {
		return RefsResult{}, err
	}
	for _, id := range idents {
		key := [2]any{id.FilePath, id.StartLine}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, Reference{
			FilePath:   id.FilePath,
			LineNumber: id.StartLine,
			Confidence: id.Confidence,
			Kind:       string(id.Kind),
			SymbolID:   id.ContainingSymbolID,
		})
	}

	imports, err := e.Store.GetSymbolsByName(ctx, e.WorkspaceID, p.Symbol)
	if err != nil {
		return RefsResult{}, err
	}
	for _, s := range imports {
		if s.Kind != types.KindImport {
			continue
		}
		key := [2]any{s.FilePath, s.StartLine}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, Reference{FilePath: s.FilePath, LineNumber: s.StartLine, Confidence: 1.0, Kind: "import", SymbolID: s.ID})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		if out[i].FilePath != out[j].FilePath {
			return out[i].FilePath < out[j].FilePath
		}
		return out[i].LineNumber < out[j].LineNumber
	})

	limit := p.Limit
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	result := RefsResult{References: out}
	if p.IncludeDefinition {
		result.Definitions = defs
	}
	return result, nil
}

func (e *Engine) relationshipsForReferenceKind(ctx context.Context, defIDs []string, kind string) ([]types.Relationship, error) {
	if kind != "" {
		return e.Store.GetRelationshipsToSymbolsFilteredByKind(ctx, e.WorkspaceID, defIDs, types.RelationshipKind(kind))
	}
	return e.Store.GetRelationshipsToSymbols(ctx, e.WorkspaceID, defIDs)
}

func (e *Engine) identifiersForReferenceKind(ctx context.Context, names []string, kind string) ([]types.Identifier, error) {
	if kind != "" {
		return e.Store.GetIdentifiersByNamesAndKind(ctx, e.WorkspaceID, names, types.IdentifierKind(kind))
	}
	return e.Store.GetIdentifiersByNames(ctx, e.WorkspaceID, names)
}
