package query

import (
	"context"

	"github.com/standardbeagle/julie/internal/types"
)

// DeepDiveDepth controls how many incoming/outgoing references deep_dive
// includes.
type DeepDiveDepth string

const (
	DepthOverview DeepDiveDepth = "overview"
	DepthContext  DeepDiveDepth = "context"
	DepthFull     DeepDiveDepth = "full"
)

// referenceCaps maps DeepDiveDepth to the max incoming/outgoing edges
// returned per direction. Resolved per DESIGN.md: the spec names the
// three tiers without fixing numbers, so these are a small cap for a
// quick overview, a mid cap for context, and a large cap for full.
var referenceCaps = map[DeepDiveDepth]int{
	DepthOverview: 5,
	DepthContext:  20,
	DepthFull:     100,
}

// DeepDiveParams are deep_dive's parameters (spec §6).
type DeepDiveParams struct {
	Symbol      string
	Depth       DeepDiveDepth
	ContextFile string
}

// DeepDiveResult is deep_dive's return value. When multiple same-named
// definitions are ambiguous, Disambiguation is populated and every
// other field is left zero (spec §4.9: "return a disambiguation list
// instead of building full context for each").
type DeepDiveResult struct {
	Disambiguation []types.Symbol
	Definition     types.Symbol
	Incoming       []types.Relationship
	Outgoing       []types.Relationship
	Children       []types.Symbol
}

// DeepDive returns a single symbol's definition, bounded reference
// context, and children.
func (e *Engine) DeepDive(ctx context.Context, p DeepDiveParams) (DeepDiveResult, error) {
	defs, err := e.findDefinitions(ctx, p.Symbol)
	if err != nil {
		return DeepDiveResult{}, err
	}
	if len(defs) == 0 {
		return DeepDiveResult{}, nil
	}

	candidates := defs
	if p.ContextFile != "" {
		var inFile []types.Symbol
		for _, d := range defs {
			if d.FilePath == p.ContextFile {
				inFile = append(inFile, d)
			}
		}
		if len(inFile) == 1 {
			candidates = inFile
		}
	}
	if len(candidates) > 1 {
		return DeepDiveResult{Disambiguation: rankDefinitions(candidates, p.ContextFile, 0)}, nil
	}
	def := candidates[0]

	depth := p.Depth
	if _, ok := referenceCaps[depth]; !ok {
		depth = DepthOverview
	}
	refCap := referenceCaps[depth]

	incoming, err := e.Store.GetRelationshipsToSymbols(ctx, e.WorkspaceID, []string{def.ID})
	if err != nil {
		return DeepDiveResult{}, err
	}
	if len(incoming) > refCap {
		incoming = incoming[:refCap]
	}

	outgoing, err := e.Store.GetRelationshipsForSymbol(ctx, e.WorkspaceID, def.ID)
	if err != nil {
		return DeepDiveResult{}, err
	}
	if len(outgoing) > refCap {
		outgoing = outgoing[:refCap]
	}

	fileSymbols, err := e.Store.GetSymbolsForFile(ctx, e.WorkspaceID, def.FilePath)
	if err != nil {
		return DeepDiveResult{}, err
	}
	var children []types.Symbol
	for _, s := range fileSymbols {
		if s.ParentID == def.ID {
			children = append(children, s)
		}
	}

	return DeepDiveResult{
		Definition: def,
		Incoming:   incoming,
		Outgoing:   outgoing,
		Children:   children,
	}, nil
}
