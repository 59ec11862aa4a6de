package query

import (
	"context"
	"sort"
	"strings"

	"github.com/standardbeagle/julie/internal/types"
)

// splitQualified splits a dotted/double-colon qualified symbol name into
// (parent, child), e.g. "UserService::findById" or "UserService.findById"
// -> ("UserService", "findById"). ok is false when symbol has no
// qualifier, so callers fall through to the unqualified strategies.
func splitQualified(symbol string) (parent, child string, ok bool) {
	if i := strings.LastIndex(symbol, "::"); i >= 0 {
		return symbol[:i], symbol[i+2:], true
	}
	if i := strings.LastIndex(symbol, "."); i >= 0 {
		return symbol[:i], symbol[i+1:], true
	}
	return "", "", false
}

// findDefinitions resolves symbol to candidate definitions using the
// three strategies fast_goto specifies, shared by fast_refs and
// trace_call_path's naming-variant bridge so every tool that needs "the
// definition(s) of this name" agrees on what that means.
//
// Strategy 0 (qualified name): split parent::child or parent.child,
// find children named child, keep those whose parent symbol's name
// equals parent.
// Strategy 1: indexed exact lookup.
// Strategy 2 (cross-language): generate naming variants, probe for
// each, keep only matches whose language differs from any Strategy 1
// hit (a variant in the *same* language is just a different symbol).
//
// Import symbols are always excluded: they are references, not
// definitions (spec §4.9).
func (e *Engine) findDefinitions(ctx context.Context, symbol string) ([]types.Symbol, error) {
	var direct []types.Symbol

	if parent, child, ok := splitQualified(symbol); ok {
		children, err := e.Store.GetSymbolsByName(ctx, e.WorkspaceID, child)
		if err != nil {
			return nil, err
		}
		parentIDs := make([]string, 0, len(children))
		byParentID := make(map[string]types.Symbol, len(children))
		for _, c := range children {
			if c.ParentID == "" {
				continue
			}
			parentIDs = append(parentIDs, c.ParentID)
			byParentID[c.ParentID] = c
		}
		if len(parentIDs) > 0 {
			parents, err := e.Store.GetSymbolsByIDs(ctx, e.WorkspaceID, parentIDs)
			if err != nil {
				return nil, err
			}
			for _, p := range parents {
				if p.Name == parent {
					direct = append(direct, byParentID[p.ID])
				}
			}
		}
	}

	if len(direct) == 0 {
		exact, err := e.Store.GetSymbolsByName(ctx, e.WorkspaceID, symbol)
		if err != nil {
			return nil, err
		}
		direct = exact
	}

	seenLanguages := make(map[string]bool, len(direct))
	for _, s := range direct {
		seenLanguages[s.Language] = true
	}

	for _, variant := range Variants(symbol) {
		matches, err := e.Store.GetSymbolsByName(ctx, e.WorkspaceID, variant)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if !seenLanguages[m.Language] {
				direct = append(direct, m)
			}
		}
	}

	if len(direct) == 0 {
		fuzzy, err := e.fuzzyFallback(ctx, symbol)
		if err != nil {
			return nil, err
		}
		direct = fuzzy
	}

	out := make([]types.Symbol, 0, len(direct))
	for _, s := range direct {
		if s.Kind != types.KindImport {
			out = append(out, s)
		}
	}
	return out, nil
}

// fuzzyFallback is Strategy 3: when the qualified, exact, and
// naming-variant strategies all miss, probe every known symbol name in
// the workspace for a Jaro-Winkler near-match (typo tolerance) and
// return the symbols behind whichever names clear fuzzyThreshold.
func (e *Engine) fuzzyFallback(ctx context.Context, symbol string) ([]types.Symbol, error) {
	all, err := e.Store.GetAllSymbols(ctx, e.WorkspaceID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(all))
	seen := make(map[string]bool, len(all))
	for _, s := range all {
		if !seen[s.Name] {
			seen[s.Name] = true
			names = append(names, s.Name)
		}
	}
	matched := fuzzyMatchNames(symbol, names)
	if len(matched) == 0 {
		return nil, nil
	}
	matchSet := make(map[string]bool, len(matched))
	for _, m := range matched {
		matchSet[m] = true
	}
	var out []types.Symbol
	for _, s := range all {
		if matchSet[s.Name] {
			out = append(out, s)
		}
	}
	return out, nil
}

// definitionPriority ranks a symbol kind for "go to definition"
// preference. Resolved per DESIGN.md's Open-Question decision: spec
// §4.9 lists "Class/Interface < Function < Method/Constructor <
// Type/Enum < Variable/Constant" without stating the sort direction, so
// this reads the list as most-preferred-first (a bare name more often
// resolves to a type or callable than a variable of the same name).
func definitionPriority(kind types.SymbolKind) int {
	switch kind {
	case types.KindClass, types.KindInterface:
		return 0
	case types.KindFunction:
		return 1
	case types.KindMethod, types.KindConstructor:
		return 2
	case types.KindType, types.KindEnum:
		return 3
	case types.KindVariable, types.KindConstant:
		return 4
	default:
		return 5
	}
}

// rankDefinitions orders candidates by definition_priority, then
// preference for contextFile, then proximity to lineNumber, per spec
// §4.9's fast_goto ranking rule. Shared by fast_goto and deep_dive's
// disambiguation-list ordering.
func rankDefinitions(candidates []types.Symbol, contextFile string, lineNumber int) []types.Symbol {
	out := make([]types.Symbol, len(candidates))
	copy(out, candidates)

	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := definitionPriority(out[i].Kind), definitionPriority(out[j].Kind)
		if pi != pj {
			return pi < pj
		}
		if contextFile != "" {
			ci, cj := out[i].FilePath == contextFile, out[j].FilePath == contextFile
			if ci != cj {
				return ci
			}
		}
		if lineNumber > 0 {
			di := abs(out[i].StartLine - lineNumber)
			dj := abs(out[j].StartLine - lineNumber)
			return di < dj
		}
		return false
	})
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
