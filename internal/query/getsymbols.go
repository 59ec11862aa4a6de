package query

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	julierrors "github.com/standardbeagle/julie/internal/errors"
	"github.com/standardbeagle/julie/internal/types"
)

// SymbolMode selects how much of a symbol's body get_symbols returns.
type SymbolMode string

const (
	ModeStructure SymbolMode = "structure" // names + signatures only
	ModeMinimal   SymbolMode = "minimal"   // top-level bodies
	ModeFull      SymbolMode = "full"      // every body, including nested
)

// GetSymbolsParams are get_symbols's parameters (spec §6).
type GetSymbolsParams struct {
	FilePath string // workspace-relative or absolute; resolved against Root
	MaxDepth int    // 0 = unlimited
	Target   string // substring filter on Name; empty = no filter
	Limit    int
	Mode     SymbolMode
}

// SymbolWithBody pairs a Symbol with its extracted source body, present
// only when Mode requested it.
type SymbolWithBody struct {
	Symbol types.Symbol
	Body   string
}

// GetSymbols loads a file's symbol tree, filtered by nesting depth
// (walked via ParentID) and by a name substring, with bodies sliced from
// the file's bytes when Mode asks for them.
func (e *Engine) GetSymbols(ctx context.Context, p GetSymbolsParams) ([]SymbolWithBody, error) {
	relPath := toWorkspaceRelative(p.FilePath, e.Root)

	symbols, err := e.Store.GetSymbolsForFile(ctx, e.WorkspaceID, relPath)
	if err != nil {
		return nil, err
	}

	symbols = filterByDepth(symbols, p.MaxDepth)
	if p.Target != "" {
		symbols = filterByTarget(symbols, p.Target)
	}
	if p.Limit > 0 && len(symbols) > p.Limit {
		symbols = symbols[:p.Limit]
	}

	out := make([]SymbolWithBody, len(symbols))
	for i, s := range symbols {
		out[i] = SymbolWithBody{Symbol: s}
	}

	if p.Mode == ModeStructure || p.Mode == "" {
		return out, nil
	}

	content, err := e.readFileBytes(relPath)
	if err != nil {
		return out, err
	}
	for i := range out {
		sym := out[i].Symbol
		if p.Mode == ModeMinimal && sym.ParentID != "" {
			continue // minimal mode: only top-level bodies
		}
		out[i].Body = truncateBody(sliceBody(content, sym.StartByte, sym.EndByte))
	}
	return out, nil
}

// filterByDepth keeps only symbols whose ParentID chain is at most
// maxDepth levels deep (0 = unlimited). Depth 0 is any top-level symbol.
func filterByDepth(symbols []types.Symbol, maxDepth int) []types.Symbol {
	if maxDepth <= 0 {
		return symbols
	}
	byID := make(map[string]types.Symbol, len(symbols))
	for _, s := range symbols {
		byID[s.ID] = s
	}
	depthOf := func(s types.Symbol) int {
		depth := 0
		cur := s
		for cur.ParentID != "" && depth <= maxDepth {
			parent, ok := byID[cur.ParentID]
			if !ok {
				break
			}
			depth++
			cur = parent
		}
		return depth
	}
	out := make([]types.Symbol, 0, len(symbols))
	for _, s := range symbols {
		if depthOf(s) <= maxDepth {
			out = append(out, s)
		}
	}
	return out
}

func filterByTarget(symbols []types.Symbol, target string) []types.Symbol {
	lower := strings.ToLower(target)
	out := make([]types.Symbol, 0, len(symbols))
	for _, s := range symbols {
		if strings.Contains(strings.ToLower(s.Name), lower) {
			out = append(out, s)
		}
	}
	return out
}

func sliceBody(content []byte, start, end uint32) string {
	if int(end) > len(content) || start > end {
		return ""
	}
	return string(content[start:end])
}

// bodyTruncationLimit is the line count above which get_symbols truncates a
// body in minimal/full mode (spec §8 boundary behavior).
const bodyTruncationLimit = 50

// bodyHeadLines and bodyTailLines bound what survives truncation: enough of
// the start to show the signature and enough of the end to show the
// closing brace, with room left for the marker and outline lines.
const (
	bodyHeadLines = 25
	bodyTailLines = 20
)

// truncateBody enforces the 50-line truncation rule: bodies over the limit
// keep their first and last lines, gain an explicit truncation marker, and
// keep any structural marker line (a nested fn/class/struct opener, or a
// closing brace) that falls in the omitted middle, so the outline of a long
// symbol is still visible.
func truncateBody(body string) string {
	lines := strings.Split(body, "\n")
	if len(lines) <= bodyTruncationLimit {
		return body
	}

	omitted := lines[bodyHeadLines : len(lines)-bodyTailLines]

	out := make([]string, 0, bodyHeadLines+bodyTailLines+len(omitted)+1)
	out = append(out, lines[:bodyHeadLines]...)
	out = append(out, fmt.Sprintf("... (%d lines omitted) ...", len(omitted)))
	out = append(out, structuralMarkerLines(omitted)...)
	out = append(out, lines[len(lines)-bodyTailLines:]...)
	return strings.Join(out, "\n")
}

// structuralOpeners are the declaration keywords that mark the start of a
// nested construct worth surfacing even when its body is omitted.
var structuralOpeners = []string{
	"fn ", "func ", "def ", "class ", "struct ", "interface ", "enum ", "impl ", "trait ",
}

// structuralMarkerLines keeps lines that look like a nested declaration
// opener or a bare closing brace, so truncation doesn't hide a long body's
// internal structure entirely.
func structuralMarkerLines(lines []string) []string {
	var out []string
	for _, l := range lines {
		trimmed := strings.TrimSpace(l)
		if trimmed == "}" || startsWithStructuralOpener(trimmed) {
			out = append(out, l)
		}
	}
	return out
}

func startsWithStructuralOpener(trimmed string) bool {
	for _, modifier := range []string{"", "pub ", "pub(crate) ", "public ", "private ", "protected ", "static ", "async "} {
		rest := strings.TrimPrefix(trimmed, modifier)
		if rest == trimmed && modifier != "" {
			continue
		}
		for _, kw := range structuralOpeners {
			if strings.HasPrefix(rest, kw) {
				return true
			}
		}
	}
	return false
}

func (e *Engine) readFileBytes(relPath string) ([]byte, error) {
	abs := filepath.Join(e.Root, filepath.FromSlash(relPath))
	content, err := os.ReadFile(abs)
	if err != nil {
		return nil, julierrors.NewStorageError("get_symbols_read_file", err)
	}
	return content, nil
}

// toWorkspaceRelative accepts either an absolute path under root or an
// already-relative one and returns the workspace-relative, forward-slash
// form the store indexes by (spec §4.9).
func toWorkspaceRelative(path, root string) string {
	if !filepath.IsAbs(path) {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
