package extractor

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/julie/internal/types"
)

// queryExtractor drives symbol extraction for one language from a single
// tree-sitter query. captureKind maps a query's top-level capture name
// (e.g. "function", "class") to the Symbol kind it produces; the query is
// expected to also capture captureName+".name" for the identifier node
// that supplies Symbol.Name, following the teacher's naming convention.
//
// callNodeTypes names the grammar's call-expression node types, used by
// the identifier/relationship walk to recover Calls edges and call-site
// Identifiers without a second query.
type queryExtractor struct {
	lang          string
	query         *tree_sitter.Query
	captureNames  []string
	captureKind   map[string]types.SymbolKind
	callNodeTypes map[string]bool
}

func newQueryExtractor(lang string, query *tree_sitter.Query, captureKind map[string]types.SymbolKind, callNodeTypes []string) *queryExtractor {
	calls := make(map[string]bool, len(callNodeTypes))
	for _, t := range callNodeTypes {
		calls[t] = true
	}
	return &queryExtractor{
		lang:          lang,
		query:         query,
		captureNames:  query.CaptureNames(),
		captureKind:   captureKind,
		callNodeTypes: calls,
	}
}

func (q *queryExtractor) Language() string { return q.lang }

func (q *queryExtractor) ExtractSymbols(tree *tree_sitter.Tree, content []byte, workspaceID, filePath string) []types.Symbol {
	if q.query == nil {
		return nil
	}

	cursor := tree_sitter.NewQueryCursor()
	defer cursor.Close()

	matches := cursor.Matches(q.query, tree.RootNode(), content)

	var symbols []types.Symbol
	names := make(map[string]string, 4)

	for {
		match := matches.Next()
		if match == nil {
			break
		}

		for k := range names {
			delete(names, k)
		}
		for _, c := range match.Captures {
			name := q.captureNames[c.Index]
			if strings.HasSuffix(name, ".name") {
				names[name] = nodeText(c.Node, content)
			}
		}

		for _, c := range match.Captures {
			captureName := q.captureNames[c.Index]
			kind, ok := q.captureKind[captureName]
			if !ok {
				continue
			}

			node := c.Node
			symbolName := names[captureName+".name"]
			if symbolName == "" {
				if nameNode := node.ChildByFieldName("name"); nameNode != nil {
					symbolName = nodeText(*nameNode, content)
				}
			}
			if symbolName == "" {
				continue
			}

			start := node.StartPosition()
			end := node.EndPosition()
			startByte := node.StartByte()

			symbols = append(symbols, types.Symbol{
				ID:            types.ComputeSymbolID(workspaceID, filePath, kind, symbolName, startByte),
				Name:          symbolName,
				Kind:          kind,
				Language:      q.lang,
				FilePath:      filePath,
				StartLine:     int(start.Row) + 1,
				StartColumn:   int(start.Column) + 1,
				EndLine:       int(end.Row) + 1,
				EndColumn:     int(end.Column) + 1,
				StartByte:     startByte,
				EndByte:       node.EndByte(),
				Signature:     firstLine(nodeText(node, content)),
				Visibility:    q.visibilityFor(node, symbolName, content),
				SemanticGroup: classifySemanticGroup(symbolName),
			})
		}
	}

	assignParents(symbols)
	return symbols
}

// assignParents sets ParentID to the nearest enclosing symbol's ID, giving
// callers a single-pass way to rebuild the nesting tree (spec §4.2).
func assignParents(symbols []types.Symbol) {
	sort.Slice(symbols, func(i, j int) bool {
		return symbols[i].StartByte < symbols[j].StartByte
	})

	for i := range symbols {
		var parent *types.Symbol
		for j := range symbols {
			if i == j {
				continue
			}
			cand := &symbols[j]
			if cand.StartByte <= symbols[i].StartByte && cand.EndByte >= symbols[i].EndByte && cand.StartByte != symbols[i].StartByte {
				if parent == nil || (cand.EndByte-cand.StartByte) < (parent.EndByte-parent.StartByte) {
					parent = cand
				}
			}
		}
		if parent != nil {
			symbols[i].ParentID = parent.ID
		}
	}
}

// ExtractRelationships and ExtractIdentifiers share one tree walk: every
// call-like node becomes an Identifier, and when the callee name matches a
// symbol already extracted from this file it also becomes a Relationship
// anchored at the nearest enclosing symbol.
func (q *queryExtractor) ExtractRelationships(tree *tree_sitter.Tree, content []byte, symbols []types.Symbol, filePath string) []types.Relationship {
	byName := indexByName(symbols)
	var rels []types.Relationship

	walk(tree.RootNode(), func(n tree_sitter.Node) {
		if !q.callNodeTypes[n.Kind()] {
			return
		}
		callee := calleeName(n, content)
		if callee == "" {
			return
		}
		targets, ok := byName[callee]
		if !ok {
			return
		}
		enclosing := enclosingSymbol(symbols, n.StartByte(), n.EndByte())
		if enclosing == nil {
			return
		}
		line := int(n.StartPosition().Row) + 1
		for _, target := range targets {
			if target.ID == enclosing.ID {
				continue
			}
			rels = append(rels, types.Relationship{
				ID:           types.ComputeSymbolID("rel", filePath, types.KindFunction, enclosing.ID+">"+target.ID, n.StartByte()),
				FromSymbolID: enclosing.ID,
				ToSymbolID:   target.ID,
				Kind:         types.RelCalls,
				FilePath:     filePath,
				LineNumber:   line,
				Confidence:   1.0,
			})
		}
	})

	return rels
}

func (q *queryExtractor) ExtractIdentifiers(tree *tree_sitter.Tree, content []byte, symbols []types.Symbol, filePath string) []types.Identifier {
	var idents []types.Identifier

	walk(tree.RootNode(), func(n tree_sitter.Node) {
		if !q.callNodeTypes[n.Kind()] {
			return
		}
		callee := calleeName(n, content)
		if callee == "" {
			return
		}
		enclosing := enclosingSymbol(symbols, n.StartByte(), n.EndByte())
		containingID := ""
		if enclosing != nil {
			containingID = enclosing.ID
		}
		start := n.StartPosition()
		idents = append(idents, types.Identifier{
			ID:                 types.ComputeSymbolID("ident", filePath, types.KindFunction, callee, n.StartByte()),
			Name:               callee,
			Kind:               types.IdentCall,
			FilePath:           filePath,
			StartLine:          int(start.Row) + 1,
			StartColumn:        int(start.Column) + 1,
			ContainingSymbolID: containingID,
			Confidence:         1.0,
		})
	})

	return idents
}

func indexByName(symbols []types.Symbol) map[string][]*types.Symbol {
	out := make(map[string][]*types.Symbol, len(symbols))
	for i := range symbols {
		out[symbols[i].Name] = append(out[symbols[i].Name], &symbols[i])
	}
	return out
}

func enclosingSymbol(symbols []types.Symbol, startByte, endByte uint32) *types.Symbol {
	var best *types.Symbol
	for i := range symbols {
		s := &symbols[i]
		if s.StartByte <= startByte && s.EndByte >= endByte {
			if best == nil || (s.EndByte-s.StartByte) < (best.EndByte-best.StartByte) {
				best = s
			}
		}
	}
	return best
}

// calleeName extracts the identifier text of a call-like node's callee.
// Tries the common field names across grammars (function/name) before
// falling back to the first identifier-shaped child.
func calleeName(n tree_sitter.Node, content []byte) string {
	for _, field := range []string{"function", "name"} {
		if callee := n.ChildByFieldName(field); callee != nil {
			return identifierLeaf(*callee, content)
		}
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(uint(i))
		if child == nil {
			continue
		}
		if txt := identifierLeaf(*child, content); txt != "" {
			return txt
		}
	}
	return ""
}

// identifierLeaf returns the node's text when it looks like a bare
// identifier or a member-access tail (obj.method -> method).
func identifierLeaf(n tree_sitter.Node, content []byte) string {
	kind := n.Kind()
	switch kind {
	case "identifier", "field_identifier", "property_identifier", "type_identifier", "name":
		return nodeText(n, content)
	case "member_expression", "field_expression", "selector_expression", "attribute":
		if prop := n.ChildByFieldName("property"); prop != nil {
			return identifierLeaf(*prop, content)
		}
		if field := n.ChildByFieldName("field"); field != nil {
			return identifierLeaf(*field, content)
		}
		if attr := n.ChildByFieldName("attribute"); attr != nil {
			return identifierLeaf(*attr, content)
		}
	}
	return ""
}

func walk(n tree_sitter.Node, visit func(tree_sitter.Node)) {
	visit(n)
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(uint(i))
		if child != nil {
			walk(*child, visit)
		}
	}
}

func nodeText(n tree_sitter.Node, content []byte) string {
	start, end := n.StartByte(), n.EndByte()
	if int(end) > len(content) || start > end {
		return ""
	}
	return string(content[start:end])
}

// visibilityFor maps a symbol onto the common {Public, Private, Protected,
// Internal, Default} lattice (spec §4.2) using each grammar's own
// visibility signal: an explicit modifier node where the language has one,
// name-casing or a leading underscore where it doesn't.
func (q *queryExtractor) visibilityFor(node tree_sitter.Node, symbolName string, content []byte) types.Visibility {
	switch q.lang {
	case "go":
		return visibilityFromGoName(symbolName)
	case "rust":
		if v, ok := visibilityFromModifierTokens(node, content); ok {
			return v
		}
		return types.VisibilityPrivate
	case "java", "csharp":
		if v, ok := visibilityFromModifierTokens(node, content); ok {
			return v
		}
		return types.VisibilityDefault
	case "php":
		if v, ok := visibilityFromModifierTokens(node, content); ok {
			return v
		}
		return types.VisibilityPublic
	case "zig":
		if v, ok := visibilityFromModifierTokens(node, content); ok {
			return v
		}
		return types.VisibilityPrivate
	case "python", "javascript", "typescript":
		if v, ok := visibilityFromModifierTokens(node, content); ok {
			return v
		}
		return visibilityFromLeadingUnderscore(symbolName)
	default:
		// cpp/c and any ungrammared language: the current queries only
		// capture top-level constructs with no member-level modifier
		// context available, so there is no signal to map from.
		return types.VisibilityPublic
	}
}

// visibilityFromModifierTokens looks for an access-modifier keyword among a
// node's direct children, recursing into the wrapper nodes languages use to
// group modifiers (Java/C#'s "modifiers", Zig's lack of one aside). Rust's
// "visibility_modifier" and TypeScript's "accessibility_modifier" carry
// their own text ("pub(crate)", "private") rather than being a bare
// keyword token, so those are read through visibilityFromText.
func visibilityFromModifierTokens(node tree_sitter.Node, content []byte) (types.Visibility, bool) {
	count := int(node.ChildCount())
	for i := 0; i < count; i++ {
		child := node.Child(uint(i))
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "visibility_modifier", "accessibility_modifier":
			return visibilityFromText(nodeText(*child, content)), true
		case "public":
			return types.VisibilityPublic, true
		case "private":
			return types.VisibilityPrivate, true
		case "protected":
			return types.VisibilityProtected, true
		case "internal":
			return types.VisibilityInternal, true
		case "pub":
			return types.VisibilityPublic, true
		case "modifiers", "modifier_list":
			if v, ok := visibilityFromModifierTokens(*child, content); ok {
				return v, true
			}
		}
	}
	return "", false
}

// visibilityFromText classifies a modifier node's own text, for grammars
// (Rust, TypeScript) where the modifier is a single node rather than a set
// of sibling keyword tokens.
func visibilityFromText(text string) types.Visibility {
	switch {
	case strings.Contains(text, "crate") || strings.Contains(text, "internal"):
		return types.VisibilityInternal
	case strings.Contains(text, "protected"):
		return types.VisibilityProtected
	case strings.Contains(text, "private"):
		return types.VisibilityPrivate
	default:
		return types.VisibilityPublic
	}
}

// visibilityFromGoName applies Go's name-casing convention: an exported
// identifier starts with an uppercase rune.
func visibilityFromGoName(name string) types.Visibility {
	r, _ := utf8.DecodeRuneInString(name)
	if r != utf8.RuneError && unicode.IsUpper(r) {
		return types.VisibilityPublic
	}
	return types.VisibilityPrivate
}

// visibilityFromLeadingUnderscore applies the Python/JS convention that a
// leading underscore marks a name as private by convention.
func visibilityFromLeadingUnderscore(name string) types.Visibility {
	if strings.HasPrefix(name, "_") {
		return types.VisibilityPrivate
	}
	return types.VisibilityPublic
}

// architecturalSuffixes maps a common component-naming suffix onto the
// semantic group find_logic's architectural-pattern tier rewards (spec
// §4.9), grounded on the teacher's regexp-driven category classification
// in internal/core/semantic_annotator.go, adapted here from structured
// comment tags to plain naming convention since extraction has no comment
// annotations to read.
var architecturalSuffixes = []struct {
	suffix string
	group  string
}{
	{"Controller", "controller"},
	{"Service", "service"},
	{"Repository", "repository"},
	{"Repo", "repository"},
	{"Handler", "handler"},
	{"Middleware", "middleware"},
	{"Factory", "factory"},
	{"Builder", "builder"},
	{"Adapter", "adapter"},
	{"Gateway", "gateway"},
	{"Validator", "validator"},
	{"Provider", "provider"},
	{"Listener", "observer"},
	{"Observer", "observer"},
	{"Manager", "manager"},
}

func classifySemanticGroup(name string) string {
	for _, p := range architecturalSuffixes {
		if strings.HasSuffix(name, p.suffix) {
			return p.group
		}
	}
	return ""
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return strings.TrimSpace(s)
}
