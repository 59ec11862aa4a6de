// Package extractor implements Julie's per-language symbol extraction
// (C2): a tree-sitter query runs once per file, captures are grouped by
// match, and each top-level capture name is mapped onto a types.Symbol.
// Relationships and identifiers are recovered with a second, lighter
// walk that looks for call-like nodes and resolves them against symbols
// already extracted from the same file.
//
// Every extractor is total: malformed input yields partial results, never
// a panic. A no-op extractor covers languages without a registered
// grammar.
package extractor

import (
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	julierrors "github.com/standardbeagle/julie/internal/errors"
	"github.com/standardbeagle/julie/internal/types"
)

// Extractor is the capability set every language implementation provides.
type Extractor interface {
	Language() string
	ExtractSymbols(tree *tree_sitter.Tree, content []byte, workspaceID, filePath string) []types.Symbol
	ExtractRelationships(tree *tree_sitter.Tree, content []byte, symbols []types.Symbol, filePath string) []types.Relationship
	ExtractIdentifiers(tree *tree_sitter.Tree, content []byte, symbols []types.Symbol, filePath string) []types.Identifier
}

// Result bundles the three outputs a single extraction pass produces, the
// shape the indexing pipeline (C8) persists in one transaction.
type Result struct {
	Symbols       []types.Symbol
	Relationships []types.Relationship
	Identifiers   []types.Identifier
}

// Extract parses content with a pooled parser for the language (if
// registered) and runs the three extraction phases. Returns a
// ParseError, never a panic, when the grammar fails to produce a tree.
//
// A *tree_sitter.Parser is not safe for concurrent Parse calls, but the
// indexing pipeline (C8) extracts many files of the same language
// concurrently via errgroup. Rather than serialize every file behind one
// shared parser, each language keeps its own sync.Pool of parser
// instances — the same fix the teacher applies in
// internal/parser/parser.go's parserPools/getParser/ReleaseParser, here
// folded directly into Extract so callers never handle pool lifetime.
func Extract(language, workspaceID, filePath string, content []byte) (Result, error) {
	ext, ok := registry[language]
	if !ok {
		return Result{}, nil // unknown language: no-op, not an error
	}

	parser := ext.acquireParser()
	defer ext.releaseParser(parser)

	tree := parser.Parse(content, nil)
	if tree == nil {
		return Result{}, julierrors.NewParseError(filePath, language, errNilTree)
	}
	defer tree.Close()

	impl := ext.impl
	symbols := impl.ExtractSymbols(tree, content, workspaceID, filePath)
	relationships := impl.ExtractRelationships(tree, content, symbols, filePath)
	identifiers := impl.ExtractIdentifiers(tree, content, symbols, filePath)

	return Result{Symbols: symbols, Relationships: relationships, Identifiers: identifiers}, nil
}

var errNilTree = parseNilTreeError{}

type parseNilTreeError struct{}

func (parseNilTreeError) Error() string { return "tree-sitter produced no tree" }

// registeredExtractor pairs a language's parsed-grammar extractor with a
// pool of parser instances, one language to one pool, mirroring the
// teacher's per-language parserPools map.
type registeredExtractor struct {
	lang *tree_sitter.Language
	pool sync.Pool
	impl Extractor
}

func (e *registeredExtractor) acquireParser() *tree_sitter.Parser {
	if p, ok := e.pool.Get().(*tree_sitter.Parser); ok {
		return p
	}
	p := tree_sitter.NewParser()
	_ = p.SetLanguage(e.lang) // validated once at register time; cannot fail here
	return p
}

func (e *registeredExtractor) releaseParser(p *tree_sitter.Parser) {
	e.pool.Put(p)
}

var registry = map[string]*registeredExtractor{}

// register binds a language name to its grammar and extractor
// implementation. lang must already be validated (SetLanguage succeeded
// on at least one probe parser); see newLanguage in languages.go.
func register(name string, lang *tree_sitter.Language, impl Extractor) {
	registry[name] = &registeredExtractor{lang: lang, impl: impl}
}

// Supported reports the languages with a registered grammar and
// extractor, for diagnostics and the status tool.
func Supported() []string {
	langs := make([]string, 0, len(registry))
	for l := range registry {
		langs = append(langs, l)
	}
	return langs
}
