// Package searchindex wraps a Bleve full-text index (C4) over symbol
// name/signature/doc-comment text, using a custom analyzer chain that
// splits identifiers into words before stemming — so a query for "parse
// config" matches a symbol named ParseConfig, parse_config, or
// parseConfiguration alike.
//
// The identifier-splitting and stemming logic is adapted from the
// teacher's internal/semantic package (NameSplitter, Stemmer), which
// performed the same job at query-construction time; here it runs as
// Bleve token filters, applied uniformly at both index and query time so
// the two sides of a match always tokenize identically.
package searchindex

import (
	"unicode"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/registry"
	"github.com/surgebase/porter2"
)

const (
	identifierAnalyzerName = "julie_identifier"
	nameSplitFilterName    = "julie_name_split"
	porter2FilterName      = "julie_porter2"
	minStemLength          = 3
)

func init() {
	registry.RegisterTokenFilter(nameSplitFilterName, func(map[string]interface{}, *registry.Cache) (analysis.TokenFilter, error) {
		return &nameSplitFilter{}, nil
	})
	registry.RegisterTokenFilter(porter2FilterName, func(map[string]interface{}, *registry.Cache) (analysis.TokenFilter, error) {
		return &porter2Filter{minLength: minStemLength}, nil
	})
}

// nameSplitFilter breaks camelCase/PascalCase/snake_case/kebab-case
// identifiers into lowercase words, the same transitions the teacher's
// NameSplitter.Split detects in its first pass.
type nameSplitFilter struct{}

func (nameSplitFilter) Filter(input analysis.TokenStream) analysis.TokenStream {
	var out analysis.TokenStream
	for _, tok := range input {
		for _, word := range splitIdentifier(string(tok.Term)) {
			if word == "" {
				continue
			}
			out = append(out, &analysis.Token{
				Term:     []byte(word),
				Start:    tok.Start,
				End:      tok.End,
				Position: tok.Position,
				Type:     tok.Type,
			})
		}
	}
	return out
}

// splitIdentifier is the teacher NameSplitter.Split algorithm, ported
// without its sync.Map cache: Bleve already batches analysis per
// document, so there is no hot repeated-lookup path to cache here.
func splitIdentifier(name string) []string {
	if name == "" {
		return nil
	}
	runes := []rune(name)

	hasSplit := false
	for i := 1; i < len(runes); i++ {
		switch runes[i] {
		case '_', '-', '.', '/':
			hasSplit = true
		}
		if unicode.IsLower(runes[i-1]) && unicode.IsUpper(runes[i]) {
			hasSplit = true
		}
		if i > 1 && unicode.IsUpper(runes[i-2]) && unicode.IsUpper(runes[i-1]) && unicode.IsLower(runes[i]) {
			hasSplit = true
		}
		if (unicode.IsLetter(runes[i-1]) && unicode.IsDigit(runes[i])) ||
			(unicode.IsDigit(runes[i-1]) && unicode.IsLetter(runes[i])) {
			hasSplit = true
		}
	}
	if !hasSplit {
		return []string{toLowerASCII(name)}
	}

	var words []string
	var buf []rune
	flush := func() {
		if len(buf) > 0 {
			words = append(words, toLowerASCII(string(buf)))
			buf = buf[:0]
		}
	}
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		if ch == '_' || ch == '-' || ch == '.' || ch == '/' {
			flush()
			continue
		}
		if i > 0 {
			prev := runes[i-1]
			if unicode.IsLower(prev) && unicode.IsUpper(ch) {
				flush()
			} else if i > 1 && unicode.IsUpper(prev) && unicode.IsLower(ch) && unicode.IsUpper(runes[i-2]) {
				// acronym boundary: HTTPServer -> HTTP, Server
				last := buf[len(buf)-1]
				buf = buf[:len(buf)-1]
				flush()
				buf = append(buf, last)
			} else if (unicode.IsLetter(prev) && unicode.IsDigit(ch)) || (unicode.IsDigit(prev) && unicode.IsLetter(ch)) {
				flush()
			}
		}
		buf = append(buf, ch)
	}
	flush()
	return words
}

func toLowerASCII(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		runes[i] = unicode.ToLower(r)
	}
	return string(runes)
}

// porter2Filter stems each token with the same Porter2 algorithm the
// teacher's Stemmer wraps, skipping short tokens where stemming mostly
// just loses information (ids, acronyms).
type porter2Filter struct{ minLength int }

func (f porter2Filter) Filter(input analysis.TokenStream) analysis.TokenStream {
	for _, tok := range input {
		if len(tok.Term) >= f.minLength {
			tok.Term = []byte(porter2.Stem(string(tok.Term)))
		}
	}
	return input
}

// BuildMapping constructs the index mapping shared by symbol and file
// documents: both route their text fields through the identifier
// analyzer so "fast_search" queries match regardless of naming
// convention.
func BuildMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	_ = im.AddCustomAnalyzer(identifierAnalyzerName, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     "unicode",
		"token_filters": []string{nameSplitFilterName, "to_lower", porter2FilterName},
	})
	im.DefaultAnalyzer = identifierAnalyzerName

	textField := bleve.NewTextFieldMapping()
	textField.Analyzer = identifierAnalyzerName

	keywordField := bleve.NewTextFieldMapping()
	keywordField.Analyzer = "keyword"

	symbolDoc := bleve.NewDocumentMapping()
	symbolDoc.AddFieldMappingsAt("Name", textField)
	symbolDoc.AddFieldMappingsAt("Signature", textField)
	symbolDoc.AddFieldMappingsAt("DocComment", textField)
	symbolDoc.AddFieldMappingsAt("Language", keywordField)
	symbolDoc.AddFieldMappingsAt("Kind", keywordField)
	symbolDoc.AddFieldMappingsAt("FilePath", keywordField)
	symbolDoc.AddFieldMappingsAt("WorkspaceID", keywordField)
	im.AddDocumentMapping("symbol", symbolDoc)

	return im
}
