package searchindex

import (
	"os"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	julierrors "github.com/standardbeagle/julie/internal/errors"
	"github.com/standardbeagle/julie/internal/types"
)

// Index is one workspace's Bleve full-text index over symbol text. It
// lives alongside the SQLite store's symbol_fts table rather than
// replacing it: symbol_fts answers exact/prefix BM25 queries cheaply,
// while Index answers the fuzzier, identifier-aware queries fast_search
// issues (wildcard, boolean, and naming-variant-tolerant matches).
type Index struct {
	bleve bleve.Index
	path  string
}

// symbolDoc is the document shape indexed for every symbol. Field names
// must match the mappings configured in BuildMapping.
type symbolDoc struct {
	SymbolID    string
	Name        string
	Signature   string
	DocComment  string
	Language    string
	Kind        string
	FilePath    string
	WorkspaceID string
}

// Type routes every symbolDoc to BuildMapping's "symbol" document mapping.
func (symbolDoc) Type() string { return "symbol" }

// Open opens the index at path, creating it with BuildMapping's schema
// if it does not yet exist.
func Open(path string) (*Index, error) {
	idx, err := bleve.Open(path)
	if err == nil {
		return &Index{bleve: idx, path: path}, nil
	}
	if !os.IsNotExist(err) && err != bleve.ErrorIndexPathDoesNotExist {
		return nil, julierrors.NewStorageError("searchindex_open", err)
	}

	idx, err = bleve.New(path, BuildMapping())
	if err != nil {
		return nil, julierrors.NewStorageError("searchindex_create", err)
	}
	return &Index{bleve: idx, path: path}, nil
}

func (i *Index) Close() error {
	return i.bleve.Close()
}

// IndexSymbol upserts a symbol's searchable text. Bleve's Index call is
// itself an upsert keyed by document ID.
func (i *Index) IndexSymbol(workspaceID string, sym types.Symbol) error {
	doc := symbolDoc{
		SymbolID:    sym.ID,
		Name:        sym.Name,
		Signature:   sym.Signature,
		DocComment:  sym.DocComment,
		Language:    sym.Language,
		Kind:        string(sym.Kind),
		FilePath:    sym.FilePath,
		WorkspaceID: workspaceID,
	}
	if err := i.bleve.Index(docID(workspaceID, sym.ID), doc); err != nil {
		return julierrors.NewStorageError("searchindex_index_symbol", err)
	}
	return nil
}

// IndexSymbols bulk-upserts via a Bleve batch, the path the indexing
// pipeline (C8) uses after ReplaceFileData to keep the text index in
// step with the relational store.
func (i *Index) IndexSymbols(workspaceID string, symbols []types.Symbol) error {
	batch := i.bleve.NewBatch()
	for _, sym := range symbols {
		doc := symbolDoc{
			SymbolID:    sym.ID,
			Name:        sym.Name,
			Signature:   sym.Signature,
			DocComment:  sym.DocComment,
			Language:    sym.Language,
			Kind:        string(sym.Kind),
			FilePath:    sym.FilePath,
			WorkspaceID: workspaceID,
		}
		if err := batch.Index(docID(workspaceID, sym.ID), doc); err != nil {
			return julierrors.NewStorageError("searchindex_batch_add", err)
		}
	}
	if err := i.bleve.Batch(batch); err != nil {
		return julierrors.NewStorageError("searchindex_batch_execute", err)
	}
	return nil
}

// DeleteSymbol removes one symbol's document.
func (i *Index) DeleteSymbol(workspaceID, symbolID string) error {
	if err := i.bleve.Delete(docID(workspaceID, symbolID)); err != nil {
		return julierrors.NewStorageError("searchindex_delete", err)
	}
	return nil
}

// DeleteSymbols removes the documents for the given symbol IDs in one
// batch. The indexing pipeline does not call it: re-indexing a file
// upserts its current symbols and leaves documents of symbols that no
// longer exist in the index.
func (i *Index) DeleteSymbols(workspaceID string, symbolIDs []string) error {
	batch := i.bleve.NewBatch()
	for _, id := range symbolIDs {
		batch.Delete(docID(workspaceID, id))
	}
	if err := i.bleve.Batch(batch); err != nil {
		return julierrors.NewStorageError("searchindex_batch_delete", err)
	}
	return nil
}

func docID(workspaceID, symbolID string) string {
	return workspaceID + "/" + symbolID
}

// Hit is one ranked search result.
type Hit struct {
	SymbolID string
	Score    float64
}

// QueryOptions narrows a text search to a language and/or file glob,
// the filters fast_search exposes alongside its free-text query.
type QueryOptions struct {
	Language     string // empty = any
	FilePathGlob string // empty = any; matched with a wildcard query against FilePath
	Limit        int
}

// Search runs queryText against name/signature/doc-comment fields.
// Boolean operators (AND/OR/NOT), phrase quoting, and field:value and
// wildcard (*, ?) syntax are all supported directly by Bleve's query
// string grammar, giving fast_search boolean/phrase/wildcard support
// without Julie needing its own query parser.
func (i *Index) Search(workspaceID, queryText string, opts QueryOptions) ([]Hit, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	workspaceTerm := bleve.NewTermQuery(workspaceID)
	workspaceTerm.SetField("WorkspaceID")

	conjuncts := []query.Query{workspaceTerm, bleve.NewQueryStringQuery(queryText)}
	if opts.Language != "" {
		langTerm := bleve.NewTermQuery(opts.Language)
		langTerm.SetField("Language")
		conjuncts = append(conjuncts, langTerm)
	}
	if opts.FilePathGlob != "" {
		wq := bleve.NewWildcardQuery(opts.FilePathGlob)
		wq.SetField("FilePath")
		conjuncts = append(conjuncts, wq)
	}

	req := bleve.NewSearchRequestOptions(bleve.NewConjunctionQuery(conjuncts...), limit, 0, false)

	result, err := i.bleve.Search(req)
	if err != nil {
		return nil, julierrors.NewStorageError("searchindex_search", err)
	}

	hits := make([]Hit, 0, len(result.Hits))
	for _, h := range result.Hits {
		hits = append(hits, Hit{SymbolID: symbolIDFromDocID(h.ID), Score: h.Score})
	}
	return hits, nil
}

func symbolIDFromDocID(docID string) string {
	for i := 0; i < len(docID); i++ {
		if docID[i] == '/' {
			return docID[i+1:]
		}
	}
	return docID
}
