package query

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/standardbeagle/julie/internal/searchindex"
	"github.com/standardbeagle/julie/internal/types"
)

// SearchMode selects fast_search's matching strategy.
type SearchMode string

const (
	ModeText     SearchMode = "text"
	ModeSemantic SearchMode = "semantic"
	ModeHybrid   SearchMode = "hybrid"
)

// SearchTarget selects what fast_search matches against.
type SearchTarget string

const (
	TargetSymbols     SearchTarget = "symbols"
	TargetContent     SearchTarget = "content"
	TargetDefinitions SearchTarget = "definitions"
)

// SearchOutput selects fast_search's result shape.
type SearchOutput string

const (
	OutputSymbols SearchOutput = "symbols"
	OutputLines   SearchOutput = "lines"
)

// SearchParams are fast_search's parameters (spec §6).
type SearchParams struct {
	Query       string
	Mode        SearchMode
	Target      SearchTarget
	Language    string
	FilePattern string
	Limit       int
	Output      SearchOutput
}

// ScoredSymbol is one fast_search hit over symbols or definitions.
type ScoredSymbol struct {
	Symbol types.Symbol
	Score  float64
}

// LineHit is one fast_search hit when Output is OutputLines.
type LineHit struct {
	FilePath   string
	LineNumber int
	LineText   string
}

// SearchResult is fast_search's return value; exactly one of Symbols or
// Lines is populated depending on Params.Output/Target.
type SearchResult struct {
	Symbols []ScoredSymbol
	Lines   []LineHit
}

// FastSearch runs text, semantic, or hybrid search per spec §4.9.
func (e *Engine) FastSearch(ctx context.Context, p SearchParams) (SearchResult, error) {
	if p.Limit <= 0 {
		p.Limit = 50
	}

	if p.Target == TargetContent {
		return e.searchContent(ctx, p)
	}

	mode := p.Mode
	if mode == ModeSemantic && !e.hasSemanticSearch() {
		mode = ModeText
	}

	var scored []ScoredSymbol
	var err error
	switch mode {
	case ModeSemantic:
		scored, err = e.searchSemantic(ctx, p)
	case ModeHybrid:
		scored, err = e.searchHybrid(ctx, p)
	default:
		scored, err = e.searchText(ctx, p)
	}
	if err != nil {
		return SearchResult{}, err
	}

	if p.Target == TargetDefinitions {
		scored = filterOutImports(scored)
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > p.Limit {
		scored = scored[:p.Limit]
	}
	return SearchResult{Symbols: scored}, nil
}

func filterOutImports(in []ScoredSymbol) []ScoredSymbol {
	out := make([]ScoredSymbol, 0, len(in))
	for _, s := range in {
		if s.Symbol.Kind != types.KindImport {
			out = append(out, s)
		}
	}
	return out
}

// queryHasTestToken reports whether the raw query text mentions "test",
// the exemption to pathRelevance's test-file penalty (spec §4.9).
func queryHasTestToken(query string) bool {
	for _, w := range splitWords(query) {
		if w == "test" {
			return true
		}
	}
	return false
}

func (e *Engine) searchText(ctx context.Context, p SearchParams) ([]ScoredSymbol, error) {
	type hit struct {
		id    string
		score float64
	}
	var hits []hit

	if e.Index != nil {
		idxHits, err := e.Index.Search(e.WorkspaceID, p.Query, searchindex.QueryOptions{
			Language:     p.Language,
			FilePathGlob: p.FilePattern,
			Limit:        p.Limit * 4,
		})
		if err != nil {
			return nil, err
		}
		for _, h := range idxHits {
			hits = append(hits, hit{id: h.SymbolID, score: h.Score})
		}
	} else {
		ftsHits, err := e.Store.SearchSymbolFTS(ctx, e.WorkspaceID, p.Query, p.Limit*4)
		if err != nil {
			return nil, err
		}
		for _, h := range ftsHits {
			hits = append(hits, hit{id: h.SymbolID, score: normalizeFTSRank(h.Score)})
		}
	}

	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.id
	}
	symbols, err := e.Store.GetSymbolsByIDs(ctx, e.WorkspaceID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]types.Symbol, len(symbols))
	for _, s := range symbols {
		byID[s.ID] = s
	}

	testToken := queryHasTestToken(p.Query)
	out := make([]ScoredSymbol, 0, len(hits))
	for _, h := range hits {
		sym, ok := byID[h.id]
		if !ok {
			continue
		}
		if p.Language != "" && sym.Language != p.Language {
			continue
		}
		rel := pathRelevance(sym.FilePath, testToken)
		boost := exactMatchBoost(p.Query, sym.Name)
		out = append(out, ScoredSymbol{Symbol: sym, Score: composeTextScore(h.score, rel, boost)})
	}
	return out, nil
}

func (e *Engine) searchSemantic(ctx context.Context, p SearchParams) ([]ScoredSymbol, error) {
	vectors, err := e.Embedder.Embed(ctx, []string{p.Query})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, nil
	}
	neighbors := e.Vectors.Search(vectors[0], p.Limit*4)

	ids := make([]string, len(neighbors))
	for i, n := range neighbors {
		ids[i] = n.SymbolID
	}
	symbols, err := e.Store.GetSymbolsByIDs(ctx, e.WorkspaceID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]types.Symbol, len(symbols))
	for _, s := range symbols {
		byID[s.ID] = s
	}

	out := make([]ScoredSymbol, 0, len(neighbors))
	for i, n := range neighbors {
		sym, ok := byID[n.SymbolID]
		if !ok {
			continue
		}
		if p.Language != "" && sym.Language != p.Language {
			continue
		}
		out = append(out, ScoredSymbol{Symbol: sym, Score: normalizeRank(i, len(neighbors))})
	}
	return out, nil
}

// searchHybrid runs text and semantic search concurrently and fuses
// results by normalized rank (0.6 text / 0.4 semantic) with a +0.2
// overlap bonus for symbols both modes surfaced, then applies the same
// path_relevance/exact_match_boost composition text mode uses (spec
// §4.9).
func (e *Engine) searchHybrid(ctx context.Context, p SearchParams) ([]ScoredSymbol, error) {
	var textResults, semResults []ScoredSymbol
	var textErr, semErr error

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		textResults, textErr = e.searchText(ctx, p)
	}()
	go func() {
		defer wg.Done()
		if e.hasSemanticSearch() {
			semResults, semErr = e.searchSemantic(ctx, p)
		}
	}()
	wg.Wait()
	if textErr != nil {
		return nil, textErr
	}
	if semErr != nil {
		return nil, semErr
	}

	fused := make(map[string]*ScoredSymbol, len(textResults)+len(semResults))
	seenInBoth := make(map[string]bool)

	for i, r := range textResults {
		fused[r.Symbol.ID] = &ScoredSymbol{Symbol: r.Symbol, Score: 0.6 * normalizeRank(i, len(textResults))}
	}
	for i, r := range semResults {
		rank := 0.4 * normalizeRank(i, len(semResults))
		if existing, ok := fused[r.Symbol.ID]; ok {
			existing.Score += rank + 0.2
			seenInBoth[r.Symbol.ID] = true
		} else {
			fused[r.Symbol.ID] = &ScoredSymbol{Symbol: r.Symbol, Score: rank}
		}
	}

	testToken := queryHasTestToken(p.Query)
	out := make([]ScoredSymbol, 0, len(fused))
	for _, s := range fused {
		rel := pathRelevance(s.Symbol.FilePath, testToken)
		boost := exactMatchBoost(p.Query, s.Symbol.Name)
		out = append(out, ScoredSymbol{Symbol: s.Symbol, Score: composeTextScore(s.Score, rel, boost)})
	}
	return out, nil
}

func (e *Engine) searchContent(ctx context.Context, p SearchParams) (SearchResult, error) {
	hits, err := e.Store.SearchFileContentFTS(ctx, e.WorkspaceID, p.Query, p.Limit)
	if err != nil {
		return SearchResult{}, err
	}

	if p.Output != OutputLines {
		// content mode with symbol-shaped output: surface the file's
		// top-level symbols as a proxy for "what's in this match".
		var out []ScoredSymbol
		for i, h := range hits {
			syms, err := e.Store.GetSymbolsForFile(ctx, e.WorkspaceID, h.Path)
			if err != nil {
				return SearchResult{}, err
			}
			score := normalizeRank(i, len(hits))
			for _, s := range syms {
				if s.ParentID != "" {
					continue
				}
				out = append(out, ScoredSymbol{Symbol: s, Score: score})
			}
		}
		return SearchResult{Symbols: out}, nil
	}

	queryTokens := splitWords(p.Query)
	var lines []LineHit
	for _, h := range hits {
		content, err := e.Store.GetFileContent(ctx, e.WorkspaceID, h.Path)
		if err != nil {
			return SearchResult{}, err
		}
		for i, text := range strings.Split(content, "\n") {
			lower := strings.ToLower(text)
			for _, tok := range queryTokens {
				if strings.Contains(lower, tok) {
					lines = append(lines, LineHit{FilePath: h.Path, LineNumber: i + 1, LineText: text})
					break
				}
			}
			if len(lines) >= p.Limit {
				break
			}
		}
		if len(lines) >= p.Limit {
			break
		}
	}
	return SearchResult{Lines: lines}, nil
}
