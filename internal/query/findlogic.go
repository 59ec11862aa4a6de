package query

import (
	"context"
	"sort"
	"strings"

	"github.com/standardbeagle/julie/internal/types"
)

const candidateCap = 100

// layerWeights assigns each architectural path layer a business-logic
// weight, heaviest for the layers that typically hold domain rules.
// Grounded on the teacher's internal/semantic.ScoreLayers weighting
// shape (graduated weights per signal tier), applied here to path
// layers instead of name-match signals.
var layerWeights = map[string]float64{
	"service":    1.0,
	"services":   1.0,
	"domain":     0.95,
	"controller": 0.8,
	"controllers": 0.8,
	"handler":    0.75,
	"handlers":   0.75,
	"repository": 0.6,
	"repositories": 0.6,
	"model":      0.5,
	"models":     0.5,
	"middleware": 0.45,
	"middlewares": 0.45,
}

const defaultLayerWeight = 0.3

// FindLogicParams are find_logic's parameters (spec §6).
type FindLogicParams struct {
	Domain          string
	MaxResults      int
	GroupByLayer    bool
	MinBusinessScore float64
}

// LogicCandidate is one scored business-logic symbol.
type LogicCandidate struct {
	Symbol         types.Symbol
	Layer          string
	KeywordScore   float64
	PatternScore   float64
	LayerScore     float64
	CentralityScore float64
	BusinessScore  float64
}

// FindLogic scores candidate business-logic symbols on four tiers (FTS
// keyword hits, extractor-tagged architectural patterns, path-layer
// weight, and relationship-graph centrality), per spec §4.9 and the
// original_source-supplemented weighting shape.
func (e *Engine) FindLogic(ctx context.Context, p FindLogicParams) (map[string][]LogicCandidate, error) {
	if p.MaxResults <= 0 {
		p.MaxResults = 50
	}

	var hits []SymbolSearchHit
	if p.Domain != "" {
		ftsHits, err := e.Store.SearchSymbolFTS(ctx, e.WorkspaceID, p.Domain, candidateCap)
		if err != nil {
			return nil, err
		}
		for _, h := range ftsHits {
			hits = append(hits, SymbolSearchHit{SymbolID: h.SymbolID, Score: h.Score})
		}
	} else {
		all, err := e.Store.GetAllSymbols(ctx, e.WorkspaceID)
		if err != nil {
			return nil, err
		}
		if len(all) > candidateCap {
			all = all[:candidateCap]
		}
		for _, s := range all {
			hits = append(hits, SymbolSearchHit{SymbolID: s.ID, Score: 0})
		}
	}
	if len(hits) > candidateCap {
		hits = hits[:candidateCap]
	}

	ids := make([]string, len(hits))
	keywordScoreByID := make(map[string]float64, len(hits))
	for i, h := range hits {
		ids[i] = h.SymbolID
		keywordScoreByID[h.SymbolID] = h.Score
	}

	symbols, err := e.Store.GetSymbolsByIDs(ctx, e.WorkspaceID, ids)
	if err != nil {
		return nil, err
	}

	incoming, err := e.Store.GetRelationshipsToSymbols(ctx, e.WorkspaceID, ids)
	if err != nil {
		return nil, err
	}
	centrality := make(map[string]int, len(symbols))
	for _, r := range incoming {
		centrality[r.ToSymbolID]++
	}
	for _, id := range ids {
		outgoing, err := e.Store.GetRelationshipsForSymbol(ctx, e.WorkspaceID, id)
		if err != nil {
			return nil, err
		}
		centrality[id] += len(outgoing)
	}
	maxCentrality := 1
	for _, c := range centrality {
		if c > maxCentrality {
			maxCentrality = c
		}
	}

	candidates := make([]LogicCandidate, 0, len(symbols))
	for _, s := range symbols {
		layer := pathLayer(s.FilePath)
		c := LogicCandidate{
			Symbol:          s,
			Layer:           layer,
			KeywordScore:    keywordScoreByID[s.ID],
			PatternScore:    patternScore(s),
			LayerScore:      layerWeight(layer),
			CentralityScore: float64(centrality[s.ID]) / float64(maxCentrality),
		}
		c.BusinessScore = 0.35*normalizedKeyword(c.KeywordScore) + 0.25*c.PatternScore + 0.25*c.LayerScore + 0.15*c.CentralityScore
		if c.BusinessScore >= p.MinBusinessScore {
			candidates = append(candidates, c)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].BusinessScore > candidates[j].BusinessScore })
	if len(candidates) > p.MaxResults {
		candidates = candidates[:p.MaxResults]
	}

	if !p.GroupByLayer {
		return map[string][]LogicCandidate{"": candidates}, nil
	}
	grouped := make(map[string][]LogicCandidate)
	for _, c := range candidates {
		grouped[c.Layer] = append(grouped[c.Layer], c)
	}
	return grouped, nil
}

// SymbolSearchHit is a minimal (id, score) pair shared by find_logic's
// FTS seeding step.
type SymbolSearchHit struct {
	SymbolID string
	Score    float64
}

// patternScore rewards symbols the extractor already tagged with a
// recognized architectural/business pattern (Symbol.SemanticGroup),
// per SPEC_FULL.md's find_logic expansion.
func patternScore(s types.Symbol) float64 {
	if s.SemanticGroup == "" {
		return 0
	}
	return 1.0
}

func pathLayer(filePath string) string {
	lower := strings.ToLower(filePath)
	for _, part := range strings.Split(lower, "/") {
		if _, ok := layerWeights[part]; ok {
			return part
		}
	}
	return "other"
}

func layerWeight(layer string) float64 {
	if w, ok := layerWeights[layer]; ok {
		return w
	}
	return defaultLayerWeight
}

// normalizedKeyword squashes SQLite FTS5's unbounded bm25-derived rank
// into a roughly [0,1] business-score input, via the same FTS rank
// normalization fast_search's text mode uses.
func normalizedKeyword(rank float64) float64 {
	return normalizeFTSRank(rank)
}
