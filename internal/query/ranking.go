package query

import (
	"math"
	"strings"
)

// pathRelevance assigns a directory-based base score per spec §4.9,
// the only place in the query layer that weighs a file path — every
// tool funnels through this function rather than rolling its own boost
// (Design Notes §9's "one composition point" rule).
func pathRelevance(filePath string, queryHasTestToken bool) float64 {
	lower := strings.ToLower(filePath)

	base := 0.7 // default
	switch {
	case containsSegment(lower, "src") || containsSegment(lower, "lib"):
		base = 1.0
	case containsSegment(lower, "test") || containsSegment(lower, "spec") || containsSegment(lower, "__tests__"):
		base = 0.4
	case containsSegment(lower, "docs") || containsSegment(lower, "doc"):
		base = 0.2
	case containsSegment(lower, "node_modules") || containsSegment(lower, "vendor"):
		base = 0.1
	}

	isTestPath := containsSegment(lower, "test") || containsSegment(lower, "spec") || containsSegment(lower, "__tests__")
	if isTestPath && !queryHasTestToken {
		base *= 0.5
	} else if !isTestPath && base >= 0.7 {
		base *= 1.2
	}
	return base
}

func containsSegment(path, segment string) bool {
	for _, part := range strings.Split(path, "/") {
		if strings.Contains(part, segment) {
			return true
		}
	}
	return false
}

// exactMatchBoost compares query tokens against a symbol name's split
// words: exact match scores highest, then prefix, then substring, then
// none, on a logarithmic curve that keeps the boost within [1.0, 5.0].
func exactMatchBoost(query, symbolName string) float64 {
	queryTokens := splitWords(query)
	nameTokens := splitWords(symbolName)
	if len(queryTokens) == 0 || len(nameTokens) == 0 {
		return 1.0
	}

	queryJoined := strings.Join(queryTokens, "")
	nameJoined := strings.Join(nameTokens, "")

	var tier int
	switch {
	case queryJoined == nameJoined:
		tier = 3
	case strings.HasPrefix(nameJoined, queryJoined):
		tier = 2
	case strings.Contains(nameJoined, queryJoined):
		tier = 1
	default:
		tier = 0
	}
	if tier == 0 {
		return 1.0
	}
	// log curve: tier 1 -> 3.0, tier 2 -> ~4.2, tier 3 -> 5.0.
	return 1.0 + 4.0*math.Log(float64(tier)+1)/math.Log(4)
}

// composeTextScore is the single point where fast_search's text mode
// combines the FTS relevance score with path relevance and exact-match
// boost, per spec §4.9: final = fts_score * path_relevance * exact_match_boost.
func composeTextScore(ftsScore, pathRel, matchBoost float64) float64 {
	return ftsScore * pathRel * matchBoost
}

// normalizeFTSRank converts SQLite FTS5's rank column (more negative is a
// better match) into a positive score on a roughly [0, 1] scale, safe to
// multiply into composeTextScore alongside pathRelevance/exactMatchBoost,
// which both assume higher-is-better. Used wherever a raw Store.SearchSymbolFTS
// rank reaches composeTextScore or a similar weighted blend, since feeding
// the rank in unnormalized would invert relevance order.
func normalizeFTSRank(rank float64) float64 {
	if rank == 0 {
		return 0
	}
	score := -rank
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	return score / 10
}

// normalizeRank converts a 0-indexed rank position into a (0, 1] score,
// used by fast_search's hybrid fusion to put text and semantic result
// lists on a comparable scale before combining them.
func normalizeRank(position, total int) float64 {
	if total <= 1 {
		return 1.0
	}
	return 1.0 - float64(position)/float64(total)
}
