package query

import "github.com/hbollon/go-edlib"

// fuzzyThreshold is the Jaro-Winkler similarity floor below which a
// candidate name is not considered a typo of the requested symbol.
const fuzzyThreshold = 0.85

// fuzzySimilarity returns the Jaro-Winkler similarity of a and b in
// [0,1], adapted from the teacher's FuzzyMatcher down to the single
// algorithm findDefinitions' last-resort strategy needs (spec §4.9 names
// only the exact/qualified/naming-variant strategies; the teacher's
// dictionary-driven fuzzy layer is the natural fallback for the case
// none of those three produce a hit, e.g. a one-character typo).
func fuzzySimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	score, err := edlib.StringsSimilarity(a, b, edlib.JaroWinkler)
	if err != nil {
		return 0.0
	}
	return float64(score)
}

// fuzzyMatchNames returns every name in candidates whose Jaro-Winkler
// similarity to target is at least fuzzyThreshold, excluding target
// itself (an exact match would already have been found by Strategy 1).
func fuzzyMatchNames(target string, candidates []string) []string {
	seen := make(map[string]bool, len(candidates))
	var out []string
	for _, c := range candidates {
		if c == target || seen[c] {
			continue
		}
		seen[c] = true
		if fuzzySimilarity(target, c) >= fuzzyThreshold {
			out = append(out, c)
		}
	}
	return out
}
