package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuzzySimilarity_IdenticalStringsScoreOne(t *testing.T) {
	assert.Equal(t, 1.0, fuzzySimilarity("GetUser", "GetUser"))
}

func TestFuzzyMatchNames_ExcludesExactTargetAndBelowThreshold(t *testing.T) {
	matches := fuzzyMatchNames("GetUser", []string{"GetUser", "GetUsers", "CompletelyUnrelated"})
	assert.NotContains(t, matches, "GetUser")
	assert.Contains(t, matches, "GetUsers")
	assert.NotContains(t, matches, "CompletelyUnrelated")
}

func TestFindDefinitions_FuzzyFallbackCatchesTypo(t *testing.T) {
	e := newTestEngine(t)
	seedFixture(t, e)

	defs, err := e.findDefinitions(context.Background(), "GetUsre")
	require.NoError(t, err)
	require.NotEmpty(t, defs, "a one-letter transposition should resolve via the fuzzy fallback")

	var names []string
	for _, d := range defs {
		names = append(names, d.Name)
	}
	assert.Contains(t, names, "GetUser")
}
