package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindLogic_RanksServiceLayerAboveHandlersLayer(t *testing.T) {
	e := newTestEngine(t)
	seedFixture(t, e)

	grouped, err := e.FindLogic(context.Background(), FindLogicParams{MaxResults: 10})
	require.NoError(t, err)

	var serviceScore, otherScore float64
	for _, candidates := range grouped {
		for _, c := range candidates {
			if c.Symbol.FilePath == "service/user_service.go" {
				serviceScore = c.BusinessScore
			}
			if c.Symbol.FilePath == "handlers/user_handler.py" {
				otherScore = c.BusinessScore
			}
		}
	}
	assert.Greater(t, serviceScore, otherScore)
}

func TestFindLogic_GroupByLayerGroupsDistinctLayers(t *testing.T) {
	e := newTestEngine(t)
	seedFixture(t, e)

	grouped, err := e.FindLogic(context.Background(), FindLogicParams{MaxResults: 10, GroupByLayer: true})
	require.NoError(t, err)
	assert.Contains(t, grouped, "service")
}

func TestFindLogic_MinBusinessScoreFilters(t *testing.T) {
	e := newTestEngine(t)
	seedFixture(t, e)

	grouped, err := e.FindLogic(context.Background(), FindLogicParams{MaxResults: 10, MinBusinessScore: 2.0})
	require.NoError(t, err)
	var total int
	for _, c := range grouped {
		total += len(c)
	}
	assert.Zero(t, total, "no symbol can score above 1.0 so a threshold of 2.0 excludes everything")
}
