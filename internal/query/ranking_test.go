package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathRelevance_LayerBaseScores(t *testing.T) {
	assert.Greater(t, pathRelevance("src/service/user.go", false), pathRelevance("docs/readme.go", false))
	assert.Greater(t, pathRelevance("src/service/user.go", false), pathRelevance("vendor/pkg/util.go", false))
}

func TestPathRelevance_TestFilesPenalizedUnlessQueryMentionsTest(t *testing.T) {
	withoutTestToken := pathRelevance("tests/user_test.go", false)
	withTestToken := pathRelevance("tests/user_test.go", true)
	assert.Less(t, withoutTestToken, withTestToken)
}

func TestExactMatchBoost_TiersAreOrdered(t *testing.T) {
	exact := exactMatchBoost("getUser", "getUser")
	prefix := exactMatchBoost("getUser", "getUserName")
	substring := exactMatchBoost("user", "getUserName")
	none := exactMatchBoost("totallyUnrelated", "getUserName")

	assert.Greater(t, exact, prefix)
	assert.Greater(t, prefix, substring)
	assert.Greater(t, substring, none)
	assert.Equal(t, 1.0, none)
	assert.LessOrEqual(t, exact, 5.0)
	assert.GreaterOrEqual(t, exact, 1.0)
}
