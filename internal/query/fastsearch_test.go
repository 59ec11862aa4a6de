package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/julie/internal/types"
)

func TestFastSearch_TextModeRanksExactNameHighest(t *testing.T) {
	e := newTestEngine(t)
	seedFixture(t, e)

	result, err := e.FastSearch(context.Background(), SearchParams{Query: "GetUser", Mode: ModeText, Target: TargetSymbols})
	require.NoError(t, err)
	require.NotEmpty(t, result.Symbols)
	assert.Equal(t, "GetUser", result.Symbols[0].Symbol.Name)
}

func TestFastSearch_DefinitionsTargetExcludesImports(t *testing.T) {
	e := newTestEngine(t)
	seedFixture(t, e)

	result, err := e.FastSearch(context.Background(), SearchParams{Query: "GetUser", Mode: ModeText, Target: TargetDefinitions})
	require.NoError(t, err)
	for _, s := range result.Symbols {
		assert.NotEqual(t, types.KindImport, s.Symbol.Kind)
	}
}

func TestFastSearch_SemanticModeDegradesToTextWithoutEmbedder(t *testing.T) {
	e := newTestEngine(t)
	seedFixture(t, e)
	require.False(t, e.hasSemanticSearch())

	result, err := e.FastSearch(context.Background(), SearchParams{Query: "GetUser", Mode: ModeSemantic, Target: TargetSymbols})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Symbols, "should silently fall back to text search rather than error")
}

func TestFastSearch_HybridModeWithoutEmbedderMatchesTextOnly(t *testing.T) {
	e := newTestEngine(t)
	seedFixture(t, e)

	result, err := e.FastSearch(context.Background(), SearchParams{Query: "GetUser", Mode: ModeHybrid, Target: TargetSymbols})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Symbols)
}

func TestFastSearch_RespectsLimit(t *testing.T) {
	e := newTestEngine(t)
	seedFixture(t, e)

	result, err := e.FastSearch(context.Background(), SearchParams{Query: "user", Mode: ModeText, Target: TargetSymbols, Limit: 1})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(result.Symbols), 1)
}

func newContentSearchEngine(t *testing.T) *Engine {
	t.Helper()
	e := newTestEngine(t)

	const content = "package sample\n\nfunc GetUser() {\n\t// fetch the active user record\n}\n"
	require.NoError(t, e.Store.UpsertFile(context.Background(), types.FileRecord{
		Path:          "sample.go",
		WorkspaceID:   testWorkspaceID,
		Language:      "go",
		Size:          int64(len(content)),
		LastIndexedAt: time.Unix(0, 0),
		Content:       content,
	}))
	return e
}

func TestFastSearch_ContentTargetLinesOutputMatchesQueryLine(t *testing.T) {
	e := newContentSearchEngine(t)

	result, err := e.FastSearch(context.Background(), SearchParams{Query: "fetch", Target: TargetContent, Output: OutputLines, Limit: 10})
	require.NoError(t, err)
	require.NotEmpty(t, result.Lines)
	assert.Contains(t, result.Lines[0].LineText, "fetch the active user")
}
