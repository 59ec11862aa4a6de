package searchindex

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/julie/internal/types"
)

func TestSplitIdentifier(t *testing.T) {
	cases := map[string][]string{
		"ParseConfig":      {"parse", "config"},
		"parse_config":     {"parse", "config"},
		"parseConfig":      {"parse", "config"},
		"HTTPServer":       {"http", "server"},
		"already_lower":    {"already", "lower"},
		"noSeparatorsHere": {"no", "separators", "here"},
	}
	for input, want := range cases {
		assert.Equal(t, want, splitIdentifier(input), "input=%s", input)
	}
}

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	path := filepath.Join(t.TempDir(), "search.bleve")
	idx, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestIndexAndSearch_MatchesAcrossNamingConventions(t *testing.T) {
	idx := newTestIndex(t)

	sym := types.Symbol{ID: "sym1", Name: "ParseConfig", Signature: "func ParseConfig() error", Language: "go", Kind: types.KindFunction, FilePath: "config.go"}
	require.NoError(t, idx.IndexSymbol("ws1", sym))

	hits, err := idx.Search("ws1", "parse config", QueryOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "sym1", hits[0].SymbolID)
}

func TestSearch_FiltersByLanguage(t *testing.T) {
	idx := newTestIndex(t)

	require.NoError(t, idx.IndexSymbols("ws1", []types.Symbol{
		{ID: "sym1", Name: "ParseConfig", Language: "go", Kind: types.KindFunction, FilePath: "a.go"},
		{ID: "sym2", Name: "ParseConfig", Language: "python", Kind: types.KindFunction, FilePath: "a.py"},
	}))

	hits, err := idx.Search("ws1", "ParseConfig", QueryOptions{Language: "python"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "sym2", hits[0].SymbolID)
}

func TestSearch_IsolatesWorkspaces(t *testing.T) {
	idx := newTestIndex(t)

	require.NoError(t, idx.IndexSymbol("ws1", types.Symbol{ID: "sym1", Name: "Shared", Language: "go", FilePath: "a.go"}))
	require.NoError(t, idx.IndexSymbol("ws2", types.Symbol{ID: "sym1", Name: "Shared", Language: "go", FilePath: "a.go"}))

	hits, err := idx.Search("ws1", "Shared", QueryOptions{})
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestDeleteSymbols_RemovesFromIndex(t *testing.T) {
	idx := newTestIndex(t)

	require.NoError(t, idx.IndexSymbol("ws1", types.Symbol{ID: "sym1", Name: "Temp", Language: "go", FilePath: "a.go"}))
	require.NoError(t, idx.DeleteSymbols("ws1", []string{"sym1"}))

	hits, err := idx.Search("ws1", "Temp", QueryOptions{})
	require.NoError(t, err)
	assert.Empty(t, hits)
}
