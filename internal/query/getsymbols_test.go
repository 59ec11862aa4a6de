package query

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/julie/internal/types"
)

const getSymbolsFixtureSource = `package sample

func Add(a, b int) int {
	return a + b
}

func Sub(a, b int) int {
	return a - b
}
`

func newGetSymbolsEngine(t *testing.T) *Engine {
	t.Helper()
	e := newTestEngine(t)
	e.Root = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(e.Root, "sample.go"), []byte(getSymbolsFixtureSource), 0o644))

	addStart := uint32(strings.Index(getSymbolsFixtureSource, "func Add"))
	addEnd := addStart + uint32(len("func Add(a, b int) int {\n\treturn a + b\n}"))
	subStart := uint32(strings.Index(getSymbolsFixtureSource, "func Sub"))
	subEnd := subStart + uint32(len("func Sub(a, b int) int {\n\treturn a - b\n}"))

	add := types.Symbol{ID: "add1", Name: "Add", Kind: types.KindFunction, Language: "go", FilePath: "sample.go", StartByte: addStart, EndByte: addEnd, Signature: "func Add(a, b int) int"}
	sub := types.Symbol{ID: "sub1", Name: "Sub", Kind: types.KindFunction, Language: "go", FilePath: "sample.go", StartByte: subStart, EndByte: subEnd, Signature: "func Sub(a, b int) int"}

	ctx := context.Background()
	require.NoError(t, e.Store.ReplaceFileData(ctx, testWorkspaceID, "sample.go", []types.Symbol{add, sub}, nil, nil))
	return e
}

func TestGetSymbols_StructureModeOmitsBody(t *testing.T) {
	e := newGetSymbolsEngine(t)

	out, err := e.GetSymbols(context.Background(), GetSymbolsParams{FilePath: "sample.go", Mode: ModeStructure})
	require.NoError(t, err)
	require.Len(t, out, 2)
	for _, s := range out {
		assert.Empty(t, s.Body)
		assert.NotEmpty(t, s.Symbol.Signature)
	}
}

func TestGetSymbols_FullModeExtractsBody(t *testing.T) {
	e := newGetSymbolsEngine(t)

	out, err := e.GetSymbols(context.Background(), GetSymbolsParams{FilePath: "sample.go", Mode: ModeFull})
	require.NoError(t, err)
	require.Len(t, out, 2)

	var names []string
	for _, s := range out {
		names = append(names, s.Symbol.Name)
		assert.Contains(t, s.Body, "func "+s.Symbol.Name)
	}
	assert.Contains(t, names, "Add")
	assert.Contains(t, names, "Sub")
}

func TestGetSymbols_TargetFiltersByNameSubstring(t *testing.T) {
	e := newGetSymbolsEngine(t)

	out, err := e.GetSymbols(context.Background(), GetSymbolsParams{FilePath: "sample.go", Mode: ModeStructure, Target: "add"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Add", out[0].Symbol.Name)
}

func TestGetSymbols_ResolvesAbsolutePathToWorkspaceRelative(t *testing.T) {
	e := newGetSymbolsEngine(t)
	abs := filepath.Join(e.Root, "sample.go")

	out, err := e.GetSymbols(context.Background(), GetSymbolsParams{FilePath: abs, Mode: ModeStructure})
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestTruncateBody_LeavesShortBodyUnchanged(t *testing.T) {
	body := "func Add(a, b int) int {\n\treturn a + b\n}"
	assert.Equal(t, body, truncateBody(body))
}

func TestTruncateBody_TruncatesLongBodyWithMarker(t *testing.T) {
	lines := []string{"func Big() {"}
	for i := 0; i < 70; i++ {
		lines = append(lines, "\tdoStep()")
	}
	lines = append(lines, "}")
	// Insert a nested declaration well inside the head/tail boundary so it
	// only survives truncation via structuralMarkerLines.
	mid := bodyHeadLines + 10
	lines = append(lines[:mid:mid], append([]string{"\tfunc nested() {", "\t}"}, lines[mid:]...)...)

	body := strings.Join(lines, "\n")
	require.Greater(t, len(lines), bodyTruncationLimit)

	out := truncateBody(body)
	outLines := strings.Split(out, "\n")

	assert.Equal(t, lines[0], outLines[0], "first line preserved")
	assert.Equal(t, lines[len(lines)-1], outLines[len(outLines)-1], "last line preserved")
	assert.Contains(t, out, "lines omitted", "explicit truncation marker present")
	assert.Contains(t, out, "func nested()", "nested structural opener surfaced despite truncation")
	assert.Less(t, len(outLines), len(lines), "truncated output is shorter than the original")
}
