package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFastRefs_FindsRelationshipAndIdentifierReferences(t *testing.T) {
	e := newTestEngine(t)
	seedFixture(t, e)

	result, err := e.FastRefs(context.Background(), RefsParams{Symbol: "GetUser", Limit: 10})
	require.NoError(t, err)

	var files []string
	for _, r := range result.References {
		files = append(files, r.FilePath)
	}
	assert.Contains(t, files, "service/caller.go", "relationship edge from CallsGetUser")
	assert.Contains(t, files, "handler/main.go", "identifier usage site")
}

func TestFastRefs_ReportsImportAsReferenceNotDefinition(t *testing.T) {
	e := newTestEngine(t)
	seedFixture(t, e)

	result, err := e.FastRefs(context.Background(), RefsParams{Symbol: "GetUser", Limit: 10, IncludeDefinition: true})
	require.NoError(t, err)

	for _, d := range result.Definitions {
		assert.NotEqual(t, "import", string(d.Kind))
	}
	var sawImport bool
	for _, r := range result.References {
		if r.Kind == "import" {
			sawImport = true
		}
	}
	assert.True(t, sawImport)
}

func TestFastRefs_RespectsLimit(t *testing.T) {
	e := newTestEngine(t)
	seedFixture(t, e)

	result, err := e.FastRefs(context.Background(), RefsParams{Symbol: "GetUser", Limit: 1})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(result.References), 1)
}
