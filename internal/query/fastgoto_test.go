package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFastGoto_ExactMatch(t *testing.T) {
	e := newTestEngine(t)
	seedFixture(t, e)

	defs, err := e.FastGoto(context.Background(), GotoParams{Symbol: "GetUser"})
	require.NoError(t, err)
	require.NotEmpty(t, defs)
	assert.Equal(t, "GetUser", defs[0].Name)
	assert.Equal(t, "go", defs[0].Language)
}

func TestFastGoto_ExcludesImportSymbols(t *testing.T) {
	e := newTestEngine(t)
	seedFixture(t, e)

	defs, err := e.FastGoto(context.Background(), GotoParams{Symbol: "GetUser"})
	require.NoError(t, err)
	for _, d := range defs {
		assert.NotEqual(t, "import", string(d.Kind))
	}
}

func TestFastGoto_CrossLanguageNamingVariant(t *testing.T) {
	e := newTestEngine(t)
	seedFixture(t, e)

	defs, err := e.FastGoto(context.Background(), GotoParams{Symbol: "GetUser"})
	require.NoError(t, err)

	var languages []string
	for _, d := range defs {
		languages = append(languages, d.Language)
	}
	assert.Contains(t, languages, "go")
	assert.Contains(t, languages, "python", "get_user in python should surface via the snake_case naming variant")
}

func TestFastGoto_PrefersContextFile(t *testing.T) {
	e := newTestEngine(t)
	seedFixture(t, e)

	defs, err := e.FastGoto(context.Background(), GotoParams{Symbol: "GetUser", ContextFile: "service/user_service.go"})
	require.NoError(t, err)
	require.NotEmpty(t, defs)
	assert.Equal(t, "service/user_service.go", defs[0].FilePath)
}
