package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/julie/internal/types"
)

const goSource = `package sample

func Add(a, b int) int {
	return helper(a, b)
}

func helper(a, b int) int {
	return a + b
}

type Greeter struct {
	Name string
}

func (g *Greeter) Greet() string {
	return "hello " + g.Name
}
`

func TestExtract_Go_Symbols(t *testing.T) {
	result, err := Extract("go", "ws1", "sample.go", []byte(goSource))
	require.NoError(t, err)
	require.NotEmpty(t, result.Symbols)

	names := make(map[string]types.SymbolKind, len(result.Symbols))
	for _, s := range result.Symbols {
		names[s.Name] = s.Kind
	}

	assert.Equal(t, types.KindFunction, names["Add"])
	assert.Equal(t, types.KindFunction, names["helper"])
	assert.Equal(t, types.KindMethod, names["Greet"])
	assert.Equal(t, types.KindType, names["Greeter"])
}

func TestExtract_Go_CallRelationship(t *testing.T) {
	result, err := Extract("go", "ws1", "sample.go", []byte(goSource))
	require.NoError(t, err)

	var found bool
	for _, r := range result.Relationships {
		if r.Kind == types.RelCalls {
			found = true
		}
	}
	assert.True(t, found, "expected at least one Calls relationship (Add -> helper)")
}

func TestExtract_UnknownLanguage_IsNoOp(t *testing.T) {
	result, err := Extract("cobol", "ws1", "legacy.cbl", []byte("IDENTIFICATION DIVISION."))
	require.NoError(t, err)
	assert.Empty(t, result.Symbols)
	assert.Empty(t, result.Relationships)
	assert.Empty(t, result.Identifiers)
}

func TestExtract_SymbolIDsAreDeterministic(t *testing.T) {
	r1, err := Extract("go", "ws1", "sample.go", []byte(goSource))
	require.NoError(t, err)
	r2, err := Extract("go", "ws1", "sample.go", []byte(goSource))
	require.NoError(t, err)

	require.Equal(t, len(r1.Symbols), len(r2.Symbols))
	for i := range r1.Symbols {
		assert.Equal(t, r1.Symbols[i].ID, r2.Symbols[i].ID)
	}
}

func TestSupported_IncludesRegisteredLanguages(t *testing.T) {
	langs := Supported()
	assert.Contains(t, langs, "go")
	assert.Contains(t, langs, "python")
	assert.Contains(t, langs, "typescript")
}

func TestExtract_Go_VisibilityFromNameCasing(t *testing.T) {
	result, err := Extract("go", "ws1", "sample.go", []byte(goSource))
	require.NoError(t, err)

	visibility := make(map[string]types.Visibility, len(result.Symbols))
	for _, s := range result.Symbols {
		visibility[s.Name] = s.Visibility
	}
	assert.Equal(t, types.VisibilityPublic, visibility["Add"], "exported Go identifier")
	assert.Equal(t, types.VisibilityPrivate, visibility["helper"], "unexported Go identifier")
}

const rustSource = `
pub fn add(a: i32, b: i32) -> i32 {
    helper(a, b)
}

fn helper(a: i32, b: i32) -> i32 {
    a - b
}

pub(crate) struct UserRepository {
    name: String,
}
`

func TestExtract_Rust_VisibilityFromModifier(t *testing.T) {
	result, err := Extract("rust", "ws1", "sample.rs", []byte(rustSource))
	require.NoError(t, err)
	require.NotEmpty(t, result.Symbols)

	visibility := make(map[string]types.Visibility, len(result.Symbols))
	for _, s := range result.Symbols {
		visibility[s.Name] = s.Visibility
	}
	assert.Equal(t, types.VisibilityPublic, visibility["add"], "pub fn")
	assert.Equal(t, types.VisibilityPrivate, visibility["helper"], "no visibility_modifier child")
	assert.Equal(t, types.VisibilityInternal, visibility["UserRepository"], "pub(crate) struct")
}

func TestExtract_TagsArchitecturalSemanticGroup(t *testing.T) {
	source := `
pub struct UserRepository {
    name: String,
}
`
	result, err := Extract("rust", "ws1", "repo.rs", []byte(source))
	require.NoError(t, err)

	var group string
	for _, s := range result.Symbols {
		if s.Name == "UserRepository" {
			group = s.SemanticGroup
		}
	}
	assert.Equal(t, "repository", group)
}
