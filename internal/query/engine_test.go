package query

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/julie/internal/searchindex"
	"github.com/standardbeagle/julie/internal/store"
	"github.com/standardbeagle/julie/internal/types"
)

const testWorkspaceID = "test_ws"

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "symbols.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	idx, err := searchindex.Open(filepath.Join(t.TempDir(), "search"))
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })

	return &Engine{WorkspaceID: testWorkspaceID, Store: st, Index: idx}
}

func sym(id, name string, kind types.SymbolKind, language, filePath string, startLine int) types.Symbol {
	return types.Symbol{
		ID: id, Name: name, Kind: kind, Language: language, FilePath: filePath,
		StartLine: startLine, EndLine: startLine + 3, Signature: name + "()",
	}
}

// seedFixture builds a small cross-language workspace:
//   - GetUser (go, service/user_service.go): the canonical definition
//   - get_user (python, handlers/user_handler.py): same logical symbol,
//     reachable only via naming-variant bridging
//   - CallsGetUser (go, service/caller.go): calls GetUser directly
//
// plus one Identifier usage site and one Import of GetUser's name.
func seedFixture(t *testing.T, e *Engine) {
	t.Helper()
	ctx := context.Background()

	getUser := sym("s1", "GetUser", types.KindFunction, "go", "service/user_service.go", 10)
	getUserPy := sym("s2", "get_user", types.KindFunction, "python", "handlers/user_handler.py", 5)
	caller := sym("s3", "CallsGetUser", types.KindFunction, "go", "service/caller.go", 20)
	getUserImport := sym("s4", "GetUser", types.KindImport, "go", "handler/main.go", 1)

	require.NoError(t, e.Store.ReplaceFileData(ctx, testWorkspaceID, "service/user_service.go", []types.Symbol{getUser}, nil, nil))
	require.NoError(t, e.Store.ReplaceFileData(ctx, testWorkspaceID, "handlers/user_handler.py", []types.Symbol{getUserPy}, nil, nil))
	require.NoError(t, e.Store.ReplaceFileData(ctx, testWorkspaceID, "handler/main.go", []types.Symbol{getUserImport}, nil, []types.Identifier{
		{ID: "id1", Name: "GetUser", Kind: types.IdentCall, FilePath: "handler/main.go", StartLine: 7, Confidence: 0.9},
	}))
	require.NoError(t, e.Store.ReplaceFileData(ctx, testWorkspaceID, "service/caller.go", []types.Symbol{caller}, []types.Relationship{
		{ID: "r1", FromSymbolID: "s3", ToSymbolID: "s1", Kind: types.RelCalls, FilePath: "service/caller.go", LineNumber: 21, Confidence: 1.0},
	}, nil))

	require.NoError(t, e.Index.IndexSymbols(testWorkspaceID, []types.Symbol{getUser, getUserPy, caller, getUserImport}))
}
