package workspace

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/julie/internal/types"
)

func TestDeriveID_IsStableAndSlugged(t *testing.T) {
	id1 := DeriveID("/home/user/My Project")
	id2 := DeriveID("/home/user/My Project")
	assert.Equal(t, id1, id2)
	assert.Regexp(t, `^[a-z0-9-]+_[0-9a-f]{8}$`, id1)
}

func TestDeriveID_DiffersByPath(t *testing.T) {
	assert.NotEqual(t, DeriveID("/a/project"), DeriveID("/b/project"))
}

func TestEnsurePrimaryTree_CreatesBitExactLayout(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, EnsurePrimaryTree(root))

	for _, dir := range []string{
		filepath.Join(root, ".julie", "db"),
		filepath.Join(root, ".julie", "search"),
		filepath.Join(root, ".julie", "vectors"),
		filepath.Join(root, ".julie", "indexes"),
		filepath.Join(root, ".memories"),
		filepath.Join(root, ".memories", "plans"),
	} {
		info, err := os.Stat(dir)
		require.NoError(t, err, dir)
		assert.True(t, info.IsDir())
	}
}

func TestReferenceLayout_NestsUnderPrimaryIndexes(t *testing.T) {
	l := ReferenceLayout("/repo", "otherlib_abcd1234")
	assert.Equal(t, "/repo/.julie/indexes/otherlib_abcd1234/db/symbols.db", l.DBPath)
}

func TestRegistry_AddGetRemoveRoundTrip(t *testing.T) {
	root := t.TempDir()
	reg, err := OpenRegistry(root)
	require.NoError(t, err)

	ws := types.Workspace{ID: "proj_12345678", Root: root, Kind: types.WorkspacePrimary, CreatedAt: time.Now()}
	require.NoError(t, reg.Add(ws))

	reopened, err := OpenRegistry(root)
	require.NoError(t, err)
	got, ok := reopened.Get("proj_12345678")
	require.True(t, ok)
	assert.Equal(t, ws.Root, got.Root)

	primary, ok := reopened.Primary()
	require.True(t, ok)
	assert.Equal(t, "proj_12345678", primary.ID)

	require.NoError(t, reopened.Remove("proj_12345678"))
	_, ok = reopened.Get("proj_12345678")
	assert.False(t, ok)
}

func TestRegistry_ExpireReferences(t *testing.T) {
	root := t.TempDir()
	reg, err := OpenRegistry(root)
	require.NoError(t, err)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)
	require.NoError(t, reg.Add(types.Workspace{ID: "expired", Kind: types.WorkspaceReference, ExpiresAt: &past}))
	require.NoError(t, reg.Add(types.Workspace{ID: "fresh", Kind: types.WorkspaceReference, ExpiresAt: &future}))

	expired := reg.ExpireReferences(time.Now())
	require.Len(t, expired, 1)
	assert.Equal(t, "expired", expired[0].ID)

	_, ok := reg.Get("fresh")
	assert.True(t, ok)
	_, ok = reg.Get("expired")
	assert.False(t, ok)
}
