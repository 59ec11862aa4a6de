package indexing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDiscover_FindsKnownLanguagesAndSkipsExcluded(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main")
	writeFile(t, root, "lib/util.py", "def f(): pass")
	writeFile(t, root, "node_modules/dep/index.js", "module.exports = {}")
	writeFile(t, root, "README.md", "# hi") // no known extension mapping

	files, err := Discover(root, nil)
	require.NoError(t, err)

	var paths []string
	for _, f := range files {
		paths = append(paths, f.RelPath)
	}
	assert.Contains(t, paths, "main.go")
	assert.Contains(t, paths, "lib/util.py")
	assert.NotContains(t, paths, "node_modules/dep/index.js")
	assert.NotContains(t, paths, "README.md")
}

func TestDiscover_HonoursGitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "ignored/\n")
	writeFile(t, root, "kept.go", "package main")
	writeFile(t, root, "ignored/skip.go", "package main")

	files, err := Discover(root, nil)
	require.NoError(t, err)

	var paths []string
	for _, f := range files {
		paths = append(paths, f.RelPath)
	}
	assert.Contains(t, paths, "kept.go")
	assert.NotContains(t, paths, "ignored/skip.go")
}

func TestBucketByLanguage_GroupsFiles(t *testing.T) {
	files := []DiscoveredFile{
		{RelPath: "a.go", Language: "go"},
		{RelPath: "b.go", Language: "go"},
		{RelPath: "c.py", Language: "python"},
	}
	buckets := bucketByLanguage(files)
	assert.Len(t, buckets["go"], 2)
	assert.Len(t, buckets["python"], 1)
}
