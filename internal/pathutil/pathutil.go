// Package pathutil implements Julie's path and language utilities (C1):
// language detection from file extension, traversal-safe path resolution
// for client-supplied paths, and absolute<->workspace-relative conversion.
//
// Architecture pattern, carried over from the teacher: Julie uses absolute
// paths internally for file I/O and workspace-relative, forward-slash
// paths for storage, indexing, and display. This package is the single
// conversion point between the two.
package pathutil

import (
	"os"
	"path/filepath"
	"strings"

	julierrors "github.com/standardbeagle/julie/internal/errors"
)

// extensionLanguages maps file extensions (without the dot) to Julie's
// canonical language tag. Extended well past the teacher's own table to
// reach the spec's "20+ languages" claim.
var extensionLanguages = map[string]string{
	"rs":    "rust",
	"py":    "python",
	"pyi":   "python",
	"js":    "javascript",
	"jsx":   "javascript",
	"mjs":   "javascript",
	"cjs":   "javascript",
	"ts":    "typescript",
	"tsx":   "typescript",
	"go":    "go",
	"java":  "java",
	"c":     "c",
	"h":     "c",
	"cc":    "cpp",
	"cpp":   "cpp",
	"cxx":   "cpp",
	"hpp":   "cpp",
	"hh":    "cpp",
	"cs":    "csharp",
	"php":   "php",
	"rb":    "ruby",
	"swift": "swift",
	"kt":    "kotlin",
	"kts":   "kotlin",
	"lua":   "lua",
	"gd":    "gdscript",
	"vue":   "vue",
	"html":  "html",
	"htm":   "html",
	"css":   "css",
	"scss":  "css",
	"sql":   "sql",
	"sh":    "bash",
	"bash":  "bash",
	"zig":   "zig",
}

// DetectLanguage maps a file path's extension to Julie's canonical
// language tag. Returns "unknown" when no mapping exists.
func DetectLanguage(path string) string {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	ext = strings.ToLower(ext)
	if lang, ok := extensionLanguages[ext]; ok {
		return lang
	}
	return "unknown"
}

// ToRelativeUnixStyle converts an absolute path to workspace-relative,
// forward-slash form. Falls back to the cleaned input when the path is
// already relative or cannot be made relative to root (e.g. it lies
// outside it) — the store always wants *a* path, never an error, for
// display purposes; security-sensitive resolution is SecurePathResolve's
// job, not this function's.
func ToRelativeUnixStyle(absPath, root string) string {
	if absPath == "" || root == "" {
		return filepath.ToSlash(absPath)
	}

	if !filepath.IsAbs(absPath) {
		return filepath.ToSlash(filepath.Clean(absPath))
	}

	absPath = filepath.Clean(absPath)
	root = filepath.Clean(root)

	rel, err := filepath.Rel(root, absPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(absPath)
	}

	return filepath.ToSlash(rel)
}

// SecurePathResolve resolves a client-supplied path against workspaceRoot
// and returns a canonical absolute path. It is the only sanctioned way
// for a user-driven tool to turn a path string into a file handle: it
// rejects paths that escape the root (directly or via a symlink) and
// paths whose target does not exist.
func SecurePathResolve(userPath, workspaceRoot string) (string, error) {
	root, err := filepath.Abs(workspaceRoot)
	if err != nil {
		return "", julierrors.NewSecurityError(userPath, workspaceRoot, "cannot resolve workspace root: "+err.Error())
	}
	root = filepath.Clean(root)

	var candidate string
	if filepath.IsAbs(userPath) {
		candidate = filepath.Clean(userPath)
	} else {
		candidate = filepath.Clean(filepath.Join(root, userPath))
	}

	if !withinRoot(candidate, root) {
		return "", julierrors.NewSecurityError(userPath, root, "resolved path escapes workspace root")
	}

	resolved, err := filepath.EvalSymlinks(candidate)
	if err != nil {
		if os.IsNotExist(err) {
			return "", julierrors.NewSecurityError(userPath, root, "target does not exist")
		}
		return "", julierrors.NewSecurityError(userPath, root, "cannot resolve symlinks: "+err.Error())
	}

	if !withinRoot(resolved, root) {
		return "", julierrors.NewSecurityError(userPath, root, "symlink escapes workspace root")
	}

	return resolved, nil
}

func withinRoot(path, root string) bool {
	if path == root {
		return true
	}
	return strings.HasPrefix(path, root+string(filepath.Separator))
}
