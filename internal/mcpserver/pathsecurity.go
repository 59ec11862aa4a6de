package mcpserver

import "github.com/standardbeagle/julie/internal/pathutil"

// secureWorkspacePath routes a client-supplied file_path through
// pathutil.SecurePathResolve before any tool touches the filesystem,
// closing the traversal/symlink-escape hole a bare filepath.Join would
// leave open (spec §7: SecurityError "always a failure").
func secureWorkspacePath(userPath, workspaceRoot string) (string, error) {
	return pathutil.SecurePathResolve(userPath, workspaceRoot)
}
