package mcpserver

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// callToolRequest wraps raw JSON arguments the way the MCP SDK delivers
// them to a registered tool handler, for driving handlers directly in
// tests without a live transport.
func callToolRequest(args []byte) *mcp.CallToolRequest {
	return &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{Arguments: args},
	}
}
