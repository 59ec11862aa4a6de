package mcpserver

import (
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/julie/internal/mcpoutput"
)

// jsonResponse wraps data as a single TextContent block, matching the
// teacher's createJSONResponse shape.
func jsonResponse(data interface{}) (*mcp.CallToolResult, error) {
	content, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal response: %w", err)
	}
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: string(content)}}}, nil
}

// formattedResponse renders data per the resolved output format
// (mcpoutput.ChooseFormat), falling back to plain JSON on unknown
// formats or render errors rather than failing the whole tool call.
func formattedResponse(requested mcpoutput.Format, resultCount int, data interface{}) (*mcp.CallToolResult, error) {
	format := mcpoutput.ChooseFormat(requested, resultCount)
	text, err := mcpoutput.Render(format, data)
	if err != nil {
		return jsonResponse(data)
	}
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}, nil
}

// errorResponse mirrors the teacher's createErrorResponse: a structured
// {success:false} payload with IsError set, per the MCP SDK's contract
// that tool-level failures surface inside the result, not as a
// protocol-level error, so the client can see and self-correct.
func errorResponse(operation string, err error) (*mcp.CallToolResult, error) {
	resp, marshalErr := jsonResponse(map[string]interface{}{
		"success":   false,
		"error":     err.Error(),
		"operation": operation,
	})
	if marshalErr != nil {
		return nil, marshalErr
	}
	resp.IsError = true
	return resp, nil
}
