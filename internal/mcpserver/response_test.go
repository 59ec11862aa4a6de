package mcpserver

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/julie/internal/mcpoutput"
)

func textOf(t *testing.T, content mcp.Content) string {
	t.Helper()
	tc, ok := content.(*mcp.TextContent)
	require.True(t, ok, "expected *mcp.TextContent, got %T", content)
	return tc.Text
}

func TestJSONResponse_EncodesPayload(t *testing.T) {
	res, err := jsonResponse(map[string]int{"count": 3})
	require.NoError(t, err)
	require.Len(t, res.Content, 1)

	var decoded map[string]int
	require.NoError(t, json.Unmarshal([]byte(textOf(t, res.Content[0])), &decoded))
	assert.Equal(t, 3, decoded["count"])
	assert.False(t, res.IsError)
}

func TestErrorResponse_MarksIsError(t *testing.T) {
	res, err := errorResponse("fast_search", errors.New("boom"))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(textOf(t, res.Content[0])), &decoded))
	assert.Equal(t, false, decoded["success"])
	assert.Equal(t, "boom", decoded["error"])
	assert.Equal(t, "fast_search", decoded["operation"])
}

func TestFormattedResponse_UsesTOONAboveAutoThreshold(t *testing.T) {
	res, err := formattedResponse(mcpoutput.FormatAuto, 10, map[string]int{"n": 1})
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	assert.False(t, res.IsError)
}

func TestFormattedResponse_RespectsExplicitJSON(t *testing.T) {
	res, err := formattedResponse(mcpoutput.FormatJSON, 1, map[string]int{"n": 1})
	require.NoError(t, err)

	var decoded map[string]int
	require.NoError(t, json.Unmarshal([]byte(textOf(t, res.Content[0])), &decoded))
	assert.Equal(t, 1, decoded["n"])
}
