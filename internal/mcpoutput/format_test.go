package mcpoutput

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChooseFormat_ExplicitRequestWins(t *testing.T) {
	assert.Equal(t, FormatJSON, ChooseFormat(FormatJSON, 50))
	assert.Equal(t, FormatTOON, ChooseFormat(FormatTOON, 1))
	assert.Equal(t, FormatCode, ChooseFormat(FormatCode, 0))
}

func TestChooseFormat_AutoUsesResultCountThreshold(t *testing.T) {
	assert.Equal(t, FormatJSON, ChooseFormat(FormatAuto, 4))
	assert.Equal(t, FormatTOON, ChooseFormat(FormatAuto, 5))
	assert.Equal(t, FormatTOON, ChooseFormat("", 12))
}

func TestRender_JSONProducesIndentedObject(t *testing.T) {
	out, err := Render(FormatJSON, map[string]int{"a": 1})
	assert.NoError(t, err)
	assert.Contains(t, out, "\"a\": 1")
}

func TestRender_TOONProducesNonEmptyOutput(t *testing.T) {
	out, err := Render(FormatTOON, []map[string]string{{"name": "GetUser"}})
	assert.NoError(t, err)
	assert.NotEmpty(t, out)
}
