package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSemanticBridgeThreshold_DefaultsWhenUnset(t *testing.T) {
	e := &Engine{}
	assert.Equal(t, defaultSemanticBridgeThreshold, e.semanticBridgeThreshold())
}

func TestSemanticBridgeThreshold_UsesConfiguredValue(t *testing.T) {
	e := &Engine{SemanticBridgeThreshold: 0.9}
	assert.Equal(t, 0.9, e.semanticBridgeThreshold())
}
