package embedding

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DisabledViaSkipEnvVar(t *testing.T) {
	const envVar = "JULIE_TEST_SKIP_EMBEDDINGS"
	require.NoError(t, os.Setenv(envVar, "1"))
	defer os.Unsetenv(envVar)

	e := New(Options{SkipEnvVar: envVar})
	_, err := e.Embed(context.Background(), []string{"hello"})
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestNew_EnabledWhenSkipEnvVarUnset(t *testing.T) {
	e := New(Options{SkipEnvVar: "JULIE_TEST_SKIP_EMBEDDINGS_UNSET"})
	assert.False(t, e.disabled)
}

func TestEmbed_EmptyInputIsNoOp(t *testing.T) {
	e := New(Options{})
	vectors, err := e.Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vectors)
}

func TestDimensions_ReturnsConfiguredValue(t *testing.T) {
	e := New(Options{Dimensions: 384})
	assert.Equal(t, 384, e.Dimensions())
}
