package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAndSetDefaults(t *testing.T) {
	cfg := &Config{
		Project: Project{Root: "/test/root", Name: "test-project"},
		Index: Index{
			MaxFileSize:    1024 * 1024,
			MaxTotalSizeMB: 1000,
			MaxFileCount:   10000,
		},
		Performance: Performance{
			MaxMemoryMB:         2048,
			ParallelFileWorkers: 0,
		},
		Search: Search{},
	}

	validator := NewValidator()
	require.NoError(t, validator.ValidateAndSetDefaults(cfg))

	assert.NotZero(t, cfg.Performance.ParallelFileWorkers)
	assert.NotZero(t, cfg.Search.MaxLimit)
	assert.NotZero(t, cfg.Search.DefaultLimit)
	assert.Equal(t, 384, cfg.Embedding.Dimensions)
	assert.Equal(t, ".julie", cfg.Workspace.DirName)
}

func TestValidateProject(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.validateProject(&Project{Root: "/test/root", Name: "test-project"}))
	assert.Error(t, v.validateProject(&Project{Root: ""}))
}

func TestValidateIndex(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.validateIndex(&Index{MaxFileSize: 1024 * 1024, MaxFileCount: 10000}))
	assert.Error(t, v.validateIndex(&Index{MaxFileSize: 0, MaxFileCount: 10000}))
	assert.Error(t, v.validateIndex(&Index{MaxFileSize: 200 * 1024 * 1024, MaxFileCount: 10000}))
	assert.Error(t, v.validateIndex(&Index{MaxFileSize: 1024, MaxFileCount: 0}))
}

func TestValidatePerformance(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.validatePerformance(&Performance{ParallelFileWorkers: 4}))
	assert.Error(t, v.validatePerformance(&Performance{ParallelFileWorkers: -1}))
	assert.Error(t, v.validatePerformance(&Performance{EmbeddingTimeoutSec: -1}))
}

func TestValidateSearch(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.validateSearch(&Search{DefaultLimit: 20, MaxLimit: 200, SemanticBridgeThreshold: 0.7}))
	assert.Error(t, v.validateSearch(&Search{DefaultLimit: -1}))
	assert.Error(t, v.validateSearch(&Search{SemanticBridgeThreshold: 1.5}))
}

func TestValidateEmbedding(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.validateEmbedding(&Embedding{Dimensions: 384}))
	assert.Error(t, v.validateEmbedding(&Embedding{Dimensions: 0}))
}

func TestValidateConfig_Convenience(t *testing.T) {
	cfg := &Config{
		Project: Project{Root: "/test/root", Name: "test-project"},
		Index: Index{
			MaxFileSize:    1024 * 1024,
			MaxTotalSizeMB: 1000,
			MaxFileCount:   10000,
		},
		Performance: Performance{MaxMemoryMB: 2048, ParallelFileWorkers: 1},
	}
	require.NoError(t, ValidateConfig(cfg))

	invalid := &Config{Project: Project{Root: ""}}
	assert.Error(t, ValidateConfig(invalid))
}

func TestSetSmartDefaults(t *testing.T) {
	cfg := &Config{
		Project: Project{Root: "/test/root", Name: "test-project"},
		Performance: Performance{
			MaxMemoryMB: 0,
		},
	}

	validator := NewValidator()
	validator.setSmartDefaults(cfg)

	assert.NotZero(t, cfg.Performance.MaxMemoryMB)
	assert.NotZero(t, cfg.Performance.ParallelFileWorkers)
	assert.Equal(t, ".julie", cfg.Workspace.DirName)
	assert.Equal(t, ".memories", cfg.Workspace.MemoriesDirName)
}

func BenchmarkValidateAndSetDefaults(b *testing.B) {
	cfg := &Config{
		Project: Project{Root: "/test/root", Name: "test-project"},
		Index: Index{
			MaxFileSize:    1024 * 1024,
			MaxTotalSizeMB: 1000,
			MaxFileCount:   10000,
		},
		Performance: Performance{MaxMemoryMB: 2048},
	}

	validator := NewValidator()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		testCfg := *cfg
		_ = validator.ValidateAndSetDefaults(&testCfg)
	}
}
