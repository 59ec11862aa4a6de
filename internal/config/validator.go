package config

import (
	stderrors "errors"
	"fmt"
	"runtime"

	julierrors "github.com/standardbeagle/julie/internal/errors"
)

// Validator validates configuration and fills in smart defaults for
// unset zero-value fields.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	v.setSmartDefaults(cfg)

	if err := v.validateProject(&cfg.Project); err != nil {
		return julierrors.NewUsageError("config", "project", err.Error())
	}
	if err := v.validateIndex(&cfg.Index); err != nil {
		return julierrors.NewUsageError("config", "index", err.Error())
	}
	if err := v.validatePerformance(&cfg.Performance); err != nil {
		return julierrors.NewUsageError("config", "performance", err.Error())
	}
	if err := v.validateSearch(&cfg.Search); err != nil {
		return julierrors.NewUsageError("config", "search", err.Error())
	}
	if err := v.validateEmbedding(&cfg.Embedding); err != nil {
		return julierrors.NewUsageError("config", "embedding", err.Error())
	}
	return nil
}

func (v *Validator) validateProject(p *Project) error {
	if p.Root == "" {
		return stderrors.New("project root cannot be empty")
	}
	return nil
}

func (v *Validator) validateIndex(idx *Index) error {
	if idx.MaxFileSize <= 0 {
		return fmt.Errorf("MaxFileSize must be positive, got %d", idx.MaxFileSize)
	}
	if idx.MaxFileSize > 100*1024*1024 {
		return fmt.Errorf("MaxFileSize should not exceed 100MB, got %d", idx.MaxFileSize)
	}
	if idx.MaxFileCount <= 0 {
		return fmt.Errorf("MaxFileCount must be positive, got %d", idx.MaxFileCount)
	}
	return nil
}

func (v *Validator) validatePerformance(p *Performance) error {
	if p.ParallelFileWorkers < 0 {
		return fmt.Errorf("ParallelFileWorkers cannot be negative, got %d", p.ParallelFileWorkers)
	}
	if p.EmbeddingTimeoutSec < 0 {
		return fmt.Errorf("EmbeddingTimeoutSec cannot be negative, got %d", p.EmbeddingTimeoutSec)
	}
	return nil
}

func (v *Validator) validateSearch(s *Search) error {
	if s.DefaultLimit < 0 || s.MaxLimit < 0 {
		return stderrors.New("search limits cannot be negative")
	}
	if s.SemanticBridgeThreshold < 0 || s.SemanticBridgeThreshold > 1 {
		return fmt.Errorf("SemanticBridgeThreshold must be in [0,1], got %v", s.SemanticBridgeThreshold)
	}
	return nil
}

func (v *Validator) validateEmbedding(e *Embedding) error {
	if e.Dimensions <= 0 {
		return fmt.Errorf("Dimensions must be positive, got %d", e.Dimensions)
	}
	return nil
}

func (v *Validator) setSmartDefaults(cfg *Config) {
	if cfg.Performance.ParallelFileWorkers == 0 {
		cfg.Performance.ParallelFileWorkers = max(1, runtime.NumCPU()-1)
	}
	if cfg.Performance.MaxMemoryMB == 0 {
		cfg.Performance.MaxMemoryMB = 1024
	}
	if cfg.Performance.IndexingTimeoutSec == 0 {
		cfg.Performance.IndexingTimeoutSec = 120
	}
	if cfg.Performance.EmbeddingTimeoutSec == 0 {
		cfg.Performance.EmbeddingTimeoutSec = 300
	}
	if cfg.Search.MaxLimit == 0 {
		cfg.Search.MaxLimit = 200
	}
	if cfg.Search.DefaultLimit == 0 {
		cfg.Search.DefaultLimit = 20
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 384
	}
	if cfg.Embedding.IdleTimeoutSec == 0 {
		cfg.Embedding.IdleTimeoutSec = 300
	}
	if cfg.Vector.M == 0 {
		cfg.Vector.M = 16
	}
	if cfg.Vector.EfConstruction == 0 {
		cfg.Vector.EfConstruction = 200
	}
	if cfg.Workspace.DirName == "" {
		cfg.Workspace.DirName = ".julie"
	}
	if cfg.Workspace.MemoriesDirName == "" {
		cfg.Workspace.MemoriesDirName = ".memories"
	}
}

// ValidateConfig is a convenience wrapper for quick validation.
func ValidateConfig(cfg *Config) error {
	return NewValidator().ValidateAndSetDefaults(cfg)
}
