// Package config loads and validates Julie's project configuration.
// Configuration is TOML (".julie.toml"), merged base (home directory) then
// project (workspace root), project values winning except for exclusion
// globs which are unioned.
package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Version     int
	Project     Project
	Index       Index
	Performance Performance
	Search      Search
	Embedding   Embedding
	Vector      Vector
	Workspace   WorkspaceConfig
	Include     []string
	Exclude     []string
}

type Project struct {
	Root string
	Name string
}

type Index struct {
	MaxFileSize      int64
	MaxTotalSizeMB   int64
	MaxFileCount     int
	FollowSymlinks   bool
	RespectGitignore bool
	WatchMode        bool
	WatchDebounceMs  int
}

type Performance struct {
	MaxMemoryMB         int
	ParallelFileWorkers int // 0 = auto-detect (NumCPU-1, at least 1)
	IndexingTimeoutSec  int
	EmbeddingTimeoutSec int // hard budget for the background embedding job (spec: 5 minutes)
}

type Search struct {
	DefaultLimit             int
	MaxLimit                 int
	HybridTextWeight         float64
	HybridSemanticWeight     float64
	HybridOverlapBonus       float64
	SemanticBridgeThreshold  float64 // cross-language semantic match cutoff, spec §9 Open Question
	ExactMatchBoostMax       float64
}

type Embedding struct {
	Dimensions      int
	ModelName       string
	IdleTimeoutSec  int
	BatchSize       int
	SkipEnvVar      string // name of the env var that disables embeddings (JULIE_SKIP_EMBEDDINGS)
}

type Vector struct {
	M              int
	EfConstruction int
	EfSearch       int
}

type WorkspaceConfig struct {
	DirName         string // ".julie"
	MemoriesDirName string // ".memories"
}

// Load reads ".julie.toml" from the home directory (base) and from
// rootDir (project), merging project over base.
func Load(rootDir string) (*Config, error) {
	var base *Config
	if home, err := os.UserHomeDir(); err == nil {
		if cfg, err := loadTOML(filepath.Join(home, ".julie.toml")); err == nil && cfg != nil {
			base = cfg
		}
	}

	project, err := loadTOML(filepath.Join(rootDir, ".julie.toml"))
	if err != nil {
		return nil, err
	}

	switch {
	case base != nil && project != nil:
		return mergeConfigs(base, project), nil
	case project != nil:
		if project.Project.Root == "" {
			project.Project.Root = rootDir
		}
		return project, nil
	case base != nil:
		base.Project.Root = rootDir
		return base, nil
	}

	return defaultConfig(rootDir), nil
}

func loadTOML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func defaultConfig(rootDir string) *Config {
	if rootDir == "" {
		rootDir = "."
	}

	cfg := &Config{
		Version: 1,
		Project: Project{Root: rootDir},
		Index: Index{
			MaxFileSize:      5 * 1024 * 1024,
			MaxTotalSizeMB:   2048,
			MaxFileCount:     200_000,
			FollowSymlinks:   false,
			RespectGitignore: true,
			WatchMode:        false,
			WatchDebounceMs:  300,
		},
		Performance: Performance{
			MaxMemoryMB:         1024,
			ParallelFileWorkers: 0,
			IndexingTimeoutSec:  120,
			EmbeddingTimeoutSec: 300,
		},
		Search: Search{
			DefaultLimit:            20,
			MaxLimit:                200,
			HybridTextWeight:        0.6,
			HybridSemanticWeight:    0.4,
			HybridOverlapBonus:      0.2,
			SemanticBridgeThreshold: 0.7,
			ExactMatchBoostMax:      5.0,
		},
		Embedding: Embedding{
			Dimensions:     384,
			ModelName:      "BAAI/bge-small-en-v1.5",
			IdleTimeoutSec: 300,
			BatchSize:      64,
			SkipEnvVar:     "JULIE_SKIP_EMBEDDINGS",
		},
		Vector: Vector{
			M:              16,
			EfConstruction: 200,
			EfSearch:       64,
		},
		Workspace: WorkspaceConfig{
			DirName:         ".julie",
			MemoriesDirName: ".memories",
		},
		Include: []string{},
		Exclude: defaultExcludes(),
	}

	cfg.EnrichExclusionsWithBuildArtifacts()
	return cfg
}

func defaultExcludes() []string {
	return []string{
		"**/.git/**",
		"**/.*/**",
		"**/node_modules/**",
		"**/vendor/**",
		"**/bower_components/**",
		"**/dist/**",
		"**/build/**",
		"**/out/**",
		"**/target/**",
		"**/bin/**",
		"**/obj/**",
		"**/*.min.js",
		"**/*.min.css",
		"**/__pycache__/**",
		"**/*.pyc",
		"**/*.wasm",
		"**/*.woff",
		"**/*.woff2",
		"**/*.ttf",
		"**/logs/**",
		"**/*.log",
	}
}

func mergeConfigs(base, project *Config) *Config {
	merged := *project

	if len(base.Exclude) > 0 {
		seen := make(map[string]bool, len(base.Exclude)+len(project.Exclude))
		for _, p := range base.Exclude {
			seen[p] = true
		}
		for _, p := range project.Exclude {
			seen[p] = true
		}
		merged.Exclude = make([]string, 0, len(seen))
		for p := range seen {
			merged.Exclude = append(merged.Exclude, p)
		}
	}

	if len(project.Include) == 0 && len(base.Include) > 0 {
		merged.Include = base.Include
	}

	return &merged
}

// EnrichExclusionsWithBuildArtifacts detects build output directories from
// language configs (package.json, Cargo.toml, etc.) and adds them to the
// exclusion list.
func (c *Config) EnrichExclusionsWithBuildArtifacts() {
	if c.Project.Root == "" {
		return
	}
	detector := NewBuildArtifactDetector(c.Project.Root)
	detected := detector.DetectOutputDirectories()
	if len(detected) > 0 {
		c.Exclude = append(c.Exclude, detected...)
		c.Exclude = DeduplicatePatterns(c.Exclude)
	}
}

func numCPU() int { return runtime.NumCPU() }
