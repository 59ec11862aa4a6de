package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Unit tests for config merging logic

func TestMergeConfigs_ExclusionsMerge(t *testing.T) {
	base := &Config{
		Exclude: []string{
			"**/node_modules/**",
			"**/vendor/**",
			"**/real_projects/**",
		},
	}

	project := &Config{
		Exclude: []string{
			"**/dist/**",
			"**/build/**",
		},
	}

	merged := mergeConfigs(base, project)

	assert.Contains(t, merged.Exclude, "**/node_modules/**")
	assert.Contains(t, merged.Exclude, "**/vendor/**")
	assert.Contains(t, merged.Exclude, "**/real_projects/**")
	assert.Contains(t, merged.Exclude, "**/dist/**")
	assert.Contains(t, merged.Exclude, "**/build/**")
	assert.Len(t, merged.Exclude, 5)
}

func TestMergeConfigs_ExclusionsDeduplication(t *testing.T) {
	base := &Config{
		Exclude: []string{
			"**/node_modules/**",
			"**/vendor/**",
		},
	}

	project := &Config{
		Exclude: []string{
			"**/node_modules/**", // Duplicate
			"**/dist/**",
		},
	}

	merged := mergeConfigs(base, project)

	assert.Len(t, merged.Exclude, 3)
	assert.Contains(t, merged.Exclude, "**/node_modules/**")
	assert.Contains(t, merged.Exclude, "**/vendor/**")
	assert.Contains(t, merged.Exclude, "**/dist/**")
}

func TestMergeConfigs_InclusionsProjectOverride(t *testing.T) {
	base := &Config{
		Include: []string{"*.go", "*.js"},
	}

	project := &Config{
		Include: []string{"*.py", "*.ts"},
	}

	merged := mergeConfigs(base, project)

	assert.Equal(t, project.Include, merged.Include)
	assert.Len(t, merged.Include, 2)
}

func TestMergeConfigs_InclusionsUseBaseIfProjectEmpty(t *testing.T) {
	base := &Config{
		Include: []string{"*.go", "*.js"},
	}

	project := &Config{
		Include: []string{},
	}

	merged := mergeConfigs(base, project)

	assert.Equal(t, base.Include, merged.Include)
}

func TestMergeConfigs_ProjectSettingsTakePrecedence(t *testing.T) {
	base := &Config{
		Index:       Index{MaxFileSize: 1024 * 1024},
		Performance: Performance{MaxMemoryMB: 100},
	}

	project := &Config{
		Index:       Index{MaxFileSize: 10 * 1024 * 1024},
		Performance: Performance{MaxMemoryMB: 500},
	}

	merged := mergeConfigs(base, project)

	assert.Equal(t, int64(10*1024*1024), merged.Index.MaxFileSize)
	assert.Equal(t, 500, merged.Performance.MaxMemoryMB)
}

func TestMergeConfigs_EmptyBaseExclusions(t *testing.T) {
	base := &Config{
		Exclude: []string{},
	}

	project := &Config{
		Exclude: []string{"**/dist/**"},
	}

	merged := mergeConfigs(base, project)

	assert.Equal(t, project.Exclude, merged.Exclude)
}

func TestMergeConfigs_PreservesBaseExclusionsWhenProjectEmpty(t *testing.T) {
	base := &Config{
		Exclude: []string{
			"**/real_projects/**",
			"**/testing/**",
			"**/testdata/**",
		},
	}

	project := &Config{
		Project: Project{Name: "test-project"},
		Exclude: []string{},
	}

	merged := mergeConfigs(base, project)

	assert.Contains(t, merged.Exclude, "**/real_projects/**")
	assert.Contains(t, merged.Exclude, "**/testing/**")
	assert.Contains(t, merged.Exclude, "**/testdata/**")
}

// Integration tests for config loading with home + project directories

func TestLoad_MergesGlobalAndProjectConfigs(t *testing.T) {
	tmpHome := t.TempDir()
	tmpProject := t.TempDir()

	globalTOML := "exclude = [\"**/node_modules/**\", \"**/vendor/**\", \"**/real_projects/**\"]\n" +
		"include = [\"*.go\", \"*.js\"]\n" +
		"[index]\nmaxfilesize = 5242880\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmpHome, ".julie.toml"), []byte(globalTOML), 0644))

	projectTOML := "exclude = [\"**/dist/**\", \"**/build/**\"]\n" +
		"[project]\nroot = \".\"\nname = \"test-project\"\n" +
		"[index]\nmaxfilesize = 10485760\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmpProject, ".julie.toml"), []byte(projectTOML), 0644))

	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpHome)
	defer os.Setenv("HOME", originalHome)

	cfg, err := Load(tmpProject)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Contains(t, cfg.Exclude, "**/node_modules/**")
	assert.Contains(t, cfg.Exclude, "**/vendor/**")
	assert.Contains(t, cfg.Exclude, "**/real_projects/**")
	assert.Contains(t, cfg.Exclude, "**/dist/**")
	assert.Contains(t, cfg.Exclude, "**/build/**")

	assert.Equal(t, int64(10485760), cfg.Index.MaxFileSize)
	assert.Equal(t, "test-project", cfg.Project.Name)
}

func TestLoad_ProjectConfigOnly(t *testing.T) {
	tmpProject := t.TempDir()

	projectTOML := "exclude = [\"**/dist/**\"]\n" +
		"[project]\nroot = \".\"\nname = \"test-project\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmpProject, ".julie.toml"), []byte(projectTOML), 0644))

	os.Setenv("HOME", "/nonexistent")
	defer os.Unsetenv("HOME")

	cfg, err := Load(tmpProject)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Contains(t, cfg.Exclude, "**/dist/**")
	assert.Equal(t, "test-project", cfg.Project.Name)
}

func TestLoad_GlobalConfigOnly(t *testing.T) {
	tmpHome := t.TempDir()
	tmpProject := t.TempDir()

	globalTOML := "exclude = [\"**/node_modules/**\", \"**/real_projects/**\"]\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmpHome, ".julie.toml"), []byte(globalTOML), 0644))

	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpHome)
	defer os.Setenv("HOME", originalHome)

	cfg, err := Load(tmpProject)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Contains(t, cfg.Exclude, "**/node_modules/**")
	assert.Contains(t, cfg.Exclude, "**/real_projects/**")
	assert.Equal(t, tmpProject, cfg.Project.Root)
}

func TestLoad_DefaultConfigFallback(t *testing.T) {
	tmpProject := t.TempDir()
	os.Setenv("HOME", "/nonexistent")
	defer os.Unsetenv("HOME")

	cfg, err := Load(tmpProject)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.NotEmpty(t, cfg.Exclude, "should have default exclusions")
	assert.Empty(t, cfg.Include, "should include everything by default")
	assert.Equal(t, tmpProject, cfg.Project.Root)
}
