package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for config:
// - Defaults apply when no config file exists
// - A partial config file overrides only what it names
// - Validation rejects bad glob patterns and negative scan settings

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFromDir(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, []string{"**/*.py"}, cfg.Paths.Include)
	assert.Contains(t, cfg.Paths.Ignore, "__pycache__/**")
	assert.Equal(t, 0, cfg.Scan.Jobs)
	assert.Equal(t, 0, cfg.Scan.Limit)
	assert.Equal(t, ".semanta/symbols.db", cfg.Storage.DBPath)
}

func TestLoad_PartialConfigFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	configDir := filepath.Join(root, ".semanta")
	require.NoError(t, os.MkdirAll(configDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yml"), []byte(`
scan:
  jobs: 4
`), 0644))

	cfg, err := LoadFromDir(root)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Scan.Jobs)
	// Unnamed sections keep their defaults.
	assert.Equal(t, []string{"**/*.py"}, cfg.Paths.Include)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(cfg *Config) {},
		},
		{
			name:    "empty include",
			mutate:  func(cfg *Config) { cfg.Paths.Include = nil },
			wantErr: "paths.include must not be empty",
		},
		{
			name:    "bad include pattern",
			mutate:  func(cfg *Config) { cfg.Paths.Include = []string{"[oops"} },
			wantErr: "paths.include pattern",
		},
		{
			name:    "bad ignore pattern",
			mutate:  func(cfg *Config) { cfg.Paths.Ignore = []string{"[oops"} },
			wantErr: "paths.ignore pattern",
		},
		{
			name:    "negative jobs",
			mutate:  func(cfg *Config) { cfg.Scan.Jobs = -1 },
			wantErr: "scan.jobs must be >= 0",
		},
		{
			name:    "negative limit",
			mutate:  func(cfg *Config) { cfg.Scan.Limit = -5 },
			wantErr: "scan.limit must be >= 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
