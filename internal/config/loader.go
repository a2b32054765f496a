package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{
		rootDir: rootDir,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (SEMANTA_*)
// 2. Config file (.semanta/config.yml or .semanta/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	// Set up config file search
	configDir := filepath.Join(l.rootDir, ".semanta")
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	// Enable environment variable overrides
	v.SetEnvPrefix("SEMANTA")
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g., SEMANTA_SCAN_JOBS)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("scan.jobs")
	v.BindEnv("scan.limit")
	v.BindEnv("storage.db_path")

	setDefaults(v)

	// Try to read config file
	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults seeds viper with the Default() values so a partial config
// file only overrides what it names.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("paths.include", defaults.Paths.Include)
	v.SetDefault("paths.ignore", defaults.Paths.Ignore)
	v.SetDefault("scan.jobs", defaults.Scan.Jobs)
	v.SetDefault("scan.limit", defaults.Scan.Limit)
	v.SetDefault("storage.db_path", defaults.Storage.DBPath)
}

// LoadFromDir loads configuration for the given project root.
func LoadFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
