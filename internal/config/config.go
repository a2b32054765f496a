// Package config loads semanta configuration from .semanta/config.yml
// with environment variable overrides.
package config

// Config represents the complete semanta configuration.
type Config struct {
	Paths   PathsConfig   `yaml:"paths" mapstructure:"paths"`
	Scan    ScanConfig    `yaml:"scan" mapstructure:"scan"`
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
}

// PathsConfig defines which files to scan and which to ignore.
type PathsConfig struct {
	Include []string `yaml:"include" mapstructure:"include"` // glob patterns for source files
	Ignore  []string `yaml:"ignore" mapstructure:"ignore"`   // glob patterns to ignore
}

// ScanConfig controls how the scan pipeline runs.
type ScanConfig struct {
	Jobs  int `yaml:"jobs" mapstructure:"jobs"`   // parallel parse workers; 0 means NumCPU
	Limit int `yaml:"limit" mapstructure:"limit"` // max files per scan; 0 means unlimited
}

// StorageConfig defines where exported scans are written.
type StorageConfig struct {
	DBPath string `yaml:"db_path" mapstructure:"db_path"` // sqlite database for `semanta export`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Include: []string{
				"**/*.py",
			},
			Ignore: []string{
				"__pycache__/**",
				".git/**",
				".venv/**",
				"venv/**",
				"build/**",
				"dist/**",
				"*.pyc",
			},
		},
		Scan: ScanConfig{
			Jobs:  0,
			Limit: 0,
		},
		Storage: StorageConfig{
			DBPath: ".semanta/symbols.db",
		},
	}
}
