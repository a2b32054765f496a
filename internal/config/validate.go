package config

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// Validate checks a configuration for errors that would otherwise
// surface mid-scan: malformed glob patterns and nonsense scan limits.
func Validate(cfg *Config) error {
	var errs []error

	if len(cfg.Paths.Include) == 0 {
		errs = append(errs, fmt.Errorf("paths.include must not be empty"))
	}
	for _, pattern := range cfg.Paths.Include {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("paths.include pattern %q: %w", pattern, err))
		}
	}
	for _, pattern := range cfg.Paths.Ignore {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("paths.ignore pattern %q: %w", pattern, err))
		}
	}

	if cfg.Scan.Jobs < 0 {
		errs = append(errs, fmt.Errorf("scan.jobs must be >= 0, got %d", cfg.Scan.Jobs))
	}
	if cfg.Scan.Limit < 0 {
		errs = append(errs, fmt.Errorf("scan.limit must be >= 0, got %d", cfg.Scan.Limit))
	}

	return joinErrors(errs)
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}
