// Package collector walks a project directory and loads the Python
// sources the pipeline will parse, as a map of relative path to source
// text. Unreadable or undecodable files are skipped with a diagnostic,
// never fatal to the walk.
package collector

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gobwas/glob"
)

// compiledPattern holds both the pattern string and compiled glob.
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// SkippedFile records one file omitted from a collection and why.
type SkippedFile struct {
	Path   string
	Reason string
}

// Result is one collection over a project root. Sources maps
// slash-separated paths, relative to the root, to decoded source text.
type Result struct {
	Sources map[string]string
	Skipped []SkippedFile
}

// Collector discovers and reads source files under a root directory
// using include and ignore glob patterns.
type Collector struct {
	root    string
	include []compiledPattern
	ignore  []compiledPattern
}

// New compiles the glob patterns and returns a collector for root.
func New(root string, includePatterns, ignorePatterns []string) (*Collector, error) {
	c := &Collector{root: root}

	for _, pattern := range includePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", pattern, err)
		}
		c.include = append(c.include, compiledPattern{pattern: pattern, glob: g})
	}

	for _, pattern := range ignorePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		c.ignore = append(c.ignore, compiledPattern{pattern: pattern, glob: g})
	}

	return c, nil
}

// Collect walks the directory tree and reads every matching file. A
// file that cannot be read, or whose bytes are not valid UTF-8, is
// recorded in Skipped and omitted from Sources; the walk continues.
func (c *Collector) Collect() (*Result, error) {
	result := &Result{Sources: map[string]string{}}

	err := filepath.Walk(c.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(c.root, path)
		if err != nil {
			return err
		}

		// Normalize path separators for glob matching
		relPath = filepath.ToSlash(relPath)

		if c.shouldIgnore(relPath) {
			return nil
		}

		if !c.matchesAnyPattern(relPath, c.include) {
			return nil
		}

		data, readErr := os.ReadFile(path)
		if readErr != nil {
			result.Skipped = append(result.Skipped, SkippedFile{
				Path:   relPath,
				Reason: readErr.Error(),
			})
			return nil
		}

		if !utf8.Valid(data) {
			result.Skipped = append(result.Skipped, SkippedFile{
				Path:   relPath,
				Reason: "not valid UTF-8",
			})
			return nil
		}

		result.Sources[relPath] = string(data)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", c.root, err)
	}

	return result, nil
}

// shouldIgnore checks if a path matches any ignore pattern.
func (c *Collector) shouldIgnore(relPath string) bool {
	// Always ignore the tool's own state directory
	if strings.HasPrefix(relPath, ".semanta/") || relPath == ".semanta" {
		return true
	}

	if c.matchesAnyPattern(relPath, c.ignore) {
		return true
	}

	// Also check if this is a directory that would match with /** suffix,
	// so pattern "venv/**" ignores the "venv" directory itself.
	return c.matchesAnyPattern(relPath+"/**", c.ignore)
}

// matchesAnyPattern checks if a path matches any of the given patterns.
func (c *Collector) matchesAnyPattern(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
	}

	// A "**/*.py" pattern should also match "main.py" at the root, where
	// there is no slash for "**/" to consume.
	if !strings.Contains(path, "/") {
		for _, cp := range patterns {
			if strings.HasPrefix(cp.pattern, "**/") {
				simplified := strings.TrimPrefix(cp.pattern, "**/")
				if g, err := glob.Compile(simplified, '/'); err == nil && g.Match(path) {
					return true
				}
			}
		}
	}

	return false
}
