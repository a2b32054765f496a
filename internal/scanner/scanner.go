// Package scanner runs the parse-and-extract pipeline over a batch of
// collected sources. Each file is processed independently with no
// shared mutable state, so the batch fans out across a bounded worker
// pool and only result collection needs coordination.
package scanner

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/mvp-joe/semanta/internal/pytree"
	"github.com/mvp-joe/semanta/internal/symbols"
)

// FileResult is the outcome of one file's build-then-extract pass. A
// parse failure sets Err and leaves Records empty; it never aborts the
// batch.
type FileResult struct {
	Path          string
	Records       []symbols.Record
	TopLevelKinds []string
	Err           error
}

// ProgressReporter receives scan lifecycle events. Implementations must
// tolerate calls from multiple goroutines being serialized by the
// scanner.
type ProgressReporter interface {
	OnScanStart(totalFiles int)
	OnFileScanned(path string, err error)
	OnScanComplete(scanned, failed int, elapsed time.Duration)
}

// noopProgress is the default reporter.
type noopProgress struct{}

func (noopProgress) OnScanStart(int)                        {}
func (noopProgress) OnFileScanned(string, error)            {}
func (noopProgress) OnScanComplete(int, int, time.Duration) {}

// Scanner coordinates parallel scans.
type Scanner struct {
	jobs     int
	progress ProgressReporter
}

// New creates a scanner running at most jobs files concurrently.
// jobs <= 0 means one worker per CPU.
func New(jobs int, progress ProgressReporter) *Scanner {
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	if progress == nil {
		progress = noopProgress{}
	}
	return &Scanner{jobs: jobs, progress: progress}
}

// Scan builds and extracts every source in the map and returns one
// result per file, sorted by path so output is deterministic regardless
// of collector or scheduling order. Cancelling the context stops
// dispatching new files; files already in flight finish.
func (s *Scanner) Scan(ctx context.Context, sources map[string]string) []FileResult {
	start := time.Now()

	paths := make([]string, 0, len(sources))
	for path := range sources {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	s.progress.OnScanStart(len(paths))

	results := make([]FileResult, len(paths))
	indexes := make(chan int)

	var wg sync.WaitGroup
	var mu sync.Mutex // serializes progress callbacks
	for w := 0; w < s.jobs; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				path := paths[i]
				results[i] = ScanFile(path, sources[path])

				mu.Lock()
				s.progress.OnFileScanned(path, results[i].Err)
				mu.Unlock()
			}
		}()
	}

dispatch:
	for i := range paths {
		select {
		case indexes <- i:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(indexes)
	wg.Wait()

	scanned, failed := 0, 0
	for i := range results {
		if results[i].Path == "" {
			// never dispatched (cancelled); keep the slot honest
			results[i] = FileResult{Path: paths[i], Err: ctx.Err()}
		}
		if results[i].Err != nil {
			failed++
		} else {
			scanned++
		}
	}
	s.progress.OnScanComplete(scanned, failed, time.Since(start))

	return results
}

// ScanFile runs the pipeline for one source text: module-mode build,
// then symbol extraction. Purely functional; safe to call concurrently.
func ScanFile(path, source string) FileResult {
	result := FileResult{Path: path}

	tree, err := pytree.Build(source, pytree.ModeModule)
	if err != nil {
		result.Err = err
		return result
	}

	result.Records = symbols.Extract(tree)
	result.TopLevelKinds = pytree.TopLevelKinds(tree)
	return result
}
