package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/semanta/internal/collector"
	"github.com/mvp-joe/semanta/internal/config"
	"github.com/mvp-joe/semanta/internal/pytree"
	"github.com/mvp-joe/semanta/internal/scanner"
	"github.com/mvp-joe/semanta/internal/symbols"
)

var (
	scanDumpTree   bool
	scanSimplified bool
	scanShowKinds  bool
	scanSymbols    bool
	scanJSON       bool
	scanQuiet      bool
	scanLimit      int
	scanJobs       int
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Scan a Python project and print its symbol table",
	Long: `Scan recursively collects Python sources under the given path
(default: current directory), parses each file, and prints the extracted
symbols per file.

A file that fails to parse is reported and skipped; the rest of the
batch is still processed.

Examples:
  # Scan the current directory
  semanta scan

  # Scan a project and show top-level statement kinds per file
  semanta scan ~/src/myproject --show-kinds

  # Dump each file's syntax tree instead of symbols
  semanta scan --dump-tree --simplified

  # Machine-readable output
  semanta scan --json
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().BoolVar(&scanDumpTree, "dump-tree", false, "Print each file's syntax tree dump")
	scanCmd.Flags().BoolVar(&scanSimplified, "simplified", false, "Use the compact tree dump without field labels and positions")
	scanCmd.Flags().BoolVar(&scanShowKinds, "show-kinds", false, "Print each file's top-level statement kinds")
	scanCmd.Flags().BoolVar(&scanSymbols, "symbols", true, "Print extracted symbols")
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "Emit results as JSON")
	scanCmd.Flags().BoolVarP(&scanQuiet, "quiet", "q", false, "Disable progress output")
	scanCmd.Flags().IntVar(&scanLimit, "limit", 0, "Limit the number of files to process (0 = no limit)")
	scanCmd.Flags().IntVar(&scanJobs, "jobs", 0, "Parallel parse workers (0 = one per CPU)")
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	results, collected, err := collectAndScan(ctx, root)
	if err != nil {
		return err
	}

	for _, skipped := range collected.Skipped {
		fmt.Fprintf(os.Stderr, "[WARN] skipped unreadable file: %s (%s)\n", skipped.Path, skipped.Reason)
	}

	if scanJSON {
		if err := printJSON(os.Stdout, results); err != nil {
			return err
		}
		return allFailed(results)
	}

	for _, result := range results {
		printFileResult(result, collected.Sources[result.Path])
	}
	return allFailed(results)
}

// allFailed turns a batch where not a single file parsed into a
// non-zero exit; partial failures are per-file diagnostics only.
func allFailed(results []scanner.FileResult) error {
	if len(results) == 0 {
		return nil
	}
	for _, result := range results {
		if result.Err == nil {
			return nil
		}
	}
	return fmt.Errorf("all %d files failed to parse", len(results))
}

// signalContext returns a context cancelled on Ctrl+C or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted! Cancelling scan...")
		cancel()
	}()

	return ctx, cancel
}

// collectAndScan runs the collector and scanner with the project config
// plus the scan command's flag overrides.
func collectAndScan(ctx context.Context, root string) ([]scanner.FileResult, *collector.Result, error) {
	cfg, err := config.LoadFromDir(root)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	col, err := collector.New(root, cfg.Paths.Include, cfg.Paths.Ignore)
	if err != nil {
		return nil, nil, err
	}
	collected, err := col.Collect()
	if err != nil {
		return nil, nil, err
	}

	limit := cfg.Scan.Limit
	if scanLimit > 0 {
		limit = scanLimit
	}
	sources := limitSources(collected.Sources, limit)

	jobs := cfg.Scan.Jobs
	if scanJobs > 0 {
		jobs = scanJobs
	}

	// JSON output implies quiet so the bar never interleaves with the payload.
	s := scanner.New(jobs, newCLIProgressReporter(scanQuiet || scanJSON))
	return s.Scan(ctx, sources), collected, nil
}

// limitSources keeps the first n sources in path order, matching the
// deterministic order the scanner emits.
func limitSources(sources map[string]string, n int) map[string]string {
	if n <= 0 || len(sources) <= n {
		return sources
	}
	paths := make([]string, 0, len(sources))
	for path := range sources {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	limited := make(map[string]string, n)
	for _, path := range paths[:n] {
		limited[path] = sources[path]
	}
	return limited
}

func printFileResult(result scanner.FileResult, source string) {
	fmt.Printf("%s\n", result.Path)
	if result.Err != nil {
		fmt.Printf("  [ERROR] %v\n", result.Err)
		return
	}

	if scanShowKinds {
		fmt.Printf("  top-level: %s\n", strings.Join(result.TopLevelKinds, ", "))
	}

	if scanDumpTree {
		// Trees are discarded after extraction, so the dump rebuilds the
		// file's tree rather than keeping every tree alive for the batch.
		tree, err := pytree.Build(source, pytree.ModeModule)
		if err == nil {
			fmt.Println(indentBlock(pytree.Render(tree, scanSimplified), "  "))
		}
	}

	if scanSymbols {
		for _, record := range result.Records {
			fmt.Println(indentBlock(formatRecord(record), "  "))
		}
	}
	fmt.Println()
}

// formatRecord renders one symbol record for the console.
func formatRecord(record symbols.Record) string {
	switch rec := record.(type) {
	case symbols.FunctionSymbol:
		return formatFunction(rec)
	case symbols.ClassSymbol:
		var b strings.Builder
		fmt.Fprintf(&b, "class %s  (line %d)", rec.Name, rec.Line)
		for _, method := range rec.Methods {
			b.WriteString("\n    ")
			b.WriteString(formatFunction(method))
		}
		return b.String()
	case symbols.ImportSymbol:
		return fmt.Sprintf("import %s", strings.Join(rec.Modules, ", "))
	case symbols.ImportFromSymbol:
		module := rec.Module
		if module == "" {
			module = "."
		}
		return fmt.Sprintf("from %s import %s", module, strings.Join(rec.Names, ", "))
	}
	return record.Kind()
}

func formatFunction(fn symbols.FunctionSymbol) string {
	var b strings.Builder
	fmt.Fprintf(&b, "def %s(%s)", fn.Name, strings.Join(fn.Params, ", "))
	if len(fn.LocalVars) > 0 {
		fmt.Fprintf(&b, " [locals: %s]", strings.Join(fn.LocalVars, ", "))
	}
	fmt.Fprintf(&b, "  (line %d)", fn.Line)
	return b.String()
}

func indentBlock(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}

// jsonFileResult mirrors scanner.FileResult with a marshallable error.
type jsonFileResult struct {
	Path          string   `json:"path"`
	Symbols       []any    `json:"symbols,omitempty"`
	TopLevelKinds []string `json:"top_level_kinds,omitempty"`
	Error         string   `json:"error,omitempty"`
}

func printJSON(w *os.File, results []scanner.FileResult) error {
	out := make([]jsonFileResult, 0, len(results))
	for _, result := range results {
		item := jsonFileResult{Path: result.Path, TopLevelKinds: result.TopLevelKinds}
		if result.Err != nil {
			item.Error = result.Err.Error()
		}
		for _, record := range result.Records {
			item.Symbols = append(item.Symbols, map[string]any{
				"kind":   record.Kind(),
				"record": record,
			})
		}
		out = append(out, item)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
