package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mvp-joe/semanta/internal/config"
	"github.com/mvp-joe/semanta/internal/storage"
)

var exportDBPath string

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Scan a project and write the symbol table to SQLite",
	Long: `Export runs a scan and stores the results in a SQLite database:
one row per scan, one row per extracted symbol (methods carry their
class as parent), and one row per file that failed to parse.

Examples:
  # Export to the default .semanta/symbols.db
  semanta export

  # Export to an explicit database
  semanta export ~/src/myproject --db /tmp/symbols.db
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportDBPath, "db", "", "SQLite database path (default from config)")
	exportCmd.Flags().BoolVarP(&scanQuiet, "quiet", "q", false, "Disable progress output")
	exportCmd.Flags().IntVar(&scanJobs, "jobs", 0, "Parallel parse workers (0 = one per CPU)")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	cfg, err := config.LoadFromDir(root)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbPath := exportDBPath
	if dbPath == "" {
		dbPath = filepath.Join(root, filepath.FromSlash(cfg.Storage.DBPath))
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	results, collected, err := collectAndScan(ctx, root)
	if err != nil {
		return err
	}
	for _, skipped := range collected.Skipped {
		fmt.Fprintf(os.Stderr, "[WARN] skipped unreadable file: %s (%s)\n", skipped.Path, skipped.Reason)
	}

	writer, err := storage.NewWriter(dbPath)
	if err != nil {
		return err
	}
	defer writer.Close()

	scanID := uuid.NewString()
	if err := writer.WriteScan(scanID, root, results); err != nil {
		return fmt.Errorf("failed to write scan: %w", err)
	}

	fmt.Printf("Exported scan %s (%d files) to %s\n", scanID, len(results), dbPath)
	return nil
}
