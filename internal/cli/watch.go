package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/semanta/internal/scanner"
	"github.com/mvp-joe/semanta/internal/watcher"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Rescan Python files as they change",
	Long: `Watch performs an initial scan, then observes the directory tree
and re-parses files as they are written, printing updated symbols per
changed file. Stops on Ctrl+C.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVarP(&scanQuiet, "quiet", "q", false, "Disable progress output")
}

func runWatch(cmd *cobra.Command, args []string) error {
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
	for _, result := range results {
		printFileResult(result, collected.Sources[result.Path])
	}

	w, err := watcher.New(root)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Stop()

	w.Start(ctx, func(files []string) {
		for _, file := range files {
			relPath, err := filepath.Rel(root, file)
			if err != nil {
				relPath = file
			}
			relPath = filepath.ToSlash(relPath)

			data, err := os.ReadFile(file)
			if err != nil {
				// Deleted or unreadable; either way there is nothing to parse.
				fmt.Fprintf(os.Stderr, "[WARN] skipped %s (%v)\n", relPath, err)
				continue
			}
			printFileResult(scanner.ScanFile(relPath, string(data)), string(data))
		}
	})

	fmt.Fprintf(os.Stderr, "Watching %s for changes (Ctrl+C to stop)\n", root)
	<-ctx.Done()
	return nil
}
