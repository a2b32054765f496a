package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/semanta/internal/pytree"
)

var (
	parseMode       string
	parseSimplified bool
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse one Python file and dump its syntax tree",
	Long: `Parse builds the syntax tree for a single file and prints the
diagnostic dump. Useful for inspecting exactly what the extractor sees.

Examples:
  # Full dump with field labels and positions
  semanta parse main.py

  # Compact dump
  semanta parse main.py --simplified

  # Parse a single expression
  semanta parse expr.txt --mode expression
`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVar(&parseMode, "mode", "module", "Parse mode: module, expression, or interactive")
	parseCmd.Flags().BoolVar(&parseSimplified, "simplified", false, "Use the compact dump without field labels and positions")
}

func runParse(cmd *cobra.Command, args []string) error {
	mode, err := parseModeFlag(parseMode)
	if err != nil {
		return err
	}

	source, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	tree, err := pytree.Build(string(source), mode)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	fmt.Println(pytree.Render(tree, parseSimplified))
	return nil
}

func parseModeFlag(name string) (pytree.ParseMode, error) {
	switch name {
	case "module":
		return pytree.ModeModule, nil
	case "expression":
		return pytree.ModeExpression, nil
	case "interactive":
		return pytree.ModeInteractive, nil
	}
	return 0, fmt.Errorf("invalid mode %q (must be one of: module, expression, interactive)", name)
}
