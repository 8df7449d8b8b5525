package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vogtb/go-gridcalc/packages/script"
	"github.com/vogtb/go-gridcalc/packages/spreadsheet"
)

var dumpAfterRun bool

var runCmd = &cobra.Command{
	Use:   "run <script>...",
	Short: "Apply edit scripts to a fresh sheet",
	Long: `Parse and apply one or more edit scripts in order. All scripts share a
single sheet, so later scripts see the cells earlier ones stored.

Script commands:
  set A1 "=B1*2"      store raw text in a cell
  clear A1            remove a cell
  show A1             print a cell's display text
  show A1:B3          print an inclusive rectangle, rows outer
  dump                print every stored cell

Examples:
  gridcalc run budget.grid
  gridcalc run -v --dump inputs.grid formulas.grid`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScripts,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&dumpAfterRun, "dump", false, "print every stored cell after the last script")
}

func runScripts(cmd *cobra.Command, args []string) error {
	parser, err := script.NewParser()
	if err != nil {
		return err
	}

	sheet := spreadsheet.NewSheet(sheetOptions(cmd.ErrOrStderr())...)
	out := cmd.OutOrStdout()
	for _, path := range args {
		parsed, err := parser.ParseFile(path)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		if err := parsed.Run(sheet, out); err != nil {
			return fmt.Errorf("failed to run %s: %w", path, err)
		}
	}

	if dumpAfterRun {
		return script.Dump(sheet, out)
	}
	return nil
}
