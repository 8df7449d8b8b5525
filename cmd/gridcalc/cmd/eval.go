package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vogtb/go-gridcalc/packages/spreadsheet"
)

var (
	evalCells []string
	evalAt    string
	showAST   bool
)

var evalCmd = &cobra.Command{
	Use:   "eval <formula>",
	Short: "Evaluate a single formula",
	Long: `Evaluate a formula against cells given with --set. The formula is
evaluated as if stored at --at, so references back to that cell are
reported as circular.

Examples:
  gridcalc eval "=1+2*3"
  gridcalc eval "=A1/B1" --set A1=10 --set B1=4
  gridcalc eval --ast "=-(A1+2)*3"`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().StringArrayVarP(&evalCells, "set", "s", nil, "cell input as ID=TEXT, repeatable")
	evalCmd.Flags().StringVar(&evalAt, "at", "", "cell the formula is evaluated at")
	evalCmd.Flags().BoolVar(&showAST, "ast", false, "print the parsed expression instead of its value")
}

// parseAssignments splits ID=TEXT pairs. TEXT may itself contain '='.
func parseAssignments(pairs []string) (map[string]string, error) {
	cells := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		id, text, ok := strings.Cut(pair, "=")
		if !ok || id == "" {
			return nil, fmt.Errorf("invalid --set %q, want ID=TEXT", pair)
		}
		cells[id] = text
	}
	return cells, nil
}

func runEval(cmd *cobra.Command, args []string) error {
	formula := args[0]
	if !strings.HasPrefix(formula, spreadsheet.FormulaPrefix) {
		formula = spreadsheet.FormulaPrefix + formula
	}
	out := cmd.OutOrStdout()

	if showAST {
		pf := spreadsheet.ParseFormula(formula)
		if pf.Err != nil {
			return fmt.Errorf("failed to parse %s: %w", formula, pf.Err)
		}
		fmt.Fprintln(out, pf.AST.ToString())
		return nil
	}

	cells, err := parseAssignments(evalCells)
	if err != nil {
		return err
	}

	printLn := func(line string) { fmt.Fprintln(cmd.ErrOrStderr(), line) }
	sheet, err := spreadsheet.NewRunnableSpreadsheet(printLn, sheetOptions(cmd.ErrOrStderr())...).
		SetBatch(cells).
		Run()
	if err != nil {
		return err
	}

	result, evalErr := spreadsheet.Evaluate(formula, sheet, evalAt)
	fmt.Fprintln(out, spreadsheet.FormatPrimitive(result))
	if evalErr != nil && verbose {
		printLn(evalErr.Error())
	}
	return nil
}
