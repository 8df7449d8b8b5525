package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/vogtb/go-gridcalc/packages/spreadsheet"
)

var (
	// Global flags
	verbose bool
	maxRows uint32
	maxCols uint32
)

var rootCmd = &cobra.Command{
	Use:   "gridcalc",
	Short: "gridcalc - spreadsheet formula evaluation from the command line",
	Long: `gridcalc evaluates spreadsheet cells holding text, numbers and
arithmetic formulas, keeping every dependent formula up to date.

Examples:
  gridcalc run budget.grid                 # Apply an edit script
  gridcalc eval "=A1*2" --set A1=21        # Evaluate one formula
  gridcalc eval --ast "=-(A1+2)*3"         # Show the parsed expression
  gridcalc repl                            # Interactive shell`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log engine activity to stderr")
	rootCmd.PersistentFlags().Uint32Var(&maxRows, "max-rows", spreadsheet.DefaultMaxRows, "grid height used for navigation")
	rootCmd.PersistentFlags().Uint32Var(&maxCols, "max-cols", spreadsheet.DefaultMaxCols, "grid width used for navigation")
}

// newLogger returns a text logger on w, debug level when verbose is set
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func sheetOptions(stderr io.Writer) []spreadsheet.Option {
	return []spreadsheet.Option{
		spreadsheet.WithLimits(spreadsheet.Limits{MaxRows: maxRows, MaxCols: maxCols}),
		spreadsheet.WithLogger(newLogger(stderr)),
	}
}
