package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/c-bata/go-prompt"
	"github.com/spf13/cobra"
	"github.com/vogtb/go-gridcalc/packages/script"
	"github.com/vogtb/go-gridcalc/packages/spreadsheet"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Edit a sheet interactively",
	Long: `Start an interactive shell over an empty sheet. Lines use the edit
script syntax, plus:
  deps A1             list the cells A1 reads and the cells reading A1
  nav A1 down         move from A1 within the grid limits
  exit                leave the shell`,
	Args: cobra.NoArgs,
	RunE: runREPL,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

var replSuggestions = []prompt.Suggest{
	{Text: "set", Description: "store raw text: set A1 \"=B1*2\""},
	{Text: "clear", Description: "remove a cell"},
	{Text: "show", Description: "print a cell or a range: show A1:B3"},
	{Text: "dump", Description: "print every stored cell"},
	{Text: "deps", Description: "list precedents and dependents of a cell"},
	{Text: "nav", Description: "move from a cell: nav A1 up|down|left|right"},
	{Text: "exit", Description: "leave the shell"},
}

// session executes shell lines against one sheet
type session struct {
	sheet  *spreadsheet.Sheet
	parser *script.Parser
	out    io.Writer
}

func newSession(out, stderr io.Writer) (*session, error) {
	parser, err := script.NewParser()
	if err != nil {
		return nil, err
	}
	return &session{
		sheet:  spreadsheet.NewSheet(sheetOptions(stderr)...),
		parser: parser,
		out:    out,
	}, nil
}

// execute runs one line and reports whether the shell should exit.
// failures are printed, never returned.
func (s *session) execute(line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return false
	}

	fields := strings.Fields(input)
	var err error
	switch fields[0] {
	case "exit", "quit":
		return true
	case "deps":
		err = s.deps(fields[1:])
	case "nav":
		err = s.nav(fields[1:])
	default:
		var parsed *script.Script
		if parsed, err = s.parser.ParseString("repl", input); err == nil {
			err = parsed.Run(s.sheet, s.out)
		}
	}
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
	}
	return false
}

func (s *session) deps(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: deps <cell>")
	}
	precedents, err := s.sheet.Precedents(args[0])
	if err != nil {
		return err
	}
	dependents, err := s.sheet.Dependents(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "reads:   %s\n", strings.Join(precedents, " "))
	fmt.Fprintf(s.out, "read by: %s\n", strings.Join(dependents, " "))
	return nil
}

func (s *session) nav(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: nav <cell> <up|down|left|right>")
	}
	direction, err := spreadsheet.ParseDirection(args[1])
	if err != nil {
		return err
	}
	target, err := s.sheet.Navigate(args[0], direction)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s\t%s\n", target, s.sheet.Display(target))
	return nil
}

func completer(d prompt.Document) []prompt.Suggest {
	// only the command word is completed
	if strings.Contains(d.TextBeforeCursor(), " ") {
		return []prompt.Suggest{}
	}
	return prompt.FilterHasPrefix(replSuggestions, d.GetWordBeforeCursor(), true)
}

func runREPL(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	fmt.Fprintln(s.out, "gridcalc shell. type exit to leave.")
	p := prompt.New(
		func(in string) {
			if s.execute(in) {
				os.Exit(0)
			}
		},
		completer,
		prompt.OptionTitle("gridcalc"),
		prompt.OptionPrefix("gridcalc> "),
	)
	p.Run()
	return nil
}
