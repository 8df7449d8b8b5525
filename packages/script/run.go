package script

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/vogtb/go-gridcalc/packages/spreadsheet"
)

// Run applies every statement to sheet in order, writing show and dump
// output to w. it stops at the first failing statement.
func (s *Script) Run(sheet *spreadsheet.Sheet, w io.Writer) error {
	for _, statement := range s.Statements {
		if err := statement.Run(sheet, w); err != nil {
			return fmt.Errorf("%s: %w", statement.Pos, err)
		}
	}
	return nil
}

// Run applies a single statement
func (st *Statement) Run(sheet *spreadsheet.Sheet, w io.Writer) error {
	switch {
	case st.Set != nil:
		return sheet.ApplyEdit(st.Set.Cell, st.Set.Value)
	case st.Clear != nil:
		return sheet.Remove(st.Clear.Cell)
	case st.Show != nil:
		return show(sheet, st.Show, w)
	case st.Dump:
		return Dump(sheet, w)
	}
	return fmt.Errorf("empty statement")
}

func show(sheet *spreadsheet.Sheet, st *ShowStatement, w io.Writer) error {
	ids := []string{st.From}
	if st.IsRange() {
		var err error
		if ids, err = spreadsheet.CellsInRange(st.From, st.To); err != nil {
			return err
		}
	}
	for _, id := range ids {
		cellID, err := spreadsheet.Canonical(id)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\n", cellID, sheet.Display(cellID)); err != nil {
			return err
		}
	}
	return nil
}

// Dump writes every stored cell as an aligned table, rows outer
func Dump(sheet *spreadsheet.Sheet, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CELL\tKIND\tINPUT\tVALUE")
	for id, cell := range sheet.Cells() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", id, cell.Kind, cell.EditText(), cell.DisplayText())
	}
	return tw.Flush()
}
