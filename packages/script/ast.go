package script

import "github.com/alecthomas/participle/v2/lexer"

// Script is a parsed edit script, one statement per command
type Script struct {
	Statements []*Statement `@@*`
}

// Statement is a single command. exactly one field is set.
type Statement struct {
	Pos lexer.Position

	Set   *SetStatement   `  "set" @@`
	Clear *ClearStatement `| "clear" @@`
	Show  *ShowStatement  `| "show" @@`
	Dump  bool            `| @"dump"`
}

// SetStatement stores raw text in a cell
// Example: set B1 "=A1*2"
type SetStatement struct {
	Cell  string `@Cell`
	Value string `@( String | Number )`
}

// ClearStatement removes a cell
type ClearStatement struct {
	Cell string `@Cell`
}

// ShowStatement prints one cell, or an inclusive rectangle when To is set
// Example: show A1:B3
type ShowStatement struct {
	From string `@Cell`
	To   string `( Colon @Cell )?`
}

// IsRange reports whether the statement names a rectangle
func (s *ShowStatement) IsRange() bool {
	return s.To != ""
}
