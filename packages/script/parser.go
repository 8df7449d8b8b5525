package script

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/participle/v2"
)

// Parser parses edit scripts
type Parser struct {
	parser *participle.Parser[Script]
}

// NewParser creates a new edit script parser
func NewParser() (*Parser, error) {
	parser, err := participle.Build[Script](
		participle.Lexer(ScriptLexer),
		participle.Elide("Comment", "Whitespace"),
		participle.Unquote("String"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}

	return &Parser{parser: parser}, nil
}

// Parse parses a script from a reader. name is used in error positions.
func (p *Parser) Parse(name string, r io.Reader) (*Script, error) {
	script, err := p.parser.Parse(name, r)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return script, nil
}

// ParseString parses a script from a string
func (p *Parser) ParseString(name, input string) (*Script, error) {
	script, err := p.parser.ParseString(name, input)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return script, nil
}

// ParseFile parses a script from a file path
func (p *Parser) ParseFile(filename string) (*Script, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return p.Parse(filename, file)
}
