package spreadsheet

import "strings"

// BinaryOp represents binary operators in AST nodes
type BinaryOp int

const (
	BinOpAdd BinaryOp = iota
	BinOpSubtract
	BinOpMultiply
	BinOpDivide
)

func (op BinaryOp) String() string {
	switch op {
	case BinOpAdd:
		return "+"
	case BinOpSubtract:
		return "-"
	case BinOpMultiply:
		return "*"
	case BinOpDivide:
		return "/"
	}
	return "?"
}

// UnaryOp represents unary operators in AST nodes
type UnaryOp int

const (
	UnaryOpPlus UnaryOp = iota
	UnaryOpMinus
)

func (op UnaryOp) String() string {
	if op == UnaryOpMinus {
		return "-"
	}
	return "+"
}

// character classification constants. slightly easier to read.
const (
	charTab      = '\t'
	charNewline  = '\n'
	charReturn   = '\r'
	charSpace    = ' '
	charLParen   = '('
	charRParen   = ')'
	charAsterisk = '*'
	charPlus     = '+'
	charMinus    = '-'
	charSlash    = '/'
)

func isOperatorChar(ch rune) bool {
	switch ch {
	case charPlus, charMinus, charAsterisk, charSlash, charLParen, charRParen:
		return true
	}
	return false
}

func isWhitespace(ch rune) bool {
	return ch == charSpace || ch == charTab || ch == charNewline || ch == charReturn
}

// Tokenize splits an expression body (formula text without the prefix) into
// operator, parenthesis and operand tokens. whitespace only separates
// operands. well-formedness is left to the parser.
func Tokenize(expression string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, ch := range expression {
		switch {
		case isOperatorChar(ch):
			flush()
			tokens = append(tokens, string(ch))
		case isWhitespace(ch):
			flush()
		default:
			current.WriteRune(ch)
		}
	}
	flush()

	return tokens
}

// IsCellReference reports whether a whole token is reference shaped:
// uppercase letters followed by digits
func IsCellReference(token string) bool {
	i := 0
	for i < len(token) && isUpper(token[i]) {
		i++
	}
	if i == 0 || i == len(token) {
		return false
	}
	for ; i < len(token); i++ {
		if !isDigit(token[i]) {
			return false
		}
	}
	return true
}

// ExtractReferences returns every reference-shaped substring of an
// expression in order of appearance, duplicates included. a run of
// uppercase letters immediately followed by digits is a reference, so
// "XA1" yields "XA1" and "a1B2" yields "B2".
func ExtractReferences(expression string) []string {
	var refs []string
	for i := 0; i < len(expression); {
		if !isUpper(expression[i]) {
			i++
			continue
		}
		start := i
		for i < len(expression) && isUpper(expression[i]) {
			i++
		}
		digits := i
		for i < len(expression) && isDigit(expression[i]) {
			i++
		}
		if i > digits {
			refs = append(refs, expression[start:i])
		}
	}
	return refs
}
