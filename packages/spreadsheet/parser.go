package spreadsheet

import (
	"fmt"
	"strings"
)

// NodePosition is the span of tokens a node was parsed from
type NodePosition struct {
	Start int
	End   int
}

// ASTNode is a parsed arithmetic expression. the tree is cached per formula
// text and evaluated against the current sheet on every recalculation.
type ASTNode interface {
	Eval(s *Sheet) (float64, error)
	GetPosition() NodePosition
	ToString() string
}

// Parser parses expression tokens into an AST
type Parser struct {
	tokens []string
	pos    int
}

// NumberNode represents a numeric literal
type NumberNode struct {
	Value    float64
	Position NodePosition
}

func (n *NumberNode) Eval(s *Sheet) (float64, error) {
	return n.Value, nil
}

func (n *NumberNode) GetPosition() NodePosition {
	return n.Position
}

func (n *NumberNode) ToString() string {
	return formatNumber(n.Value)
}

// CellRefNode represents a cell reference. Name is the token as written, ID
// its canonical form or "" when the token is reference shaped but not a
// valid identifier (row 0, out of range).
type CellRefNode struct {
	Name     string
	ID       string
	Position NodePosition
}

func (n *CellRefNode) Eval(s *Sheet) (float64, error) {
	if n.ID == "" {
		return 0, nil
	}
	return ResolveNumeric(n.ID, s), nil
}

func (n *CellRefNode) GetPosition() NodePosition {
	return n.Position
}

func (n *CellRefNode) ToString() string {
	return n.Name
}

// BinaryOpNode represents a binary operation
type BinaryOpNode struct {
	Op       BinaryOp
	Left     ASTNode
	Right    ASTNode
	Position NodePosition
}

func (n *BinaryOpNode) Eval(s *Sheet) (float64, error) {
	left, err := n.Left.Eval(s)
	if err != nil {
		return 0, err
	}
	right, err := n.Right.Eval(s)
	if err != nil {
		return 0, err
	}

	switch n.Op {
	case BinOpAdd:
		return left + right, nil
	case BinOpSubtract:
		return left - right, nil
	case BinOpMultiply:
		return left * right, nil
	case BinOpDivide:
		if right == 0 {
			return 0, NewSpreadsheetError(ErrorCodeDiv0, "division by zero")
		}
		return left / right, nil
	}
	return 0, NewSpreadsheetError(ErrorCodeValue, fmt.Sprintf("unknown operator %d", n.Op))
}

func (n *BinaryOpNode) GetPosition() NodePosition {
	return n.Position
}

func (n *BinaryOpNode) ToString() string {
	return fmt.Sprintf("(%s%s%s)", n.Left.ToString(), n.Op, n.Right.ToString())
}

// UnaryOpNode represents a unary operation
type UnaryOpNode struct {
	Op       UnaryOp
	Operand  ASTNode
	Position NodePosition
}

func (n *UnaryOpNode) Eval(s *Sheet) (float64, error) {
	val, err := n.Operand.Eval(s)
	if err != nil {
		return 0, err
	}
	if n.Op == UnaryOpMinus {
		return -val, nil
	}
	return val, nil
}

func (n *UnaryOpNode) GetPosition() NodePosition {
	return n.Position
}

func (n *UnaryOpNode) ToString() string {
	return fmt.Sprintf("(%s%s)", n.Op, n.Operand.ToString())
}

// NewParser creates a new parser over tokens produced by Tokenize
func NewParser(tokens []string) *Parser {
	return &Parser{tokens: tokens}
}

// ParseExpression tokenizes and parses an expression body
func ParseExpression(expression string) (ASTNode, error) {
	return NewParser(Tokenize(expression)).Parse()
}

// Parse parses the tokens into an AST. errors are always
// *SpreadsheetError with ErrorCodeValue.
func (p *Parser) Parse() (ASTNode, error) {
	if len(p.tokens) == 0 {
		return nil, NewSpreadsheetError(ErrorCodeValue, "empty expression")
	}

	node, err := p.parseAddition()
	if err != nil {
		return nil, err
	}

	if p.pos < len(p.tokens) {
		return nil, p.unexpected()
	}

	return node, nil
}

func (p *Parser) peek() (string, bool) {
	if p.pos >= len(p.tokens) {
		return "", false
	}
	return p.tokens[p.pos], true
}

func (p *Parser) unexpected() error {
	tok, ok := p.peek()
	if !ok {
		return NewSpreadsheetError(ErrorCodeValue, "unexpected end of expression")
	}
	return NewSpreadsheetError(ErrorCodeValue, fmt.Sprintf("unexpected token %q at position %d", tok, p.pos))
}

// parseAddition handles addition and subtraction (lowest precedence)
func (p *Parser) parseAddition() (ASTNode, error) {
	left, err := p.parseMultiplication()
	if err != nil {
		return nil, err
	}

	for {
		tok, ok := p.peek()
		if !ok {
			break
		}

		var op BinaryOp
		switch tok {
		case "+":
			op = BinOpAdd
		case "-":
			op = BinOpSubtract
		default:
			return left, nil
		}

		p.pos++
		right, err := p.parseMultiplication()
		if err != nil {
			return nil, err
		}

		left = &BinaryOpNode{
			Op:       op,
			Left:     left,
			Right:    right,
			Position: NodePosition{Start: left.GetPosition().Start, End: right.GetPosition().End},
		}
	}

	return left, nil
}

// parseMultiplication handles multiplication and division
func (p *Parser) parseMultiplication() (ASTNode, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		tok, ok := p.peek()
		if !ok {
			break
		}

		var op BinaryOp
		switch tok {
		case "*":
			op = BinOpMultiply
		case "/":
			op = BinOpDivide
		default:
			return left, nil
		}

		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		left = &BinaryOpNode{
			Op:       op,
			Left:     left,
			Right:    right,
			Position: NodePosition{Start: left.GetPosition().Start, End: right.GetPosition().End},
		}
	}

	return left, nil
}

// parseUnary handles prefix plus and minus, which may repeat ("--1")
func (p *Parser) parseUnary() (ASTNode, error) {
	tok, ok := p.peek()
	if ok && (tok == "+" || tok == "-") {
		start := p.pos
		p.pos++
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		op := UnaryOpPlus
		if tok == "-" {
			op = UnaryOpMinus
		}
		return &UnaryOpNode{
			Op:       op,
			Operand:  operand,
			Position: NodePosition{Start: start, End: operand.GetPosition().End},
		}, nil
	}

	return p.parsePrimary()
}

// parsePrimary handles numbers, references and parenthesized groups
func (p *Parser) parsePrimary() (ASTNode, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, p.unexpected()
	}
	start := p.pos

	switch {
	case tok == "(":
		p.pos++
		inner, err := p.parseAddition()
		if err != nil {
			return nil, err
		}
		if closing, ok := p.peek(); !ok || closing != ")" {
			return nil, NewSpreadsheetError(ErrorCodeValue, "unmatched parenthesis")
		}
		p.pos++
		return inner, nil

	case IsCellReference(tok):
		p.pos++
		// reference-shaped tokens that do not decode resolve like an absent cell
		id, _ := Canonical(tok)
		return &CellRefNode{
			Name:     tok,
			ID:       id,
			Position: NodePosition{Start: start, End: p.pos},
		}, nil

	case isNumericLiteral(tok):
		num, ok := parseDecimal(tok)
		if !ok {
			return nil, NewSpreadsheetError(ErrorCodeValue, fmt.Sprintf("invalid number %q", tok))
		}
		p.pos++
		return &NumberNode{
			Value:    num,
			Position: NodePosition{Start: start, End: p.pos},
		}, nil
	}

	return nil, p.unexpected()
}

// isNumericLiteral reports decimal literal shapes: digits with an optional
// fraction and exponent. signs never reach here, the tokenizer splits them.
func isNumericLiteral(tok string) bool {
	mantissa, exponent, hasExponent := strings.Cut(strings.ToLower(tok), "e")
	if hasExponent && (exponent == "" || strings.Trim(exponent, "0123456789") != "") {
		return false
	}
	whole, fraction, _ := strings.Cut(mantissa, ".")
	if whole == "" && fraction == "" {
		return false
	}
	return strings.Trim(whole, "0123456789") == "" && strings.Trim(fraction, "0123456789") == ""
}
