// Package parser turns Coffee source text into an *ast.Code.
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/strager/coffee/ast"
)

// Position is a location in the source text. Line and Column are 1-based.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Error is a syntax error. Pos is the furthest position the parser reached.
type Error struct {
	Pos    Position
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Reason)
}

// Parse parses a whole program. The returned tree is never shared: parsing
// the same text twice yields two structurally identical trees.
func Parse(text string) (*ast.Code, error) {
	prog, err := grammar.ParseString("", text)
	if err != nil {
		return nil, syntaxError(err)
	}
	return convertProgram(prog)
}

// IsIncomplete reports whether err is a syntax error at the end of text,
// meaning more input could still make it a valid program.
func IsIncomplete(text string, err error) bool {
	var perr *Error
	if !errors.As(err, &perr) {
		return false
	}
	return perr.Pos.Offset >= len(strings.TrimRight(text, " \t\r\n"))
}

func syntaxError(err error) *Error {
	var perr participle.Error
	if errors.As(err, &perr) {
		return &Error{Pos: position(perr.Position()), Reason: perr.Message()}
	}
	return &Error{Reason: err.Error()}
}

func position(pos lexer.Position) Position {
	return Position{Offset: pos.Offset, Line: pos.Line, Column: pos.Column}
}

func convertProgram(prog *program) (*ast.Code, error) {
	code := &ast.Code{Statements: make([]ast.Node, 0, len(prog.Statements))}
	for _, stmt := range prog.Statements {
		node, err := convertStatement(stmt)
		if err != nil {
			return nil, err
		}
		code.Statements = append(code.Statements, node)
	}
	return code, nil
}

func convertStatement(stmt *statement) (ast.Node, error) {
	switch {
	case stmt.Print != nil:
		value, err := convertAddition(stmt.Print.Value)
		if err != nil {
			return nil, err
		}
		return &ast.Print{Value: value}, nil
	case stmt.Assign != nil:
		value, err := convertAddition(stmt.Assign.Value)
		if err != nil {
			return nil, err
		}
		return &ast.Assign{Name: stmt.Assign.Name, Value: value}, nil
	default:
		return convertAddition(stmt.Expr)
	}
}

// Chains fold left to right: 1-2-3 is (1-2)-3.
func convertAddition(add *addition) (ast.Node, error) {
	left, err := convertMultiplication(add.Head)
	if err != nil {
		return nil, err
	}
	for _, term := range add.Tail {
		right, err := convertMultiplication(term.Operand)
		if err != nil {
			return nil, err
		}
		left = binOp(term.Op, left, right)
	}
	return left, nil
}

func convertMultiplication(mul *multiplication) (ast.Node, error) {
	left, err := convertPrimary(mul.Head)
	if err != nil {
		return nil, err
	}
	for _, factor := range mul.Tail {
		right, err := convertPrimary(factor.Operand)
		if err != nil {
			return nil, err
		}
		left = binOp(factor.Op, left, right)
	}
	return left, nil
}

func binOp(symbol string, left, right ast.Node) ast.Node {
	op, ok := ast.LookupOp(symbol)
	if !ok {
		// The grammar only captures the five operator spellings.
		panic("parser: unexpected operator " + strconv.Quote(symbol))
	}
	return &ast.BinOp{Op: op, Left: left, Right: right}
}

func convertPrimary(p *primary) (ast.Node, error) {
	switch {
	case p.Number != nil:
		return number(p.Pos, *p.Number)
	case p.Sub != nil:
		return convertAddition(p.Sub)
	case p.Negated != nil:
		if p.Negated.Number != nil {
			return number(p.Pos, "-"+*p.Negated.Number)
		}
		operand, err := convertPrimary(p.Negated)
		if err != nil {
			return nil, err
		}
		if n, ok := operand.(*ast.Number); ok {
			if n.Value == -n.Value && n.Value != 0 {
				return nil, &Error{Pos: position(p.Pos), Reason: "integer literal out of range"}
			}
			return &ast.Number{Value: -n.Value}, nil
		}
		return &ast.BinOp{Op: ast.OpSub, Left: &ast.Number{Value: 0}, Right: operand}, nil
	case p.Function != nil:
		return convertFunction(p.Function)
	default:
		return &ast.Load{Name: *p.Load}, nil
	}
}

func number(pos lexer.Position, text string) (ast.Node, error) {
	value, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, &Error{Pos: position(pos), Reason: fmt.Sprintf("integer literal %s out of range", text)}
	}
	return &ast.Number{Value: value}, nil
}

func convertFunction(fn *function) (ast.Node, error) {
	seen := make(map[string]bool, len(fn.Params))
	for _, param := range fn.Params {
		if seen[param] {
			return nil, &Error{Pos: position(fn.Pos), Reason: fmt.Sprintf("duplicate parameter %q", param)}
		}
		seen[param] = true
	}
	body, err := convertAddition(fn.Body)
	if err != nil {
		return nil, err
	}
	return &ast.Function{Params: fn.Params, Body: body}, nil
}
