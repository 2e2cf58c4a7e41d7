// Package interp evaluates a Coffee syntax tree directly.
package interp

import (
	"fmt"
	"io"
	"os"

	"github.com/strager/coffee/ast"
)

// Interpreter walks a tree and computes its value. Assignments persist
// across calls to Evaluate, which is what the REPL relies on.
type Interpreter struct {
	out   io.Writer
	scope map[string]Value
}

// New returns an Interpreter that prints to out, or to os.Stdout if out is nil.
func New(out io.Writer) *Interpreter {
	if out == nil {
		out = os.Stdout
	}
	return &Interpreter{out: out, scope: make(map[string]Value)}
}

// Evaluate returns the value of n. A program whose last statement is a
// print has no value and evaluates to nil.
func (in *Interpreter) Evaluate(n ast.Node) (Value, error) {
	return ast.Visit[Value](in, n)
}

// Apply calls f with args bound positionally to its parameters. The body
// sees only its parameters.
func (in *Interpreter) Apply(f *Func, args ...Value) (Value, error) {
	if len(args) != len(f.Params) {
		return nil, &ArityError{Want: len(f.Params), Got: len(args)}
	}
	scope := make(map[string]Value, len(args))
	for i, param := range f.Params {
		scope[param] = args[i]
	}
	callee := &Interpreter{out: in.out, scope: scope}
	return callee.Evaluate(f.Body)
}

// Lookup returns the current binding of name.
func (in *Interpreter) Lookup(name string) (Value, bool) {
	v, ok := in.scope[name]
	return v, ok
}

func (in *Interpreter) VisitCode(n *ast.Code) (Value, error) {
	var last Value
	for _, stmt := range n.Statements {
		v, err := in.Evaluate(stmt)
		if err != nil {
			return nil, err
		}
		last = v
	}
	return last, nil
}

func (in *Interpreter) VisitPrint(n *ast.Print) (Value, error) {
	v, err := in.integer("print", n.Value)
	if err != nil {
		return nil, err
	}
	if _, err := fmt.Fprintf(in.out, "%d\n", v); err != nil {
		return nil, err
	}
	return nil, nil
}

func (in *Interpreter) VisitAssign(n *ast.Assign) (Value, error) {
	v, err := in.Evaluate(n.Value)
	if err != nil {
		return nil, err
	}
	in.scope[n.Name] = v
	return v, nil
}

func (in *Interpreter) VisitLoad(n *ast.Load) (Value, error) {
	v, ok := in.scope[n.Name]
	if !ok {
		return nil, &ast.UndefinedVariableError{Name: n.Name}
	}
	return v, nil
}

func (in *Interpreter) VisitBinOp(n *ast.BinOp) (Value, error) {
	left, err := in.integer(n.Op.Symbol(), n.Left)
	if err != nil {
		return nil, err
	}
	right, err := in.integer(n.Op.Symbol(), n.Right)
	if err != nil {
		return nil, err
	}
	return arithmetic(n.Op, left, right)
}

func (in *Interpreter) VisitNumber(n *ast.Number) (Value, error) {
	return Int(n.Value), nil
}

func (in *Interpreter) VisitFunction(n *ast.Function) (Value, error) {
	return &Func{Params: n.Params, Body: n.Body}, nil
}

func (in *Interpreter) integer(op string, n ast.Node) (Int, error) {
	v, err := in.Evaluate(n)
	if err != nil {
		return 0, err
	}
	i, ok := v.(Int)
	if !ok {
		return 0, &TypeError{Op: op, Value: v}
	}
	return i, nil
}

// Go's / and % truncate toward zero, and the remainder takes the sign of
// the dividend, which is what the compiled sdiv and srem produce.
func arithmetic(op ast.Op, left, right Int) (Value, error) {
	switch op {
	case ast.OpAdd:
		return left + right, nil
	case ast.OpSub:
		return left - right, nil
	case ast.OpMul:
		return left * right, nil
	case ast.OpDiv:
		if right == 0 {
			return nil, ErrDivisionByZero
		}
		return left / right, nil
	case ast.OpMod:
		if right == 0 {
			return nil, ErrDivisionByZero
		}
		return left % right, nil
	default:
		return nil, fmt.Errorf("unknown operator %v", op)
	}
}
