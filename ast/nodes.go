// Package ast defines the Coffee syntax tree.
//
// The node set is closed: Node can only be implemented inside this package,
// and every consumer walks the tree through a Visitor, which has one method
// per node kind. Nodes are never mutated after the parser builds them.
package ast

import "fmt"

// Node is any node of the syntax tree.
type Node interface {
	node()
}

// Op is a binary arithmetic operator.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpMod
)

// Ops lists every operator, in declaration order.
var Ops = []Op{OpAdd, OpSub, OpMul, OpDiv, OpMod}

// Symbol returns the source spelling of the operator.
func (op Op) Symbol() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	default:
		return fmt.Sprintf("Op(%d)", int(op))
	}
}

func (op Op) String() string {
	switch op {
	case OpAdd:
		return "Addition"
	case OpSub:
		return "Subtraction"
	case OpMul:
		return "Multiplication"
	case OpDiv:
		return "Division"
	case OpMod:
		return "Modulo"
	default:
		return fmt.Sprintf("Op(%d)", int(op))
	}
}

// LookupOp maps a source spelling to its operator.
func LookupOp(symbol string) (Op, bool) {
	for _, op := range Ops {
		if op.Symbol() == symbol {
			return op, true
		}
	}
	return 0, false
}

// Code is the root of a program. Statements is never empty.
type Code struct {
	Statements []Node
}

// Print writes the decimal value of Value followed by a newline.
type Print struct {
	Value Node
}

// Assign binds the value of Value to Name in the current scope.
type Assign struct {
	Name  string
	Value Node
}

// Load reads a variable.
type Load struct {
	Name string
}

type BinOp struct {
	Op    Op
	Left  Node
	Right Node
}

// Number is an integer literal. A minus sign written directly in front of
// a literal is part of the literal.
type Number struct {
	Value int64
}

// Function is an anonymous function literal with positional parameters and
// a single expression body. It captures nothing from the enclosing scope.
type Function struct {
	Params []string
	Body   Node
}

func (*Code) node()     {}
func (*Print) node()    {}
func (*Assign) node()   {}
func (*Load) node()     {}
func (*BinOp) node()    {}
func (*Number) node()   {}
func (*Function) node() {}
