package ast

import "fmt"

// Visitor computes a T for every kind of node. Adding a node kind adds a
// method here, so every consumer must handle it before the tree compiles.
type Visitor[T any] interface {
	VisitCode(*Code) (T, error)
	VisitPrint(*Print) (T, error)
	VisitAssign(*Assign) (T, error)
	VisitLoad(*Load) (T, error)
	VisitBinOp(*BinOp) (T, error)
	VisitNumber(*Number) (T, error)
	VisitFunction(*Function) (T, error)
}

// Visit dispatches n to the matching method of v.
func Visit[T any](v Visitor[T], n Node) (T, error) {
	switch n := n.(type) {
	case *Code:
		return v.VisitCode(n)
	case *Print:
		return v.VisitPrint(n)
	case *Assign:
		return v.VisitAssign(n)
	case *Load:
		return v.VisitLoad(n)
	case *BinOp:
		return v.VisitBinOp(n)
	case *Number:
		return v.VisitNumber(n)
	case *Function:
		return v.VisitFunction(n)
	default:
		// Node is sealed; only a nil node can get here.
		panic(fmt.Sprintf("ast: cannot visit %T", n))
	}
}

// UndefinedVariableError reports a read of a name that was never assigned
// in the current scope.
type UndefinedVariableError struct {
	Name string
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("undefined variable %q", e.Name)
}
