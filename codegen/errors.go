package codegen

import (
	"errors"
	"fmt"

	"tinygo.org/x/go-llvm"

	"github.com/strager/coffee/ast"
)

// These errors mean the lowering pipeline produced something the backend
// cannot finish. They are never caused by a syntactically invalid program.
var (
	ErrTerminated = errors.New("block already ends in a return")
	ErrFinalized  = errors.New("module already belongs to the execution engine")
	ErrNested     = errors.New("only the top-level generator can do this")
)

// UnknownOperatorError reports an operator missing from the instruction table.
type UnknownOperatorError struct {
	Op ast.Op
}

func (e *UnknownOperatorError) Error() string {
	return fmt.Sprintf("no instruction for operator %v", e.Op)
}

// NonTerminatedBlockError reports a function whose last instruction is not
// a return.
type NonTerminatedBlockError struct {
	Function string
}

func (e *NonTerminatedBlockError) Error() string {
	return fmt.Sprintf("function %s does not end in a return", e.Function)
}

type ReturnTypeError struct {
	Function string
	Want     string
	Got      string
}

func (e *ReturnTypeError) Error() string {
	return fmt.Sprintf("function %s returns %s, cannot return %s", e.Function, e.Want, e.Got)
}

// TypeError reports an operand that is not of the expected type, for
// example a function value used in arithmetic.
type TypeError struct {
	Op   string
	Want string
	Got  string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Op, e.Want, e.Got)
}

type UndefinedFunctionError struct {
	Name string
}

func (e *UndefinedFunctionError) Error() string {
	return fmt.Sprintf("undefined function %q", e.Name)
}

type RedefinitionError struct {
	Name string
}

func (e *RedefinitionError) Error() string {
	return fmt.Sprintf("function %q is already defined", e.Name)
}

type ArityError struct {
	Name string
	Want int
	Got  int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%s takes %d arguments, got %d", e.Name, e.Want, e.Got)
}

func describe(t llvm.Type) string {
	switch t.TypeKind() {
	case llvm.IntegerTypeKind:
		return fmt.Sprintf("i%d", t.IntTypeWidth())
	case llvm.PointerTypeKind:
		return "ptr"
	case llvm.FunctionTypeKind:
		return "function"
	case llvm.VoidTypeKind:
		return "void"
	default:
		return "unknown type"
	}
}
