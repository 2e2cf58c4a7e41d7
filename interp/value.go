package interp

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/strager/coffee/ast"
)

// Value is the result of evaluating an expression: an Int or a *Func.
type Value interface {
	String() string
	value()
}

// Int is the language's single numeric type.
type Int int64

func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }
func (Int) value() {}

// Func is a function value. It keeps no reference to the scope it was
// created in; Apply binds its parameters in a fresh scope.
type Func struct {
	Params []string
	Body   ast.Node
}

func (f *Func) String() string {
	return "λ " + strings.Join(f.Params, " ") + " -> " + ast.Format(f.Body)
}
func (*Func) value() {}

var ErrDivisionByZero = errors.New("division by zero")

// TypeError reports an operation applied to a value it does not accept.
type TypeError struct {
	Op    string
	Value Value
}

func (e *TypeError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s: expected an integer, got nothing", e.Op)
	}
	return fmt.Sprintf("%s: expected an integer, got %s", e.Op, e.Value)
}

// ArityError reports a function applied to the wrong number of arguments.
type ArityError struct {
	Want int
	Got  int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("function takes %d arguments, got %d", e.Want, e.Got)
}
