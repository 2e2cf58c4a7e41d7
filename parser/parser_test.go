package parser

import (
	"errors"
	"reflect"
	"testing"

	"github.com/nalgeon/be"

	"github.com/strager/coffee/ast"
)

func TestParseAccepts(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input    string
		expected string
	}{
		{"1", "(code 1)"},
		{"1+1", `(code (binary "+" 1 1))`},
		{"1 + 2 * 2", `(code (binary "+" 1 (binary "*" 2 2)))`},
		{"(1 + 2) * 2", `(code (binary "*" (binary "+" 1 2) 2))`},
		{"1-2-3", `(code (binary "-" (binary "-" 1 2) 3))`},
		{"10*8/4%15", `(code (binary "%" (binary "/" (binary "*" 10 8) 4) 15))`},
		{"2 + (-3) * 2", `(code (binary "+" 2 (binary "*" -3 2)))`},
		{"-(-3)", "(code 3)"},
		{"-a", `(code (binary "-" 0 (var "a")))`},
		{"2 - -3", `(code (binary "-" 2 -3))`},
		{"print(2)", "(code (print 2))"},
		{"a = 3; b = 4; a*a/b", `(code (assign "a" 3) (assign "b" 4) (binary "/" (binary "*" (var "a") (var "a")) (var "b")))`},
		{"printed = 1; printed", `(code (assign "printed" 1) (var "printed"))`},
		{"λ x -> x + x", `(code (fun ("x") (binary "+" (var "x") (var "x"))))`},
		{"fun x y -> x * y", `(code (fun ("x" "y") (binary "*" (var "x") (var "y"))))`},
		{"f = fun -> 7", `(code (assign "f" (fun () 7)))`},
		{"( λ x -> x )", `(code (fun ("x") (var "x")))`},
		{"-9223372036854775808", "(code -9223372036854775808)"},
		{" 1 ;\n\t2 ", "(code 1 2)"},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			code, err := Parse(test.input)
			be.Err(t, err, nil)
			be.Equal(t, ast.ToSExpr(code), test.expected)
		})
	}
}

func TestParseRejects(t *testing.T) {
	t.Parallel()
	tests := []string{
		"",
		"1+1+1++1",
		"1+1+1+1+1+1+1+1++1+1+1+1+1+1+1+1+1+1",
		"1 2",
		"1;",
		"*2",
		"(1 + 2",
		"print 1",
		"print",
		"fun = 3",
		"a = ",
		"λ x x -> x",
		"9223372036854775808",
		"--9223372036854775808",
		"1 $ 2",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			code, err := Parse(input)
			be.True(t, code == nil)
			var perr *Error
			be.True(t, errors.As(err, &perr))
			be.True(t, perr.Reason != "")
		})
	}
}

func TestParseErrorReportsFurthestPosition(t *testing.T) {
	t.Parallel()
	_, err := Parse("1+1+1++1")

	var perr *Error
	be.True(t, errors.As(err, &perr))
	be.Equal(t, perr.Pos.Line, 1)
	be.True(t, perr.Pos.Column >= 6)
	be.Err(t, err, "1:")
}

func TestParseErrorOnLaterLine(t *testing.T) {
	t.Parallel()
	_, err := Parse("a = 1;\nb = a +;")

	var perr *Error
	be.True(t, errors.As(err, &perr))
	be.Equal(t, perr.Pos.Line, 2)
}

func TestParseIsDeterministic(t *testing.T) {
	t.Parallel()
	source := "a = 2 * (3 + 4); print(a % 5); λ x y -> x / y"

	first, err := Parse(source)
	be.Err(t, err, nil)
	second, err := Parse(source)
	be.Err(t, err, nil)

	be.True(t, reflect.DeepEqual(first, second))
	be.Equal(t, ast.ToSExpr(first), ast.ToSExpr(second))
	be.True(t, first != second)
}

func TestParseOperatorsAreClosedSet(t *testing.T) {
	t.Parallel()
	code, err := Parse("1+2-3*4/5%6")
	be.Err(t, err, nil)

	var ops []ast.Op
	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		if b, ok := n.(*ast.BinOp); ok {
			walk(b.Left)
			ops = append(ops, b.Op)
			walk(b.Right)
		}
	}
	walk(code.Statements[0])

	be.Equal(t, ops, []ast.Op{ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod})
}

func TestIsIncomplete(t *testing.T) {
	t.Parallel()
	for _, source := range []string{"1 +", "(1 + 2", "print(", "a = 1;\n"} {
		_, err := Parse(source)
		be.True(t, IsIncomplete(source, err))
	}
	for _, source := range []string{"1 2", "print 1", "1 $ 2"} {
		_, err := Parse(source)
		be.True(t, !IsIncomplete(source, err))
	}
	be.True(t, !IsIncomplete("1", nil))
}
