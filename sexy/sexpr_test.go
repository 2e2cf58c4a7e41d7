package sexy

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestParseSymbol(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"hello", "hello"},
		{"test_var", "test_var"},
		{"func-name", "func-name"},
		{"x", "x"},
		{"λ", "λ"},
		{"-", "-"},
		{"+", "+"},
	}

	for _, test := range tests {
		result, err := Parse(test.input)
		be.Err(t, err, nil)

		be.Equal(t, result.Type, NodeSymbol)
		be.Equal(t, result.Text, test.expected)
		be.Equal(t, result.String(), test.expected)
	}
}

func TestParseString(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		output   string
	}{
		{`"hello"`, "hello", `"hello"`},
		{`"hello world"`, "hello world", `"hello world"`},
		{`""`, "", `""`},
		{`"test\"quote"`, `test"quote`, `"test\"quote"`},
		{`"test\\backslash"`, `test\backslash`, `"test\\backslash"`},
		{`"%"`, "%", `"%"`},
	}

	for _, test := range tests {
		result, err := Parse(test.input)
		be.Err(t, err, nil)

		be.Equal(t, result.Type, NodeString)
		be.Equal(t, result.Text, test.expected)
		be.Equal(t, result.String(), test.output)
	}
}

func TestParseInteger(t *testing.T) {
	for _, input := range []string{"42", "0", "-123", "+456", "-9223372036854775808"} {
		result, err := Parse(input)
		be.Err(t, err, nil)

		be.Equal(t, result.Type, NodeInteger)
		be.Equal(t, result.Text, input)
		be.Equal(t, result.String(), input)
	}
}

func TestParseEllipsis(t *testing.T) {
	result, err := Parse("...")
	be.Err(t, err, nil)

	be.Equal(t, result.Type, NodeEllipsis)
	be.Equal(t, result.String(), "...")
}

func TestParseList(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		length   int
	}{
		{"()", "()", 0},
		{"(1)", "(1)", 1},
		{`(binary "+" 1 2)`, `(binary "+" 1 2)`, 4},
		{"(code\n  (assign \"a\" 3)\n  (var \"a\"))", `(code (assign "a" 3) (var "a"))`, 3},
		{`(fun ("x" "y") ...)`, `(fun ("x" "y") ...)`, 3},
	}

	for _, test := range tests {
		result, err := Parse(test.input)
		be.Err(t, err, nil)

		be.Equal(t, result.Type, NodeList)
		be.Equal(t, len(result.Items), test.length)
		be.Equal(t, result.String(), test.expected)
	}
}

func TestParseComments(t *testing.T) {
	result, err := Parse("; leading comment\n(print ; inline\n 1)")
	be.Err(t, err, nil)
	be.Equal(t, result.String(), "(print 1)")
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"(a . b)", "unexpected character '.'"},
		{"(a $ b)", "unexpected character '$'"},
		{`"open`, "unterminated string"},
		{`"bad\q"`, "invalid escape sequence"},
	}

	for _, test := range tests {
		_, err := Parse(test.input)
		be.Err(t, err, test.expected)
	}
}

func TestParserErrors(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "unexpected token: EOF"},
		{"(1 2", "expected ')' but got EOF"},
		{")", "unexpected token: ')'"},
		{"1 2", "expected EOF but got integer"},
	}

	for _, test := range tests {
		_, err := Parse(test.input)
		be.Err(t, err, test.expected)
	}
}

func TestNodeTypeHelpers(t *testing.T) {
	be.True(t, NewSymbol("a").IsAtom())
	be.True(t, NewString("a").IsAtom())
	be.True(t, NewInteger("1").IsAtom())
	be.True(t, NewEllipsis().IsAtom())
	be.True(t, !NewList(nil).IsAtom())
	be.Equal(t, NodeList.String(), "list")
}

func mustParse(t *testing.T, input string) *Node {
	t.Helper()
	n, err := Parse(input)
	be.Err(t, err, nil)
	return n
}

func TestMatch(t *testing.T) {
	tests := []struct {
		pattern string
		actual  string
	}{
		{"1", "1"},
		{`(binary "+" 1 2)`, `(binary "+" 1 2)`},
		{"...", `(binary "+" 1 2)`},
		{`(binary "+" ...)`, `(binary "+" 1 2)`},
		{`(code (assign "a" ...) ...)`, `(code (assign "a" 3) (var "a"))`},
		{`(code ...)`, `(code)`},
		{`(binary ... 1 2)`, `(binary "-" 1 2)`},
	}

	for _, test := range tests {
		t.Run(test.pattern, func(t *testing.T) {
			be.Err(t, Match(mustParse(t, test.pattern), mustParse(t, test.actual)), nil)
		})
	}
}

func TestMatchFailures(t *testing.T) {
	tests := []struct {
		pattern  string
		actual   string
		expected string
	}{
		{"1", "2", "at root: expected 1, got 2"},
		{`"1"`, "1", "at root: expected string"},
		{`(binary "+" 1 2)`, `(binary "-" 1 2)`, `at root[1]: expected "+", got "-"`},
		{`(code 1)`, `(code 1 2)`, "at root: expected 2 items, got 3"},
		{`(code 1 2)`, `(code 1)`, "at root: expected 3 items, got 2"},
		{`(code (print 1))`, `(code (print 2))`, "at root[1][1]"},
	}

	for _, test := range tests {
		t.Run(test.pattern, func(t *testing.T) {
			err := Match(mustParse(t, test.pattern), mustParse(t, test.actual))
			be.Err(t, err, test.expected)
		})
	}
}
