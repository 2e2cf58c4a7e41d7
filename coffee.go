// Package coffee compiles and interprets Coffee, a small expression
// language with integer arithmetic, variables, print and function literals.
//
// Source text is parsed into an ast.Code tree. The tree is either evaluated
// directly by the interp package or lowered to LLVM IR by the codegen
// package and run natively.
package coffee

import (
	"fmt"
	"io"

	"github.com/strager/coffee/ast"
	"github.com/strager/coffee/codegen"
	"github.com/strager/coffee/interp"
	"github.com/strager/coffee/parser"
)

type (
	ParserError             = parser.Error
	NonTerminatedBlockError = codegen.NonTerminatedBlockError
	UnknownOperatorError    = codegen.UnknownOperatorError
	UndefinedVariableError  = ast.UndefinedVariableError
)

type options struct {
	test     bool
	out      io.Writer
	trace    io.Writer
	codegen  []codegen.Option
	optimize bool
}

type Option func(*options)

// WithTestMode makes compiled programs return the value of their last
// statement instead of 0.
func WithTestMode() Option {
	return func(o *options) { o.test = true }
}

// WithOutput sets where interpreted print statements write. The default is
// os.Stdout. Compiled programs always print to the process's stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithTrace writes a line for each compilation phase to w.
func WithTrace(w io.Writer) Option {
	return func(o *options) { o.trace = w }
}

// WithCodegen passes options through to codegen.New.
func WithCodegen(opts ...codegen.Option) Option {
	return func(o *options) { o.codegen = append(o.codegen, opts...) }
}

// WithoutOptimization makes Run skip the pass pipeline. The module is
// still verified.
func WithoutOptimization() Option {
	return func(o *options) { o.optimize = false }
}

func collect(opts []Option) options {
	o := options{optimize: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o *options) tracef(format string, args ...any) {
	if o.trace != nil {
		fmt.Fprintf(o.trace, format+"\n", args...)
	}
}

// Parse parses source into a program. Syntax errors are *ParserError.
func Parse(source string) (*ast.Code, error) {
	return parser.Parse(source)
}

// Compile parses and lowers source into a fresh module. The caller owns
// the returned Generator and must Dispose it.
func Compile(source string, opts ...Option) (*codegen.Generator, error) {
	o := collect(opts)
	return compile(source, &o)
}

func compile(source string, o *options) (*codegen.Generator, error) {
	code, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}
	o.tracef("parsed %d statements", len(code.Statements))
	o.tracef("AST: %s", ast.ToSExpr(code))

	mode := codegen.ModeProgram
	if o.test {
		mode = codegen.ModeTest
	}
	g := codegen.New(o.codegen...)
	if err := codegen.Lower(g, code, mode); err != nil {
		g.Dispose()
		return nil, err
	}
	if err := ensureTerminated(g); err != nil {
		g.Dispose()
		return nil, err
	}
	o.tracef("lowered module")
	return g, nil
}

// ensureTerminated catches a lowering defect: Lower always ends main with a
// return, so a well-formed pipeline never fails here.
func ensureTerminated(g *codegen.Generator) error {
	if !g.IsTerminated() {
		return &NonTerminatedBlockError{Function: g.Name()}
	}
	return nil
}

// Interpret parses source and evaluates it without compiling.
func Interpret(source string, opts ...Option) (interp.Value, error) {
	o := collect(opts)
	code, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}
	o.tracef("parsed %d statements", len(code.Statements))
	return interp.New(o.out).Evaluate(code)
}

// Run compiles, optimizes and executes source, returning main's result.
func Run(source string, opts ...Option) (int64, error) {
	o := collect(opts)
	g, err := compile(source, &o)
	if err != nil {
		return 0, err
	}
	defer g.Dispose()

	if o.optimize {
		if err := g.Optimize(); err != nil {
			return 0, fmt.Errorf("optimize: %w", err)
		}
		o.tracef("optimized module")
	}
	result, err := g.Run()
	if err != nil {
		return 0, fmt.Errorf("run: %w", err)
	}
	o.tracef("main returned %d", result)
	return result, nil
}
