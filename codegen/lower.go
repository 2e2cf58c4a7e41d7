package codegen

import (
	"tinygo.org/x/go-llvm"

	"github.com/strager/coffee/ast"
)

// Mode selects what main returns.
type Mode int

const (
	// ModeProgram makes main return 0, like a process exit status.
	ModeProgram Mode = iota
	// ModeTest makes main return the value of the last statement.
	ModeTest
)

// Lower emits root into g's function and terminates it with a return.
func Lower(g *Generator, root *ast.Code, mode Mode) error {
	_, err := ast.Visit[llvm.Value](&lowerer{g: g, mode: mode}, root)
	return err
}

type lowerer struct {
	g       *Generator
	mode    Mode
	printed bool
}

func (l *lowerer) lower(n ast.Node) (llvm.Value, error) {
	return ast.Visit[llvm.Value](l, n)
}

func (l *lowerer) VisitCode(n *ast.Code) (llvm.Value, error) {
	l.g.Preamble()
	last := l.g.NewNumber(0)
	for _, stmt := range n.Statements {
		v, err := l.lower(stmt)
		if err != nil {
			return llvm.Value{}, err
		}
		last = v
	}
	if l.printed {
		// stdio buffers are not flushed when the host process exits.
		null := llvm.ConstPointerNull(llvm.PointerType(l.g.unit.ctx.Int8Type(), 0))
		if _, err := l.g.Call("fflush", null); err != nil {
			return llvm.Value{}, err
		}
	}
	if l.mode == ModeProgram {
		last = l.g.NewNumber(0)
	}
	return l.g.Return(last)
}

// print(x) evaluates to printf's result, widened to the native integer.
func (l *lowerer) VisitPrint(n *ast.Print) (llvm.Value, error) {
	v, err := l.lower(n.Value)
	if err != nil {
		return llvm.Value{}, err
	}
	if err := l.g.expectNative("print", v); err != nil {
		return llvm.Value{}, err
	}
	written, err := l.g.Call("printf", l.g.NewString("%lld\n"), v)
	if err != nil {
		return llvm.Value{}, err
	}
	l.printed = true
	return l.g.builder.CreateSExt(written, l.g.unit.native, ""), nil
}

func (l *lowerer) VisitAssign(n *ast.Assign) (llvm.Value, error) {
	v, err := l.lower(n.Value)
	if err != nil {
		return llvm.Value{}, err
	}
	if err := l.g.Assign(n.Name, v); err != nil {
		return llvm.Value{}, err
	}
	return v, nil
}

func (l *lowerer) VisitLoad(n *ast.Load) (llvm.Value, error) {
	return l.g.Load(n.Name)
}

func (l *lowerer) VisitBinOp(n *ast.BinOp) (llvm.Value, error) {
	left, err := l.lower(n.Left)
	if err != nil {
		return llvm.Value{}, err
	}
	right, err := l.lower(n.Right)
	if err != nil {
		return llvm.Value{}, err
	}
	return l.g.BinOp(n.Op, left, right)
}

func (l *lowerer) VisitNumber(n *ast.Number) (llvm.Value, error) {
	return l.g.NewNumber(n.Value), nil
}

// A function literal becomes an anonymous module function; its value is
// the function's address.
func (l *lowerer) VisitFunction(n *ast.Function) (llvm.Value, error) {
	return l.g.Function("", n.Params, func(child *Generator) error {
		body := &lowerer{g: child, mode: l.mode}
		v, err := body.lower(n.Body)
		if err != nil {
			return err
		}
		_, err = child.Return(v)
		return err
	})
}
