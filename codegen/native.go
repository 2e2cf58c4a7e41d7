package codegen

import (
	"fmt"
	"sync"

	"tinygo.org/x/go-llvm"
)

// externalNames lists the libc functions the preamble declares. Call also
// knows fflush.
var externalNames = []string{"printf", "puts", "read", "exit"}

func (u *unit) externalType(name string) (llvm.Type, bool) {
	i32 := u.ctx.Int32Type()
	str := llvm.PointerType(u.ctx.Int8Type(), 0)
	switch name {
	case "printf":
		return llvm.FunctionType(i32, []llvm.Type{str}, true), true
	case "puts":
		return llvm.FunctionType(i32, []llvm.Type{str}, false), true
	case "read":
		return llvm.FunctionType(i32, []llvm.Type{i32, str, i32}, false), true
	case "exit":
		return llvm.FunctionType(i32, []llvm.Type{i32}, false), true
	case "fflush":
		return llvm.FunctionType(i32, []llvm.Type{str}, false), true
	default:
		return llvm.Type{}, false
	}
}

func (u *unit) declare(name string) llvm.Value {
	if fn := u.mod.NamedFunction(name); !fn.IsNil() {
		return fn
	}
	typ, ok := u.externalType(name)
	if !ok {
		panic(fmt.Sprintf("codegen: %q is not a runtime function", name))
	}
	return llvm.AddFunction(u.mod, name, typ)
}

var (
	nativeOnce sync.Once
	nativeErr  error
)

func initNative() error {
	nativeOnce.Do(func() {
		llvm.LinkInMCJIT()
		if err := llvm.InitializeNativeTarget(); err != nil {
			nativeErr = fmt.Errorf("initialize native target: %w", err)
			return
		}
		if err := llvm.InitializeNativeAsmPrinter(); err != nil {
			nativeErr = fmt.Errorf("initialize native asm printer: %w", err)
		}
	})
	return nativeErr
}

func nativeMachine() (llvm.TargetMachine, error) {
	if err := initNative(); err != nil {
		return llvm.TargetMachine{}, err
	}
	triple := llvm.DefaultTargetTriple()
	target, err := llvm.GetTargetFromTriple(triple)
	if err != nil {
		return llvm.TargetMachine{}, fmt.Errorf("target %s: %w", triple, err)
	}
	tm := target.CreateTargetMachine(triple, "", "", llvm.CodeGenLevelDefault, llvm.RelocDefault, llvm.CodeModelDefault)
	return tm, nil
}

func (g *Generator) verify() error {
	if err := llvm.VerifyModule(g.unit.mod, llvm.ReturnStatusAction); err != nil {
		return fmt.Errorf("verify module: %w", err)
	}
	return nil
}

// Optimize verifies the module and runs the configured pass pipeline over
// it for the host target.
func (g *Generator) Optimize() error {
	if !g.owner {
		return ErrNested
	}
	if g.unit.executing {
		return ErrFinalized
	}
	if err := g.verify(); err != nil {
		return err
	}
	if g.unit.passes == "" {
		return nil
	}

	tm, err := nativeMachine()
	if err != nil {
		return err
	}
	defer tm.Dispose()
	td := tm.CreateTargetData()
	defer td.Dispose()
	g.unit.mod.SetTarget(llvm.DefaultTargetTriple())
	g.unit.mod.SetDataLayout(td.String())

	options := llvm.NewPassBuilderOptions()
	defer options.Dispose()
	if err := g.unit.mod.RunPasses(g.unit.passes, tm, options); err != nil {
		return fmt.Errorf("run passes %q: %w", g.unit.passes, err)
	}
	return nil
}

// Run JIT-compiles the module and calls main, returning its result.
// After the first Run the module can no longer be changed or optimized.
func (g *Generator) Run() (int64, error) {
	if !g.owner {
		return 0, ErrNested
	}
	if !g.unit.executing {
		if !g.IsTerminated() {
			return 0, &NonTerminatedBlockError{Function: g.name}
		}
		if err := g.verify(); err != nil {
			return 0, err
		}
		if err := initNative(); err != nil {
			return 0, err
		}
		engine, err := llvm.NewExecutionEngine(g.unit.mod)
		if err != nil {
			return 0, fmt.Errorf("create execution engine: %w", err)
		}
		g.unit.engine = engine
		g.unit.executing = true
	}

	result := g.unit.engine.RunFunction(g.fn, []llvm.GenericValue{})
	defer result.Dispose()
	return int64(result.Int(true)), nil
}
