// Package codegen lowers a Coffee syntax tree to LLVM IR and runs it.
//
// A Generator builds one function. The top-level Generator builds main and
// owns the LLVM context and module; the Generators created for function
// literals borrow them.
package codegen

import (
	"fmt"
	"io"

	"tinygo.org/x/go-llvm"

	"github.com/strager/coffee/ast"
)

// DefaultPasses is the optimization pipeline run by Optimize.
const DefaultPasses = "default<O2>"

const mainFunction = "main"

// unit is the state shared by every Generator of one compilation.
type unit struct {
	ctx    llvm.Context
	mod    llvm.Module
	native llvm.Type
	passes string

	// anonymous numbers unnamed functions: _f0, _f1, ...
	anonymous int
	strings   map[string]llvm.Value

	engine    llvm.ExecutionEngine
	executing bool
	disposed  bool
}

type slot struct {
	ptr llvm.Value
	typ llvm.Type
}

type Generator struct {
	unit    *unit
	name    string
	fn      llvm.Value
	fnType  llvm.Type
	builder llvm.Builder
	locals  map[string]slot
	owner   bool
}

type config struct {
	moduleName string
	passes     string
}

type Option func(*config)

// WithModuleName names the LLVM module. The default is "coffee".
func WithModuleName(name string) Option {
	return func(c *config) { c.moduleName = name }
}

// WithPasses sets the pass pipeline, in the syntax of opt -passes.
// An empty pipeline makes Optimize only verify the module.
func WithPasses(passes string) Option {
	return func(c *config) { c.passes = passes }
}

// New creates a module with an empty i64 main() and a Generator
// positioned at its entry block. Call Dispose when done.
func New(opts ...Option) *Generator {
	cfg := config{moduleName: "coffee", passes: DefaultPasses}
	for _, opt := range opts {
		opt(&cfg)
	}

	ctx := llvm.NewContext()
	u := &unit{
		ctx:     ctx,
		mod:     ctx.NewModule(cfg.moduleName),
		native:  ctx.Int64Type(),
		passes:  cfg.passes,
		strings: make(map[string]llvm.Value),
	}

	fnType := llvm.FunctionType(u.native, nil, false)
	fn := llvm.AddFunction(u.mod, mainFunction, fnType)
	g := u.generator(mainFunction, fn, fnType)
	g.owner = true
	return g
}

func (u *unit) generator(name string, fn llvm.Value, fnType llvm.Type) *Generator {
	g := &Generator{
		unit:    u,
		name:    name,
		fn:      fn,
		fnType:  fnType,
		builder: u.ctx.NewBuilder(),
		locals:  make(map[string]slot),
	}
	g.builder.SetInsertPointAtEnd(u.ctx.AddBasicBlock(fn, "entry"))
	return g
}

// Name returns the name of the function being built.
func (g *Generator) Name() string {
	return g.name
}

// Preamble declares the runtime functions a program may call. Declaring
// twice is harmless.
func (g *Generator) Preamble() {
	for _, name := range externalNames {
		g.unit.declare(name)
	}
}

// NewString returns a pointer to a NUL-terminated global copy of text.
// Equal strings share one global.
func (g *Generator) NewString(text string) llvm.Value {
	if v, ok := g.unit.strings[text]; ok {
		return v
	}
	v := g.builder.CreateGlobalStringPtr(text, "str")
	g.unit.strings[text] = v
	return v
}

func (g *Generator) NewNumber(value int64) llvm.Value {
	return llvm.ConstInt(g.unit.native, uint64(value), true)
}

var opInstructions = map[ast.Op]llvm.Opcode{
	ast.OpAdd: llvm.Add,
	ast.OpSub: llvm.Sub,
	ast.OpMul: llvm.Mul,
	ast.OpDiv: llvm.SDiv,
	ast.OpMod: llvm.SRem,
}

// DivisionByZeroStatus is the exit status of a compiled program that
// divides by zero.
const DivisionByZeroStatus = 1

const divisionByZeroMessage = "division by zero"

// BinOp emits the instruction for op. Arithmetic wraps on overflow.
func (g *Generator) BinOp(op ast.Op, left, right llvm.Value) (llvm.Value, error) {
	opcode, ok := opInstructions[op]
	if !ok {
		return llvm.Value{}, &UnknownOperatorError{Op: op}
	}
	for _, operand := range []llvm.Value{left, right} {
		if err := g.expectNative(op.Symbol(), operand); err != nil {
			return llvm.Value{}, err
		}
	}
	if opcode == llvm.SDiv || opcode == llvm.SRem {
		return g.division(opcode, left, right)
	}
	return g.builder.CreateBinOp(opcode, left, right, ""), nil
}

// division exits the program when right is zero. A divisor of -1 is
// replaced by 1 so sdiv and srem never overflow; the quotient is then
// negated with wrapping, which gives MinInt64 / -1 == MinInt64.
func (g *Generator) division(opcode llvm.Opcode, left, right llvm.Value) (llvm.Value, error) {
	zero := g.NewNumber(0)
	isZero := g.builder.CreateICmp(llvm.IntEQ, right, zero, "")
	trap := g.unit.ctx.AddBasicBlock(g.fn, "div.zero")
	cont := g.unit.ctx.AddBasicBlock(g.fn, "div.ok")
	g.builder.CreateCondBr(isZero, trap, cont)

	g.builder.SetInsertPointAtEnd(trap)
	if _, err := g.Call("puts", g.NewString(divisionByZeroMessage)); err != nil {
		return llvm.Value{}, err
	}
	status := llvm.ConstInt(g.unit.ctx.Int32Type(), DivisionByZeroStatus, false)
	if _, err := g.Call("exit", status); err != nil {
		return llvm.Value{}, err
	}
	g.builder.CreateUnreachable()

	g.builder.SetInsertPointAtEnd(cont)
	isMinusOne := g.builder.CreateICmp(llvm.IntEQ, right, g.NewNumber(-1), "")
	divisor := g.builder.CreateSelect(isMinusOne, g.NewNumber(1), right, "")
	result := g.builder.CreateBinOp(opcode, left, divisor, "")
	if opcode == llvm.SDiv {
		negated := g.builder.CreateSub(zero, left, "")
		result = g.builder.CreateSelect(isMinusOne, negated, result, "")
	}
	return result, nil
}

// Call calls a function defined in this module, declaring it first if it
// is one of the runtime functions.
func (g *Generator) Call(name string, args ...llvm.Value) (llvm.Value, error) {
	fn := g.unit.mod.NamedFunction(name)
	if fn.IsNil() {
		if _, ok := g.unit.externalType(name); !ok {
			return llvm.Value{}, &UndefinedFunctionError{Name: name}
		}
		fn = g.unit.declare(name)
	}

	fnType := fn.GlobalValueType()
	params := fnType.ParamTypes()
	if len(args) < len(params) || (!fnType.IsFunctionVarArg() && len(args) != len(params)) {
		return llvm.Value{}, &ArityError{Name: name, Want: len(params), Got: len(args)}
	}
	for i, param := range params {
		if args[i].Type() != param {
			return llvm.Value{}, &TypeError{Op: "call " + name, Want: describe(param), Got: describe(args[i].Type())}
		}
	}
	return g.builder.CreateCall(fnType, fn, args, ""), nil
}

// Assign stores value in the slot for name, allocating the slot on first
// use. A slot keeps the type of its first value.
func (g *Generator) Assign(name string, value llvm.Value) error {
	s, ok := g.locals[name]
	if !ok {
		s = slot{ptr: g.builder.CreateAlloca(value.Type(), name), typ: value.Type()}
		g.locals[name] = s
	} else if s.typ != value.Type() {
		return &TypeError{Op: "assign " + name, Want: describe(s.typ), Got: describe(value.Type())}
	}
	g.builder.CreateStore(value, s.ptr)
	return nil
}

// Load reads the current value of name in this function.
func (g *Generator) Load(name string) (llvm.Value, error) {
	s, ok := g.locals[name]
	if !ok {
		return llvm.Value{}, &ast.UndefinedVariableError{Name: name}
	}
	return g.builder.CreateLoad(s.typ, s.ptr, name), nil
}

// Function defines a function taking and returning native integers, one
// parameter per name in params. An empty name picks the next anonymous
// name. body builds the function with a Generator of its own and must
// finish with Return. On error the function is removed from the module;
// its anonymous name is not reused.
func (g *Generator) Function(name string, params []string, body func(*Generator) error) (fnValue llvm.Value, err error) {
	if name == "" {
		// Reserved before body runs, since body may define nested literals.
		name = fmt.Sprintf("_f%d", g.unit.anonymous)
		g.unit.anonymous++
	}
	if !g.unit.mod.NamedFunction(name).IsNil() {
		return llvm.Value{}, &RedefinitionError{Name: name}
	}

	paramTypes := make([]llvm.Type, len(params))
	for i := range params {
		paramTypes[i] = g.unit.native
	}
	fnType := llvm.FunctionType(g.unit.native, paramTypes, false)
	fn := llvm.AddFunction(g.unit.mod, name, fnType)

	child := g.unit.generator(name, fn, fnType)
	defer func() {
		child.builder.Dispose()
		if err != nil {
			fn.EraseFromParentAsFunction()
		}
	}()

	for i, param := range params {
		arg := fn.Param(i)
		arg.SetName(param)
		if err := child.Assign(param, arg); err != nil {
			return llvm.Value{}, err
		}
	}
	if err := body(child); err != nil {
		return llvm.Value{}, err
	}
	if !child.IsTerminated() {
		return llvm.Value{}, &NonTerminatedBlockError{Function: name}
	}
	return fn, nil
}

// Return ends the function with value, which must have the function's
// return type.
func (g *Generator) Return(value llvm.Value) (llvm.Value, error) {
	if g.IsTerminated() {
		return llvm.Value{}, ErrTerminated
	}
	want := g.fnType.ReturnType()
	if value.Type() != want {
		return llvm.Value{}, &ReturnTypeError{Function: g.name, Want: describe(want), Got: describe(value.Type())}
	}
	return g.builder.CreateRet(value), nil
}

// IsTerminated reports whether the function's last instruction is a return.
func (g *Generator) IsTerminated() bool {
	last := g.fn.LastBasicBlock().LastInstruction()
	return !last.IsNil() && last.InstructionOpcode() == llvm.Ret
}

// String returns the module as textual IR.
func (g *Generator) String() string {
	return g.unit.mod.String()
}

// WriteBitcode writes the module as LLVM bitcode.
func (g *Generator) WriteBitcode(w io.Writer) error {
	buf := llvm.WriteBitcodeToMemoryBuffer(g.unit.mod)
	defer buf.Dispose()
	_, err := w.Write(buf.Bytes())
	return err
}

// Dispose frees the module and everything built in it. It is a no-op on
// Generators for function literals.
func (g *Generator) Dispose() {
	if !g.owner || g.unit.disposed {
		return
	}
	g.unit.disposed = true
	g.builder.Dispose()
	if g.unit.executing {
		// The engine owns the module.
		g.unit.engine.Dispose()
	} else {
		g.unit.mod.Dispose()
	}
	g.unit.ctx.Dispose()
}

func (g *Generator) expectNative(op string, v llvm.Value) error {
	if v.Type() != g.unit.native {
		return &TypeError{Op: op, Want: describe(g.unit.native), Got: describe(v.Type())}
	}
	return nil
}
