package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/strager/coffee"
	"github.com/strager/coffee/ast"
	"github.com/strager/coffee/codegen"
)

func showUsage() {
	fmt.Fprintf(os.Stderr, `Coffee - a small expression language compiled with LLVM

Usage:
    coffee <command> [arguments]

Commands:
    run <file>      Compile and execute a .coffee file
    build <file>    Compile a .coffee file to LLVM IR or bitcode
    eval <code>     Evaluate inline Coffee code
    check <file>    Parse a .coffee file
    repl            Start an interactive session
    help            Show this help message

Examples:
    coffee run examples/sum.coffee
    coffee build -o program.ll sum.coffee
    coffee eval 'a = 3; b = 4; a * a / b'
    coffee check myfile.coffee

Settings are read from coffee.yaml, or from the file named by $COFFEE_CONFIG.

Use "coffee <command> -h" for more information about a command.
`)
}

// compileOptions turns settings and flags into driver options.
func compileOptions(cfg Config, passes string, verbose, test bool) []coffee.Option {
	cfg.Passes = passes
	opts := []coffee.Option{coffee.WithCodegen(cfg.codegenOptions()...)}
	if !cfg.Optimize || passes == "" {
		opts = append(opts, coffee.WithoutOptimization())
	}
	if verbose {
		opts = append(opts, coffee.WithTrace(os.Stdout))
	}
	if test {
		opts = append(opts, coffee.WithTestMode())
	}
	return opts
}

// report prints err, prefixing syntax errors with the file name so that
// they read file:line:column.
func report(filename string, err error) {
	var perr *coffee.ParserError
	if errors.As(err, &perr) {
		fmt.Fprintf(os.Stderr, "%s:%v\n", filename, perr)
		return
	}
	fmt.Fprintf(os.Stderr, "%s: %v\n", filename, err)
}

func readSource(fs *flag.FlagSet) (string, string) {
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(1)
	}
	filename := fs.Arg(0)
	sourceBytes, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file %s: %v\n", filename, err)
		os.Exit(1)
	}
	return filename, string(sourceBytes)
}

func runCommand(args []string, cfg Config) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	verbose := fs.Bool("v", false, "Show verbose compilation details")
	passes := fs.String("O", cfg.Passes, "LLVM pass pipeline (empty skips optimization)")
	test := fs.Bool("test", false, "Print the value of the last statement")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: coffee run [-v] [-O passes] [-test] <file>\n")
		fmt.Fprintf(os.Stderr, "Compile and execute a .coffee file\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	filename, source := readSource(fs)

	if *verbose {
		fmt.Printf("Compiling %s...\n", filename)
	}

	result, err := coffee.Run(source, compileOptions(cfg, *passes, *verbose, *test)...)
	if err != nil {
		report(filename, err)
		os.Exit(1)
	}
	if *test {
		fmt.Println(result)
	}
}

func buildCommand(args []string, cfg Config) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	output := fs.String("o", "", "Output file path (default: <filename>.ll or .bc)")
	bitcode := fs.Bool("bc", false, "Write LLVM bitcode instead of textual IR")
	test := fs.Bool("test", false, "Make main return the value of the last statement")
	passes := fs.String("O", cfg.Passes, "LLVM pass pipeline (empty skips optimization)")
	verbose := fs.Bool("v", false, "Show verbose compilation details")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: coffee build [-o output] [-bc] [-test] [-O passes] [-v] <file>\n")
		fmt.Fprintf(os.Stderr, "Compile a .coffee file to LLVM IR\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	filename, source := readSource(fs)

	outputFile := *output
	if outputFile == "" {
		ext := ".ll"
		if *bitcode {
			ext = ".bc"
		}
		outputFile = strings.TrimSuffix(filename, ".coffee") + ext
	}

	if *verbose {
		fmt.Printf("Compiling %s to %s...\n", filename, outputFile)
	}

	g, err := coffee.Compile(source, compileOptions(cfg, *passes, *verbose, *test)...)
	if err != nil {
		report(filename, err)
		os.Exit(1)
	}
	defer g.Dispose()

	if cfg.Optimize && *passes != "" {
		if err := g.Optimize(); err != nil {
			report(filename, err)
			os.Exit(1)
		}
		if *verbose {
			fmt.Printf("Optimized with %s\n", *passes)
		}
	}

	if err := writeModule(g, outputFile, *bitcode); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", outputFile, err)
		os.Exit(1)
	}
	fmt.Printf("Generated %s\n", outputFile)
}

func writeModule(g *codegen.Generator, path string, bitcode bool) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if bitcode {
		err = g.WriteBitcode(file)
	} else {
		_, err = file.WriteString(g.String())
	}
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	return err
}

func evalCommand(args []string, cfg Config) {
	fs := flag.NewFlagSet("eval", flag.ExitOnError)
	verbose := fs.Bool("v", false, "Show verbose compilation details")
	compiled := fs.Bool("c", false, "Compile and run natively instead of interpreting")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: coffee eval [-v] [-c] <code>\n")
		fmt.Fprintf(os.Stderr, "Evaluate inline Coffee code\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one code argument\n")
		fs.Usage()
		os.Exit(1)
	}

	code := fs.Arg(0)

	if *verbose {
		fmt.Printf("Evaluating: %s\n", code)
	}

	if *compiled {
		result, err := coffee.Run(code, compileOptions(cfg, cfg.Passes, *verbose, true)...)
		if err != nil {
			report("<eval>", err)
			os.Exit(1)
		}
		fmt.Println(result)
		return
	}

	var opts []coffee.Option
	if *verbose {
		opts = append(opts, coffee.WithTrace(os.Stdout))
	}
	v, err := coffee.Interpret(code, opts...)
	if err != nil {
		report("<eval>", err)
		os.Exit(1)
	}
	if v != nil {
		fmt.Println(v)
	}
}

func checkCommand(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	verbose := fs.Bool("v", false, "Show verbose checking details")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: coffee check [-v] <file>\n")
		fmt.Fprintf(os.Stderr, "Parse a .coffee file\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	filename, source := readSource(fs)

	if *verbose {
		fmt.Printf("Checking %s...\n", filename)
	}

	code, err := coffee.Parse(source)
	if err != nil {
		report(filename, err)
		os.Exit(1)
	}

	fmt.Printf("%s: no errors found\n", filename)

	if *verbose {
		fmt.Printf("AST: %s\n", ast.ToSExpr(code))
		fmt.Printf("Tree: %s\n", ast.Format(code))
	}
}

func main() {
	if len(os.Args) < 2 {
		showUsage()
		os.Exit(1)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "run":
		runCommand(args, cfg)
	case "build":
		buildCommand(args, cfg)
	case "eval":
		evalCommand(args, cfg)
	case "check":
		checkCommand(args)
	case "repl":
		os.Exit(replCommand(args, cfg))
	case "help", "-h", "--help":
		showUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		showUsage()
		os.Exit(1)
	}
}
