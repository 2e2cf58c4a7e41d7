package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/strager/coffee/ast"
	"github.com/strager/coffee/interp"
	"github.com/strager/coffee/parser"
)

const (
	promptMain = "coffee> "
	promptCont = "   ...> "
)

const replHelp = `Enter statements separated by ';'. Assignments persist between entries.
Commands:
    :ast    toggle printing the syntax tree of each entry
    :help   show this message
    :quit   leave the session
`

func replCommand(args []string, cfg Config) int {
	fs := flag.NewFlagSet("repl", flag.ExitOnError)
	showAST := fs.Bool("ast", false, "Print the syntax tree of each entry")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: coffee repl [-ast]\n")
		fmt.Fprintf(os.Stderr, "Start an interactive session\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 1
	}

	fmt.Println("Coffee interactive session. Type :help for commands.")

	histPath := cfg.History
	if !filepath.IsAbs(histPath) {
		home, _ := os.UserHomeDir()
		histPath = filepath.Join(home, histPath)
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	in := interp.New(os.Stdout)

	for {
		source, ok := readEntry(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			break
		}

		trimmed := strings.TrimSpace(source)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit":
				return 0
			case ":help":
				fmt.Print(replHelp)
			case ":ast":
				*showAST = !*showAST
			default:
				fmt.Printf("unknown command. Type :help for commands.\n")
			}
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(source, "\n", " "))

		if err := evalEntry(in, source, *showAST, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}

	return 0
}

// evalEntry evaluates one entry in the session's interpreter and prints
// its value, if it has one.
func evalEntry(in *interp.Interpreter, source string, showAST bool, out io.Writer) error {
	code, err := parser.Parse(source)
	if err != nil {
		return err
	}
	if showAST {
		fmt.Fprintf(out, "AST: %s\n", ast.ToSExpr(code))
	}
	v, err := in.Evaluate(code)
	if err != nil {
		return err
	}
	if v != nil {
		fmt.Fprintln(out, v)
	}
	return nil
}

// readEntry reads lines until they parse, or until the syntax error is
// somewhere other than the end of the input.
func readEntry(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") || strings.TrimSpace(src) == "" {
			return src, true
		}
		_, perr := parser.Parse(src)
		if perr != nil && parser.IsIncomplete(src, perr) {
			continue
		}
		return src, true
	}
}
