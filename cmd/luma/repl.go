package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/luma-lang/luma/pkg/ast"
	"github.com/luma-lang/luma/pkg/driver"
	"github.com/luma-lang/luma/pkg/interpreter"
	"github.com/luma-lang/luma/pkg/lexer"
	"github.com/luma-lang/luma/pkg/parser"
	"github.com/luma-lang/luma/pkg/runtime"
)

const (
	historyFile = ".luma_history"
	promptMain  = "luma> "
	promptCont  = "  ... "
)

func runREPL() int {
	fmt.Fprintf(os.Stdout, "%s (type Ctrl+D to exit)\n", cliVersion)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	interp := interpreter.New()
	if cwd, err := os.Getwd(); err == nil {
		if project, err := driver.NewProject(filepath.Join(cwd, "repl.lu")); err == nil {
			interp.SetResolver(project)
		}
	}

	for {
		code, ok := readInput(ln)
		if !ok {
			fmt.Println()
			break
		}
		if strings.TrimSpace(code) == "" {
			continue
		}
		evalLine(interp, code)
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}

	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
	return 0
}

// evalLine runs one REPL input. A bare expression prints its value;
// errors end the line, never the session.
func evalLine(interp *interpreter.Interpreter, code string) {
	tokens, err := lexer.New(code).ScanTokens()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	program, parseErrs := parser.New(tokens).Parse()
	if len(parseErrs) > 0 {
		for _, perr := range parseErrs {
			fmt.Fprintln(os.Stderr, perr)
		}
		return
	}
	if len(program) == 1 {
		if exprStmt, ok := program[0].(*ast.ExpressionStmt); ok {
			value, err := interp.EvaluateExpression(exprStmt.Expr)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return
			}
			if value != runtime.Nil {
				fmt.Fprintln(os.Stdout, runtime.ToString(value))
			}
			return
		}
	}
	if err := interp.Run(program); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}

// readInput accumulates lines until the buffer parses as a complete
// program, or until an error that more input cannot fix.
func readInput(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl+C drops the pending input.
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if !looksIncomplete(src) {
			return src, true
		}
	}
}

// looksIncomplete reports whether the buffer fails to parse solely
// because input ended early, meaning another line may complete it.
func looksIncomplete(src string) bool {
	tokens, err := lexer.New(src).ScanTokens()
	if err != nil {
		return strings.Contains(err.Error(), "Unterminated string")
	}
	_, parseErrs := parser.New(tokens).Parse()
	if len(parseErrs) == 0 {
		return false
	}
	for _, perr := range parseErrs {
		if perr.Got != "" {
			return false
		}
	}
	return true
}
