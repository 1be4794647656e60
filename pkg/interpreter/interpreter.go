// Package interpreter evaluates Luma syntax trees.
//
// Evaluation walks the AST directly. Non-local control flow (return)
// travels as a typed error and is converted back into a value at call
// boundaries, so a stray return surfaces as a runtime error instead of
// unwinding past the program.
package interpreter

import (
	"fmt"
	"io"
	"os"

	"github.com/luma-lang/luma/pkg/ast"
	"github.com/luma-lang/luma/pkg/runtime"
	"github.com/luma-lang/luma/pkg/stdlib"
	"github.com/luma-lang/luma/pkg/token"
)

// RuntimeError is any error raised by script evaluation. Line is zero
// when the failure has no single source location.
type RuntimeError struct {
	Message string
	Line    int
}

func (e *RuntimeError) Error() string { return e.Message }

func runtimeErrorf(format string, args ...any) *RuntimeError {
	return &RuntimeError{Message: fmt.Sprintf(format, args...)}
}

// returnSignal carries a return value up to the nearest call boundary.
// It implements error but is not a RuntimeError: maybe blocks let it
// pass through.
type returnSignal struct {
	value runtime.Value
}

func (returnSignal) Error() string { return "return" }

// ModuleResolver supplies source text for a module id like "@std.io".
// When resolution fails for an id that has a native table, the
// interpreter loads the natives alone instead of surfacing the error.
type ModuleResolver interface {
	Resolve(moduleID string) (source string, err error)
}

// Interpreter owns the global scope, the current environment, and the
// per-instance module cache. It is not safe for concurrent use.
type Interpreter struct {
	globals *runtime.Environment
	env     *runtime.Environment
	out     io.Writer

	resolver        ModuleResolver
	moduleCache     map[string]*runtime.MapValue
	modulesLoading  map[string]bool
	currentModuleID string
	currentExports  *runtime.MapValue
}

func New() *Interpreter {
	globals := runtime.NewEnvironment(nil)
	for name, fn := range stdlib.Globals() {
		globals.Define(name, fn)
	}
	return &Interpreter{
		globals:        globals,
		env:            globals,
		out:            os.Stdout,
		moduleCache:    map[string]*runtime.MapValue{},
		modulesLoading: map[string]bool{},
	}
}

// SetOutput redirects print output; the default is stdout.
func (i *Interpreter) SetOutput(w io.Writer) { i.out = w }

// SetResolver installs the module source resolver used by use
// statements. Without one, only native-only modules load.
func (i *Interpreter) SetResolver(r ModuleResolver) { i.resolver = r }

// Globals exposes the global scope, for the REPL and tests.
func (i *Interpreter) Globals() *runtime.Environment { return i.globals }

// Run executes a whole program in the global scope.
func (i *Interpreter) Run(program []ast.Statement) error {
	for _, stmt := range program {
		if err := i.executeStatement(stmt); err != nil {
			if _, ok := err.(returnSignal); ok {
				return runtimeErrorf("Return used outside of a function.")
			}
			return err
		}
	}
	return nil
}

// EvaluateExpression evaluates a single expression in the current
// scope. The REPL uses this to echo bare expressions.
func (i *Interpreter) EvaluateExpression(expr ast.Expression) (runtime.Value, error) {
	return i.evaluateExpression(expr)
}

// executeBlock runs statements in env, restoring the previous scope on
// every exit path including errors and return signals.
func (i *Interpreter) executeBlock(block *ast.Block, env *runtime.Environment) error {
	previous := i.env
	i.env = env
	defer func() { i.env = previous }()
	for _, stmt := range block.Statements {
		if err := i.executeStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

// assignOrDefine implements assignment statements: update the nearest
// existing binding, or define a new one in the current scope.
func (i *Interpreter) assignOrDefine(name token.Token, value runtime.Value) {
	if i.env.Has(name.Lexeme) {
		// Has just confirmed the binding exists on the chain.
		_ = i.env.Assign(name, value)
		return
	}
	i.env.Define(name.Lexeme, value)
}
