package runtime

import (
	"fmt"

	"github.com/luma-lang/luma/pkg/token"
)

// Environment is one lexical scope: a name table plus a pointer to the
// enclosing scope. Lookups and assignments walk outward; definitions
// always land in the innermost scope.
type Environment struct {
	values    map[string]Value
	enclosing *Environment
}

func NewEnvironment(enclosing *Environment) *Environment {
	return &Environment{values: map[string]Value{}, enclosing: enclosing}
}

func (e *Environment) Enclosing() *Environment { return e.enclosing }

// Define binds name in this scope, shadowing any outer binding.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Has reports whether name is bound in this scope or any enclosing one.
func (e *Environment) Has(name string) bool {
	if _, ok := e.values[name]; ok {
		return true
	}
	if e.enclosing != nil {
		return e.enclosing.Has(name)
	}
	return false
}

// Lookup resolves name without a source location, for callers that hold
// no token (export collection, the REPL).
func (e *Environment) Lookup(name string) (Value, bool) {
	if v, ok := e.values[name]; ok {
		return v, true
	}
	if e.enclosing != nil {
		return e.enclosing.Lookup(name)
	}
	return nil, false
}

func undefinedVariable(name token.Token) error {
	return fmt.Errorf("Undefined variable '%s' at line %d", name.Lexeme, name.Line)
}

// Get resolves name, walking enclosing scopes.
func (e *Environment) Get(name token.Token) (Value, error) {
	if v, ok := e.values[name.Lexeme]; ok {
		return v, nil
	}
	if e.enclosing != nil {
		return e.enclosing.Get(name)
	}
	return nil, undefinedVariable(name)
}

// Assign updates an existing binding, walking enclosing scopes. It never
// creates a binding.
func (e *Environment) Assign(name token.Token, value Value) error {
	if _, ok := e.values[name.Lexeme]; ok {
		e.values[name.Lexeme] = value
		return nil
	}
	if e.enclosing != nil {
		return e.enclosing.Assign(name, value)
	}
	return undefinedVariable(name)
}
