// Package stdlib supplies Luma's native functions: a handful of global
// builtins plus the per-module surfaces of @std.
//
// Natives share the script-function call contract: fixed arity unless
// variadic, values in, one value (or an error) out.
package stdlib

import (
	"fmt"

	"github.com/luma-lang/luma/pkg/runtime"
)

func native(name string, arity int, fn runtime.NativeFn) *runtime.NativeFunctionValue {
	return &runtime.NativeFunctionValue{Name: name, Arity: arity, Fn: fn}
}

// table is one module's worth of natives.
type table map[string]*runtime.NativeFunctionValue

var moduleTables = map[string]func() table{
	"@std.time":   timeNatives,
	"@std.os":     osNatives,
	"@std.io":     ioNatives,
	"@std.fs":     fsNatives,
	"@std.json":   jsonNatives,
	"@std.math":   mathNatives,
	"@std.string": stringNatives,
	"@std.random": randomNatives,
	"@std.http":   httpNatives,
	"@std.crypto": cryptoNatives,
	"@std.regex":  regexNatives,
	"@std.uuid":   uuidNatives,
}

// HasModule reports whether moduleID carries native functions.
func HasModule(moduleID string) bool {
	_, ok := moduleTables[moduleID]
	return ok
}

// Install merges moduleID's natives into an export map. Script-defined
// exports of the same name are overwritten.
func Install(moduleID string, exports *runtime.MapValue) {
	build, ok := moduleTables[moduleID]
	if !ok {
		return
	}
	for name, fn := range build() {
		exports.Entries[name] = fn
	}
}

// Argument checkers. Messages name the native so failures read like
// "Expected string in fs.read_file path.".

func argString(v runtime.Value, where string) (string, error) {
	if s, ok := v.(*runtime.StringValue); ok {
		return s.Val, nil
	}
	return "", fmt.Errorf("Expected string in %s.", where)
}

func argNumber(v runtime.Value, where string) (float64, error) {
	if n, ok := v.(*runtime.NumberValue); ok {
		return n.Val, nil
	}
	return 0, fmt.Errorf("Expected number in %s.", where)
}

func argList(v runtime.Value, where string) (*runtime.ListValue, error) {
	if l, ok := v.(*runtime.ListValue); ok {
		return l, nil
	}
	return nil, fmt.Errorf("Expected list in %s.", where)
}

func argMap(v runtime.Value, where string) (*runtime.MapValue, error) {
	if m, ok := v.(*runtime.MapValue); ok {
		return m, nil
	}
	return nil, fmt.Errorf("Expected map in %s.", where)
}
