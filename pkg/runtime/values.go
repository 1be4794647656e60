// Package runtime defines Luma's value model and lexical environments.
//
// Numbers, strings, booleans and nil behave as scalars; lists, maps,
// classes, instances and functions are shared by reference, so two
// variables can observe each other's mutations.
package runtime

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/luma-lang/luma/pkg/ast"
	"github.com/luma-lang/luma/pkg/token"
)

// Kind discriminates the value variants.
type Kind int

const (
	KindNil Kind = iota
	KindNumber
	KindString
	KindBool
	KindFunction
	KindNative
	KindList
	KindMap
	KindClass
	KindInstance
)

// Value is implemented by every Luma runtime value.
type Value interface {
	Kind() Kind
}

type NilValue struct{}

type NumberValue struct {
	Val float64
}

type StringValue struct {
	Val string
}

type BoolValue struct {
	Val bool
}

// FunctionValue is a user-defined function closed over its defining
// environment. Methods are FunctionValues whose closure additionally
// binds "this".
type FunctionValue struct {
	Name    token.Token
	Params  []token.Token
	Body    *ast.Block
	Closure *Environment
}

// NativeFn is the call signature shared by all built-in functions.
type NativeFn func(args []Value) (Value, error)

type NativeFunctionValue struct {
	Name     string
	Arity    int
	Variadic bool
	Fn       NativeFn
}

type ListValue struct {
	Elements []Value
}

// MapValue holds string-keyed entries. Iteration order is sorted, which
// keeps rendering and keys() deterministic.
type MapValue struct {
	Entries map[string]Value
}

func NewMap() *MapValue {
	return &MapValue{Entries: map[string]Value{}}
}

// SortedKeys returns the map's keys in ascending order.
func (m *MapValue) SortedKeys() []string {
	keys := make([]string, 0, len(m.Entries))
	for k := range m.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type ClassValue struct {
	Name    string
	Methods map[string]*FunctionValue
}

// FindMethod returns the named method or nil.
func (c *ClassValue) FindMethod(name string) *FunctionValue {
	return c.Methods[name]
}

type InstanceValue struct {
	Class  *ClassValue
	Fields map[string]Value
}

func NewInstance(class *ClassValue) *InstanceValue {
	return &InstanceValue{Class: class, Fields: map[string]Value{}}
}

func (*NilValue) Kind() Kind            { return KindNil }
func (*NumberValue) Kind() Kind         { return KindNumber }
func (*StringValue) Kind() Kind         { return KindString }
func (*BoolValue) Kind() Kind           { return KindBool }
func (*FunctionValue) Kind() Kind       { return KindFunction }
func (*NativeFunctionValue) Kind() Kind { return KindNative }
func (*ListValue) Kind() Kind           { return KindList }
func (*MapValue) Kind() Kind            { return KindMap }
func (*ClassValue) Kind() Kind          { return KindClass }
func (*InstanceValue) Kind() Kind       { return KindInstance }

// Nil is the shared nil value.
var Nil = &NilValue{}

func Number(v float64) *NumberValue { return &NumberValue{Val: v} }
func Str(v string) *StringValue     { return &StringValue{Val: v} }

var (
	trueValue  = &BoolValue{Val: true}
	falseValue = &BoolValue{Val: false}
)

func Bool(v bool) *BoolValue {
	if v {
		return trueValue
	}
	return falseValue
}

// Truthy reports a value's truth: nil and false are falsy, everything
// else (including 0 and "") is truthy.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case *NilValue:
		return false
	case *BoolValue:
		return val.Val
	default:
		return true
	}
}

// Equals implements ==: scalars compare by value, shared values by
// identity. Values of different kinds are never equal except nil to nil.
func Equals(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case *NilValue:
		return true
	case *NumberValue:
		return av.Val == b.(*NumberValue).Val
	case *StringValue:
		return av.Val == b.(*StringValue).Val
	case *BoolValue:
		return av.Val == b.(*BoolValue).Val
	default:
		return a == b
	}
}

// FormatNumber renders a number the way print does: integral values
// without a fractional part, everything else in shortest decimal form.
func FormatNumber(d float64) string {
	if !math.IsInf(d, 0) && !math.IsNaN(d) && d == math.Trunc(d) && math.Abs(d) < 1e15 {
		return strconv.FormatInt(int64(d), 10)
	}
	return strconv.FormatFloat(d, 'g', -1, 64)
}

// ToString renders a value for print and string conversion.
func ToString(v Value) string {
	switch val := v.(type) {
	case *NilValue:
		return "nil"
	case *NumberValue:
		return FormatNumber(val.Val)
	case *StringValue:
		return val.Val
	case *BoolValue:
		if val.Val {
			return "true"
		}
		return "false"
	case *FunctionValue:
		return "<fn " + val.Name.Lexeme + ">"
	case *NativeFunctionValue:
		return "<native fn " + val.Name + ">"
	case *ListValue:
		var b strings.Builder
		b.WriteByte('[')
		for i, e := range val.Elements {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(ToString(e))
		}
		b.WriteByte(']')
		return b.String()
	case *MapValue:
		var b strings.Builder
		b.WriteByte('{')
		for i, k := range val.SortedKeys() {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(k)
			b.WriteString(": ")
			b.WriteString(ToString(val.Entries[k]))
		}
		b.WriteByte('}')
		return b.String()
	case *ClassValue:
		return "<class " + val.Name + ">"
	case *InstanceValue:
		return "<instance " + val.Class.Name + ">"
	default:
		return "<value>"
	}
}
