package interpreter

import (
	"github.com/luma-lang/luma/pkg/ast"
	"github.com/luma-lang/luma/pkg/runtime"
	"github.com/luma-lang/luma/pkg/token"
)

func (i *Interpreter) evaluateExpression(expr ast.Expression) (runtime.Value, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		switch e.Kind {
		case ast.LiteralNumber:
			return runtime.Number(e.Number), nil
		case ast.LiteralString:
			return runtime.Str(e.Str), nil
		case ast.LiteralBool:
			return runtime.Bool(e.Bool), nil
		default:
			return runtime.Nil, nil
		}

	case *ast.Variable:
		return i.env.Get(e.Name)

	case *ast.Grouping:
		return i.evaluateExpression(e.Expr)

	case *ast.Unary:
		return i.evaluateUnary(e)

	case *ast.Binary:
		return i.evaluateBinary(e)

	case *ast.Call:
		callee, err := i.evaluateExpression(e.Callee)
		if err != nil {
			return nil, err
		}
		args := make([]runtime.Value, 0, len(e.Args))
		for _, arg := range e.Args {
			v, err := i.evaluateExpression(arg)
			if err != nil {
				return nil, err
			}
			args = append(args, v)
		}
		return i.callValue(callee, args)

	case *ast.List:
		list := &runtime.ListValue{Elements: make([]runtime.Value, 0, len(e.Elements))}
		for _, el := range e.Elements {
			v, err := i.evaluateExpression(el)
			if err != nil {
				return nil, err
			}
			list.Elements = append(list.Elements, v)
		}
		return list, nil

	case *ast.Map:
		m := runtime.NewMap()
		for idx := range e.Keys {
			k, err := i.evaluateExpression(e.Keys[idx])
			if err != nil {
				return nil, err
			}
			key, ok := k.(*runtime.StringValue)
			if !ok {
				return nil, runtimeErrorf("Map keys must be strings.")
			}
			v, err := i.evaluateExpression(e.Values[idx])
			if err != nil {
				return nil, err
			}
			m.Entries[key.Val] = v
		}
		return m, nil

	case *ast.Get:
		return i.evaluateGet(e)

	case *ast.Set:
		object, err := i.evaluateExpression(e.Object)
		if err != nil {
			return nil, err
		}
		instance, ok := object.(*runtime.InstanceValue)
		if !ok {
			return nil, runtimeErrorf("Only instances have properties.")
		}
		value, err := i.evaluateExpression(e.Value)
		if err != nil {
			return nil, err
		}
		instance.Fields[e.Name.Lexeme] = value
		return value, nil

	case *ast.Index:
		return i.evaluateIndex(e)

	case *ast.IndexSet:
		return i.evaluateIndexSet(e)

	case *ast.This:
		return i.env.Get(e.Keyword)
	}

	return nil, runtimeErrorf("Unknown expression type.")
}

func (i *Interpreter) evaluateUnary(e *ast.Unary) (runtime.Value, error) {
	right, err := i.evaluateExpression(e.Right)
	if err != nil {
		return nil, err
	}
	switch e.Operator.Type {
	case token.Minus:
		num, ok := right.(*runtime.NumberValue)
		if !ok {
			return nil, runtimeErrorf("Type error: expected number in unary '-', got %s", runtime.ToString(right))
		}
		return runtime.Number(-num.Val), nil
	case token.Bang, token.Not:
		return runtime.Bool(!runtime.Truthy(right)), nil
	}
	return nil, runtimeErrorf("Unknown unary operator '%s'", e.Operator.Lexeme)
}

func (i *Interpreter) evaluateBinary(e *ast.Binary) (runtime.Value, error) {
	// and/or short-circuit and yield the deciding operand itself.
	if e.Operator.Type == token.Or {
		left, err := i.evaluateExpression(e.Left)
		if err != nil {
			return nil, err
		}
		if runtime.Truthy(left) {
			return left, nil
		}
		return i.evaluateExpression(e.Right)
	}
	if e.Operator.Type == token.And {
		left, err := i.evaluateExpression(e.Left)
		if err != nil {
			return nil, err
		}
		if !runtime.Truthy(left) {
			return left, nil
		}
		return i.evaluateExpression(e.Right)
	}

	left, err := i.evaluateExpression(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluateExpression(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Operator.Type {
	case token.Plus:
		if ln, ok := left.(*runtime.NumberValue); ok {
			if rn, ok := right.(*runtime.NumberValue); ok {
				return runtime.Number(ln.Val + rn.Val), nil
			}
		}
		if ls, ok := left.(*runtime.StringValue); ok {
			if rs, ok := right.(*runtime.StringValue); ok {
				return runtime.Str(ls.Val + rs.Val), nil
			}
		}
		return nil, runtimeErrorf("Type error: '+' needs (number,number) or (string,string).")
	case token.EqualEqual:
		return runtime.Bool(runtime.Equals(left, right)), nil
	case token.BangEqual:
		return runtime.Bool(!runtime.Equals(left, right)), nil
	}

	ln, lok := left.(*runtime.NumberValue)
	rn, rok := right.(*runtime.NumberValue)
	if !lok || !rok {
		where := "comparison"
		switch e.Operator.Type {
		case token.Minus, token.Star, token.Slash:
			where = "binary '" + e.Operator.Lexeme + "'"
		}
		bad := left
		if lok {
			bad = right
		}
		return nil, runtimeErrorf("Type error: expected number in %s, got %s", where, runtime.ToString(bad))
	}

	switch e.Operator.Type {
	case token.Minus:
		return runtime.Number(ln.Val - rn.Val), nil
	case token.Star:
		return runtime.Number(ln.Val * rn.Val), nil
	case token.Slash:
		if rn.Val == 0 {
			return nil, runtimeErrorf("Runtime error: division by zero.")
		}
		return runtime.Number(ln.Val / rn.Val), nil
	case token.Greater:
		return runtime.Bool(ln.Val > rn.Val), nil
	case token.GreaterEqual:
		return runtime.Bool(ln.Val >= rn.Val), nil
	case token.Less:
		return runtime.Bool(ln.Val < rn.Val), nil
	case token.LessEqual:
		return runtime.Bool(ln.Val <= rn.Val), nil
	}
	return nil, runtimeErrorf("Unknown binary operator '%s'", e.Operator.Lexeme)
}

// evaluateGet resolves property access on module namespaces (maps) and
// instances. Method lookups bind this lazily: each access produces a
// fresh bound copy whose closure holds the instance.
func (i *Interpreter) evaluateGet(e *ast.Get) (runtime.Value, error) {
	object, err := i.evaluateExpression(e.Object)
	if err != nil {
		return nil, err
	}

	switch obj := object.(type) {
	case *runtime.MapValue:
		if v, ok := obj.Entries[e.Name.Lexeme]; ok {
			return v, nil
		}
		return nil, runtimeErrorf("Module has no exported member '%s'.", e.Name.Lexeme)

	case *runtime.InstanceValue:
		if v, ok := obj.Fields[e.Name.Lexeme]; ok {
			return v, nil
		}
		if method := obj.Class.FindMethod(e.Name.Lexeme); method != nil {
			return bindMethod(method, obj), nil
		}
		return nil, runtimeErrorf("Undefined property '%s'.", e.Name.Lexeme)
	}
	return nil, runtimeErrorf("Only instances and modules have properties.")
}

// bindMethod copies the method with a closure that defines "this".
func bindMethod(method *runtime.FunctionValue, instance *runtime.InstanceValue) *runtime.FunctionValue {
	env := runtime.NewEnvironment(method.Closure)
	env.Define("this", instance)
	return &runtime.FunctionValue{
		Name:    method.Name,
		Params:  method.Params,
		Body:    method.Body,
		Closure: env,
	}
}

func (i *Interpreter) evaluateIndex(e *ast.Index) (runtime.Value, error) {
	object, err := i.evaluateExpression(e.Object)
	if err != nil {
		return nil, err
	}
	key, err := i.evaluateExpression(e.Key)
	if err != nil {
		return nil, err
	}

	switch obj := object.(type) {
	case *runtime.ListValue:
		num, ok := key.(*runtime.NumberValue)
		if !ok {
			return nil, runtimeErrorf("List index must be a number.")
		}
		idx := int(num.Val)
		if idx < 0 || idx >= len(obj.Elements) {
			return nil, runtimeErrorf("List index out of bounds.")
		}
		return obj.Elements[idx], nil

	case *runtime.MapValue:
		str, ok := key.(*runtime.StringValue)
		if !ok {
			return nil, runtimeErrorf("Map key must be a string.")
		}
		if v, ok := obj.Entries[str.Val]; ok {
			return v, nil
		}
		return nil, runtimeErrorf("Undefined key '%s'.", str.Val)
	}
	return nil, runtimeErrorf("Only lists and maps support subscription.")
}

func (i *Interpreter) evaluateIndexSet(e *ast.IndexSet) (runtime.Value, error) {
	object, err := i.evaluateExpression(e.Object)
	if err != nil {
		return nil, err
	}
	key, err := i.evaluateExpression(e.Key)
	if err != nil {
		return nil, err
	}
	value, err := i.evaluateExpression(e.Value)
	if err != nil {
		return nil, err
	}

	switch obj := object.(type) {
	case *runtime.ListValue:
		num, ok := key.(*runtime.NumberValue)
		if !ok {
			return nil, runtimeErrorf("List index must be a number.")
		}
		idx := int(num.Val)
		if idx < 0 || idx >= len(obj.Elements) {
			return nil, runtimeErrorf("List index out of bounds.")
		}
		obj.Elements[idx] = value
		return value, nil

	case *runtime.MapValue:
		str, ok := key.(*runtime.StringValue)
		if !ok {
			return nil, runtimeErrorf("Map key must be a string.")
		}
		// Map assignment inserts missing keys.
		obj.Entries[str.Val] = value
		return value, nil
	}
	return nil, runtimeErrorf("Only lists and maps support assignment.")
}

// callValue invokes functions, natives and class constructors with
// exact-arity checking.
func (i *Interpreter) callValue(callee runtime.Value, args []runtime.Value) (runtime.Value, error) {
	switch fn := callee.(type) {
	case *runtime.FunctionValue:
		return i.invokeFunction(fn, args)

	case *runtime.NativeFunctionValue:
		if !fn.Variadic && len(args) != fn.Arity {
			return nil, arityError(fn.Arity, len(args))
		}
		return fn.Fn(args)

	case *runtime.ClassValue:
		return i.instantiate(fn, args)
	}
	return nil, runtimeErrorf("Can only call functions and classes.")
}

func arityError(want, got int) *RuntimeError {
	return runtimeErrorf("Expected %d arguments but got %d.", want, got)
}

func (i *Interpreter) invokeFunction(fn *runtime.FunctionValue, args []runtime.Value) (runtime.Value, error) {
	if len(args) != len(fn.Params) {
		return nil, arityError(len(fn.Params), len(args))
	}
	env := runtime.NewEnvironment(fn.Closure)
	for idx, param := range fn.Params {
		env.Define(param.Lexeme, args[idx])
	}
	if err := i.executeBlock(fn.Body, env); err != nil {
		if ret, ok := err.(returnSignal); ok {
			return ret.value, nil
		}
		return nil, err
	}
	return runtime.Nil, nil
}

// instantiate creates an instance and runs init when the class has one.
// init's return value is ignored: construction always yields the
// instance.
func (i *Interpreter) instantiate(class *runtime.ClassValue, args []runtime.Value) (runtime.Value, error) {
	instance := runtime.NewInstance(class)

	init := class.FindMethod("init")
	if init == nil {
		if len(args) != 0 {
			return nil, arityError(0, len(args))
		}
		return instance, nil
	}

	if len(args) != len(init.Params) {
		return nil, arityError(len(init.Params), len(args))
	}
	env := runtime.NewEnvironment(init.Closure)
	env.Define("this", instance)
	for idx, param := range init.Params {
		env.Define(param.Lexeme, args[idx])
	}
	if err := i.executeBlock(init.Body, env); err != nil {
		if _, ok := err.(returnSignal); !ok {
			return nil, err
		}
	}
	return instance, nil
}
