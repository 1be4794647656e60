package interpreter

import (
	"fmt"

	"github.com/luma-lang/luma/pkg/ast"
	"github.com/luma-lang/luma/pkg/runtime"
)

func (i *Interpreter) executeStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.ExpressionStmt:
		_, err := i.evaluateExpression(s.Expr)
		return err

	case *ast.PrintStmt:
		v, err := i.evaluateExpression(s.Expr)
		if err != nil {
			return err
		}
		fmt.Fprintln(i.out, runtime.ToString(v))
		return nil

	case *ast.VarAssign:
		v, err := i.evaluateExpression(s.Value)
		if err != nil {
			return err
		}
		i.assignOrDefine(s.Name, v)
		return nil

	case *ast.Block:
		return i.executeBlock(s, runtime.NewEnvironment(i.env))

	case *ast.If:
		cond, err := i.evaluateExpression(s.Condition)
		if err != nil {
			return err
		}
		if runtime.Truthy(cond) {
			return i.executeBlock(s.ThenBranch, runtime.NewEnvironment(i.env))
		}
		switch elseBranch := s.ElseBranch.(type) {
		case nil:
			return nil
		case *ast.Block:
			return i.executeBlock(elseBranch, runtime.NewEnvironment(i.env))
		default:
			// else-if chain
			return i.executeStatement(elseBranch)
		}

	case *ast.While:
		for {
			cond, err := i.evaluateExpression(s.Condition)
			if err != nil {
				return err
			}
			if !runtime.Truthy(cond) {
				return nil
			}
			if err := i.executeBlock(s.Body, runtime.NewEnvironment(i.env)); err != nil {
				return err
			}
		}

	case *ast.Until:
		for {
			cond, err := i.evaluateExpression(s.Condition)
			if err != nil {
				return err
			}
			if runtime.Truthy(cond) {
				return nil
			}
			if err := i.executeBlock(s.Body, runtime.NewEnvironment(i.env)); err != nil {
				return err
			}
		}

	case *ast.Return:
		var value runtime.Value = runtime.Nil
		if s.Value != nil {
			v, err := i.evaluateExpression(s.Value)
			if err != nil {
				return err
			}
			value = v
		}
		return returnSignal{value: value}

	case *ast.FuncDef:
		fn := &runtime.FunctionValue{
			Name:    s.Name,
			Params:  s.Params,
			Body:    s.Body,
			Closure: i.env,
		}
		i.env.Define(s.Name.Lexeme, fn)
		return nil

	case *ast.ClassDef:
		return i.executeClassDef(s)

	case *ast.Echo:
		countVal, err := i.evaluateExpression(s.Count)
		if err != nil {
			return err
		}
		num, ok := countVal.(*runtime.NumberValue)
		if !ok {
			return runtimeErrorf("Echo count must be a number.")
		}
		count := int(num.Val)
		if count < 0 {
			return runtimeErrorf("Echo count cannot be negative.")
		}
		for n := 0; n < count; n++ {
			if err := i.executeBlock(s.Body, runtime.NewEnvironment(i.env)); err != nil {
				return err
			}
		}
		return nil

	case *ast.Swap:
		left, err := i.env.Get(s.Left)
		if err != nil {
			return err
		}
		right, err := i.env.Get(s.Right)
		if err != nil {
			return err
		}
		if err := i.env.Assign(s.Left, right); err != nil {
			return err
		}
		return i.env.Assign(s.Right, left)

	case *ast.Maybe:
		err := i.executeBlock(s.Body, runtime.NewEnvironment(i.env))
		if err == nil {
			return nil
		}
		if _, isReturn := err.(returnSignal); isReturn {
			return err
		}
		// Any runtime error is absorbed; without an otherwise block the
		// failure is silently dropped.
		if s.Otherwise != nil {
			return i.executeBlock(s.Otherwise, runtime.NewEnvironment(i.env))
		}
		return nil

	case *ast.ModuleDecl:
		i.currentModuleID = moduleIDString(s.Path)
		return nil

	case *ast.Use:
		exports, err := i.loadModule(moduleIDString(s.Path))
		if err != nil {
			return err
		}
		i.env.Define(s.Alias.Lexeme, exports)
		return nil
	}

	return runtimeErrorf("Unknown statement at runtime.")
}

// executeClassDef defines the class name first so methods can refer to
// it recursively, then fills in the class value.
func (i *Interpreter) executeClassDef(s *ast.ClassDef) error {
	i.env.Define(s.Name.Lexeme, runtime.Nil)

	methods := make(map[string]*runtime.FunctionValue, len(s.Methods))
	for _, method := range s.Methods {
		methods[method.Name.Lexeme] = &runtime.FunctionValue{
			Name:    method.Name,
			Params:  method.Params,
			Body:    method.Body,
			Closure: i.env,
		}
	}

	class := &runtime.ClassValue{Name: s.Name.Lexeme, Methods: methods}
	return i.env.Assign(s.Name, class)
}
