package stdlib

import (
	"math"
	"math/rand"

	"github.com/luma-lang/luma/pkg/runtime"
)

// @std.math

func mathUnary(name string, fn func(float64) float64) *runtime.NativeFunctionValue {
	return native(name, 1, func(args []runtime.Value) (runtime.Value, error) {
		if n, ok := args[0].(*runtime.NumberValue); ok {
			return runtime.Number(fn(n.Val)), nil
		}
		return runtime.Nil, nil
	})
}

func mathNatives() table {
	return table{
		"sqrt":  mathUnary("sqrt", math.Sqrt),
		"sin":   mathUnary("sin", math.Sin),
		"cos":   mathUnary("cos", math.Cos),
		"tan":   mathUnary("tan", math.Tan),
		"abs":   mathUnary("abs", math.Abs),
		"ceil":  mathUnary("ceil", math.Ceil),
		"floor": mathUnary("floor", math.Floor),
		"pi": native("pi", 0, func(args []runtime.Value) (runtime.Value, error) {
			return runtime.Number(math.Pi), nil
		}),
	}
}

// @std.random

func randomNatives() table {
	return table{
		"number": native("number", 0, func(args []runtime.Value) (runtime.Value, error) {
			return runtime.Number(rand.Float64()), nil
		}),
		"between": native("between", 2, func(args []runtime.Value) (runtime.Value, error) {
			min, err := argNumber(args[0], "random.between min")
			if err != nil {
				return nil, err
			}
			max, err := argNumber(args[1], "random.between max")
			if err != nil {
				return nil, err
			}
			if max < min {
				min, max = max, min
			}
			return runtime.Number(min + rand.Float64()*(max-min)), nil
		}),
		"int": native("int", 2, func(args []runtime.Value) (runtime.Value, error) {
			min, err := argNumber(args[0], "random.int min")
			if err != nil {
				return nil, err
			}
			max, err := argNumber(args[1], "random.int max")
			if err != nil {
				return nil, err
			}
			if max < min {
				min, max = max, min
			}
			lo, hi := int(math.Floor(min)), int(math.Floor(max))
			return runtime.Number(float64(lo + rand.Intn(hi-lo+1))), nil
		}),
	}
}
