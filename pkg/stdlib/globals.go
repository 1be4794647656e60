package stdlib

import (
	"errors"

	"github.com/luma-lang/luma/pkg/runtime"
)

// Globals returns the builtins available without any use statement.
func Globals() map[string]*runtime.NativeFunctionValue {
	return map[string]*runtime.NativeFunctionValue{
		"len":    native("len", 1, nativeLen),
		"push":   native("push", 2, nativePush),
		"pop":    native("pop", 1, nativePop),
		"keys":   native("keys", 1, nativeKeys),
		"remove": native("remove", 2, nativeRemove),
	}
}

func nativeLen(args []runtime.Value) (runtime.Value, error) {
	switch v := args[0].(type) {
	case *runtime.ListValue:
		return runtime.Number(float64(len(v.Elements))), nil
	case *runtime.MapValue:
		return runtime.Number(float64(len(v.Entries))), nil
	case *runtime.StringValue:
		return runtime.Number(float64(len(v.Val))), nil
	}
	return nil, errors.New("Object has no length (only list, map, string).")
}

func nativePush(args []runtime.Value) (runtime.Value, error) {
	list, ok := args[0].(*runtime.ListValue)
	if !ok {
		return nil, errors.New("Expected list for push.")
	}
	list.Elements = append(list.Elements, args[1])
	return args[1], nil
}

func nativePop(args []runtime.Value) (runtime.Value, error) {
	list, ok := args[0].(*runtime.ListValue)
	if !ok {
		return nil, errors.New("Expected list for pop.")
	}
	if len(list.Elements) == 0 {
		return runtime.Nil, nil
	}
	last := list.Elements[len(list.Elements)-1]
	list.Elements = list.Elements[:len(list.Elements)-1]
	return last, nil
}

func nativeKeys(args []runtime.Value) (runtime.Value, error) {
	m, ok := args[0].(*runtime.MapValue)
	if !ok {
		return nil, errors.New("Expected map for keys.")
	}
	list := &runtime.ListValue{}
	for _, k := range m.SortedKeys() {
		list.Elements = append(list.Elements, runtime.Str(k))
	}
	return list, nil
}

func nativeRemove(args []runtime.Value) (runtime.Value, error) {
	m, ok := args[0].(*runtime.MapValue)
	if !ok {
		return nil, errors.New("Expected map for remove.")
	}
	key, ok := args[1].(*runtime.StringValue)
	if !ok {
		return nil, errors.New("Map keys must be strings.")
	}
	if v, ok := m.Entries[key.Val]; ok {
		delete(m.Entries, key.Val)
		return v, nil
	}
	return runtime.Nil, nil
}
