package stdlib

import (
	"encoding/json"

	"github.com/luma-lang/luma/pkg/runtime"
)

// @std.json bridges Luma values through encoding/json. Functions,
// classes and instances have no JSON form and encode as a placeholder
// string; parse failures yield nil.

func jsonNatives() table {
	return table{
		"stringify": native("stringify", 1, func(args []runtime.Value) (runtime.Value, error) {
			data, err := json.Marshal(toJSON(args[0]))
			if err != nil {
				return runtime.Str(`"<unsupported>"`), nil
			}
			return runtime.Str(string(data)), nil
		}),
		"parse": native("parse", 1, func(args []runtime.Value) (runtime.Value, error) {
			s, ok := args[0].(*runtime.StringValue)
			if !ok {
				return runtime.Nil, nil
			}
			var decoded any
			if err := json.Unmarshal([]byte(s.Val), &decoded); err != nil {
				return runtime.Nil, nil
			}
			return fromJSON(decoded), nil
		}),
	}
}

func toJSON(v runtime.Value) any {
	switch val := v.(type) {
	case *runtime.NilValue:
		return nil
	case *runtime.NumberValue:
		return val.Val
	case *runtime.StringValue:
		return val.Val
	case *runtime.BoolValue:
		return val.Val
	case *runtime.ListValue:
		out := make([]any, len(val.Elements))
		for i, e := range val.Elements {
			out[i] = toJSON(e)
		}
		return out
	case *runtime.MapValue:
		out := make(map[string]any, len(val.Entries))
		for k, e := range val.Entries {
			out[k] = toJSON(e)
		}
		return out
	}
	return "<unsupported>"
}

func fromJSON(v any) runtime.Value {
	switch val := v.(type) {
	case nil:
		return runtime.Nil
	case float64:
		return runtime.Number(val)
	case string:
		return runtime.Str(val)
	case bool:
		return runtime.Bool(val)
	case []any:
		list := &runtime.ListValue{Elements: make([]runtime.Value, len(val))}
		for i, e := range val {
			list.Elements[i] = fromJSON(e)
		}
		return list
	case map[string]any:
		m := runtime.NewMap()
		for k, e := range val {
			m.Entries[k] = fromJSON(e)
		}
		return m
	}
	return runtime.Nil
}
