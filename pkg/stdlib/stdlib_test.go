package stdlib

import (
	"strings"
	"testing"

	"github.com/luma-lang/luma/pkg/runtime"
)

func callNative(t *testing.T, tbl table, name string, args ...runtime.Value) runtime.Value {
	t.Helper()
	fn, ok := tbl[name]
	if !ok {
		t.Fatalf("native %q not found", name)
	}
	v, err := fn.Fn(args)
	if err != nil {
		t.Fatalf("%s failed: %v", name, err)
	}
	return v
}

func TestGlobalLen(t *testing.T) {
	globals := Globals()
	list := &runtime.ListValue{Elements: []runtime.Value{runtime.Number(1), runtime.Number(2)}}
	v, err := globals["len"].Fn([]runtime.Value{list})
	if err != nil {
		t.Fatal(err)
	}
	if v.(*runtime.NumberValue).Val != 2 {
		t.Errorf("len(list) = %v", v)
	}
	v, _ = globals["len"].Fn([]runtime.Value{runtime.Str("abc")})
	if v.(*runtime.NumberValue).Val != 3 {
		t.Errorf("len(string) = %v", v)
	}
	if _, err := globals["len"].Fn([]runtime.Value{runtime.Number(5)}); err == nil {
		t.Error("len(number) should fail")
	}
}

func TestGlobalPushPop(t *testing.T) {
	globals := Globals()
	list := &runtime.ListValue{}
	if _, err := globals["push"].Fn([]runtime.Value{list, runtime.Str("a")}); err != nil {
		t.Fatal(err)
	}
	if len(list.Elements) != 1 {
		t.Fatalf("push did not append: %d", len(list.Elements))
	}
	v, _ := globals["pop"].Fn([]runtime.Value{list})
	if v.(*runtime.StringValue).Val != "a" {
		t.Errorf("pop = %v", v)
	}
	v, _ = globals["pop"].Fn([]runtime.Value{list})
	if v != runtime.Nil {
		t.Errorf("pop of empty list should be nil, got %v", v)
	}
}

func TestGlobalKeysSorted(t *testing.T) {
	m := runtime.NewMap()
	m.Entries["b"] = runtime.Number(2)
	m.Entries["a"] = runtime.Number(1)
	m.Entries["c"] = runtime.Number(3)
	v, err := Globals()["keys"].Fn([]runtime.Value{m})
	if err != nil {
		t.Fatal(err)
	}
	list := v.(*runtime.ListValue)
	got := make([]string, len(list.Elements))
	for i, e := range list.Elements {
		got[i] = e.(*runtime.StringValue).Val
	}
	if strings.Join(got, ",") != "a,b,c" {
		t.Errorf("keys order: %v", got)
	}
}

func TestGlobalRemove(t *testing.T) {
	m := runtime.NewMap()
	m.Entries["x"] = runtime.Number(9)
	v, err := Globals()["remove"].Fn([]runtime.Value{m, runtime.Str("x")})
	if err != nil {
		t.Fatal(err)
	}
	if v.(*runtime.NumberValue).Val != 9 {
		t.Errorf("removed value: %v", v)
	}
	if _, ok := m.Entries["x"]; ok {
		t.Error("key not deleted")
	}
	v, _ = Globals()["remove"].Fn([]runtime.Value{m, runtime.Str("x")})
	if v != runtime.Nil {
		t.Errorf("removing a missing key should yield nil, got %v", v)
	}
}

func TestModuleRegistry(t *testing.T) {
	for _, id := range []string{"@std.time", "@std.json", "@std.math", "@std.uuid"} {
		if !HasModule(id) {
			t.Errorf("missing module %s", id)
		}
	}
	if HasModule("@std.nonsense") {
		t.Error("unknown module should not register")
	}
	exports := runtime.NewMap()
	Install("@std.math", exports)
	if _, ok := exports.Entries["sqrt"]; !ok {
		t.Error("Install should add sqrt")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	tbl := jsonNatives()
	m := runtime.NewMap()
	m.Entries["name"] = runtime.Str("luma")
	m.Entries["count"] = runtime.Number(3)
	m.Entries["tags"] = &runtime.ListValue{Elements: []runtime.Value{runtime.Str("a"), runtime.Nil}}

	encoded := callNative(t, tbl, "stringify", m).(*runtime.StringValue).Val
	decoded := callNative(t, tbl, "parse", runtime.Str(encoded)).(*runtime.MapValue)

	if decoded.Entries["name"].(*runtime.StringValue).Val != "luma" {
		t.Errorf("name: %v", decoded.Entries["name"])
	}
	if decoded.Entries["count"].(*runtime.NumberValue).Val != 3 {
		t.Errorf("count: %v", decoded.Entries["count"])
	}
	tags := decoded.Entries["tags"].(*runtime.ListValue)
	if len(tags.Elements) != 2 || tags.Elements[1] != runtime.Nil {
		t.Errorf("tags: %v", runtime.ToString(tags))
	}
}

func TestJSONStringifyIntegralNumbers(t *testing.T) {
	got := callNative(t, jsonNatives(), "stringify", runtime.Number(5)).(*runtime.StringValue).Val
	if got != "5" {
		t.Errorf("stringify(5) = %q", got)
	}
}

func TestJSONParseInvalidYieldsNil(t *testing.T) {
	got := callNative(t, jsonNatives(), "parse", runtime.Str("{nope"))
	if got != runtime.Nil {
		t.Errorf("parse of invalid JSON: %v", got)
	}
}

func TestStringNatives(t *testing.T) {
	tbl := stringNatives()
	if got := callNative(t, tbl, "upper", runtime.Str("abc")).(*runtime.StringValue).Val; got != "ABC" {
		t.Errorf("upper: %q", got)
	}
	if got := callNative(t, tbl, "trim", runtime.Str("  x  ")).(*runtime.StringValue).Val; got != "x" {
		t.Errorf("trim: %q", got)
	}
	parts := callNative(t, tbl, "split", runtime.Str("a,b,c"), runtime.Str(",")).(*runtime.ListValue)
	if len(parts.Elements) != 3 {
		t.Errorf("split: %v", runtime.ToString(parts))
	}
	joined := callNative(t, tbl, "join", parts, runtime.Str("-")).(*runtime.StringValue).Val
	if joined != "a-b-c" {
		t.Errorf("join: %q", joined)
	}
	if _, err := tbl["split"].Fn([]runtime.Value{runtime.Str("a"), runtime.Str("")}); err == nil {
		t.Error("empty delimiter should fail")
	}
}

func TestRegexNatives(t *testing.T) {
	tbl := regexNatives()
	// match is anchored to the whole string, search is not.
	if got := callNative(t, tbl, "match", runtime.Str("ab+"), runtime.Str("xabbx")); got.(*runtime.BoolValue).Val {
		t.Error("match should require a full-string match")
	}
	if got := callNative(t, tbl, "search", runtime.Str("ab+"), runtime.Str("xabbx")); !got.(*runtime.BoolValue).Val {
		t.Error("search should find a substring match")
	}
	replaced := callNative(t, tbl, "replace", runtime.Str("[0-9]+"), runtime.Str("a1b22"), runtime.Str("#")).(*runtime.StringValue).Val
	if replaced != "a#b#" {
		t.Errorf("replace: %q", replaced)
	}
	if _, err := tbl["search"].Fn([]runtime.Value{runtime.Str("("), runtime.Str("x")}); err == nil {
		t.Error("invalid pattern should fail")
	}
}

func TestMathNatives(t *testing.T) {
	tbl := mathNatives()
	if got := callNative(t, tbl, "sqrt", runtime.Number(9)).(*runtime.NumberValue).Val; got != 3 {
		t.Errorf("sqrt: %v", got)
	}
	if got := callNative(t, tbl, "floor", runtime.Number(2.9)).(*runtime.NumberValue).Val; got != 2 {
		t.Errorf("floor: %v", got)
	}
}

func TestRandomIntStaysInRange(t *testing.T) {
	tbl := randomNatives()
	for i := 0; i < 50; i++ {
		v := callNative(t, tbl, "int", runtime.Number(1), runtime.Number(3)).(*runtime.NumberValue).Val
		if v < 1 || v > 3 {
			t.Fatalf("random.int out of range: %v", v)
		}
	}
}

func TestCryptoHashIsStable(t *testing.T) {
	tbl := cryptoNatives()
	a := callNative(t, tbl, "hash", runtime.Str("data")).(*runtime.StringValue).Val
	b := callNative(t, tbl, "hash", runtime.Str("data")).(*runtime.StringValue).Val
	if a != b || len(a) != 64 {
		t.Errorf("hash: %q vs %q", a, b)
	}
}

func TestUUIDNatives(t *testing.T) {
	tbl := uuidNatives()
	id := callNative(t, tbl, "new").(*runtime.StringValue).Val
	valid := callNative(t, tbl, "is_valid", runtime.Str(id)).(*runtime.BoolValue).Val
	if !valid {
		t.Errorf("generated uuid should validate: %q", id)
	}
	valid = callNative(t, tbl, "is_valid", runtime.Str("not-a-uuid")).(*runtime.BoolValue).Val
	if valid {
		t.Error("junk should not validate")
	}
}
