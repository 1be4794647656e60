package interpreter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/luma-lang/luma/pkg/lexer"
	"github.com/luma-lang/luma/pkg/parser"
)

// runSource lexes, parses and runs a program, returning print output.
func runSource(t *testing.T, source string) string {
	t.Helper()
	out, err := tryRunSource(t, source)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return out
}

func tryRunSource(t *testing.T, source string) (string, error) {
	t.Helper()
	tokens, err := lexer.New(source).ScanTokens()
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	program, parseErrs := parser.New(tokens).Parse()
	if len(parseErrs) > 0 {
		t.Fatalf("parse failed: %v", parseErrs[0])
	}
	var buf bytes.Buffer
	interp := New()
	interp.SetOutput(&buf)
	runErr := interp.Run(program)
	return buf.String(), runErr
}

func expectRuntimeError(t *testing.T, source, fragment string) {
	t.Helper()
	_, err := tryRunSource(t, source)
	if err == nil {
		t.Fatalf("expected a runtime error containing %q", fragment)
	}
	if !strings.Contains(err.Error(), fragment) {
		t.Errorf("error %q should contain %q", err.Error(), fragment)
	}
}

func TestFunctionCallAndPrint(t *testing.T) {
	out := runSource(t, `
def add(a, b) { return a + b }
print(add(2, 3))
`)
	if out != "5\n" {
		t.Errorf("output: %q", out)
	}
}

func TestNumberFormatting(t *testing.T) {
	out := runSource(t, "print(4 / 2)\nprint(5 / 2)\nprint(0 - 3)")
	if out != "2\n2.5\n-3\n" {
		t.Errorf("output: %q", out)
	}
}

func TestStringConcat(t *testing.T) {
	out := runSource(t, `print("foo" + "bar")`)
	if out != "foobar\n" {
		t.Errorf("output: %q", out)
	}
	expectRuntimeError(t, `x = "a" + 1`, "'+' needs (number,number) or (string,string)")
}

func TestDivisionByZero(t *testing.T) {
	expectRuntimeError(t, "x = 1 / 0", "division by zero")
}

func TestTruthiness(t *testing.T) {
	out := runSource(t, `
if (0) { print("zero is truthy") }
if ("") { print("empty is truthy") }
if (nil) { print("no") } else { print("nil is falsy") }
if (false) { print("no") } else { print("false is falsy") }
`)
	want := "zero is truthy\nempty is truthy\nnil is falsy\nfalse is falsy\n"
	if out != want {
		t.Errorf("output: %q", out)
	}
}

func TestShortCircuitYieldsOperand(t *testing.T) {
	out := runSource(t, `
print(nil or "fallback")
print("left" or explode())
print(false and explode())
print(1 and 2)
`)
	want := "fallback\nleft\nfalse\n2\n"
	if out != want {
		t.Errorf("output: %q", out)
	}
}

func TestWhileAndUntil(t *testing.T) {
	out := runSource(t, `
i = 0
while (i < 3) { print(i) i = i + 1 }
until (i == 0) { i = i - 1 }
print(i)
`)
	if out != "0\n1\n2\n0\n" {
		t.Errorf("output: %q", out)
	}
}

func TestEchoRepeatsBody(t *testing.T) {
	out := runSource(t, `echo 3 { print("hi") }`)
	if out != "hi\nhi\nhi\n" {
		t.Errorf("output: %q", out)
	}
	if out := runSource(t, `echo 0 { print("never") }`); out != "" {
		t.Errorf("echo 0 ran the body: %q", out)
	}
}

func TestEchoCountValidation(t *testing.T) {
	expectRuntimeError(t, `echo 0 - 1 { print("no") }`, "Echo count cannot be negative.")
	expectRuntimeError(t, `echo "three" { print("no") }`, "Echo count must be a number.")
}

func TestEchoIterationScopes(t *testing.T) {
	// Each iteration gets a fresh scope; x re-binds locally every time.
	out := runSource(t, `
total = 0
echo 2 { x = 10 total = total + x }
print(total)
`)
	if out != "20\n" {
		t.Errorf("output: %q", out)
	}
}

func TestSwap(t *testing.T) {
	out := runSource(t, `
a = 1
b = 2
a <-> b
print(a)
print(b)
`)
	if out != "2\n1\n" {
		t.Errorf("output: %q", out)
	}
	expectRuntimeError(t, "a = 1\na <-> missing", "Undefined variable 'missing'")
}

func TestMaybeSuppressesErrors(t *testing.T) {
	out := runSource(t, `
maybe { x = 1 / 0 print("unreached") } otherwise { print("recovered") }
maybe { y = 1 / 0 }
print("after")
`)
	if out != "recovered\nafter\n" {
		t.Errorf("output: %q", out)
	}
}

func TestMaybeDoesNotCatchReturn(t *testing.T) {
	out := runSource(t, `
def f() {
  maybe { return "early" }
  return "late"
}
print(f())
`)
	if out != "early\n" {
		t.Errorf("output: %q", out)
	}
}

func TestClosuresShareEnvironment(t *testing.T) {
	out := runSource(t, `
def makeCounter() {
  count = 0
  def increment() {
    count = count + 1
    return count
  }
  return increment
}
c = makeCounter()
print(c())
print(c())
`)
	if out != "1\n2\n" {
		t.Errorf("output: %q", out)
	}
}

func TestLoopIterationClosuresAreIndependent(t *testing.T) {
	// Each while iteration is a fresh scope, so closures captured in
	// different iterations mutate separate bindings.
	out := runSource(t, `
fns = []
i = 0
while (i < 2) {
  v = (i + 1) * 10
  def get() {
    v = v + 1
    return v - 1
  }
  push(fns, get)
  i = i + 1
}
a = fns[0]
b = fns[1]
print(a())
print(b())
print(a())
`)
	if out != "10\n20\n11\n" {
		t.Errorf("output: %q", out)
	}
}

func TestAssignmentWalksOutward(t *testing.T) {
	out := runSource(t, `
x = 1
if (true) { x = 2 }
print(x)
`)
	if out != "2\n" {
		t.Errorf("assignment should update the outer binding: %q", out)
	}
}

func TestBlockLocalsDoNotLeak(t *testing.T) {
	expectRuntimeError(t, `
if (true) { local = 1 }
print(local)
`, "Undefined variable 'local'")
}

func TestClassInitAndMethods(t *testing.T) {
	out := runSource(t, `
class Point {
  def init(x, y) {
    this.x = x
    this.y = y
  }
  def sum() {
    return this.x + this.y
  }
}
p = Point(3, 4)
print(p.sum())
p.x = 10
print(p.sum())
`)
	if out != "7\n14\n" {
		t.Errorf("output: %q", out)
	}
}

func TestMethodExtractionStaysBound(t *testing.T) {
	out := runSource(t, `
class Greeter {
  def init(name) { this.name = name }
  def greet() { return "hi " + this.name }
}
g = Greeter("ada")
m = g.greet
print(m())
`)
	if out != "hi ada\n" {
		t.Errorf("output: %q", out)
	}
}

func TestClassWithoutInitRejectsArgs(t *testing.T) {
	out := runSource(t, `
class Empty { }
e = Empty()
print(e)
`)
	if out != "<instance Empty>\n" {
		t.Errorf("output: %q", out)
	}
	expectRuntimeError(t, "class Empty { }\ne = Empty(1)", "Expected 0 arguments but got 1.")
}

func TestInitReturnValueIgnored(t *testing.T) {
	out := runSource(t, `
class Box {
  def init() { return 42 }
}
print(Box())
`)
	if out != "<instance Box>\n" {
		t.Errorf("construction must yield the instance: %q", out)
	}
}

func TestExactArity(t *testing.T) {
	expectRuntimeError(t, "def f(a, b) { }\nf(1)", "Expected 2 arguments but got 1.")
	expectRuntimeError(t, "def f() { }\nf(1, 2)", "Expected 0 arguments but got 2.")
}

func TestCallNonCallable(t *testing.T) {
	expectRuntimeError(t, "x = 5\nx()", "Can only call functions and classes.")
}

func TestListIndexing(t *testing.T) {
	out := runSource(t, `
items = [10, 20, 30]
print(items[1])
items[1] = 99
print(items)
`)
	if out != "20\n[10, 99, 30]\n" {
		t.Errorf("output: %q", out)
	}
	expectRuntimeError(t, "items = [1]\nx = items[5]", "List index out of bounds.")
	expectRuntimeError(t, `items = [1]
x = items["0"]`, "List index must be a number.")
}

func TestMapIndexing(t *testing.T) {
	out := runSource(t, `
m = {"a": 1}
print(m["a"])
m["b"] = 2
print(m)
print(len(m))
`)
	if out != "1\n{a: 1, b: 2}\n2\n" {
		t.Errorf("output: %q", out)
	}
	expectRuntimeError(t, `m = {"a": 1}
x = m["missing"]`, "Undefined key 'missing'.")
	expectRuntimeError(t, `m = {"a": 1}
x = m[0]`, "Map key must be a string.")
}

func TestReferenceSemantics(t *testing.T) {
	out := runSource(t, `
a = [1]
b = a
push(b, 2)
print(a)
print(a == b)
print([1] == [1])
`)
	if out != "[1, 2]\ntrue\nfalse\n" {
		t.Errorf("output: %q", out)
	}
}

func TestEqualityAcrossTypes(t *testing.T) {
	out := runSource(t, `
print(nil == nil)
print(nil == false)
print(1 == "1")
print("a" != "b")
`)
	if out != "true\nfalse\nfalse\ntrue\n" {
		t.Errorf("output: %q", out)
	}
}

func TestComparisonRequiresNumbers(t *testing.T) {
	expectRuntimeError(t, `x = "a" < "b"`, "expected number in comparison")
}

func TestUnaryOperators(t *testing.T) {
	out := runSource(t, `
print(-(2 + 3))
print(!nil)
print(not true)
`)
	if out != "-5\ntrue\nfalse\n" {
		t.Errorf("output: %q", out)
	}
	expectRuntimeError(t, `x = -"s"`, "expected number in unary '-'")
}

func TestTopLevelReturnFails(t *testing.T) {
	expectRuntimeError(t, "return 1", "Return used outside of a function.")
}

func TestFunctionWithoutReturnYieldsNil(t *testing.T) {
	out := runSource(t, "def f() { }\nprint(f())")
	if out != "nil\n" {
		t.Errorf("output: %q", out)
	}
}

func TestGlobalNativesAvailable(t *testing.T) {
	out := runSource(t, `
items = []
push(items, "x")
print(len(items))
print(keys({"b": 1, "a": 2}))
`)
	if out != "1\n[a, b]\n" {
		t.Errorf("output: %q", out)
	}
}

func TestUndefinedVariableMentionsLine(t *testing.T) {
	_, err := tryRunSource(t, "x = 1\ny = ghost")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "Undefined variable 'ghost' at line 2") {
		t.Errorf("error: %v", err)
	}
}
