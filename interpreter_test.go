package achronyme

import (
	"strings"
	"testing"
)

/* ---------- helpers ---------- */

func evalSrc(t *testing.T, src string) Value {
	t.Helper()
	ip := NewInterpreter()
	v, err := ip.EvalSource(src)
	if err != nil {
		t.Fatalf("eval failed: %v\nsource:\n%s", err, src)
	}
	return v
}

func evalErr(t *testing.T, src string) string {
	t.Helper()
	ip := NewInterpreter()
	_, err := ip.EvalSource(src)
	if err == nil {
		t.Fatalf("expected an error\nsource:\n%s", src)
	}
	return err.Error()
}

func wantNum(t *testing.T, v Value, want float64) {
	t.Helper()
	if v.Tag != VTNum {
		t.Fatalf("want number %v, got %s (%s)", want, FormatValue(v), typeName(v))
	}
	if got := v.Data.(float64); got != want {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func wantBool(t *testing.T, v Value, want bool) {
	t.Helper()
	if v.Tag != VTBool || v.Data.(bool) != want {
		t.Fatalf("want %v, got %s", want, FormatValue(v))
	}
}

func wantStr(t *testing.T, v Value, want string) {
	t.Helper()
	if v.Tag != VTStr || v.Data.(string) != want {
		t.Fatalf("want %q, got %s", want, FormatValue(v))
	}
}

func wantNull(t *testing.T, v Value) {
	t.Helper()
	if v.Tag != VTNull {
		t.Fatalf("want null, got %s", FormatValue(v))
	}
}

func wantNums(t *testing.T, v Value, want []float64) {
	t.Helper()
	if v.Tag != VTVector {
		t.Fatalf("want a vector, got %s", FormatValue(v))
	}
	xs := v.Data.([]Value)
	if len(xs) != len(want) {
		t.Fatalf("want %v, got %s", want, FormatValue(v))
	}
	for i, w := range want {
		if xs[i].Tag != VTNum || xs[i].Data.(float64) != w {
			t.Fatalf("want %v, got %s", want, FormatValue(v))
		}
	}
}

func wantErrContains(t *testing.T, msg, sub string) {
	t.Helper()
	if !strings.Contains(msg, sub) {
		t.Fatalf("error %q does not mention %q", msg, sub)
	}
}

/* ---------- literals & operators ---------- */

func Test_Interpreter_Literals(t *testing.T) {
	wantNum(t, evalSrc(t, `42`), 42)
	wantNum(t, evalSrc(t, `3.25`), 3.25)
	wantNum(t, evalSrc(t, `.5`), 0.5)
	wantNum(t, evalSrc(t, `1e3`), 1000)
	wantStr(t, evalSrc(t, `"hi\n"`), "hi\n")
	wantBool(t, evalSrc(t, `true`), true)
	wantBool(t, evalSrc(t, `false`), false)
	wantNull(t, evalSrc(t, `null`))
}

func Test_Interpreter_Arithmetic(t *testing.T) {
	wantNum(t, evalSrc(t, `1 + 2 * 3`), 7)
	wantNum(t, evalSrc(t, `(1 + 2) * 3`), 9)
	wantNum(t, evalSrc(t, `10 / 4`), 2.5)
	wantNum(t, evalSrc(t, `10 % 3`), 1)
	wantNum(t, evalSrc(t, `-5 + 2`), -3)
	wantNum(t, evalSrc(t, `2 ^ 10`), 1024)
	// power is right associative
	wantNum(t, evalSrc(t, `2 ^ 3 ^ 2`), 512)
}

func Test_Interpreter_Comparison(t *testing.T) {
	wantBool(t, evalSrc(t, `1 < 2`), true)
	wantBool(t, evalSrc(t, `2 <= 2`), true)
	wantBool(t, evalSrc(t, `3 > 4`), false)
	wantBool(t, evalSrc(t, `1 == 1`), true)
	wantBool(t, evalSrc(t, `"a" == "a"`), true)
	wantBool(t, evalSrc(t, `[1, 2] == [1, 2]`), true)
	wantBool(t, evalSrc(t, `{a: 1} == {a: 2}`), false)
	wantBool(t, evalSrc(t, `1 != 2`), true)
}

func Test_Interpreter_Logic(t *testing.T) {
	wantBool(t, evalSrc(t, `true && false`), false)
	wantBool(t, evalSrc(t, `false || true`), true)
	wantBool(t, evalSrc(t, `!true`), false)
	wantBool(t, evalSrc(t, `!0`), true)
	// short circuit: the right side never evaluates
	wantBool(t, evalSrc(t, `false && nope`), false)
	wantBool(t, evalSrc(t, `true || nope`), true)
}

func Test_Interpreter_TruthinessErrors(t *testing.T) {
	wantErrContains(t, evalErr(t, `if ("yes") { 1 }`), "cannot use string as a condition")
	wantErrContains(t, evalErr(t, `!null`), "cannot use null as a condition")
}

/* ---------- bindings & scoping ---------- */

func Test_Interpreter_Bindings(t *testing.T) {
	wantNum(t, evalSrc(t, "let x = 10\nx + 1"), 11)
	wantNum(t, evalSrc(t, "mut x = 1\nx = x + 1\nx"), 2)
	wantErrContains(t, evalErr(t, "let x = 1\nx = 2"), "immutable binding 'x'")
	wantErrContains(t, evalErr(t, `missing`), "undefined variable: missing")
	wantErrContains(t, evalErr(t, `y = 3`), "undefined variable: y")
}

func Test_Interpreter_DoBlockScoping(t *testing.T) {
	src := `
let x = 1
let y = do {
	let x = 2
	x + 1
}
[x, y]
`
	wantNums(t, evalSrc(t, src), []float64{1, 3})
}

/* ---------- control flow ---------- */

func Test_Interpreter_If(t *testing.T) {
	wantNum(t, evalSrc(t, `if (true) { 1 } else { 2 }`), 1)
	wantNum(t, evalSrc(t, `if (false) { 1 } else { 2 }`), 2)
	// no else: the if evaluates to 0
	wantNum(t, evalSrc(t, `if (false) { 1 }`), 0)
	src := `
let grade = (n) => if (n >= 90) { "a" } else if (n >= 80) { "b" } else { "c" }
grade(85)
`
	wantStr(t, evalSrc(t, src), "b")
}

func Test_Interpreter_While(t *testing.T) {
	src := `
mut i = 0
mut acc = 0
while (i < 5) {
	acc = acc + i
	i = i + 1
}
acc
`
	wantNum(t, evalSrc(t, src), 10)
	// while that never runs evaluates to 0
	wantNum(t, evalSrc(t, `while (false) { 99 }`), 0)
	// while evaluates to its last body value
	wantNum(t, evalSrc(t, "mut i = 0\nwhile (i < 3) { i = i + 1 }"), 3)
}

/* ---------- vectors & records ---------- */

func Test_Interpreter_Vectors(t *testing.T) {
	wantNums(t, evalSrc(t, `[1, 2, 3]`), []float64{1, 2, 3})
	wantNums(t, evalSrc(t, `[1, 2] + [3]`), []float64{1, 2, 3})
	wantNums(t, evalSrc(t, "let xs = [2, 3]\n[1, ...xs, 4]"), []float64{1, 2, 3, 4})
	wantNum(t, evalSrc(t, "let xs = [10, 20, 30]\nxs[1]"), 20)
	wantNums(t, evalSrc(t, "let xs = [1, 2, 3]\nxs[0] = 9\nxs"), []float64{9, 2, 3})
	wantErrContains(t, evalErr(t, `[1][5]`), "out of range")
	wantErrContains(t, evalErr(t, `[1][0.5]`), "must be an integer")
	wantErrContains(t, evalErr(t, `...[1]`), "expected an expression")
}

func Test_Interpreter_Records(t *testing.T) {
	wantNum(t, evalSrc(t, "let p = {x: 3, y: 4}\np.x + p.y"), 7)
	wantNum(t, evalSrc(t, `{a: 1}["a"]`), 1)
	wantErrContains(t, evalErr(t, `{a: 1}.b`), "no field 'b'")
	// records are shared by reference
	src := `
let a = {mut n: 1}
let b = a
b.n = 5
a.n
`
	wantNum(t, evalSrc(t, src), 5)
}

/* ---------- functions ---------- */

func Test_Interpreter_Lambdas(t *testing.T) {
	wantNum(t, evalSrc(t, "let add = (a, b) => a + b\nadd(2, 3)"), 5)
	wantNum(t, evalSrc(t, "let twice = f => f(f(1))\ntwice(x => x * 3)"), 9)
	wantNum(t, evalSrc(t, "let k = () => 7\nk()"), 7)
}

func Test_Interpreter_Closures(t *testing.T) {
	src := `
let mkCounter = () => do {
	mut n = 0
	() => do {
		n = n + 1
		n
	}
}
let c = mkCounter()
c()
c()
let d = mkCounter()
[c(), d()]
`
	wantNums(t, evalSrc(t, src), []float64{3, 1})
}

func Test_Interpreter_Return(t *testing.T) {
	src := `
let sign = (n) => do {
	if (n < 0) {
		return -1
	}
	if (n > 0) {
		return 1
	}
	0
}
[sign(-5), sign(9), sign(0)]
`
	wantNums(t, evalSrc(t, src), []float64{-1, 1, 0})
}

func Test_Interpreter_CallErrors(t *testing.T) {
	wantErrContains(t, evalErr(t, "let f = (a, b) => a\nf(1)"), "expects 2 argument(s), got 1")
	wantErrContains(t, evalErr(t, `42(1)`), "cannot call a number")
	wantErrContains(t, evalErr(t, `len(1, 2)`), "len expects 1 argument(s), got 2")
}

/* ---------- builtins ---------- */

func Test_Interpreter_CoreBuiltins(t *testing.T) {
	wantNum(t, evalSrc(t, `len([1, 2, 3])`), 3)
	wantNum(t, evalSrc(t, `len("abc")`), 3)
	wantNum(t, evalSrc(t, `len({a: 1, b: 2})`), 2)
	wantStr(t, evalSrc(t, `typeOf(1)`), "number")
	wantStr(t, evalSrc(t, `typeOf(generate { yield 1 })`), "generator")
	wantNum(t, evalSrc(t, `abs(-3)`), 3)
	wantNum(t, evalSrc(t, `min(2, 5)`), 2)
	wantNum(t, evalSrc(t, `max(2, 5)`), 5)
	wantNum(t, evalSrc(t, `sum([1, 2, 3, 4])`), 10)
}

func Test_Interpreter_MathBuiltins(t *testing.T) {
	wantNum(t, evalSrc(t, `sqrt(16)`), 4)
	wantNum(t, evalSrc(t, `floor(2.7)`), 2)
	wantNum(t, evalSrc(t, `ceil(2.1)`), 3)
	wantNum(t, evalSrc(t, `round(2.5)`), 3)
	wantNum(t, evalSrc(t, `pow(2, 8)`), 256)
	wantBool(t, evalSrc(t, `ln(e) > 0.999 && ln(e) < 1.001`), true)
	wantBool(t, evalSrc(t, `sin(0) == 0`), true)
	wantBool(t, evalSrc(t, `cos(0) == 1`), true)
	wantBool(t, evalSrc(t, `pi > 3.14 && pi < 3.15`), true)
}

/* ---------- scoping of Eval entry points ---------- */

func Test_Interpreter_EphemeralVsPersistent(t *testing.T) {
	ip := NewInterpreter()
	if _, err := ip.EvalSource(`let tmp = 1`); err != nil {
		t.Fatal(err)
	}
	if _, err := ip.EvalSource(`tmp`); err == nil {
		t.Fatal("ephemeral binding leaked into Global")
	}
	if _, err := ip.EvalPersistentSource(`let kept = 2`); err != nil {
		t.Fatal(err)
	}
	v, err := ip.EvalPersistentSource(`kept`)
	if err != nil {
		t.Fatal(err)
	}
	wantNum(t, v, 2)
}
