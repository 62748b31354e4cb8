// interpreter.go — the tree-walking evaluator and its public entry points.
//
// OVERVIEW
// --------
// The Interpreter walks the S-expression AST from parser.go over a chain of
// lexical environments (env.go). Two well-known environments exist:
//
//   - Core:   builtins and registered natives (read-only to user code).
//   - Global: user-visible program state (REPL / embedding globals).
//
// Ephemeral runs (`EvalSource`) evaluate in a fresh child of Global, so the
// program cannot leave bindings behind; persistent runs
// (`EvalPersistentSource`) evaluate in Global itself, which is what the
// REPL uses.
//
// ERROR DISCIPLINE
// ----------------
// Runtime failures are raised internally by panicking with `rtErr` (via
// `fail`) and early returns with `returnSig`. Both are recovered exactly
// once, at the public Eval*/Apply boundary, and surfaced as a *RuntimeError
// Go error. Native builtins may call `fail` directly; they never see or
// handle panics themselves. Generator resumption hooks into the same
// discipline: a runtime error raised while a generator body runs marks the
// generator permanently failed (see generator.go) and then propagates.
package achronyme

import (
	"fmt"
	"math"
)

// Version of the Achronyme core.
const Version = "0.1.0"

// RuntimeError is the public form of a runtime failure. The walker does not
// track source spans, so it carries only the message.
type RuntimeError struct {
	Msg string
}

func (e *RuntimeError) Error() string { return "runtime error: " + e.Msg }

// rtErr is the internal panic payload for runtime failures.
type rtErr struct {
	msg string
}

// returnSig is the internal panic payload for `return` unwinding out of a
// function body.
type returnSig struct {
	v Value
}

// fail raises a runtime error. Recovered at the public boundary.
func fail(msg string) {
	panic(rtErr{msg: msg})
}

// Interpreter evaluates Achronyme programs.
type Interpreter struct {
	Core   *Env
	Global *Env
}

// NewInterpreter builds an interpreter with all builtins registered.
func NewInterpreter() *Interpreter {
	ip := &Interpreter{}
	ip.Core = NewEnv(nil)
	ip.Global = NewEnv(ip.Core)
	registerCoreBuiltins(ip)
	registerMathBuiltins(ip)
	registerIterBuiltins(ip)
	return ip
}

// RegisterNative installs a builtin into Core. params names the formal
// parameters (their count is enforced at call time); pass nil to accept any
// arity and validate inside impl.
func (ip *Interpreter) RegisterNative(name string, params []string, impl NativeFn) {
	ip.Core.Define(name, FunVal(&Fun{Name: name, Params: params, Native: impl}), false)
}

// EvalSource parses and evaluates src in a throwaway child of Global.
func (ip *Interpreter) EvalSource(src string) (Value, error) {
	ast, err := ParseSource(src)
	if err != nil {
		return Null, err
	}
	return ip.runTop(ast, NewEnv(ip.Global))
}

// EvalPersistentSource parses and evaluates src in Global itself, so
// bindings persist across calls (REPL semantics).
func (ip *Interpreter) EvalPersistentSource(src string) (Value, error) {
	ast, err := ParseSource(src)
	if err != nil {
		return Null, err
	}
	return ip.runTop(ast, ip.Global)
}

// EvalAST evaluates a parsed program in the given environment.
func (ip *Interpreter) EvalAST(ast S, env *Env) (Value, error) {
	return ip.runTop(ast, env)
}

// Apply calls an Achronyme function value from Go.
func (ip *Interpreter) Apply(fn Value, args []Value) (out Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = Null, recoveredError(r)
			if err == nil {
				panic(r)
			}
		}
	}()
	return ip.apply(fn, args), nil
}

// runTop is the single recovery point turning internal panics into errors.
func (ip *Interpreter) runTop(ast S, env *Env) (out Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			if sig, ok := r.(returnSig); ok {
				out, err = sig.v, nil
				return
			}
			out, err = Null, recoveredError(r)
			if err == nil {
				panic(r)
			}
		}
	}()
	return ip.evalBlock(ast, env), nil
}

func recoveredError(r interface{}) error {
	if e, ok := r.(rtErr); ok {
		return &RuntimeError{Msg: e.msg}
	}
	return nil
}

/* ---------- the walker ---------- */

// evalBlock evaluates a ("block", ...) node's statements in order and
// returns the last value (Null for an empty block).
func (ip *Interpreter) evalBlock(block S, env *Env) Value {
	out := Null
	for _, stmt := range block[1:] {
		out = ip.evalExpr(stmt.(S), env)
	}
	return out
}

func (ip *Interpreter) evalExpr(n S, env *Env) Value {
	switch tag := n[0].(string); tag {
	case "num":
		return Num(n[1].(float64))
	case "str":
		return Str(n[1].(string))
	case "bool":
		return Bool(n[1].(bool))
	case "null":
		return Null

	case "id":
		name := n[1].(string)
		v, ok := env.Get(name)
		if !ok {
			fail("undefined variable: " + name)
		}
		return v

	case "let":
		v := ip.evalExpr(n[2].(S), env)
		env.Define(n[1].(string), v, false)
		return v
	case "mut":
		v := ip.evalExpr(n[2].(S), env)
		env.Define(n[1].(string), v, true)
		return v
	case "assign":
		return ip.assignTo(n[1].(S), ip.evalExpr(n[2].(S), env), env)

	case "binop":
		return ip.evalBinop(n[1].(string), n[2].(S), n[3].(S), env)
	case "unop":
		return ip.evalUnop(n[1].(string), n[2].(S), env)

	case "vector":
		var xs []Value
		for _, raw := range n[1:] {
			el := raw.(S)
			if el[0].(string) == "spread" {
				sv := ip.evalExpr(el[1].(S), env)
				if sv.Tag != VTVector {
					fail(fmt.Sprintf("cannot spread %s into a vector", typeName(sv)))
				}
				xs = append(xs, sv.Data.([]Value)...)
				continue
			}
			xs = append(xs, ip.evalExpr(el, env))
		}
		return Vec(xs)

	case "record":
		rec := NewRecord()
		for _, raw := range n[1:] {
			pair := raw.(S)
			key := pair[1].(S)[1].(string)
			rec.Set(key, ip.evalExpr(pair[2].(S), env))
		}
		return RecVal(rec)

	case "lambda":
		params := n[1].(S)
		names := make([]string, 0, len(params)-1)
		for _, p := range params[1:] {
			names = append(names, p.(string))
		}
		return FunVal(&Fun{Params: names, Body: n[2].(S), Env: env})

	case "call":
		callee := ip.evalExpr(n[1].(S), env)
		args := make([]Value, 0, len(n)-2)
		for _, a := range n[2:] {
			args = append(args, ip.evalExpr(a.(S), env))
		}
		return ip.apply(callee, args)

	case "get":
		obj := ip.evalExpr(n[1].(S), env)
		return ip.getField(obj, n[2].(S)[1].(string))
	case "idx":
		obj := ip.evalExpr(n[1].(S), env)
		return ip.index(obj, ip.evalExpr(n[2].(S), env))

	case "if":
		if truthy(ip.evalExpr(n[1].(S), env)) {
			return ip.evalBlock(n[2].(S), NewEnv(env))
		}
		if len(n) > 3 {
			alt := n[3].(S)
			if alt[0].(string) == "if" {
				return ip.evalExpr(alt, env)
			}
			return ip.evalBlock(alt, NewEnv(env))
		}
		return Num(0)

	case "while":
		out := Num(0)
		for truthy(ip.evalExpr(n[1].(S), env)) {
			out = ip.evalBlock(n[2].(S), NewEnv(env))
		}
		return out

	case "for":
		return ip.evalForIn(n, env)

	case "do":
		return ip.evalBlock(n[1].(S), NewEnv(env))

	case "return":
		panic(returnSig{v: ip.evalExpr(n[1].(S), env)})

	case "yield":
		// Reached for yields outside any generator, and for yields in
		// expression position inside one (the resume engine only
		// suspends at statement level).
		fail("yield is only allowed at statement level inside a generate block")
		return Null

	case "generate":
		return GenVal(newGenerator(n[1].(S), env))

	case "block":
		return ip.evalBlock(n, NewEnv(env))
	}
	fail(fmt.Sprintf("cannot evaluate node '%v'", n[0]))
	return Null
}

// evalForIn drives `for (x in it) { ... }`: the iterable is evaluated and
// normalized once, and every iteration binds x in a fresh child scope so
// closures created in the body capture that iteration's value.
func (ip *Interpreter) evalForIn(n S, env *Env) Value {
	name := n[1].(string)
	next := ip.toIterator(ip.evalExpr(n[2].(S), env))
	body := n[3].(S)
	for {
		v, done := ip.callNext(next)
		if done {
			return Null
		}
		iterEnv := NewEnv(env)
		iterEnv.Define(name, v, false)
		ip.evalBlock(body, iterEnv)
	}
}

/* ---------- application ---------- */

// apply calls a function value. Natives with a non-nil Params list get an
// arity check; user closures always do. `return` unwinds to the nearest
// user-function call.
func (ip *Interpreter) apply(fn Value, args []Value) Value {
	if fn.Tag != VTFun {
		fail(fmt.Sprintf("cannot call a %s", typeName(fn)))
	}
	f := fn.Data.(*Fun)
	if f.Native != nil {
		if f.Params != nil && len(args) != len(f.Params) {
			fail(fmt.Sprintf("%s expects %d argument(s), got %d", f.Name, len(f.Params), len(args)))
		}
		return f.Native(ip, args)
	}
	if len(args) != len(f.Params) {
		fail(fmt.Sprintf("function expects %d argument(s), got %d", len(f.Params), len(args)))
	}
	return ip.callUser(f, args)
}

func (ip *Interpreter) callUser(f *Fun, args []Value) (out Value) {
	env := NewEnv(f.Env)
	for i, p := range f.Params {
		env.Define(p, args[i], false)
	}
	defer func() {
		if r := recover(); r != nil {
			if sig, ok := r.(returnSig); ok {
				out = sig.v
				return
			}
			panic(r)
		}
	}()
	return ip.evalExpr(f.Body, env)
}

/* ---------- assignment, fields, indexing ---------- */

func (ip *Interpreter) assignTo(target S, v Value, env *Env) Value {
	switch target[0].(string) {
	case "id":
		if err := env.Set(target[1].(string), v); err != nil {
			fail(err.Error())
		}
	case "get":
		obj := ip.evalExpr(target[1].(S), env)
		if obj.Tag != VTRecord {
			fail(fmt.Sprintf("cannot set a field on a %s", typeName(obj)))
		}
		obj.Data.(*RecordObject).Set(target[2].(S)[1].(string), v)
	case "idx":
		obj := ip.evalExpr(target[1].(S), env)
		idx := ip.evalExpr(target[2].(S), env)
		switch obj.Tag {
		case VTVector:
			xs := obj.Data.([]Value)
			xs[ip.vectorIndex(idx, len(xs))] = v
		case VTRecord:
			if idx.Tag != VTStr {
				fail("record index must be a string")
			}
			obj.Data.(*RecordObject).Set(idx.Data.(string), v)
		default:
			fail(fmt.Sprintf("cannot index-assign into a %s", typeName(obj)))
		}
	}
	return v
}

// getField resolves obj.name. Records expose their fields; generators
// expose `next` as a bound function so they satisfy the iterator protocol
// structurally.
func (ip *Interpreter) getField(obj Value, name string) Value {
	switch obj.Tag {
	case VTRecord:
		if v, ok := obj.Data.(*RecordObject).Get(name); ok {
			return v
		}
		fail(fmt.Sprintf("record has no field '%s'", name))
	case VTGen:
		if name == "next" {
			return boundNext(obj.Data.(*Generator))
		}
		fail(fmt.Sprintf("generators have a 'next' method, not '%s'", name))
	}
	fail(fmt.Sprintf("cannot access field '%s' on a %s", name, typeName(obj)))
	return Null
}

func (ip *Interpreter) index(obj, idx Value) Value {
	switch obj.Tag {
	case VTVector:
		xs := obj.Data.([]Value)
		return xs[ip.vectorIndex(idx, len(xs))]
	case VTRecord:
		if idx.Tag != VTStr {
			fail("record index must be a string")
		}
		key := idx.Data.(string)
		if v, ok := obj.Data.(*RecordObject).Get(key); ok {
			return v
		}
		fail(fmt.Sprintf("record has no field '%s'", key))
	}
	fail(fmt.Sprintf("cannot index a %s", typeName(obj)))
	return Null
}

// vectorIndex validates a numeric index against a vector of length n.
func (ip *Interpreter) vectorIndex(idx Value, n int) int {
	if idx.Tag != VTNum {
		fail("vector index must be a number")
	}
	f := idx.Data.(float64)
	i := int(f)
	if float64(i) != f {
		fail(fmt.Sprintf("vector index must be an integer, got %s", formatNum(f)))
	}
	if i < 0 || i >= n {
		fail(fmt.Sprintf("index %d out of range (length %d)", i, n))
	}
	return i
}

/* ---------- operators ---------- */

func (ip *Interpreter) evalBinop(op string, lhsN, rhsN S, env *Env) Value {
	// short-circuit forms first
	switch op {
	case "&&":
		if !truthy(ip.evalExpr(lhsN, env)) {
			return Bool(false)
		}
		return Bool(truthy(ip.evalExpr(rhsN, env)))
	case "||":
		if truthy(ip.evalExpr(lhsN, env)) {
			return Bool(true)
		}
		return Bool(truthy(ip.evalExpr(rhsN, env)))
	}

	a := ip.evalExpr(lhsN, env)
	b := ip.evalExpr(rhsN, env)
	switch op {
	case "==":
		return Bool(deepEqual(a, b))
	case "!=":
		return Bool(!deepEqual(a, b))
	case "+":
		switch {
		case a.Tag == VTNum && b.Tag == VTNum:
			return Num(a.Data.(float64) + b.Data.(float64))
		case a.Tag == VTStr && b.Tag == VTStr:
			return Str(a.Data.(string) + b.Data.(string))
		case a.Tag == VTVector && b.Tag == VTVector:
			xs := a.Data.([]Value)
			ys := b.Data.([]Value)
			out := make([]Value, 0, len(xs)+len(ys))
			out = append(out, xs...)
			out = append(out, ys...)
			return Vec(out)
		}
		fail(fmt.Sprintf("cannot add %s and %s", typeName(a), typeName(b)))
	case "-", "*", "/", "%", "^":
		x := numOperand(op, a)
		y := numOperand(op, b)
		switch op {
		case "-":
			return Num(x - y)
		case "*":
			return Num(x * y)
		case "/":
			return Num(x / y)
		case "%":
			return Num(math.Mod(x, y))
		case "^":
			return Num(math.Pow(x, y))
		}
	case "<", "<=", ">", ">=":
		x := numOperand(op, a)
		y := numOperand(op, b)
		switch op {
		case "<":
			return Bool(x < y)
		case "<=":
			return Bool(x <= y)
		case ">":
			return Bool(x > y)
		case ">=":
			return Bool(x >= y)
		}
	}
	fail("unknown operator '" + op + "'")
	return Null
}

func (ip *Interpreter) evalUnop(op string, rhsN S, env *Env) Value {
	v := ip.evalExpr(rhsN, env)
	switch op {
	case "-":
		return Num(-numOperand("-", v))
	case "!":
		return Bool(!truthy(v))
	}
	fail("unknown operator '" + op + "'")
	return Null
}

func numOperand(op string, v Value) float64 {
	if v.Tag != VTNum {
		fail(fmt.Sprintf("operator '%s' needs numbers, got %s", op, typeName(v)))
	}
	return v.Data.(float64)
}
