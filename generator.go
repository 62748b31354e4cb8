// generator.go — suspendable execution: frame stack, resume engine, and the
// Generator object behind `generate { ... }`.
//
// DESIGN
// ------
// A generator body is never compiled or transformed. Its block is kept as a
// template, and the suspended position lives in a tree of frames mirroring
// the nesting of the statement being executed when the last `yield` ran:
//
//   - seqFrame:   a statement list plus a cursor and the scope it runs in.
//     When the cursor sits on a nested construct the frame holds a child
//     frame for it and delegates until the child pops.
//   - whileFrame: the condition and body templates plus the current body
//     instance (nil between iterations). The condition re-evaluates in the
//     enclosing scope before each iteration; every iteration gets a fresh
//     body scope.
//   - ifFrame:    a pass-through over the chosen branch. The condition is
//     evaluated exactly once, when the `if` statement is first reached;
//     resuming never re-tests it.
//   - forFrame:   like whileFrame, but advancing a normalized iterator and
//     binding the loop variable in a fresh per-iteration scope.
//
// Resuming walks from the root to the innermost active frame and advances
// exactly there, so a `yield` buried under `while { if { ... } }` continues
// from its own statement list, not from the top of the body.
//
// TERMINAL STATES
// ---------------
// A generator that returns (explicitly or by exhausting its body) is done:
// the frame tree is dropped and every further next() call answers the same
// {value: sticky, done: true} record. A body that fails is poisoned
// instead: the same runtime error is re-raised on every further call. The
// running flag rejects reentrant next() calls (a body reaching its own
// next() through an alias). Abandoned generators need no teardown; the
// frame tree is ordinary memory and the collector reclaims it.
package achronyme

// Generator is the runtime object behind `generate { ... }`. It is shared
// by reference: every binding of one generator observes the same state.
type Generator struct {
	env     *Env      // fresh child of the creation scope
	root    *seqFrame // nil once the generator is done
	done    bool
	sticky  Value  // the return value, replayed once done
	failMsg string // non-empty: poisoned, re-fail with this message
	running bool
}

// newGenerator captures the creation scope and suspends at the first
// statement. Nothing in body runs until next() is called.
func newGenerator(body S, captured *Env) *Generator {
	env := NewEnv(captured)
	return &Generator{
		env:  env,
		root: &seqFrame{stmts: body[1:], env: env},
	}
}

// boundNext wraps g's resumption as a zero-argument native function, which
// is how a generator satisfies the {value, done} iterator protocol.
func boundNext(g *Generator) Value {
	return FunVal(&Fun{
		Name:   "next",
		Params: []string{},
		Native: func(ip *Interpreter, _ []Value) Value {
			return g.next(ip)
		},
	})
}

// next resumes the generator until it yields, returns, exhausts its body,
// or fails, and answers a {value, done} record.
func (g *Generator) next(ip *Interpreter) Value {
	if g.running {
		fail("reentrant next() call on a running generator")
	}
	if g.failMsg != "" {
		fail(g.failMsg)
	}
	if g.done {
		return iterResult(g.sticky, true)
	}

	g.running = true
	defer func() {
		g.running = false
		if r := recover(); r != nil {
			// A failing body poisons the generator: the same error
			// replays on every further next() call.
			if e, ok := r.(rtErr); ok {
				g.done = true
				g.failMsg = e.msg
			}
			panic(r)
		}
	}()

	for {
		res := g.stepRoot(ip)
		switch res.kind {
		case stepMore:
			continue
		case stepYielded:
			return iterResult(res.value, false)
		case stepReturned:
			g.finish(res.value)
			return iterResult(res.value, true)
		case stepPopped:
			g.finish(Null)
			return iterResult(Null, true)
		}
	}
}

// stepRoot advances the frame tree once. A `return` in expression position
// (inside a do-block or if-value the walker evaluates in full) unwinds as a
// returnSig; the enclosing function there is the generator body itself, so
// it terminates the generator exactly like a statement-level return.
func (g *Generator) stepRoot(ip *Interpreter) (res stepResult) {
	defer func() {
		if r := recover(); r != nil {
			if sig, ok := r.(returnSig); ok {
				res = stepResult{kind: stepReturned, value: sig.v}
				return
			}
			panic(r)
		}
	}()
	return g.root.step(ip)
}

func (g *Generator) finish(v Value) {
	g.done = true
	g.sticky = v
	g.root = nil
}

/* ---------- frames ---------- */

type stepKind int

const (
	stepMore     stepKind = iota // progressed; step again
	stepPopped                   // this frame is finished
	stepYielded                  // suspend and hand value out
	stepReturned                 // terminate the whole generator
)

type stepResult struct {
	kind  stepKind
	value Value
}

type frame interface {
	step(ip *Interpreter) stepResult
}

// seqFrame executes a statement list. The cursor names the next statement
// to run; while a nested construct is active it lives in child and the
// cursor stays on its statement until the child pops.
type seqFrame struct {
	stmts  []any
	cursor int
	env    *Env
	child  frame
}

// newBodyFrame builds the sequence frame for a loop or branch body. The
// node is normally a block; a bare node (an `else if` chain) becomes a
// one-statement sequence.
func newBodyFrame(node S, env *Env) *seqFrame {
	if node[0].(string) == "block" {
		return &seqFrame{stmts: node[1:], env: env}
	}
	return &seqFrame{stmts: []any{node}, env: env}
}

func (f *seqFrame) step(ip *Interpreter) stepResult {
	if f.child != nil {
		res := f.child.step(ip)
		if res.kind == stepPopped {
			f.child = nil
			f.cursor++
			return stepResult{kind: stepMore}
		}
		return res
	}
	if f.cursor >= len(f.stmts) {
		return stepResult{kind: stepPopped}
	}

	stmt := f.stmts[f.cursor].(S)
	switch stmt[0].(string) {
	case "yield":
		v := ip.evalExpr(stmt[1].(S), f.env)
		// The cursor moves past the yield before suspending, so the
		// next resume starts at the following statement.
		f.cursor++
		return stepResult{kind: stepYielded, value: v}

	case "return":
		return stepResult{kind: stepReturned, value: ip.evalExpr(stmt[1].(S), f.env)}

	case "while":
		f.child = &whileFrame{cond: stmt[1].(S), body: stmt[2].(S), env: f.env}
		return stepResult{kind: stepMore}

	case "if":
		if truthy(ip.evalExpr(stmt[1].(S), f.env)) {
			f.child = &ifFrame{branch: newBodyFrame(stmt[2].(S), NewEnv(f.env))}
		} else if len(stmt) > 3 {
			f.child = &ifFrame{branch: newBodyFrame(stmt[3].(S), NewEnv(f.env))}
		} else {
			f.cursor++
		}
		return stepResult{kind: stepMore}

	case "for":
		next := ip.toIterator(ip.evalExpr(stmt[2].(S), f.env))
		f.child = &forFrame{name: stmt[1].(string), next: next, body: stmt[3].(S), env: f.env}
		return stepResult{kind: stepMore}

	case "do":
		f.child = &ifFrame{branch: newBodyFrame(stmt[1].(S), NewEnv(f.env))}
		return stepResult{kind: stepMore}

	default:
		// Plain statement: evaluate in full. A yield can only appear at
		// statement level, so nothing here needs to suspend.
		ip.evalExpr(stmt, f.env)
		f.cursor++
		return stepResult{kind: stepMore}
	}
}

// whileFrame re-tests its condition in the enclosing scope whenever no body
// instance is active, and instantiates the body template in a fresh scope
// for each iteration.
type whileFrame struct {
	cond S
	body S
	env  *Env
	inst *seqFrame
}

func (f *whileFrame) step(ip *Interpreter) stepResult {
	if f.inst == nil {
		if !truthy(ip.evalExpr(f.cond, f.env)) {
			return stepResult{kind: stepPopped}
		}
		f.inst = newBodyFrame(f.body, NewEnv(f.env))
		return stepResult{kind: stepMore}
	}
	res := f.inst.step(ip)
	if res.kind == stepPopped {
		f.inst = nil
		return stepResult{kind: stepMore}
	}
	return res
}

// ifFrame delegates to the branch chosen when the statement was reached.
type ifFrame struct {
	branch *seqFrame
}

func (f *ifFrame) step(ip *Interpreter) stepResult {
	return f.branch.step(ip)
}

// forFrame advances a normalized iterator between body instances. The loop
// variable is bound in a fresh scope per iteration, so closures made in the
// body capture that iteration's value.
type forFrame struct {
	name string
	next Value // bound next function from toIterator
	body S
	env  *Env
	inst *seqFrame
}

func (f *forFrame) step(ip *Interpreter) stepResult {
	if f.inst == nil {
		v, done := ip.callNext(f.next)
		if done {
			return stepResult{kind: stepPopped}
		}
		iterEnv := NewEnv(f.env)
		iterEnv.Define(f.name, v, false)
		f.inst = newBodyFrame(f.body, iterEnv)
		return stepResult{kind: stepMore}
	}
	res := f.inst.step(ip)
	if res.kind == stepPopped {
		f.inst = nil
		return stepResult{kind: stepMore}
	}
	return res
}
