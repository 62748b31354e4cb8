package achronyme

import (
	"fmt"
	"testing"
)

func parseStr(t *testing.T, src string) string {
	t.Helper()
	ast, err := ParseSource(src)
	if err != nil {
		t.Fatalf("parse failed: %v\nsource: %s", err, src)
	}
	return fmt.Sprint(ast)
}

func wantAST(t *testing.T, src, want string) {
	t.Helper()
	if got := parseStr(t, src); got != want {
		t.Fatalf("source: %s\nwant: %s\ngot:  %s", src, want, got)
	}
}

func parseFail(t *testing.T, src string) *ParseError {
	t.Helper()
	_, err := ParseSource(src)
	if err == nil {
		t.Fatalf("expected a parse error\nsource: %s", src)
	}
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("want *ParseError, got %T: %v", err, err)
	}
	return pe
}

func Test_Parser_Bindings(t *testing.T) {
	wantAST(t, `let x = 1`, `[block [let x [num 1]]]`)
	wantAST(t, `mut y = true`, `[block [mut y [bool true]]]`)
	wantAST(t, `x = 2`, `[block [assign [id x] [num 2]]]`)
	wantAST(t, `p.x = 1`, `[block [assign [get [id p] [str x]] [num 1]]]`)
	wantAST(t, `xs[0] = 1`, `[block [assign [idx [id xs] [num 0]] [num 1]]]`)
}

func Test_Parser_Precedence(t *testing.T) {
	wantAST(t, `1 + 2 * 3`, `[block [binop + [num 1] [binop * [num 2] [num 3]]]]`)
	wantAST(t, `2 ^ 3 ^ 2`, `[block [binop ^ [num 2] [binop ^ [num 3] [num 2]]]]`)
	wantAST(t, `1 < 2 && 3 < 4`,
		`[block [binop && [binop < [num 1] [num 2]] [binop < [num 3] [num 4]]]]`)
	wantAST(t, `-x ^ 2`, `[block [binop ^ [unop - [id x]] [num 2]]]`)
	wantAST(t, `!a || b`, `[block [binop || [unop ! [id a]] [id b]]]`)
}

func Test_Parser_CallsAndAccess(t *testing.T) {
	wantAST(t, `f(1, 2)`, `[block [call [id f] [num 1] [num 2]]]`)
	wantAST(t, `g.next()`, `[block [call [get [id g] [str next]]]]`)
	wantAST(t, `xs[i + 1]`, `[block [idx [id xs] [binop + [id i] [num 1]]]]`)
	// whitespace before '(' means grouping, not a call
	wantAST(t, `f (x)`, `[block [id f] [id x]]`)
}

func Test_Parser_Lambdas(t *testing.T) {
	wantAST(t, `x => x`, `[block [lambda [params x] [id x]]]`)
	wantAST(t, `(a, b) => a + b`,
		`[block [lambda [params a b] [binop + [id a] [id b]]]]`)
	wantAST(t, `() => 1`, `[block [lambda [params] [num 1]]]`)
}

func Test_Parser_Collections(t *testing.T) {
	wantAST(t, `[1, ...xs, 2]`,
		`[block [vector [num 1] [spread [id xs]] [num 2]]]`)
	wantAST(t, `{a: 1, "b c": 2}`,
		`[block [record [pair [str a] [num 1]] [pair [str b c] [num 2]]]]`)
	wantAST(t, `{mut n: 0}`, `[block [record [pair [str n] [num 0]]]]`)
}

func Test_Parser_ControlFlow(t *testing.T) {
	wantAST(t, `if (c) { 1 }`, `[block [if [id c] [block [num 1]]]]`)
	wantAST(t, `if (c) { 1 } else { 2 }`,
		`[block [if [id c] [block [num 1]] [block [num 2]]]]`)
	wantAST(t, `if (a) { 1 } else if (b) { 2 }`,
		`[block [if [id a] [block [num 1]] [if [id b] [block [num 2]]]]]`)
	wantAST(t, `while (c) { x }`, `[block [while [id c] [block [id x]]]]`)
	wantAST(t, `for (x in xs) { x }`, `[block [for x [id xs] [block [id x]]]]`)
	wantAST(t, `do { 1 }`, `[block [do [block [num 1]]]]`)
}

func Test_Parser_GeneratorsAndYield(t *testing.T) {
	wantAST(t, `generate { yield 1 }`,
		`[block [generate [block [yield [num 1]]]]]`)
	wantAST(t, "return\n1", `[block [return [null]] [num 1]]`)
	wantAST(t, `return 5`, `[block [return [num 5]]]`)
}

func Test_Parser_NewlineEndsStatement(t *testing.T) {
	// the minus starts a new statement rather than extending the first
	wantAST(t, "a\n-b", `[block [id a] [unop - [id b]]]`)
	// a multi-line expression still works when the operator ends the line
	wantAST(t, "1 +\n2", `[block [binop + [num 1] [num 2]]]`)
}

func Test_Parser_Errors(t *testing.T) {
	pe := parseFail(t, `1 = 2`)
	wantErrContains(t, pe.Msg, "invalid assignment target")

	pe = parseFail(t, `let = 1`)
	wantErrContains(t, pe.Msg, "expected a name after 'let'")

	pe = parseFail(t, `(1 + 2`)
	wantErrContains(t, pe.Msg, "expected ')'")

	pe = parseFail(t, `for (x of xs) { x }`)
	wantErrContains(t, pe.Msg, "expected 'in'")

	pe = parseFail(t, "let x =\nlet y = 2")
	if pe.Line != 2 {
		t.Fatalf("error should point at the offending line, got %d:%d", pe.Line, pe.Col)
	}
}

func Test_Parser_IncompleteDetection(t *testing.T) {
	for _, src := range []string{
		`generate {`,
		`if (x) {`,
		`while (x`,
		`[1, 2`,
	} {
		_, err := ParseSourceInteractive(src)
		if !IsIncomplete(err) {
			t.Fatalf("%q: want incomplete, got %v", src, err)
		}
		_, err = ParseSource(src)
		if err == nil || IsIncomplete(err) {
			t.Fatalf("%q: non-interactive parse must hard-fail, got %v", src, err)
		}
	}
	if _, err := ParseSourceInteractive(`let x = `); !IsIncomplete(err) {
		t.Fatalf("dangling '=' should be incomplete, got %v", err)
	}
	if _, err := ParseSourceInteractive(`let x = 1`); err != nil {
		t.Fatalf("complete input should parse, got %v", err)
	}
}
