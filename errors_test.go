package achronyme

import (
	"errors"
	"strings"
	"testing"
)

func Test_Errors_ParseSnippet(t *testing.T) {
	src := "let x = 1\nlet y = )\nlet z = 3"
	_, err := ParseSource(src)
	if err == nil {
		t.Fatal("expected a parse error")
	}
	msg := WrapErrorWithSource(err, src).Error()
	for _, want := range []string{
		"PARSE ERROR at 2:9",
		"   1 | let x = 1",
		"   2 | let y = )",
		"   3 | let z = 3",
		"     | " + strings.Repeat(" ", 8) + "^",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("snippet missing %q:\n%s", want, msg)
		}
	}
}

func Test_Errors_LexSnippetWithName(t *testing.T) {
	src := `let s = "open`
	_, err := ParseSource(src)
	if err == nil {
		t.Fatal("expected a lex error")
	}
	msg := WrapErrorWithName(err, "script.ach", src).Error()
	if !strings.Contains(msg, "LEXICAL ERROR in script.ach at 1:9") {
		t.Fatalf("unexpected header:\n%s", msg)
	}
	if !strings.Contains(msg, "unterminated string") {
		t.Fatalf("message lost:\n%s", msg)
	}
}

func Test_Errors_RuntimePassThrough(t *testing.T) {
	ip := NewInterpreter()
	_, err := ip.EvalSource(`boom`)
	if err == nil {
		t.Fatal("expected a runtime error")
	}
	var re *RuntimeError
	if !errors.As(err, &re) {
		t.Fatalf("want *RuntimeError, got %T", err)
	}
	if WrapErrorWithSource(err, `boom`) != err {
		t.Fatal("runtime errors must pass through unwrapped")
	}
	if err.Error() != "runtime error: undefined variable: boom" {
		t.Fatalf("got %q", err.Error())
	}
}

func Test_Errors_ForeignErrorUntouched(t *testing.T) {
	plain := errors.New("plain")
	if WrapErrorWithSource(plain, "src") != plain {
		t.Fatal("foreign errors must be returned unchanged")
	}
}

func Test_Errors_ClampedPositions(t *testing.T) {
	// Out-of-range coordinates must not break rendering.
	err := &ParseError{Line: 99, Col: 99, Msg: "synthetic"}
	msg := WrapErrorWithSource(err, "one line").Error()
	if !strings.Contains(msg, "synthetic") {
		t.Fatalf("message lost:\n%s", msg)
	}
}
