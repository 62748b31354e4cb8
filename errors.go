// errors.go — user-facing error wrapping and caret-snippet rendering.
//
// Turns lexer/parser diagnostics into readable snippets with a caret under
// the offending column:
//
//	PARSE ERROR at 3:12: unexpected token ')'
//
//	   2 | let x = (1 + 2
//	   3 |              )
//	       |            ^
//	   4 | yield x
//
// `WrapErrorWithSource` recognizes *LexError (lexer.go) and *ParseError
// (parser.go), both carrying 1-based coordinates, and renders up to one line
// of context on each side. Runtime errors carry no source position (the
// walker does not track spans) and pass through with their plain message.
// Everything else is returned unchanged.
package achronyme

import (
	"fmt"
	"strings"
)

// WrapErrorWithSource augments lex/parse errors with a caret-annotated
// snippet of src. Other errors are returned untouched.
func WrapErrorWithSource(err error, src string) error {
	return WrapErrorWithName(err, "", src)
}

// WrapErrorWithName is WrapErrorWithSource with a source label ("in <name>")
// in the snippet header, for file-based runs.
func WrapErrorWithName(err error, srcName string, src string) error {
	switch e := err.(type) {
	case *LexError:
		return fmt.Errorf("%s", prettyErrorStringLabeled(src, "LEXICAL ERROR", srcName, e.Line, e.Col, e.Msg))
	case *ParseError:
		return fmt.Errorf("%s", prettyErrorStringLabeled(src, "PARSE ERROR", srcName, e.Line, e.Col, e.Msg))
	default:
		return err
	}
}

// prettyErrorStringLabeled builds the snippet: header, one context line
// before and after when available, numbered lines, caret under the 1-based
// column. Out-of-range coordinates are clamped so rendering never fails.
func prettyErrorStringLabeled(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
