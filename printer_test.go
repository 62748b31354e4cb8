package achronyme

import "testing"

func Test_Printer_Format(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{`null`, `null`},
		{`true`, `true`},
		{`1.5`, `1.5`},
		{`0.1 + 0.2 == 0.3`, `false`},
		{`"a\"b"`, `"a\"b"`},
		{`[1, "x", [true]]`, `[1, "x", [true]]`},
		{`{b: 1, a: {n: null}}`, `{b: 1, a: {n: null}}`},
		{`(x) => x`, `<function>`},
		{`len`, `<builtin len>`},
		{`generate { yield 1 }`, `<generator>`},
	}
	for _, c := range cases {
		if got := FormatValue(evalSrc(t, c.src)); got != c.want {
			t.Fatalf("%s: want %s, got %s", c.src, c.want, got)
		}
	}
}

func Test_Printer_DoneGenerator(t *testing.T) {
	ip := NewInterpreter()
	runIn(t, ip, "let g = generate { }\ng.next()")
	if got := FormatValue(runIn(t, ip, `g`)); got != "<generator done>" {
		t.Fatalf("got %s", got)
	}
}

func Test_Printer_Display(t *testing.T) {
	if got := DisplayValue(Str("plain")); got != "plain" {
		t.Fatalf("got %q", got)
	}
	if got := DisplayValue(Vec([]Value{Str("q")})); got != `["q"]` {
		t.Fatalf("got %q", got)
	}
}
