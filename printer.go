// printer.go — value rendering for the REPL and `print`.
package achronyme

import "strings"

// FormatValue renders a value the way the REPL echoes results: strings
// quoted, vectors and records inline with insertion order preserved.
func FormatValue(v Value) string {
	var b strings.Builder
	writeValue(&b, v, true)
	return b.String()
}

// DisplayValue is FormatValue with top-level strings left bare, which is
// what `print` wants.
func DisplayValue(v Value) string {
	if v.Tag == VTStr {
		return v.Data.(string)
	}
	return FormatValue(v)
}

func writeValue(b *strings.Builder, v Value, quoted bool) {
	switch v.Tag {
	case VTNull:
		b.WriteString("null")
	case VTBool:
		if v.Data.(bool) {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case VTNum:
		b.WriteString(formatNum(v.Data.(float64)))
	case VTStr:
		if quoted {
			b.WriteString(quoteString(v.Data.(string)))
		} else {
			b.WriteString(v.Data.(string))
		}
	case VTVector:
		b.WriteByte('[')
		for i, x := range v.Data.([]Value) {
			if i > 0 {
				b.WriteString(", ")
			}
			writeValue(b, x, true)
		}
		b.WriteByte(']')
	case VTRecord:
		r := v.Data.(*RecordObject)
		b.WriteByte('{')
		for i, k := range r.Keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(k)
			b.WriteString(": ")
			writeValue(b, r.Entries[k], true)
		}
		b.WriteByte('}')
	case VTFun:
		f := v.Data.(*Fun)
		if f.Name != "" {
			b.WriteString("<builtin " + f.Name + ">")
		} else {
			b.WriteString("<function>")
		}
	case VTGen:
		if v.Data.(*Generator).done {
			b.WriteString("<generator done>")
		} else {
			b.WriteString("<generator>")
		}
	}
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
