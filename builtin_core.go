// builtin_core.go — general-purpose builtins.
package achronyme

import "fmt"

func registerCoreBuiltins(ip *Interpreter) {
	reg := func(name string, params []string, impl NativeFn) {
		ip.RegisterNative(name, params, impl)
	}

	reg("len", []string{"v"}, func(_ *Interpreter, args []Value) Value {
		switch v := args[0]; v.Tag {
		case VTVector:
			return Num(float64(len(v.Data.([]Value))))
		case VTStr:
			return Num(float64(len([]rune(v.Data.(string)))))
		case VTRecord:
			return Num(float64(len(v.Data.(*RecordObject).Keys)))
		default:
			fail(fmt.Sprintf("len: cannot measure a %s", typeName(v)))
		}
		return Null
	})

	reg("typeOf", []string{"v"}, func(_ *Interpreter, args []Value) Value {
		return Str(typeName(args[0]))
	})

	reg("print", []string{"v"}, func(_ *Interpreter, args []Value) Value {
		fmt.Println(DisplayValue(args[0]))
		return Null
	})

	reg("abs", []string{"x"}, func(_ *Interpreter, args []Value) Value {
		x := wantNumArg("abs", "x", args[0])
		if x < 0 {
			return Num(-x)
		}
		return Num(x)
	})

	reg("min", []string{"a", "b"}, func(_ *Interpreter, args []Value) Value {
		a := wantNumArg("min", "a", args[0])
		b := wantNumArg("min", "b", args[1])
		if a < b {
			return Num(a)
		}
		return Num(b)
	})

	reg("max", []string{"a", "b"}, func(_ *Interpreter, args []Value) Value {
		a := wantNumArg("max", "a", args[0])
		b := wantNumArg("max", "b", args[1])
		if a > b {
			return Num(a)
		}
		return Num(b)
	})

	reg("sum", []string{"xs"}, func(_ *Interpreter, args []Value) Value {
		if args[0].Tag != VTVector {
			fail(fmt.Sprintf("sum: expected a vector, got %s", typeName(args[0])))
		}
		total := 0.0
		for _, x := range args[0].Data.([]Value) {
			total += wantNumArg("sum", "element", x)
		}
		return Num(total)
	})
}
