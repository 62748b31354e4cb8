// builtin_math.go — scientific builtins and constants.
package achronyme

import "math"

func registerMathBuiltins(ip *Interpreter) {
	unary := func(name string, f func(float64) float64) {
		ip.RegisterNative(name, []string{"x"}, func(_ *Interpreter, args []Value) Value {
			return Num(f(wantNumArg(name, "x", args[0])))
		})
	}

	unary("sin", math.Sin)
	unary("cos", math.Cos)
	unary("tan", math.Tan)
	unary("asin", math.Asin)
	unary("acos", math.Acos)
	unary("atan", math.Atan)
	unary("sqrt", math.Sqrt)
	unary("exp", math.Exp)
	unary("ln", math.Log)
	unary("log10", math.Log10)
	unary("floor", math.Floor)
	unary("ceil", math.Ceil)
	unary("round", math.Round)

	ip.RegisterNative("pow", []string{"base", "exponent"}, func(_ *Interpreter, args []Value) Value {
		return Num(math.Pow(
			wantNumArg("pow", "base", args[0]),
			wantNumArg("pow", "exponent", args[1]),
		))
	})

	ip.Core.Define("pi", Num(math.Pi), false)
	ip.Core.Define("e", Num(math.E), false)
}
