// builtin_iter.go — iterator builtins: range, take, collect, map_iter,
// filter_iter. All of them speak only the {value, done} protocol, so they
// work identically over generators, vectors, and hand-written iterator
// records. map_iter and filter_iter are lazy: they return a new protocol
// record and pull from the source one element at a time.
package achronyme

import "fmt"

func registerIterBuiltins(ip *Interpreter) {
	reg := func(name string, params []string, impl NativeFn) {
		ip.RegisterNative(name, params, impl)
	}

	// range(n) counts 0, 1, ..., n-1.
	reg("range", []string{"n"}, func(ip *Interpreter, args []Value) Value {
		n := wantNumArg("range", "n", args[0])
		i := 0.0
		r := NewRecord()
		r.Set("next", FunVal(&Fun{
			Name:   "next",
			Params: []string{},
			Native: func(_ *Interpreter, _ []Value) Value {
				if i >= n {
					return iterResult(Null, true)
				}
				v := Num(i)
				i++
				return iterResult(v, false)
			},
		}))
		return RecVal(r)
	})

	// take(n, it) eagerly pulls up to n elements into a vector. Safe on
	// infinite sources: it never pulls past the n-th element.
	reg("take", []string{"n", "it"}, func(ip *Interpreter, args []Value) Value {
		n := wantNumArg("take", "n", args[0])
		if n < 0 {
			fail("take: count must not be negative")
		}
		next := ip.toIterator(args[1])
		var out []Value
		for float64(len(out)) < n {
			v, done := ip.callNext(next)
			if done {
				break
			}
			out = append(out, v)
		}
		return Vec(out)
	})

	// collect(it) drains a finite iterator into a vector.
	reg("collect", []string{"it"}, func(ip *Interpreter, args []Value) Value {
		next := ip.toIterator(args[0])
		var out []Value
		for {
			v, done := ip.callNext(next)
			if done {
				return Vec(out)
			}
			out = append(out, v)
		}
	})

	// map_iter(f, it) applies f lazily to each element.
	reg("map_iter", []string{"f", "it"}, func(ip *Interpreter, args []Value) Value {
		f := args[0]
		if f.Tag != VTFun {
			fail(fmt.Sprintf("map_iter: first argument must be a function, got %s", typeName(f)))
		}
		next := ip.toIterator(args[1])
		r := NewRecord()
		r.Set("next", FunVal(&Fun{
			Name:   "next",
			Params: []string{},
			Native: func(ip *Interpreter, _ []Value) Value {
				v, done := ip.callNext(next)
				if done {
					return iterResult(Null, true)
				}
				return iterResult(ip.apply(f, []Value{v}), false)
			},
		}))
		return RecVal(r)
	})

	// filter_iter(pred, it) lazily keeps the elements pred accepts.
	reg("filter_iter", []string{"pred", "it"}, func(ip *Interpreter, args []Value) Value {
		pred := args[0]
		if pred.Tag != VTFun {
			fail(fmt.Sprintf("filter_iter: first argument must be a function, got %s", typeName(pred)))
		}
		next := ip.toIterator(args[1])
		r := NewRecord()
		r.Set("next", FunVal(&Fun{
			Name:   "next",
			Params: []string{},
			Native: func(ip *Interpreter, _ []Value) Value {
				for {
					v, done := ip.callNext(next)
					if done {
						return iterResult(Null, true)
					}
					if truthy(ip.apply(pred, []Value{v})) {
						return iterResult(v, false)
					}
				}
			},
		}))
		return RecVal(r)
	})
}

func wantNumArg(fn, param string, v Value) float64 {
	if v.Tag != VTNum {
		fail(fmt.Sprintf("%s: %s must be a number, got %s", fn, param, typeName(v)))
	}
	return v.Data.(float64)
}
