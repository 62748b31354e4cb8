// iterator.go — the {value, done} iterator protocol.
//
// An iterator is anything exposing a callable `next` that answers a record
// with a `value` field and a `done` field. The contract is structural:
// generators satisfy it through their bound next method, and a hand-written
// record with a `next` closure is every bit as iterable. `toIterator`
// normalizes an iterable to its bare next function; `callNext` invokes one
// and validates the shape of what comes back.
package achronyme

import "fmt"

// iterResult builds a {value, done} protocol record.
func iterResult(v Value, done bool) Value {
	r := NewRecord()
	r.Set("value", v)
	r.Set("done", Bool(done))
	return RecVal(r)
}

// toIterator normalizes an iterable into its next function. Accepted:
// generators, records with a callable `next` field, and vectors (which get
// a fresh cursor per normalization). Everything else fails with a
// capability error.
func (ip *Interpreter) toIterator(v Value) Value {
	switch v.Tag {
	case VTGen:
		return boundNext(v.Data.(*Generator))
	case VTRecord:
		if next, ok := v.Data.(*RecordObject).Get("next"); ok && next.Tag == VTFun {
			return next
		}
	case VTVector:
		return vectorIterator(v.Data.([]Value))
	}
	fail(fmt.Sprintf("value is not iterable (%s)", typeName(v)))
	return Null
}

// vectorIterator walks a snapshot of the vector's elements.
func vectorIterator(xs []Value) Value {
	i := 0
	return FunVal(&Fun{
		Name:   "next",
		Params: []string{},
		Native: func(_ *Interpreter, _ []Value) Value {
			if i >= len(xs) {
				return iterResult(Null, true)
			}
			v := xs[i]
			i++
			return iterResult(v, false)
		},
	})
}

// callNext invokes a next function and unpacks the protocol record. A
// missing `value` field reads as null; a result that is not a record, or
// lacks `done`, is a protocol violation.
func (ip *Interpreter) callNext(next Value) (Value, bool) {
	res := ip.apply(next, nil)
	if res.Tag != VTRecord {
		fail(fmt.Sprintf("iterator 'next' must return a {value, done} record, got %s", typeName(res)))
	}
	rec := res.Data.(*RecordObject)
	done, ok := rec.Get("done")
	if !ok {
		fail("iterator result is missing the 'done' field")
	}
	v, ok := rec.Get("value")
	if !ok {
		v = Null
	}
	return v, truthy(done)
}
