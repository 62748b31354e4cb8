// value.go — the runtime value model.
//
// Achronyme values are a small tagged union: null, booleans, f64 numbers,
// strings, vectors, ordered records, functions, and generators. Vectors and
// records are shared by reference (a record held by two bindings is the same
// record), functions are closures over an *Env, and generators carry their
// own suspended execution state (see generator.go).
package achronyme

import (
	"fmt"
	"strconv"
)

// ValueTag discriminates the Value union.
type ValueTag int

const (
	VTNull ValueTag = iota
	VTBool
	VTNum
	VTStr
	VTVector
	VTRecord
	VTFun
	VTGen
)

// Value is the runtime representation of every Achronyme value.
// Data holds bool, float64, string, []Value, *RecordObject, *Fun or
// *Generator depending on Tag; it is nil only for VTNull.
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// Null is the canonical null value.
var Null = Value{Tag: VTNull}

func Bool(b bool) Value            { return Value{Tag: VTBool, Data: b} }
func Num(f float64) Value          { return Value{Tag: VTNum, Data: f} }
func Str(s string) Value           { return Value{Tag: VTStr, Data: s} }
func Vec(xs []Value) Value         { return Value{Tag: VTVector, Data: xs} }
func RecVal(r *RecordObject) Value { return Value{Tag: VTRecord, Data: r} }
func FunVal(f *Fun) Value          { return Value{Tag: VTFun, Data: f} }
func GenVal(g *Generator) Value    { return Value{Tag: VTGen, Data: g} }

// RecordObject is an insertion-ordered string-keyed record. Records are
// reference values: every Value holding one aliases the same entries.
type RecordObject struct {
	Entries map[string]Value
	Keys    []string
}

func NewRecord() *RecordObject {
	return &RecordObject{Entries: map[string]Value{}}
}

// Set inserts or updates a field, preserving first-insertion key order.
func (r *RecordObject) Set(key string, v Value) {
	if _, ok := r.Entries[key]; !ok {
		r.Keys = append(r.Keys, key)
	}
	r.Entries[key] = v
}

func (r *RecordObject) Get(key string) (Value, bool) {
	v, ok := r.Entries[key]
	return v, ok
}

// NativeFn is the Go implementation of a builtin.
type NativeFn func(ip *Interpreter, args []Value) Value

// Fun is a first-class function: either a user closure (Params/Body/Env)
// or a native builtin (Native != nil). Name is set for natives and used in
// error messages.
type Fun struct {
	Params []string
	Body   S
	Env    *Env
	Native NativeFn
	Name   string
}

// typeName reports the user-facing name of a value's type.
func typeName(v Value) string {
	switch v.Tag {
	case VTNull:
		return "null"
	case VTBool:
		return "boolean"
	case VTNum:
		return "number"
	case VTStr:
		return "string"
	case VTVector:
		return "vector"
	case VTRecord:
		return "record"
	case VTFun:
		return "function"
	case VTGen:
		return "generator"
	}
	return "unknown"
}

// formatNum renders an f64 the shortest way that round-trips (2, 0.5, 1e21).
func formatNum(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// truthy converts a value to a branch condition. Only booleans and numbers
// convert; numbers are true when nonzero. Anything else is a runtime error.
func truthy(v Value) bool {
	switch v.Tag {
	case VTBool:
		return v.Data.(bool)
	case VTNum:
		return v.Data.(float64) != 0
	}
	fail(fmt.Sprintf("cannot use %s as a condition", typeName(v)))
	return false
}

// deepEqual implements `==`. Vectors and records compare structurally;
// functions and generators compare by identity.
func deepEqual(a, b Value) bool {
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case VTNull:
		return true
	case VTBool:
		return a.Data.(bool) == b.Data.(bool)
	case VTNum:
		return a.Data.(float64) == b.Data.(float64)
	case VTStr:
		return a.Data.(string) == b.Data.(string)
	case VTVector:
		xs, ys := a.Data.([]Value), b.Data.([]Value)
		if len(xs) != len(ys) {
			return false
		}
		for i := range xs {
			if !deepEqual(xs[i], ys[i]) {
				return false
			}
		}
		return true
	case VTRecord:
		ra, rb := a.Data.(*RecordObject), b.Data.(*RecordObject)
		if ra == rb {
			return true
		}
		if len(ra.Keys) != len(rb.Keys) {
			return false
		}
		for _, k := range ra.Keys {
			bv, ok := rb.Entries[k]
			if !ok || !deepEqual(ra.Entries[k], bv) {
				return false
			}
		}
		return true
	case VTFun:
		return a.Data.(*Fun) == b.Data.(*Fun)
	case VTGen:
		return a.Data.(*Generator) == b.Data.(*Generator)
	}
	return false
}
