package achronyme

import "fmt"

// Env is a lexical environment: a table of bindings plus a parent link.
// Lookups walk the chain toward the root; Define always writes the local
// table. Each binding remembers whether it was declared with `mut`.
type Env struct {
	parent *Env
	table  map[string]binding
}

type binding struct {
	value   Value
	mutable bool
}

func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, table: map[string]binding{}}
}

// Define binds name in this environment, shadowing any outer binding.
func (e *Env) Define(name string, v Value, mutable bool) {
	e.table[name] = binding{value: v, mutable: mutable}
}

// Get resolves name through the chain.
func (e *Env) Get(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if b, ok := env.table[name]; ok {
			return b.value, true
		}
	}
	return Null, false
}

// Set rebinds an existing name in whichever environment defined it.
// Immutable bindings and unknown names are runtime errors.
func (e *Env) Set(name string, v Value) error {
	for env := e; env != nil; env = env.parent {
		if b, ok := env.table[name]; ok {
			if !b.mutable {
				return fmt.Errorf("cannot assign to immutable binding '%s'", name)
			}
			env.table[name] = binding{value: v, mutable: true}
			return nil
		}
	}
	return fmt.Errorf("undefined variable: %s", name)
}
