// Package stdlib provides the Lox native function registry.
package stdlib

import (
	"sort"

	"github.com/thomasrohde/golox/pkg/interpreter"
)

// Registry holds registered native functions.
type Registry struct {
	fns map[string]*interpreter.Native
}

// NewRegistry creates a new empty native registry.
func NewRegistry() *Registry {
	return &Registry{
		fns: make(map[string]*interpreter.Native),
	}
}

// Register adds a native to the registry, replacing any with the same name.
func (r *Registry) Register(fn *interpreter.Native) {
	r.fns[fn.Name] = fn
}

// Get retrieves a native by name.
func (r *Registry) Get(name string) *interpreter.Native {
	return r.fns[name]
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.fns))
	for name := range r.fns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Install defines every registered native as a global of in.
func (r *Registry) Install(in *interpreter.Interpreter) {
	for _, name := range r.Names() {
		in.DefineGlobal(name, r.fns[name])
	}
}
