package interpreter

import (
	"fmt"

	"github.com/thomasrohde/golox/pkg/diagnostics"
	"github.com/thomasrohde/golox/pkg/token"
)

// Env is a scoped environment for variable bindings.
// It supports parent-chained lookup for lexical scoping. Closures hold a
// pointer to the Env they were created in, so mutations through any holder
// are visible to all of them.
type Env struct {
	values    map[string]Value
	enclosing *Env
}

// NewEnv creates a new environment with an optional enclosing scope.
func NewEnv(enclosing *Env) *Env {
	return &Env{
		values:    make(map[string]Value),
		enclosing: enclosing,
	}
}

// Child creates a new child scope whose parent is this environment.
func (e *Env) Child() *Env {
	return NewEnv(e)
}

// Enclosing returns the parent scope, or nil for the global scope.
func (e *Env) Enclosing() *Env {
	return e.enclosing
}

// Define binds name in this scope, overwriting any existing binding.
func (e *Env) Define(name string, val Value) {
	e.values[name] = val
}

// Lookup finds name in this scope or any parent.
func (e *Env) Lookup(name string) (Value, bool) {
	for env := e; env != nil; env = env.enclosing {
		if val, ok := env.values[name]; ok {
			return val, true
		}
	}
	return nil, false
}

// Get resolves name dynamically through the chain.
func (e *Env) Get(name token.Token) (Value, error) {
	if val, ok := e.Lookup(name.Lexeme); ok {
		return val, nil
	}
	return nil, undefinedVariable(name)
}

// Assign updates the nearest existing binding of name.
func (e *Env) Assign(name token.Token, val Value) error {
	for env := e; env != nil; env = env.enclosing {
		if _, ok := env.values[name.Lexeme]; ok {
			env.values[name.Lexeme] = val
			return nil
		}
	}
	return undefinedVariable(name)
}

// GetAt reads name from the scope exactly distance hops up. The resolver
// guarantees the binding exists; a miss is an interpreter bug.
func (e *Env) GetAt(distance int, name string) Value {
	val, ok := e.ancestor(distance).values[name]
	if !ok {
		panic(fmt.Sprintf("interpreter: no local %q at distance %d", name, distance))
	}
	return val
}

// AssignAt writes name in the scope exactly distance hops up.
func (e *Env) AssignAt(distance int, name token.Token, val Value) {
	e.ancestor(distance).values[name.Lexeme] = val
}

func (e *Env) ancestor(distance int) *Env {
	env := e
	for i := 0; i < distance; i++ {
		if env.enclosing == nil {
			panic(fmt.Sprintf("interpreter: scope chain shorter than distance %d", distance))
		}
		env = env.enclosing
	}
	return env
}

func undefinedVariable(name token.Token) error {
	return &RuntimeError{
		Code:    diagnostics.EUndefinedVariable,
		Message: fmt.Sprintf("Undefined variable '%s'.", name.Lexeme),
		Token:   name,
	}
}
