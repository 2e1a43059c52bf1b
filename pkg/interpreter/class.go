package interpreter

import (
	"github.com/thomasrohde/golox/pkg/diagnostics"
	"github.com/thomasrohde/golox/pkg/resolver"
	"github.com/thomasrohde/golox/pkg/token"
)

// Class is a class value. Calling it constructs an instance.
type Class struct {
	Name       string
	Superclass *Class
	methods    map[string]*Function
}

// NewClass creates a class with the given method table.
func NewClass(name string, superclass *Class, methods map[string]*Function) *Class {
	if methods == nil {
		methods = make(map[string]*Function)
	}
	return &Class{Name: name, Superclass: superclass, methods: methods}
}

// FindMethod looks name up in this class, then up the superclass chain.
// It returns nil when no class in the chain defines it.
func (c *Class) FindMethod(name string) *Function {
	for class := c; class != nil; class = class.Superclass {
		if m, ok := class.methods[name]; ok {
			return m
		}
	}
	return nil
}

// Arity is the initializer's arity, or 0 without one.
func (c *Class) Arity() int {
	if init := c.FindMethod(resolver.InitName); init != nil {
		return init.Arity()
	}
	return 0
}

// Call allocates an instance and runs the initializer bound to it.
func (c *Class) Call(in *Interpreter, args []Value) (Value, error) {
	instance := NewInstance(c)
	if init := c.FindMethod(resolver.InitName); init != nil {
		if _, err := init.Bind(instance).Call(in, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// Instance is an object with its own field table.
type Instance struct {
	class  *Class
	fields map[string]Value
}

// NewInstance creates an instance of class with no fields.
func NewInstance(class *Class) *Instance {
	return &Instance{class: class, fields: make(map[string]Value)}
}

func (i *Instance) Class() *Class {
	return i.class
}

// Get returns a field if present, else a method bound to i.
func (i *Instance) Get(name token.Token) (Value, error) {
	if val, ok := i.fields[name.Lexeme]; ok {
		return val, nil
	}
	if m := i.class.FindMethod(name.Lexeme); m != nil {
		return m.Bind(i), nil
	}
	return nil, newRuntimeError(diagnostics.EUndefinedProperty, name, "Undefined property '%s'.", name.Lexeme)
}

// Set writes a field, creating it if needed. Methods are never touched.
func (i *Instance) Set(name token.Token, val Value) {
	i.fields[name.Lexeme] = val
}

// Field reads a field without consulting methods.
func (i *Instance) Field(name string) (Value, bool) {
	val, ok := i.fields[name]
	return val, ok
}
