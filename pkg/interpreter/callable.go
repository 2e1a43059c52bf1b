package interpreter

import (
	"github.com/thomasrohde/golox/pkg/ast"
)

// Callable is implemented by every value that can appear as a callee:
// user functions (including bound methods), natives and classes.
type Callable interface {
	Value
	Arity() int
	Call(in *Interpreter, args []Value) (Value, error)
}

// Function is a user-defined function or method closed over the
// environment it was declared in.
type Function struct {
	decl          *ast.FunctionStmt
	closure       *Env
	isInitializer bool
}

// NewFunction creates a closure over decl.
func NewFunction(decl *ast.FunctionStmt, closure *Env, isInitializer bool) *Function {
	return &Function{decl: decl, closure: closure, isInitializer: isInitializer}
}

func (f *Function) Name() string {
	return f.decl.Name.Lexeme
}

func (f *Function) Arity() int {
	return len(f.decl.Params)
}

func (f *Function) IsInitializer() bool {
	return f.isInitializer
}

// Bind returns a copy of f whose closure has one extra scope defining this.
// A fresh scope is made on every call; bound methods are never cached.
func (f *Function) Bind(instance *Instance) *Function {
	env := NewEnv(f.closure)
	env.Define("this", instance)
	return &Function{decl: f.decl, closure: env, isInitializer: f.isInitializer}
}

// Call runs the body in a new scope holding the parameters. That scope is
// the body's block scope; no second scope is pushed.
func (f *Function) Call(in *Interpreter, args []Value) (Value, error) {
	env := NewEnv(f.closure)
	for i, param := range f.decl.Params {
		env.Define(param.Lexeme, args[i])
	}

	result, err := in.executeBlock(f.decl.Body, env)
	if err != nil {
		return nil, err
	}
	// An initializer always yields its instance, whatever it returned.
	if f.isInitializer {
		return f.closure.GetAt(0, "this"), nil
	}
	if result.returning {
		return result.value, nil
	}
	return Nil{}, nil
}

// Native is a function implemented in Go.
type Native struct {
	Name   string
	Params int
	Fn     func(args []Value) (Value, error)
}

func (n *Native) Arity() int {
	return n.Params
}

func (n *Native) Call(_ *Interpreter, args []Value) (Value, error) {
	return n.Fn(args)
}
