// Package resolver implements the static scope pass over a Lox AST.
//
// The resolver computes, for every local variable reference, how many
// enclosing scopes separate it from its declaration. References that are not
// found in any local scope get no entry and are looked up in the globals at
// runtime. It also checks placement rules for return, this and super.
// Diagnostics are accumulated, never fail-fast.
package resolver

import (
	"github.com/thomasrohde/golox/pkg/ast"
	"github.com/thomasrohde/golox/pkg/diagnostics"
	"github.com/thomasrohde/golox/pkg/token"
)

// InitName is the method name that marks a class initializer.
const InitName = "init"

// Locals maps expression nodes to their scope distance.
type Locals map[ast.Expr]int

type functionType int

const (
	functionNone functionType = iota
	functionPlain
	functionMethod
	functionInitializer
)

type classType int

const (
	classNone classType = iota
	classPlain
	classSubclass
)

// scope tracks declared (false) and defined (true) names.
type scope struct {
	bindings map[string]bool
}

func newScope() *scope {
	return &scope{bindings: make(map[string]bool)}
}

func (s *scope) hasLocal(name string) bool {
	_, ok := s.bindings[name]
	return ok
}

type resolver struct {
	filename string
	scopes   []*scope
	locals   Locals
	diags    []diagnostics.Diagnostic

	currentFunction functionType
	currentClass    classType
}

// Resolve walks program and returns the distance table together with any
// diagnostics. Warnings (return-with-value in an initializer) do not block
// execution; use diagnostics.HasErrors to decide whether to run.
func Resolve(program *ast.Program) (Locals, []diagnostics.Diagnostic) {
	r := &resolver{filename: program.File, locals: make(Locals)}
	r.resolveStmts(program.Statements)
	return r.locals, r.diags
}

func (r *resolver) addDiag(code string, tok token.Token, msg string) {
	r.diags = append(r.diags, diagnostics.AtToken(code, r.filename, tok, msg))
}

func (r *resolver) beginScope() {
	r.scopes = append(r.scopes, newScope())
}

func (r *resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *resolver) innermost() *scope {
	if len(r.scopes) == 0 {
		return nil
	}
	return r.scopes[len(r.scopes)-1]
}

// declare marks name as present but not yet usable. Globals are not tracked.
func (r *resolver) declare(name token.Token) {
	s := r.innermost()
	if s == nil {
		return
	}
	if s.hasLocal(name.Lexeme) {
		r.addDiag(diagnostics.ERedeclare, name, "Already a variable with this name in this scope.")
	}
	s.bindings[name.Lexeme] = false
}

func (r *resolver) define(name token.Token) {
	if s := r.innermost(); s != nil {
		s.bindings[name.Lexeme] = true
	}
}

// resolveLocal records the hop count to the nearest scope declaring name.
func (r *resolver) resolveLocal(expr ast.Expr, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if r.scopes[i].hasLocal(name.Lexeme) {
			r.locals[expr] = len(r.scopes) - 1 - i
			return
		}
	}
}

// --- statements ---

func (r *resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *resolver) resolveStmt(s ast.Stmt) {
	switch stmt := s.(type) {
	case *ast.BlockStmt:
		r.beginScope()
		r.resolveStmts(stmt.Statements)
		r.endScope()
	case *ast.VarStmt:
		r.declare(stmt.Name)
		if stmt.Initializer != nil {
			r.resolveExpr(stmt.Initializer)
		}
		r.define(stmt.Name)
	case *ast.FunctionStmt:
		// Defined before the body so the function can refer to itself.
		r.declare(stmt.Name)
		r.define(stmt.Name)
		r.resolveFunction(stmt, functionPlain)
	case *ast.ClassStmt:
		r.resolveClass(stmt)
	case *ast.ExpressionStmt:
		r.resolveExpr(stmt.Expression)
	case *ast.PrintStmt:
		r.resolveExpr(stmt.Expression)
	case *ast.IfStmt:
		r.resolveExpr(stmt.Condition)
		r.resolveStmt(stmt.Then)
		if stmt.Else != nil {
			r.resolveStmt(stmt.Else)
		}
	case *ast.WhileStmt:
		r.resolveExpr(stmt.Condition)
		r.resolveStmt(stmt.Body)
	case *ast.ReturnStmt:
		if r.currentFunction == functionNone {
			r.addDiag(diagnostics.EReturnTop, stmt.Keyword, "Can't return from top-level code.")
		}
		if stmt.Value != nil {
			if r.currentFunction == functionInitializer {
				d := diagnostics.AtToken(diagnostics.EReturnInit, r.filename, stmt.Keyword,
					"Can't return a value from an initializer.")
				d.Hint = "the new instance is returned instead"
				r.diags = append(r.diags, diagnostics.Warn(d))
			}
			r.resolveExpr(stmt.Value)
		}
	}
}

func (r *resolver) resolveFunction(fn *ast.FunctionStmt, kind functionType) {
	enclosing := r.currentFunction
	r.currentFunction = kind
	defer func() { r.currentFunction = enclosing }()

	r.beginScope()
	defer r.endScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body)
}

func (r *resolver) resolveClass(stmt *ast.ClassStmt) {
	enclosing := r.currentClass
	r.currentClass = classPlain
	defer func() { r.currentClass = enclosing }()

	r.declare(stmt.Name)
	r.define(stmt.Name)

	if stmt.Superclass != nil {
		if stmt.Superclass.Name.Lexeme == stmt.Name.Lexeme {
			r.addDiag(diagnostics.EInheritSelf, stmt.Superclass.Name, "A class can't inherit from itself.")
		}
		r.currentClass = classSubclass
		r.resolveExpr(stmt.Superclass)

		r.beginScope()
		defer r.endScope()
		r.innermost().bindings["super"] = true
	}

	r.beginScope()
	defer r.endScope()
	r.innermost().bindings["this"] = true

	for _, method := range stmt.Methods {
		kind := functionMethod
		if method.Name.Lexeme == InitName {
			kind = functionInitializer
		}
		r.resolveFunction(method, kind)
	}
}

// --- expressions ---

func (r *resolver) resolveExpr(e ast.Expr) {
	switch expr := e.(type) {
	case *ast.Variable:
		if s := r.innermost(); s != nil {
			if defined, ok := s.bindings[expr.Name.Lexeme]; ok && !defined {
				r.addDiag(diagnostics.ESelfInit, expr.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(expr, expr.Name)
	case *ast.Assign:
		r.resolveExpr(expr.Value)
		r.resolveLocal(expr, expr.Name)
	case *ast.Binary:
		r.resolveExpr(expr.Left)
		r.resolveExpr(expr.Right)
	case *ast.Logical:
		r.resolveExpr(expr.Left)
		r.resolveExpr(expr.Right)
	case *ast.Unary:
		r.resolveExpr(expr.Right)
	case *ast.Grouping:
		r.resolveExpr(expr.Expression)
	case *ast.Call:
		r.resolveExpr(expr.Callee)
		for _, arg := range expr.Arguments {
			r.resolveExpr(arg)
		}
	case *ast.Get:
		// Property names are looked up dynamically.
		r.resolveExpr(expr.Object)
	case *ast.Set:
		r.resolveExpr(expr.Value)
		r.resolveExpr(expr.Object)
	case *ast.This:
		if r.currentClass == classNone {
			r.addDiag(diagnostics.EThisOutside, expr.Keyword, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(expr, expr.Keyword)
	case *ast.Super:
		switch r.currentClass {
		case classNone:
			r.addDiag(diagnostics.ESuperOutside, expr.Keyword, "Can't use 'super' outside of a class.")
			return
		case classPlain:
			r.addDiag(diagnostics.ESuperNoSuperclass, expr.Keyword, "Can't use 'super' in a class with no superclass.")
			return
		}
		r.resolveLocal(expr, expr.Keyword)
	case *ast.Literal:
	}
}
