package interpreter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/thomasrohde/golox/pkg/ast"
	"github.com/thomasrohde/golox/pkg/diagnostics"
	"github.com/thomasrohde/golox/pkg/resolver"
	"github.com/thomasrohde/golox/pkg/token"
)

// TraceEventType identifies the type of a trace event.
type TraceEventType string

const (
	TraceRunStart     TraceEventType = "run_start"
	TraceRunEnd       TraceEventType = "run_end"
	TraceCallStart    TraceEventType = "call_start"
	TraceCallEnd      TraceEventType = "call_end"
	TraceRuntimeError TraceEventType = "runtime_error"
)

// TraceEvent represents a single trace event emitted during execution.
type TraceEvent struct {
	Timestamp string         `json:"ts"`
	RunID     string         `json:"runId"`
	Event     TraceEventType `json:"event"`
	File      string         `json:"file,omitempty"`
	Line      int            `json:"line,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

// flow is the outcome of executing a statement: either it ran normally or
// a return statement is unwinding toward the nearest call.
type flow struct {
	returning bool
	value     Value
}

// Interpreter evaluates resolved Lox programs. It is not safe for
// concurrent use. Globals persist across Interpret calls.
type Interpreter struct {
	globals *Env
	env     *Env
	locals  map[ast.Expr]int

	ctx     context.Context
	stdout  io.Writer
	file    string
	budget  Budget
	tracker BudgetTracker
	trace   func(event TraceEvent)
	runID   string
}

// Option is a functional option for configuring the Interpreter.
type Option func(*Interpreter)

// WithStdout sets where print writes.
func WithStdout(w io.Writer) Option {
	return func(in *Interpreter) {
		in.stdout = w
	}
}

// WithMaxCallDepth sets the nested call limit.
func WithMaxCallDepth(n int) Option {
	return func(in *Interpreter) {
		in.budget.MaxCallDepth = n
	}
}

// WithTrace sets the trace callback.
func WithTrace(fn func(event TraceEvent)) Option {
	return func(in *Interpreter) {
		in.trace = fn
	}
}

// WithRunID sets the run ID for trace events.
func WithRunID(id string) Option {
	return func(in *Interpreter) {
		in.runID = id
	}
}

// New creates an Interpreter with an empty global scope.
func New(opts ...Option) *Interpreter {
	globals := NewEnv(nil)
	in := &Interpreter{
		globals: globals,
		env:     globals,
		locals:  make(map[ast.Expr]int),
		ctx:     context.Background(),
		stdout:  os.Stdout,
		budget:  Budget{MaxCallDepth: DefaultMaxCallDepth},
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Globals returns the root environment.
func (in *Interpreter) Globals() *Env {
	return in.globals
}

// DefineGlobal binds name in the global scope.
func (in *Interpreter) DefineGlobal(name string, val Value) {
	in.globals.Define(name, val)
}

// Resolve records the scope distance for a local variable reference.
func (in *Interpreter) Resolve(expr ast.Expr, depth int) {
	in.locals[expr] = depth
}

// Stats returns resource counters accumulated so far.
func (in *Interpreter) Stats() BudgetTracker {
	return in.tracker
}

// Interpret executes program after merging its resolution table. The first
// runtime error stops execution and is returned as a *RuntimeError;
// cancellation of ctx is returned wrapping ctx.Err().
func (in *Interpreter) Interpret(ctx context.Context, program *ast.Program, locals resolver.Locals) error {
	for expr, depth := range locals {
		in.Resolve(expr, depth)
	}
	in.ctx = ctx
	in.file = program.File
	in.env = in.globals
	in.tracker.Depth = 0

	in.emit(TraceRunStart, 0, map[string]any{"statements": len(program.Statements)})
	for _, stmt := range program.Statements {
		if _, err := in.execute(stmt); err != nil {
			var rerr *RuntimeError
			if errors.As(err, &rerr) {
				if rerr.File == "" {
					rerr.File = in.file
				}
				in.emit(TraceRuntimeError, rerr.Token.Line, map[string]any{
					"code":    rerr.Code,
					"message": rerr.Message,
				})
			}
			in.emit(TraceRunEnd, 0, map[string]any{"ok": false})
			return err
		}
	}
	in.emit(TraceRunEnd, 0, map[string]any{"ok": true})
	return nil
}

func (in *Interpreter) emit(event TraceEventType, line int, data map[string]any) {
	if in.trace != nil {
		in.trace(TraceEvent{
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
			RunID:     in.runID,
			Event:     event,
			File:      in.file,
			Line:      line,
			Data:      data,
		})
	}
}

func (in *Interpreter) checkContext(line int) error {
	if err := in.ctx.Err(); err != nil {
		return fmt.Errorf("interrupted at line %d: %w", line, err)
	}
	return nil
}

// --- statements ---

func (in *Interpreter) execute(s ast.Stmt) (flow, error) {
	switch stmt := s.(type) {
	case *ast.ExpressionStmt:
		_, err := in.evaluate(stmt.Expression)
		return flow{}, err

	case *ast.PrintStmt:
		val, err := in.evaluate(stmt.Expression)
		if err != nil {
			return flow{}, err
		}
		fmt.Fprintln(in.stdout, Stringify(val))
		return flow{}, nil

	case *ast.VarStmt:
		var val Value = Nil{}
		if stmt.Initializer != nil {
			v, err := in.evaluate(stmt.Initializer)
			if err != nil {
				return flow{}, err
			}
			val = v
		}
		in.env.Define(stmt.Name.Lexeme, val)
		return flow{}, nil

	case *ast.BlockStmt:
		return in.executeBlock(stmt.Statements, in.env.Child())

	case *ast.IfStmt:
		cond, err := in.evaluate(stmt.Condition)
		if err != nil {
			return flow{}, err
		}
		if Truthy(cond) {
			return in.execute(stmt.Then)
		}
		if stmt.Else != nil {
			return in.execute(stmt.Else)
		}
		return flow{}, nil

	case *ast.WhileStmt:
		for {
			if err := in.checkContext(stmt.Keyword.Line); err != nil {
				return flow{}, err
			}
			cond, err := in.evaluate(stmt.Condition)
			if err != nil {
				return flow{}, err
			}
			if !Truthy(cond) {
				return flow{}, nil
			}
			in.tracker.Iterations++
			result, err := in.execute(stmt.Body)
			if err != nil || result.returning {
				return result, err
			}
		}

	case *ast.FunctionStmt:
		in.env.Define(stmt.Name.Lexeme, NewFunction(stmt, in.env, false))
		return flow{}, nil

	case *ast.ReturnStmt:
		var val Value = Nil{}
		if stmt.Value != nil {
			v, err := in.evaluate(stmt.Value)
			if err != nil {
				return flow{}, err
			}
			val = v
		}
		return flow{returning: true, value: val}, nil

	case *ast.ClassStmt:
		return flow{}, in.executeClass(stmt)
	}
	return flow{}, fmt.Errorf("interpreter: unhandled statement %s", s.Kind())
}

// executeBlock runs stmts in env and restores the previous environment on
// every exit path.
func (in *Interpreter) executeBlock(stmts []ast.Stmt, env *Env) (flow, error) {
	previous := in.env
	in.env = env
	defer func() { in.env = previous }()

	for _, stmt := range stmts {
		result, err := in.execute(stmt)
		if err != nil || result.returning {
			return result, err
		}
	}
	return flow{}, nil
}

func (in *Interpreter) executeClass(stmt *ast.ClassStmt) error {
	var superclass *Class
	if stmt.Superclass != nil {
		val, err := in.evaluate(stmt.Superclass)
		if err != nil {
			return err
		}
		sc, ok := val.(*Class)
		if !ok {
			return newRuntimeError(diagnostics.EType, stmt.Superclass.Name, "Superclass must be a class.")
		}
		superclass = sc
	}

	// Defined first so methods can refer to the class by name.
	in.env.Define(stmt.Name.Lexeme, Nil{})

	methodEnv := in.env
	if superclass != nil {
		methodEnv = in.env.Child()
		methodEnv.Define("super", superclass)
	}

	methods := make(map[string]*Function, len(stmt.Methods))
	for _, m := range stmt.Methods {
		methods[m.Name.Lexeme] = NewFunction(m, methodEnv, m.Name.Lexeme == resolver.InitName)
	}

	in.env.AssignAt(0, stmt.Name, NewClass(stmt.Name.Lexeme, superclass, methods))
	return nil
}

// --- expressions ---

func (in *Interpreter) evaluate(e ast.Expr) (Value, error) {
	switch expr := e.(type) {
	case *ast.Literal:
		return FromLiteral(expr.Value), nil

	case *ast.Grouping:
		return in.evaluate(expr.Expression)

	case *ast.Unary:
		right, err := in.evaluate(expr.Right)
		if err != nil {
			return nil, err
		}
		switch expr.Operator.Kind {
		case token.Minus:
			n, ok := right.(Number)
			if !ok {
				return nil, newRuntimeError(diagnostics.EType, expr.Operator, "Operand must be a number.")
			}
			return Number{Value: -n.Value}, nil
		case token.Bang:
			return Bool{Value: !Truthy(right)}, nil
		}

	case *ast.Binary:
		return in.evaluateBinary(expr)

	case *ast.Logical:
		left, err := in.evaluate(expr.Left)
		if err != nil {
			return nil, err
		}
		if expr.Operator.Kind == token.Or {
			if Truthy(left) {
				return left, nil
			}
		} else if !Truthy(left) {
			return left, nil
		}
		return in.evaluate(expr.Right)

	case *ast.Variable:
		return in.lookUpVariable(expr.Name, expr)

	case *ast.Assign:
		val, err := in.evaluate(expr.Value)
		if err != nil {
			return nil, err
		}
		if distance, ok := in.locals[expr]; ok {
			in.env.AssignAt(distance, expr.Name, val)
		} else if err := in.globals.Assign(expr.Name, val); err != nil {
			return nil, err
		}
		return val, nil

	case *ast.Call:
		return in.evaluateCall(expr)

	case *ast.Get:
		obj, err := in.evaluate(expr.Object)
		if err != nil {
			return nil, err
		}
		instance, ok := obj.(*Instance)
		if !ok {
			return nil, newRuntimeError(diagnostics.EType, expr.Name, "Only instances have properties.")
		}
		return instance.Get(expr.Name)

	case *ast.Set:
		obj, err := in.evaluate(expr.Object)
		if err != nil {
			return nil, err
		}
		instance, ok := obj.(*Instance)
		if !ok {
			return nil, newRuntimeError(diagnostics.EType, expr.Name, "Only instances have fields.")
		}
		val, err := in.evaluate(expr.Value)
		if err != nil {
			return nil, err
		}
		instance.Set(expr.Name, val)
		return val, nil

	case *ast.This:
		return in.lookUpVariable(expr.Keyword, expr)

	case *ast.Super:
		return in.evaluateSuper(expr)
	}
	return nil, fmt.Errorf("interpreter: unhandled expression %s", e.Kind())
}

// lookUpVariable uses the resolved distance when there is one, else globals.
func (in *Interpreter) lookUpVariable(name token.Token, expr ast.Expr) (Value, error) {
	if distance, ok := in.locals[expr]; ok {
		return in.env.GetAt(distance, name.Lexeme), nil
	}
	return in.globals.Get(name)
}

func (in *Interpreter) evaluateBinary(expr *ast.Binary) (Value, error) {
	left, err := in.evaluate(expr.Left)
	if err != nil {
		return nil, err
	}
	right, err := in.evaluate(expr.Right)
	if err != nil {
		return nil, err
	}

	op := expr.Operator
	switch op.Kind {
	case token.EqualEqual:
		return Bool{Value: Equal(left, right)}, nil
	case token.BangEqual:
		return Bool{Value: !Equal(left, right)}, nil
	case token.Plus:
		if l, ok := left.(Number); ok {
			if r, ok := right.(Number); ok {
				return Number{Value: l.Value + r.Value}, nil
			}
		}
		if l, ok := left.(String); ok {
			if r, ok := right.(String); ok {
				return String{Value: l.Value + r.Value}, nil
			}
		}
		return nil, newRuntimeError(diagnostics.EType, op, "Operands must be two numbers or two strings.")
	}

	l, lok := left.(Number)
	r, rok := right.(Number)
	if !lok || !rok {
		return nil, newRuntimeError(diagnostics.EType, op, "Operands must be numbers.")
	}
	switch op.Kind {
	case token.Minus:
		return Number{Value: l.Value - r.Value}, nil
	case token.Star:
		return Number{Value: l.Value * r.Value}, nil
	case token.Slash:
		// IEEE semantics: division by zero yields an infinity or NaN.
		return Number{Value: l.Value / r.Value}, nil
	case token.Greater:
		return Bool{Value: l.Value > r.Value}, nil
	case token.GreaterEqual:
		return Bool{Value: l.Value >= r.Value}, nil
	case token.Less:
		return Bool{Value: l.Value < r.Value}, nil
	case token.LessEqual:
		return Bool{Value: l.Value <= r.Value}, nil
	}
	return nil, fmt.Errorf("interpreter: unhandled binary operator %s", op.Lexeme)
}

func (in *Interpreter) evaluateCall(expr *ast.Call) (Value, error) {
	callee, err := in.evaluate(expr.Callee)
	if err != nil {
		return nil, err
	}
	args := make([]Value, 0, len(expr.Arguments))
	for _, a := range expr.Arguments {
		val, err := in.evaluate(a)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}

	fn, ok := callee.(Callable)
	if !ok {
		return nil, newRuntimeError(diagnostics.EType, expr.Paren, "Can only call functions and classes.")
	}
	if len(args) != fn.Arity() {
		return nil, newRuntimeError(diagnostics.EArity, expr.Paren,
			"Expected %d arguments but got %d.", fn.Arity(), len(args))
	}
	return in.call(fn, args, expr.Paren)
}

// call invokes fn with depth accounting, cancellation and tracing.
func (in *Interpreter) call(fn Callable, args []Value, paren token.Token) (Value, error) {
	if err := in.checkContext(paren.Line); err != nil {
		return nil, err
	}
	if in.budget.MaxCallDepth > 0 && in.tracker.Depth >= in.budget.MaxCallDepth {
		return nil, newRuntimeError(diagnostics.EStackOverflow, paren, "Stack overflow.")
	}
	in.tracker.Depth++
	in.tracker.Calls++
	if in.tracker.Depth > in.tracker.MaxDepth {
		in.tracker.MaxDepth = in.tracker.Depth
	}
	defer func() { in.tracker.Depth-- }()

	name := Stringify(fn)
	in.emit(TraceCallStart, paren.Line, map[string]any{"callee": name, "args": len(args)})
	result, err := fn.Call(in, args)
	if err != nil {
		var rerr *RuntimeError
		if _, native := fn.(*Native); native && !errors.As(err, &rerr) && in.ctx.Err() == nil {
			err = newRuntimeError(diagnostics.EType, paren, "%s", err.Error())
		}
		return nil, err
	}
	in.emit(TraceCallEnd, paren.Line, map[string]any{"callee": name})
	return result, nil
}

func (in *Interpreter) evaluateSuper(expr *ast.Super) (Value, error) {
	distance, ok := in.locals[expr]
	if !ok {
		return nil, newRuntimeError(diagnostics.EUndefinedVariable, expr.Keyword, "Undefined variable 'super'.")
	}
	superclass, _ := in.env.GetAt(distance, "super").(*Class)
	// "this" always lives in the scope just inside the one holding "super".
	object, _ := in.env.GetAt(distance-1, "this").(*Instance)
	if superclass == nil || object == nil {
		return nil, newRuntimeError(diagnostics.EType, expr.Keyword, "Invalid 'super' reference.")
	}
	method := superclass.FindMethod(expr.Method.Lexeme)
	if method == nil {
		return nil, newRuntimeError(diagnostics.EUndefinedProperty, expr.Method,
			"Undefined property '%s'.", expr.Method.Lexeme)
	}
	return method.Bind(object), nil
}
