package parser_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/thomasrohde/golox/pkg/ast"
	"github.com/thomasrohde/golox/pkg/diagnostics"
	"github.com/thomasrohde/golox/pkg/parser"
)

// helper: parse source and assert no diagnostics
func mustParse(t *testing.T, source string) *ast.Program {
	t.Helper()
	prog, diags := parser.Parse(source, "test.lox")
	if len(diags) > 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if prog == nil {
		t.Fatal("expected non-nil program")
	}
	return prog
}

// helper: parse source and assert at least one diagnostic
func mustFail(t *testing.T, source string) []diagnostics.Diagnostic {
	t.Helper()
	_, diags := parser.Parse(source, "test.lox")
	if len(diags) == 0 {
		t.Fatalf("expected parse of %q to fail with diagnostics, but it succeeded", source)
	}
	return diags
}

// helper: extract the single statement from a program, assert it is an
// ExpressionStmt, return its Expr
func singleExpr(t *testing.T, source string) ast.Expr {
	t.Helper()
	prog := mustParse(t, source)
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	es, ok := prog.Statements[0].(*ast.ExpressionStmt)
	if !ok {
		t.Fatalf("expected ExpressionStmt, got %T", prog.Statements[0])
	}
	return es.Expression
}

// ---- 1. Literal Expressions ----

func TestLiterals(t *testing.T) {
	tests := []struct {
		source string
		want   any
	}{
		{"42;", 42.0},
		{"3.5;", 3.5},
		{`"hi";`, "hi"},
		{"true;", true},
		{"false;", false},
		{"nil;", nil},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			lit, ok := singleExpr(t, tt.source).(*ast.Literal)
			if !ok {
				t.Fatalf("expected *ast.Literal")
			}
			if lit.Value != tt.want {
				t.Errorf("got %v (%T), want %v (%T)", lit.Value, lit.Value, tt.want, tt.want)
			}
		})
	}
}

// ---- 2. Operators ----

func TestBinaryLeftAssociative(t *testing.T) {
	bin, ok := singleExpr(t, "1 - 2 - 3;").(*ast.Binary)
	if !ok {
		t.Fatal("expected *ast.Binary")
	}
	if _, ok := bin.Left.(*ast.Binary); !ok {
		t.Errorf("expected left operand to be the nested subtraction, got %T", bin.Left)
	}
	if _, ok := bin.Right.(*ast.Literal); !ok {
		t.Errorf("expected right operand to be a literal, got %T", bin.Right)
	}
}

func TestAssignmentRightAssociative(t *testing.T) {
	assign, ok := singleExpr(t, "a = b = c;").(*ast.Assign)
	if !ok {
		t.Fatal("expected *ast.Assign")
	}
	if assign.Name.Lexeme != "a" {
		t.Errorf("expected outer target a, got %s", assign.Name.Lexeme)
	}
	if inner, ok := assign.Value.(*ast.Assign); !ok || inner.Name.Lexeme != "b" {
		t.Errorf("expected inner assignment to b, got %T", assign.Value)
	}
}

func TestPropertyAssignmentBecomesSet(t *testing.T) {
	set, ok := singleExpr(t, "a.b.c = 1;").(*ast.Set)
	if !ok {
		t.Fatal("expected *ast.Set")
	}
	if set.Name.Lexeme != "c" {
		t.Errorf("expected property c, got %s", set.Name.Lexeme)
	}
	if _, ok := set.Object.(*ast.Get); !ok {
		t.Errorf("expected object a.b to be a Get, got %T", set.Object)
	}
}

func TestLogicalNodes(t *testing.T) {
	logical, ok := singleExpr(t, "a or b and c;").(*ast.Logical)
	if !ok {
		t.Fatal("expected *ast.Logical")
	}
	if logical.Operator.Lexeme != "or" {
		t.Errorf("expected or at the root, got %s", logical.Operator.Lexeme)
	}
}

// ---- 3. Calls ----

func TestCallChain(t *testing.T) {
	call, ok := singleExpr(t, "f(1)(2, 3);").(*ast.Call)
	if !ok {
		t.Fatal("expected *ast.Call")
	}
	if len(call.Arguments) != 2 {
		t.Errorf("expected 2 arguments on outer call, got %d", len(call.Arguments))
	}
	if _, ok := call.Callee.(*ast.Call); !ok {
		t.Errorf("expected callee to be a call, got %T", call.Callee)
	}
}

func TestSuperExpression(t *testing.T) {
	prog := mustParse(t, "class A < B { m() { return super.m(); } }")
	cls := prog.Statements[0].(*ast.ClassStmt)
	if cls.Superclass == nil || cls.Superclass.Name.Lexeme != "B" {
		t.Fatalf("expected superclass B, got %+v", cls.Superclass)
	}
	ret := cls.Methods[0].Body[0].(*ast.ReturnStmt)
	call := ret.Value.(*ast.Call)
	sup, ok := call.Callee.(*ast.Super)
	if !ok || sup.Method.Lexeme != "m" {
		t.Errorf("expected super.m callee, got %T", call.Callee)
	}
}

// ---- 4. Statements ----

func TestForDesugaring(t *testing.T) {
	prog := mustParse(t, "for (;;) print 1;")
	while, ok := prog.Statements[0].(*ast.WhileStmt)
	if !ok {
		t.Fatalf("expected bare WhileStmt for empty clauses, got %T", prog.Statements[0])
	}
	cond, ok := while.Condition.(*ast.Literal)
	if !ok || cond.Value != true {
		t.Errorf("expected missing condition to become true, got %v", while.Condition)
	}
}

func TestVarWithoutInitializer(t *testing.T) {
	prog := mustParse(t, "var a;")
	v := prog.Statements[0].(*ast.VarStmt)
	if v.Initializer != nil {
		t.Errorf("expected nil initializer, got %T", v.Initializer)
	}
}

func TestFunctionDeclaration(t *testing.T) {
	prog := mustParse(t, "fun f(a, b, c) { print a; }")
	fn := prog.Statements[0].(*ast.FunctionStmt)
	if fn.Name.Lexeme != "f" || len(fn.Params) != 3 || len(fn.Body) != 1 {
		t.Errorf("unexpected function: %+v", fn)
	}
}

// ---- 5. Errors and recovery ----

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"print 1", "[line 1] Error at end: Expect ';' after value."},
		{"var = 1;", "[line 1] Error at '=': Expect variable name."},
		{"1 + ;", "[line 1] Error at ';': Expect expression."},
		{"(1;", "[line 1] Error at ';': Expect ')' after expression."},
		{"class { }", "[line 1] Error at '{': Expect class name."},
		{"super;", "[line 1] Error at ';': Expect '.' after 'super'."},
		{"a.;", "[line 1] Error at ';': Expect property name after '.'."},
		{"1 = 2;", "[line 1] Error at '=': Invalid assignment target."},
		{"{ var a = 1;", "[line 1] Error at end: Expect '}' after block."},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			diags := mustFail(t, tt.source)
			got := diagnostics.FormatDiagnostic(diags[0], false)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSynchronizeReportsMultipleErrors(t *testing.T) {
	src := "var = 1;\nprint 2;\nvar b = ;\nprint 3;"
	prog, diags := parser.Parse(src, "test.lox")
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d: %v", len(diags), diags)
	}
	if diags[1].Line != 3 {
		t.Errorf("second error should be on line 3, got %d", diags[1].Line)
	}
	// The valid statements survive recovery.
	if len(prog.Statements) != 2 {
		t.Errorf("expected 2 surviving statements, got %d", len(prog.Statements))
	}
}

func TestInvalidAssignmentDoesNotSynchronize(t *testing.T) {
	prog, diags := parser.Parse("1 = 2; print 3;", "test.lox")
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %v", diags)
	}
	if len(prog.Statements) != 2 {
		t.Errorf("expected both statements to parse, got %d", len(prog.Statements))
	}
}

func TestArgumentLimit(t *testing.T) {
	args := make([]string, 256)
	for i := range args {
		args[i] = fmt.Sprint(i)
	}
	diags := mustFail(t, "f("+strings.Join(args, ", ")+");")
	if diags[0].Message != "Can't have more than 255 arguments." {
		t.Errorf("unexpected message %q", diags[0].Message)
	}

	params := make([]string, 256)
	for i := range params {
		params[i] = fmt.Sprintf("p%d", i)
	}
	diags = mustFail(t, "fun f("+strings.Join(params, ", ")+") {}")
	if diags[0].Message != "Can't have more than 255 parameters." {
		t.Errorf("unexpected message %q", diags[0].Message)
	}
}

func TestArgumentLimitBoundaryOK(t *testing.T) {
	args := make([]string, 255)
	for i := range args {
		args[i] = "1"
	}
	mustParse(t, "f("+strings.Join(args, ",")+");")
}

func TestLexErrorsSurfaceThroughParse(t *testing.T) {
	diags := mustFail(t, "var a = 1; @")
	if diags[0].Code != diagnostics.ELex {
		t.Errorf("expected lex diagnostic first, got %s", diags[0].Code)
	}
}

// ---- 6. Incomplete input ----

func TestIsIncomplete(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{"fun f() {", true},
		{"print 1", true},
		{`print "abc`, true},
		{"if (a) {\n print a;", true},
		{"print 1;", false},
		{"var = 1;", false},
		{"print );", false},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			_, diags := parser.Parse(tt.source, "repl")
			if got := parser.IsIncomplete(diags); got != tt.want {
				t.Errorf("IsIncomplete(%q) = %v, want %v (diags %v)", tt.source, got, tt.want, diags)
			}
		})
	}
}
