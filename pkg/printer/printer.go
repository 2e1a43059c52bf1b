// Package printer renders a Lox AST as indented parenthesized prefix forms.
package printer

import (
	"strconv"
	"strings"

	"github.com/thomasrohde/golox/pkg/ast"
)

const indent = "  "

// Print renders every top-level statement of program, one form per statement.
func Print(program *ast.Program) string {
	var lines []string
	for _, s := range program.Statements {
		lines = append(lines, formatStmt(s, 0))
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// Expr renders a single expression.
func Expr(e ast.Expr) string {
	return formatExpr(e)
}

// Stmt renders a single statement at depth zero.
func Stmt(s ast.Stmt) string {
	return formatStmt(s, 0)
}

func formatStmt(s ast.Stmt, depth int) string {
	prefix := strings.Repeat(indent, depth)
	switch stmt := s.(type) {
	case *ast.ExpressionStmt:
		return prefix + "(; " + formatExpr(stmt.Expression) + ")"
	case *ast.PrintStmt:
		return prefix + "(print " + formatExpr(stmt.Expression) + ")"
	case *ast.VarStmt:
		if stmt.Initializer == nil {
			return prefix + "(var " + stmt.Name.Lexeme + ")"
		}
		return prefix + "(var " + stmt.Name.Lexeme + " " + formatExpr(stmt.Initializer) + ")"
	case *ast.BlockStmt:
		return prefix + "(block" + formatBody(stmt.Statements, depth) + ")"
	case *ast.IfStmt:
		if stmt.Else == nil {
			return prefix + "(if " + formatExpr(stmt.Condition) + formatBody([]ast.Stmt{stmt.Then}, depth) + ")"
		}
		return prefix + "(if-else " + formatExpr(stmt.Condition) +
			formatBody([]ast.Stmt{stmt.Then, stmt.Else}, depth) + ")"
	case *ast.WhileStmt:
		return prefix + "(while " + formatExpr(stmt.Condition) + formatBody([]ast.Stmt{stmt.Body}, depth) + ")"
	case *ast.FunctionStmt:
		return prefix + formatFunction(stmt, "fun", depth)
	case *ast.ReturnStmt:
		if stmt.Value == nil {
			return prefix + "(return)"
		}
		return prefix + "(return " + formatExpr(stmt.Value) + ")"
	case *ast.ClassStmt:
		head := "(class " + stmt.Name.Lexeme
		if stmt.Superclass != nil {
			head += " < " + stmt.Superclass.Name.Lexeme
		}
		var methods []string
		for _, m := range stmt.Methods {
			methods = append(methods, strings.Repeat(indent, depth+1)+formatFunction(m, "method", depth+1))
		}
		if len(methods) == 0 {
			return prefix + head + ")"
		}
		return prefix + head + "\n" + strings.Join(methods, "\n") + ")"
	}
	return prefix + "(?)"
}

func formatFunction(fn *ast.FunctionStmt, keyword string, depth int) string {
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = p.Lexeme
	}
	return "(" + keyword + " " + fn.Name.Lexeme + " (" + strings.Join(params, " ") + ")" +
		formatBody(fn.Body, depth) + ")"
}

// formatBody renders nested statements one per line, one level deeper.
func formatBody(stmts []ast.Stmt, depth int) string {
	if len(stmts) == 0 {
		return ""
	}
	lines := make([]string, len(stmts))
	for i, s := range stmts {
		lines[i] = formatStmt(s, depth+1)
	}
	return "\n" + strings.Join(lines, "\n")
}

func formatExpr(e ast.Expr) string {
	switch expr := e.(type) {
	case *ast.Literal:
		return formatLiteral(expr.Value)
	case *ast.Grouping:
		return parenthesize("group", expr.Expression)
	case *ast.Binary:
		return parenthesize(expr.Operator.Lexeme, expr.Left, expr.Right)
	case *ast.Unary:
		return parenthesize(expr.Operator.Lexeme, expr.Right)
	case *ast.Logical:
		return parenthesize(expr.Operator.Lexeme, expr.Left, expr.Right)
	case *ast.Variable:
		return expr.Name.Lexeme
	case *ast.Assign:
		return "(= " + expr.Name.Lexeme + " " + formatExpr(expr.Value) + ")"
	case *ast.Call:
		return parenthesize("call", append([]ast.Expr{expr.Callee}, expr.Arguments...)...)
	case *ast.Get:
		return "(. " + formatExpr(expr.Object) + " " + expr.Name.Lexeme + ")"
	case *ast.Set:
		return "(set " + formatExpr(expr.Object) + " " + expr.Name.Lexeme + " " + formatExpr(expr.Value) + ")"
	case *ast.This:
		return "this"
	case *ast.Super:
		return "(super " + expr.Method.Lexeme + ")"
	}
	return "?"
}

func parenthesize(name string, exprs ...ast.Expr) string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(name)
	for _, e := range exprs {
		b.WriteString(" ")
		b.WriteString(formatExpr(e))
	}
	b.WriteString(")")
	return b.String()
}

func formatLiteral(v any) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case string:
		return strconv.Quote(val)
	}
	return "?"
}
