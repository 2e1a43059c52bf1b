// Package ast defines the Lox language AST node types.
//
// Expression nodes are always handled by pointer; pointer identity is what
// the resolver keys its scope-distance table on, so two textually identical
// references in different places stay distinct.
package ast

import "github.com/thomasrohde/golox/pkg/token"

// Node is the interface implemented by all AST nodes.
type Node interface {
	Kind() string
	Line() int
}

// --- Expr is the interface for all expression nodes ---

type Expr interface {
	Node
	exprNode() // sealed marker
}

// --- Stmt is the interface for all statement nodes ---

type Stmt interface {
	Node
	stmtNode() // sealed marker
}

// --- Literal & Grouping Expressions ---

// Literal holds nil, bool, float64 or string.
type Literal struct {
	Token token.Token
	Value any
}

func (n *Literal) Kind() string { return "Literal" }
func (n *Literal) Line() int    { return n.Token.Line }
func (n *Literal) exprNode()    {}

type Grouping struct {
	Expression Expr
}

func (n *Grouping) Kind() string { return "Grouping" }
func (n *Grouping) Line() int    { return n.Expression.Line() }
func (n *Grouping) exprNode()    {}

// --- Operator Expressions ---

type Binary struct {
	Left     Expr
	Operator token.Token
	Right    Expr
}

func (n *Binary) Kind() string { return "Binary" }
func (n *Binary) Line() int    { return n.Operator.Line }
func (n *Binary) exprNode()    {}

type Unary struct {
	Operator token.Token
	Right    Expr
}

func (n *Unary) Kind() string { return "Unary" }
func (n *Unary) Line() int    { return n.Operator.Line }
func (n *Unary) exprNode()    {}

// Logical is a short-circuiting `and` / `or`.
type Logical struct {
	Left     Expr
	Operator token.Token
	Right    Expr
}

func (n *Logical) Kind() string { return "Logical" }
func (n *Logical) Line() int    { return n.Operator.Line }
func (n *Logical) exprNode()    {}

// --- Variables ---

type Variable struct {
	Name token.Token
}

func (n *Variable) Kind() string { return "Variable" }
func (n *Variable) Line() int    { return n.Name.Line }
func (n *Variable) exprNode()    {}

type Assign struct {
	Name  token.Token
	Value Expr
}

func (n *Assign) Kind() string { return "Assign" }
func (n *Assign) Line() int    { return n.Name.Line }
func (n *Assign) exprNode()    {}

// --- Calls & Properties ---

type Call struct {
	Callee    Expr
	Paren     token.Token // closing paren, used for error positions
	Arguments []Expr
}

func (n *Call) Kind() string { return "Call" }
func (n *Call) Line() int    { return n.Paren.Line }
func (n *Call) exprNode()    {}

type Get struct {
	Object Expr
	Name   token.Token
}

func (n *Get) Kind() string { return "Get" }
func (n *Get) Line() int    { return n.Name.Line }
func (n *Get) exprNode()    {}

type Set struct {
	Object Expr
	Name   token.Token
	Value  Expr
}

func (n *Set) Kind() string { return "Set" }
func (n *Set) Line() int    { return n.Name.Line }
func (n *Set) exprNode()    {}

type This struct {
	Keyword token.Token
}

func (n *This) Kind() string { return "This" }
func (n *This) Line() int    { return n.Keyword.Line }
func (n *This) exprNode()    {}

type Super struct {
	Keyword token.Token
	Method  token.Token
}

func (n *Super) Kind() string { return "Super" }
func (n *Super) Line() int    { return n.Keyword.Line }
func (n *Super) exprNode()    {}

// --- Statements ---

type ExpressionStmt struct {
	Expression Expr
}

func (n *ExpressionStmt) Kind() string { return "ExpressionStmt" }
func (n *ExpressionStmt) Line() int    { return n.Expression.Line() }
func (n *ExpressionStmt) stmtNode()    {}

type PrintStmt struct {
	Keyword    token.Token
	Expression Expr
}

func (n *PrintStmt) Kind() string { return "PrintStmt" }
func (n *PrintStmt) Line() int    { return n.Keyword.Line }
func (n *PrintStmt) stmtNode()    {}

// VarStmt declares a variable; Initializer is nil when absent.
type VarStmt struct {
	Name        token.Token
	Initializer Expr
}

func (n *VarStmt) Kind() string { return "VarStmt" }
func (n *VarStmt) Line() int    { return n.Name.Line }
func (n *VarStmt) stmtNode()    {}

type BlockStmt struct {
	Brace      token.Token
	Statements []Stmt
}

func (n *BlockStmt) Kind() string { return "BlockStmt" }
func (n *BlockStmt) Line() int    { return n.Brace.Line }
func (n *BlockStmt) stmtNode()    {}

// IfStmt's Else is nil when there is no else branch.
type IfStmt struct {
	Keyword   token.Token
	Condition Expr
	Then      Stmt
	Else      Stmt
}

func (n *IfStmt) Kind() string { return "IfStmt" }
func (n *IfStmt) Line() int    { return n.Keyword.Line }
func (n *IfStmt) stmtNode()    {}

// WhileStmt is also the target of `for` desugaring.
type WhileStmt struct {
	Keyword   token.Token
	Condition Expr
	Body      Stmt
}

func (n *WhileStmt) Kind() string { return "WhileStmt" }
func (n *WhileStmt) Line() int    { return n.Keyword.Line }
func (n *WhileStmt) stmtNode()    {}

type FunctionStmt struct {
	Name   token.Token
	Params []token.Token
	Body   []Stmt
}

func (n *FunctionStmt) Kind() string { return "FunctionStmt" }
func (n *FunctionStmt) Line() int    { return n.Name.Line }
func (n *FunctionStmt) stmtNode()    {}

// ReturnStmt's Value is nil for a bare `return;`.
type ReturnStmt struct {
	Keyword token.Token
	Value   Expr
}

func (n *ReturnStmt) Kind() string { return "ReturnStmt" }
func (n *ReturnStmt) Line() int    { return n.Keyword.Line }
func (n *ReturnStmt) stmtNode()    {}

type ClassStmt struct {
	Name       token.Token
	Superclass *Variable // optional
	Methods    []*FunctionStmt
}

func (n *ClassStmt) Kind() string { return "ClassStmt" }
func (n *ClassStmt) Line() int    { return n.Name.Line }
func (n *ClassStmt) stmtNode()    {}

// --- Program ---

type Program struct {
	File       string
	Statements []Stmt
}
