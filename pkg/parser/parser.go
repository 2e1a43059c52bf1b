// Package parser implements the Lox recursive-descent parser.
package parser

import (
	"errors"

	"github.com/thomasrohde/golox/pkg/ast"
	"github.com/thomasrohde/golox/pkg/diagnostics"
	"github.com/thomasrohde/golox/pkg/lexer"
	"github.com/thomasrohde/golox/pkg/token"
)

// MaxArgs is the most parameters or arguments a call may carry.
const MaxArgs = 255

// errSync unwinds to the nearest declaration, which then synchronizes.
var errSync = errors.New("parse error")

type parser struct {
	tokens   []token.Token
	pos      int
	filename string
	diags    []diagnostics.Diagnostic
}

// Parse tokenizes source and parses it into an AST. The returned program is
// never nil; statements that failed to parse are dropped, and every lexical
// and syntax error is reported in the diagnostics.
func Parse(source, filename string) (*ast.Program, []diagnostics.Diagnostic) {
	tokens, lexDiags := lexer.Tokenize(source, filename)
	prog, diags := ParseTokens(tokens, filename)
	if len(lexDiags) > 0 {
		diags = append(lexDiags, diags...)
	}
	return prog, diags
}

// ParseTokens parses an EOF-terminated token slice.
func ParseTokens(tokens []token.Token, filename string) (*ast.Program, []diagnostics.Diagnostic) {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
		line := 1
		if len(tokens) > 0 {
			line = tokens[len(tokens)-1].Line
		}
		tokens = append(tokens, token.Token{Kind: token.EOF, Line: line})
	}
	p := &parser{tokens: tokens, filename: filename}
	prog := &ast.Program{File: filename}
	for !p.atEnd() {
		if stmt := p.declaration(); stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
	}
	return prog, p.diags
}

// IsIncomplete reports whether every error in diags was caused by input
// ending early, meaning more lines could complete the program.
func IsIncomplete(diags []diagnostics.Diagnostic) bool {
	errs := diagnostics.Errors(diags)
	if len(errs) == 0 {
		return false
	}
	for _, d := range errs {
		switch {
		case d.Code == diagnostics.EParse && d.Where == " at end":
		case d.Code == diagnostics.ELex && d.Message == "Unterminated string.":
		default:
			return false
		}
	}
	return true
}

// --- token helpers ---

func (p *parser) peek() token.Token {
	return p.tokens[p.pos]
}

func (p *parser) previous() token.Token {
	return p.tokens[p.pos-1]
}

func (p *parser) atEnd() bool {
	return p.peek().Kind == token.EOF
}

func (p *parser) check(kind token.Kind) bool {
	return p.peek().Kind == kind
}

func (p *parser) advance() token.Token {
	if !p.atEnd() {
		p.pos++
	}
	return p.previous()
}

func (p *parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *parser) consume(kind token.Kind, msg string) (token.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return token.Token{}, p.errorAt(p.peek(), msg)
}

// addError records a diagnostic without unwinding.
func (p *parser) addError(tok token.Token, msg string) {
	p.diags = append(p.diags, diagnostics.AtToken(diagnostics.EParse, p.filename, tok, msg))
}

func (p *parser) errorAt(tok token.Token, msg string) error {
	p.addError(tok, msg)
	return errSync
}

// synchronize discards tokens until a likely statement boundary.
func (p *parser) synchronize() {
	p.advance()
	for !p.atEnd() {
		if p.previous().Kind == token.Semicolon {
			return
		}
		switch p.peek().Kind {
		case token.Class, token.Fun, token.Var, token.For, token.If,
			token.While, token.Print, token.Return:
			return
		}
		p.advance()
	}
}

// --- declarations ---

func (p *parser) declaration() ast.Stmt {
	var (
		stmt ast.Stmt
		err  error
	)
	switch {
	case p.match(token.Class):
		stmt, err = p.classDeclaration()
	case p.match(token.Fun):
		stmt, err = p.function("function")
	case p.match(token.Var):
		stmt, err = p.varDeclaration()
	default:
		stmt, err = p.statement()
	}
	if err != nil {
		p.synchronize()
		return nil
	}
	return stmt
}

func (p *parser) classDeclaration() (ast.Stmt, error) {
	name, err := p.consume(token.Identifier, "Expect class name.")
	if err != nil {
		return nil, err
	}

	var superclass *ast.Variable
	if p.match(token.Less) {
		superName, err := p.consume(token.Identifier, "Expect superclass name.")
		if err != nil {
			return nil, err
		}
		superclass = &ast.Variable{Name: superName}
	}

	if _, err := p.consume(token.LeftBrace, "Expect '{' before class body."); err != nil {
		return nil, err
	}
	var methods []*ast.FunctionStmt
	for !p.check(token.RightBrace) && !p.atEnd() {
		m, err := p.function("method")
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	if _, err := p.consume(token.RightBrace, "Expect '}' after class body."); err != nil {
		return nil, err
	}
	return &ast.ClassStmt{Name: name, Superclass: superclass, Methods: methods}, nil
}

func (p *parser) function(kind string) (*ast.FunctionStmt, error) {
	name, err := p.consume(token.Identifier, "Expect "+kind+" name.")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LeftParen, "Expect '(' after "+kind+" name."); err != nil {
		return nil, err
	}
	var params []token.Token
	if !p.check(token.RightParen) {
		for {
			if len(params) >= MaxArgs {
				p.addError(p.peek(), "Can't have more than 255 parameters.")
			}
			param, err := p.consume(token.Identifier, "Expect parameter name.")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.match(token.Comma) {
				break
			}
		}
	}
	if _, err := p.consume(token.RightParen, "Expect ')' after parameters."); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LeftBrace, "Expect '{' before "+kind+" body."); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionStmt{Name: name, Params: params, Body: body}, nil
}

func (p *parser) varDeclaration() (ast.Stmt, error) {
	name, err := p.consume(token.Identifier, "Expect variable name.")
	if err != nil {
		return nil, err
	}
	var init ast.Expr
	if p.match(token.Equal) {
		if init, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.Semicolon, "Expect ';' after variable declaration."); err != nil {
		return nil, err
	}
	return &ast.VarStmt{Name: name, Initializer: init}, nil
}

// --- statements ---

func (p *parser) statement() (ast.Stmt, error) {
	switch {
	case p.match(token.For):
		return p.forStatement()
	case p.match(token.If):
		return p.ifStatement()
	case p.match(token.Print):
		return p.printStatement()
	case p.match(token.Return):
		return p.returnStatement()
	case p.match(token.While):
		return p.whileStatement()
	case p.match(token.LeftBrace):
		brace := p.previous()
		stmts, err := p.block()
		if err != nil {
			return nil, err
		}
		return &ast.BlockStmt{Brace: brace, Statements: stmts}, nil
	}
	return p.expressionStatement()
}

// forStatement lowers `for (init; cond; incr) body` into
// `{ init; while (cond) { body; incr; } }`.
func (p *parser) forStatement() (ast.Stmt, error) {
	keyword := p.previous()
	if _, err := p.consume(token.LeftParen, "Expect '(' after 'for'."); err != nil {
		return nil, err
	}

	var (
		init ast.Stmt
		err  error
	)
	switch {
	case p.match(token.Semicolon):
	case p.match(token.Var):
		init, err = p.varDeclaration()
	default:
		init, err = p.expressionStatement()
	}
	if err != nil {
		return nil, err
	}

	var cond ast.Expr
	if !p.check(token.Semicolon) {
		if cond, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.Semicolon, "Expect ';' after loop condition."); err != nil {
		return nil, err
	}

	var incr ast.Expr
	if !p.check(token.RightParen) {
		if incr, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.RightParen, "Expect ')' after for clauses."); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	if incr != nil {
		body = &ast.BlockStmt{
			Brace:      keyword,
			Statements: []ast.Stmt{body, &ast.ExpressionStmt{Expression: incr}},
		}
	}
	if cond == nil {
		cond = &ast.Literal{Token: keyword, Value: true}
	}
	body = &ast.WhileStmt{Keyword: keyword, Condition: cond, Body: body}
	if init != nil {
		body = &ast.BlockStmt{Brace: keyword, Statements: []ast.Stmt{init, body}}
	}
	return body, nil
}

func (p *parser) ifStatement() (ast.Stmt, error) {
	keyword := p.previous()
	if _, err := p.consume(token.LeftParen, "Expect '(' after 'if'."); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RightParen, "Expect ')' after if condition."); err != nil {
		return nil, err
	}
	then, err := p.statement()
	if err != nil {
		return nil, err
	}
	var els ast.Stmt
	if p.match(token.Else) {
		if els, err = p.statement(); err != nil {
			return nil, err
		}
	}
	return &ast.IfStmt{Keyword: keyword, Condition: cond, Then: then, Else: els}, nil
}

func (p *parser) printStatement() (ast.Stmt, error) {
	keyword := p.previous()
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Semicolon, "Expect ';' after value."); err != nil {
		return nil, err
	}
	return &ast.PrintStmt{Keyword: keyword, Expression: value}, nil
}

func (p *parser) returnStatement() (ast.Stmt, error) {
	keyword := p.previous()
	var (
		value ast.Expr
		err   error
	)
	if !p.check(token.Semicolon) {
		if value, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.Semicolon, "Expect ';' after return value."); err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{Keyword: keyword, Value: value}, nil
}

func (p *parser) whileStatement() (ast.Stmt, error) {
	keyword := p.previous()
	if _, err := p.consume(token.LeftParen, "Expect '(' after 'while'."); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RightParen, "Expect ')' after condition."); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Keyword: keyword, Condition: cond, Body: body}, nil
}

// block parses declarations up to the closing brace; the opening brace has
// already been consumed. Errors inside nested declarations synchronize
// locally, so only a missing '}' unwinds further.
func (p *parser) block() ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for !p.check(token.RightBrace) && !p.atEnd() {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	if _, err := p.consume(token.RightBrace, "Expect '}' after block."); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *parser) expressionStatement() (ast.Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Semicolon, "Expect ';' after expression."); err != nil {
		return nil, err
	}
	return &ast.ExpressionStmt{Expression: expr}, nil
}

// --- expressions ---

func (p *parser) expression() (ast.Expr, error) {
	return p.assignment()
}

func (p *parser) assignment() (ast.Expr, error) {
	expr, err := p.or()
	if err != nil {
		return nil, err
	}
	if p.match(token.Equal) {
		equals := p.previous()
		value, err := p.assignment()
		if err != nil {
			return nil, err
		}
		switch target := expr.(type) {
		case *ast.Variable:
			return &ast.Assign{Name: target.Name, Value: value}, nil
		case *ast.Get:
			return &ast.Set{Object: target.Object, Name: target.Name, Value: value}, nil
		}
		// Reported but not fatal: the parser is still in a sane state.
		p.addError(equals, "Invalid assignment target.")
	}
	return expr, nil
}

func (p *parser) or() (ast.Expr, error) {
	expr, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.match(token.Or) {
		op := p.previous()
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		expr = &ast.Logical{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (p *parser) and() (ast.Expr, error) {
	expr, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.match(token.And) {
		op := p.previous()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		expr = &ast.Logical{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

// binaryLevel parses a left-associative run of operators drawn from kinds.
func (p *parser) binaryLevel(next func() (ast.Expr, error), kinds ...token.Kind) (ast.Expr, error) {
	expr, err := next()
	if err != nil {
		return nil, err
	}
	for p.match(kinds...) {
		op := p.previous()
		right, err := next()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (p *parser) equality() (ast.Expr, error) {
	return p.binaryLevel(p.comparison, token.BangEqual, token.EqualEqual)
}

func (p *parser) comparison() (ast.Expr, error) {
	return p.binaryLevel(p.term, token.Greater, token.GreaterEqual, token.Less, token.LessEqual)
}

func (p *parser) term() (ast.Expr, error) {
	return p.binaryLevel(p.factor, token.Minus, token.Plus)
}

func (p *parser) factor() (ast.Expr, error) {
	return p.binaryLevel(p.unary, token.Slash, token.Star)
}

func (p *parser) unary() (ast.Expr, error) {
	if p.match(token.Bang, token.Minus) {
		op := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Operator: op, Right: right}, nil
	}
	return p.call()
}

func (p *parser) call() (ast.Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.match(token.LeftParen):
			if expr, err = p.finishCall(expr); err != nil {
				return nil, err
			}
		case p.match(token.Dot):
			name, err := p.consume(token.Identifier, "Expect property name after '.'.")
			if err != nil {
				return nil, err
			}
			expr = &ast.Get{Object: expr, Name: name}
		default:
			return expr, nil
		}
	}
}

func (p *parser) finishCall(callee ast.Expr) (ast.Expr, error) {
	var args []ast.Expr
	if !p.check(token.RightParen) {
		for {
			if len(args) >= MaxArgs {
				p.addError(p.peek(), "Can't have more than 255 arguments.")
			}
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(token.Comma) {
				break
			}
		}
	}
	paren, err := p.consume(token.RightParen, "Expect ')' after arguments.")
	if err != nil {
		return nil, err
	}
	return &ast.Call{Callee: callee, Paren: paren, Arguments: args}, nil
}

func (p *parser) primary() (ast.Expr, error) {
	tok := p.peek()
	switch tok.Kind {
	case token.False:
		p.advance()
		return &ast.Literal{Token: tok, Value: false}, nil
	case token.True:
		p.advance()
		return &ast.Literal{Token: tok, Value: true}, nil
	case token.Nil:
		p.advance()
		return &ast.Literal{Token: tok, Value: nil}, nil
	case token.Number, token.String:
		p.advance()
		return &ast.Literal{Token: tok, Value: tok.Literal}, nil
	case token.This:
		p.advance()
		return &ast.This{Keyword: tok}, nil
	case token.Super:
		p.advance()
		if _, err := p.consume(token.Dot, "Expect '.' after 'super'."); err != nil {
			return nil, err
		}
		method, err := p.consume(token.Identifier, "Expect superclass method name.")
		if err != nil {
			return nil, err
		}
		return &ast.Super{Keyword: tok, Method: method}, nil
	case token.Identifier:
		p.advance()
		return &ast.Variable{Name: tok}, nil
	case token.LeftParen:
		p.advance()
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RightParen, "Expect ')' after expression."); err != nil {
			return nil, err
		}
		return &ast.Grouping{Expression: expr}, nil
	}
	return nil, p.errorAt(tok, "Expect expression.")
}
