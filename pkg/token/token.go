// Package token defines the lexical tokens of the Lox language.
package token

import "fmt"

// Kind identifies the type of a token.
type Kind int

const (
	// Single-character tokens
	LeftParen  Kind = iota // (
	RightParen             // )
	LeftBrace              // {
	RightBrace             // }
	Comma                  // ,
	Dot                    // .
	Minus                  // -
	Plus                   // +
	Semicolon              // ;
	Slash                  // /
	Star                   // *

	// One or two character tokens
	Bang         // !
	BangEqual    // !=
	Equal        // =
	EqualEqual   // ==
	Greater      // >
	GreaterEqual // >=
	Less         // <
	LessEqual    // <=

	// Literals
	Identifier
	String
	Number

	// Keywords
	And
	Class
	Else
	False
	Fun
	For
	If
	Nil
	Or
	Print
	Return
	Super
	This
	True
	Var
	While

	EOF
)

var kindNames = [...]string{
	LeftParen:    "LEFT_PAREN",
	RightParen:   "RIGHT_PAREN",
	LeftBrace:    "LEFT_BRACE",
	RightBrace:   "RIGHT_BRACE",
	Comma:        "COMMA",
	Dot:          "DOT",
	Minus:        "MINUS",
	Plus:         "PLUS",
	Semicolon:    "SEMICOLON",
	Slash:        "SLASH",
	Star:         "STAR",
	Bang:         "BANG",
	BangEqual:    "BANG_EQUAL",
	Equal:        "EQUAL",
	EqualEqual:   "EQUAL_EQUAL",
	Greater:      "GREATER",
	GreaterEqual: "GREATER_EQUAL",
	Less:         "LESS",
	LessEqual:    "LESS_EQUAL",
	Identifier:   "IDENTIFIER",
	String:       "STRING",
	Number:       "NUMBER",
	And:          "AND",
	Class:        "CLASS",
	Else:         "ELSE",
	False:        "FALSE",
	Fun:          "FUN",
	For:          "FOR",
	If:           "IF",
	Nil:          "NIL",
	Or:           "OR",
	Print:        "PRINT",
	Return:       "RETURN",
	Super:        "SUPER",
	This:         "THIS",
	True:         "TRUE",
	Var:          "VAR",
	While:        "WHILE",
	EOF:          "EOF",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

var keywords = map[string]Kind{
	"and":    And,
	"class":  Class,
	"else":   Else,
	"false":  False,
	"for":    For,
	"fun":    Fun,
	"if":     If,
	"nil":    Nil,
	"or":     Or,
	"print":  Print,
	"return": Return,
	"super":  Super,
	"this":   This,
	"true":   True,
	"var":    Var,
	"while":  While,
}

// Lookup returns the keyword kind for ident, or Identifier if it is not reserved.
func Lookup(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}
	return Identifier
}

// Token is a single lexeme with its source position. Literal holds the
// decoded value for STRING (string) and NUMBER (float64) tokens.
type Token struct {
	Kind    Kind
	Lexeme  string
	Literal any
	Line    int
	Column  int
}

func (t Token) String() string {
	if t.Literal != nil {
		return fmt.Sprintf("%s %s %v", t.Kind, t.Lexeme, t.Literal)
	}
	return fmt.Sprintf("%s %s", t.Kind, t.Lexeme)
}
