package interpreter

import (
	"fmt"

	"github.com/thomasrohde/golox/pkg/diagnostics"
	"github.com/thomasrohde/golox/pkg/token"
)

// RuntimeError represents a runtime error during Lox execution. Token is the
// operator, name or paren the error is attributed to.
type RuntimeError struct {
	Code    string
	Message string
	Token   token.Token
	File    string
}

func (e *RuntimeError) Error() string {
	return e.Message
}

// Report renders the error in the classic two-line form.
func (e *RuntimeError) Report() string {
	return fmt.Sprintf("%s\n[line %d]", e.Message, e.Token.Line)
}

// Diagnostic converts the error to the shared diagnostic type.
func (e *RuntimeError) Diagnostic() diagnostics.Diagnostic {
	d := diagnostics.MakeDiag(e.Code, e.Message, e.File, e.Token.Line, e.Token.Column, "")
	if e.Token.Lexeme != "" {
		d.Length = len(e.Token.Lexeme)
	}
	return d
}

func newRuntimeError(code string, tok token.Token, format string, args ...any) *RuntimeError {
	return &RuntimeError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Token:   tok,
	}
}
