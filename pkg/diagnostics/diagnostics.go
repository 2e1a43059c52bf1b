// Package diagnostics defines Lox diagnostic types for lex/parse/resolve/runtime errors.
package diagnostics

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/thomasrohde/golox/pkg/token"
)

// Diagnostic code constants.
const (
	ELex               = "E_LEX"
	EParse             = "E_PARSE"
	ERedeclare         = "E_REDECLARE"
	ESelfInit          = "E_SELF_INIT"
	EReturnTop         = "E_RETURN_TOP"
	EReturnInit        = "E_RETURN_INIT"
	EThisOutside       = "E_THIS_OUTSIDE"
	ESuperOutside      = "E_SUPER_OUTSIDE"
	ESuperNoSuperclass = "E_SUPER_NO_SUPERCLASS"
	EInheritSelf       = "E_INHERIT_SELF"
	EUndefinedVariable = "E_UNDEFINED_VARIABLE"
	EUndefinedProperty = "E_UNDEFINED_PROPERTY"
	EType              = "E_TYPE"
	EArity             = "E_ARITY"
	EStackOverflow     = "E_STACK_OVERFLOW"
	EIO                = "E_IO"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Diagnostic represents a lex, parse, resolution, or runtime diagnostic.
// Where carries the "at 'x'" / "at end" context of the classic report format.
type Diagnostic struct {
	Code     string `json:"code"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	File     string `json:"file,omitempty"`
	Line     int    `json:"line"`
	Column   int    `json:"column,omitempty"`
	Length   int    `json:"length,omitempty"`
	Where    string `json:"where,omitempty"`
	Hint     string `json:"hint,omitempty"`
}

// MakeDiag creates a new error Diagnostic.
func MakeDiag(code, message, file string, line, column int, hint string) Diagnostic {
	return Diagnostic{
		Code:     code,
		Severity: SeverityError,
		Message:  message,
		File:     file,
		Line:     line,
		Column:   column,
		Hint:     hint,
	}
}

// AtToken creates an error Diagnostic positioned at tok.
func AtToken(code, file string, tok token.Token, message string) Diagnostic {
	d := MakeDiag(code, message, file, tok.Line, tok.Column, "")
	if tok.Kind == token.EOF {
		d.Where = " at end"
	} else {
		d.Where = fmt.Sprintf(" at '%s'", tok.Lexeme)
		d.Length = len(tok.Lexeme)
	}
	return d
}

// Warn returns a copy of d downgraded to a warning.
func Warn(d Diagnostic) Diagnostic {
	d.Severity = SeverityWarning
	return d
}

// IsError reports whether d blocks execution.
func (d Diagnostic) IsError() bool {
	return d.Severity != SeverityWarning
}

// HasErrors reports whether any diagnostic in diags is an error.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.IsError() {
			return true
		}
	}
	return false
}

// Errors returns only the error-severity diagnostics.
func Errors(diags []Diagnostic) []Diagnostic {
	var out []Diagnostic
	for _, d := range diags {
		if d.IsError() {
			out = append(out, d)
		}
	}
	return out
}

// FormatDiagnostic formats a single diagnostic for display.
func FormatDiagnostic(d Diagnostic, asJSON bool) string {
	if asJSON {
		b, _ := json.Marshal(d)
		return string(b)
	}
	label := "Error"
	if !d.IsError() {
		label = "Warning"
	}
	out := fmt.Sprintf("[line %d] %s%s: %s", d.Line, label, d.Where, d.Message)
	if d.Hint != "" {
		out += fmt.Sprintf("\n  hint: %s", d.Hint)
	}
	return out
}

// FormatDiagnostics formats a slice of diagnostics for display.
func FormatDiagnostics(diags []Diagnostic, asJSON bool) string {
	if asJSON {
		if diags == nil {
			diags = []Diagnostic{}
		}
		b, _ := json.Marshal(diags)
		return string(b)
	}
	parts := make([]string, len(diags))
	for i, d := range diags {
		parts[i] = FormatDiagnostic(d, false)
	}
	return strings.Join(parts, "\n")
}
