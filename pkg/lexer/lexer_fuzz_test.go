package lexer

import (
	"testing"

	"github.com/thomasrohde/golox/pkg/token"
)

// FuzzTokenize feeds random inputs to the lexer to catch panics.
// The lexer should never panic; invalid input becomes diagnostics.
func FuzzTokenize(f *testing.F) {
	seeds := []string{
		// Keywords
		`and class else false for fun if nil or print return super this true var while`,
		// Literals
		`42 3.14 0 007 1.`,
		`"hello" "multi
line"`,
		// Operators
		`( ) { } , . - + ; / * ! != = == > >= < <=`,
		// Comments
		`// this is a comment`,
		// Mixed
		`var x = 42;`,
		`class B < A { init(a) { super.init(a); this.x = a; } }`,
		// Edge cases
		``,
		`   `,
		"\t\n\r",
		`"unterminated`,
		`"""`,
		`@#$^&`,
		"\x00",
		`é`,
	}

	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("Tokenize panicked on input %q: %v", input, r)
				}
			}()
			tokens, _ := Tokenize(input, "fuzz.lox")
			if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
				t.Fatalf("token stream for %q does not end with EOF", input)
			}
		}()
	})
}
