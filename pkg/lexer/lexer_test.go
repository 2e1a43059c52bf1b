package lexer

import (
	"testing"

	"github.com/thomasrohde/golox/pkg/diagnostics"
	"github.com/thomasrohde/golox/pkg/token"
)

// helper to tokenize and fail on error
func mustTokenize(t *testing.T, source string) []token.Token {
	t.Helper()
	tokens, diags := Tokenize(source, "test.lox")
	if len(diags) > 0 {
		t.Fatalf("unexpected lex error: %v", diags)
	}
	return tokens
}

// helper that strips the trailing EOF for easier assertions
func mustTokenizeNoEOF(t *testing.T, source string) []token.Token {
	t.Helper()
	tokens := mustTokenize(t, source)
	if len(tokens) == 0 {
		t.Fatal("expected at least one token (EOF)")
	}
	if tokens[len(tokens)-1].Kind != token.EOF {
		t.Fatal("last token is not EOF")
	}
	return tokens[:len(tokens)-1]
}

func kinds(tokens []token.Token) []token.Kind {
	out := make([]token.Kind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

// ---------------------------------------------------------------------------
// Test: empty input produces only EOF
// ---------------------------------------------------------------------------
func TestEmptyInput(t *testing.T) {
	tokens := mustTokenize(t, "")
	if len(tokens) != 1 {
		t.Fatalf("expected 1 token (EOF), got %d", len(tokens))
	}
	if tokens[0].Kind != token.EOF {
		t.Errorf("expected EOF, got %v", tokens[0].Kind)
	}
}

// ---------------------------------------------------------------------------
// Test: all keywords
// ---------------------------------------------------------------------------
func TestKeywords(t *testing.T) {
	tests := []struct {
		keyword  string
		expected token.Kind
	}{
		{"and", token.And},
		{"class", token.Class},
		{"else", token.Else},
		{"false", token.False},
		{"for", token.For},
		{"fun", token.Fun},
		{"if", token.If},
		{"nil", token.Nil},
		{"or", token.Or},
		{"print", token.Print},
		{"return", token.Return},
		{"super", token.Super},
		{"this", token.This},
		{"true", token.True},
		{"var", token.Var},
		{"while", token.While},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			tokens := mustTokenizeNoEOF(t, tt.keyword)
			if len(tokens) != 1 {
				t.Fatalf("expected 1 token, got %d", len(tokens))
			}
			if tokens[0].Kind != tt.expected {
				t.Errorf("expected token kind %v, got %v", tt.expected, tokens[0].Kind)
			}
			if tokens[0].Lexeme != tt.keyword {
				t.Errorf("expected lexeme %q, got %q", tt.keyword, tokens[0].Lexeme)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Test: keyword vs identifier disambiguation
// ---------------------------------------------------------------------------
func TestKeywordVsIdentifier(t *testing.T) {
	tests := []struct {
		input    string
		expected token.Kind
	}{
		{"class", token.Class},
		{"classy", token.Identifier},
		{"or", token.Or},
		{"orchid", token.Identifier},
		{"fun", token.Fun},
		{"funny", token.Identifier},
		{"this", token.This},
		{"thistle", token.Identifier},
		{"_var", token.Identifier},
		{"var1", token.Identifier},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := mustTokenizeNoEOF(t, tt.input)
			if len(tokens) != 1 {
				t.Fatalf("expected 1 token, got %d", len(tokens))
			}
			if tokens[0].Kind != tt.expected {
				t.Errorf("expected kind %v for %q, got %v", tt.expected, tt.input, tokens[0].Kind)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Test: operators, including two-character forms
// ---------------------------------------------------------------------------
func TestOperators(t *testing.T) {
	tokens := mustTokenizeNoEOF(t, "( ) { } , . - + ; / * ! != = == > >= < <=")
	want := []token.Kind{
		token.LeftParen, token.RightParen, token.LeftBrace, token.RightBrace,
		token.Comma, token.Dot, token.Minus, token.Plus, token.Semicolon,
		token.Slash, token.Star, token.Bang, token.BangEqual, token.Equal,
		token.EqualEqual, token.Greater, token.GreaterEqual, token.Less,
		token.LessEqual,
	}
	got := kinds(tokens)
	if len(got) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

// ---------------------------------------------------------------------------
// Test: number literals
// ---------------------------------------------------------------------------
func TestNumberLiterals(t *testing.T) {
	tests := []struct {
		input string
		value float64
	}{
		{"0", 0},
		{"42", 42},
		{"3.14", 3.14},
		{"007", 7},
		{"10.50", 10.5},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := mustTokenizeNoEOF(t, tt.input)
			if len(tokens) != 1 {
				t.Fatalf("expected 1 token, got %d", len(tokens))
			}
			if tokens[0].Kind != token.Number {
				t.Errorf("expected NUMBER, got %v", tokens[0].Kind)
			}
			if v, ok := tokens[0].Literal.(float64); !ok || v != tt.value {
				t.Errorf("expected literal %v, got %v", tt.value, tokens[0].Literal)
			}
		})
	}
}

func TestNumberTrailingDotIsSeparateToken(t *testing.T) {
	tokens := mustTokenizeNoEOF(t, "1.")
	got := kinds(tokens)
	if len(got) != 2 || got[0] != token.Number || got[1] != token.Dot {
		t.Fatalf("expected NUMBER DOT, got %v", got)
	}
}

// ---------------------------------------------------------------------------
// Test: strings
// ---------------------------------------------------------------------------
func TestStringLiteral(t *testing.T) {
	tokens := mustTokenizeNoEOF(t, `"hello world"`)
	if len(tokens) != 1 || tokens[0].Kind != token.String {
		t.Fatalf("expected one STRING, got %v", tokens)
	}
	if tokens[0].Literal != "hello world" {
		t.Errorf("expected literal %q, got %v", "hello world", tokens[0].Literal)
	}
	if tokens[0].Lexeme != `"hello world"` {
		t.Errorf("expected lexeme with quotes, got %q", tokens[0].Lexeme)
	}
}

func TestMultilineString(t *testing.T) {
	tokens := mustTokenize(t, "\"a\nb\" x")
	if tokens[0].Literal != "a\nb" {
		t.Errorf("expected multi-line literal, got %q", tokens[0].Literal)
	}
	if tokens[0].Line != 1 {
		t.Errorf("string should start on line 1, got %d", tokens[0].Line)
	}
	if tokens[1].Line != 2 {
		t.Errorf("identifier after string should be on line 2, got %d", tokens[1].Line)
	}
}

func TestUnterminatedString(t *testing.T) {
	tokens, diags := Tokenize(`"oops`, "test.lox")
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	if diags[0].Code != diagnostics.ELex || diags[0].Message != "Unterminated string." {
		t.Errorf("unexpected diagnostic: %+v", diags[0])
	}
	if tokens[len(tokens)-1].Kind != token.EOF {
		t.Error("token stream must still end with EOF")
	}
}

// ---------------------------------------------------------------------------
// Test: comments and positions
// ---------------------------------------------------------------------------
func TestCommentsSkipped(t *testing.T) {
	tokens := mustTokenizeNoEOF(t, "// leading\nvar a = 1; // trailing\n")
	got := kinds(tokens)
	want := []token.Kind{token.Var, token.Identifier, token.Equal, token.Number, token.Semicolon}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if tokens[0].Line != 2 {
		t.Errorf("expected var on line 2, got %d", tokens[0].Line)
	}
}

func TestColumns(t *testing.T) {
	tokens := mustTokenizeNoEOF(t, "print  foo;")
	if tokens[0].Column != 1 {
		t.Errorf("print column = %d, want 1", tokens[0].Column)
	}
	if tokens[1].Column != 8 {
		t.Errorf("foo column = %d, want 8", tokens[1].Column)
	}
}

// ---------------------------------------------------------------------------
// Test: errors are accumulated
// ---------------------------------------------------------------------------
func TestUnexpectedCharactersAccumulate(t *testing.T) {
	tokens, diags := Tokenize("var @ = 1; #", "test.lox")
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d: %v", len(diags), diags)
	}
	for _, d := range diags {
		if d.Message != "Unexpected character." {
			t.Errorf("unexpected message %q", d.Message)
		}
	}
	if diags[0].Column != 5 {
		t.Errorf("expected column 5 for '@', got %d", diags[0].Column)
	}
	// Scanning continued past the bad characters.
	if got := kinds(tokens); len(got) != 5 {
		t.Errorf("expected 5 tokens, got %v", got)
	}
}

func TestMultiByteUnexpectedReportedOnce(t *testing.T) {
	_, diags := Tokenize("é", "test.lox")
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic for one rune, got %d", len(diags))
	}
}
