// Package lexer implements the Lox language tokenizer.
package lexer

import (
	"strconv"
	"unicode/utf8"

	"github.com/thomasrohde/golox/pkg/diagnostics"
	"github.com/thomasrohde/golox/pkg/token"
)

type scanner struct {
	source   string
	filename string
	start    int
	pos      int
	line     int
	col      int

	startLine int
	startCol  int

	tokens []token.Token
	diags  []diagnostics.Diagnostic
}

func newScanner(source, filename string) *scanner {
	return &scanner{
		source:   source,
		filename: filename,
		pos:      0,
		line:     1,
		col:      1,
	}
}

func (s *scanner) atEnd() bool {
	return s.pos >= len(s.source)
}

func (s *scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.source[s.pos]
}

func (s *scanner) peekAt(offset int) byte {
	p := s.pos + offset
	if p >= len(s.source) {
		return 0
	}
	return s.source[p]
}

func (s *scanner) advance() byte {
	ch := s.source[s.pos]
	s.pos++
	if ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return ch
}

// match consumes the next byte if it equals expected.
func (s *scanner) match(expected byte) bool {
	if s.atEnd() || s.source[s.pos] != expected {
		return false
	}
	s.advance()
	return true
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlphaNumeric(ch byte) bool {
	return isAlpha(ch) || isDigit(ch)
}

func (s *scanner) addToken(kind token.Kind, literal any) {
	s.tokens = append(s.tokens, token.Token{
		Kind:    kind,
		Lexeme:  s.source[s.start:s.pos],
		Literal: literal,
		Line:    s.startLine,
		Column:  s.startCol,
	})
}

func (s *scanner) lexError(line, col int, msg string) {
	s.diags = append(s.diags, diagnostics.MakeDiag(diagnostics.ELex, msg, s.filename, line, col, ""))
}

func (s *scanner) scanString() {
	for !s.atEnd() && s.peek() != '"' {
		s.advance()
	}
	if s.atEnd() {
		s.lexError(s.line, s.col, "Unterminated string.")
		return
	}
	s.advance() // closing "
	s.addToken(token.String, s.source[s.start+1:s.pos-1])
}

func (s *scanner) scanNumber() {
	for isDigit(s.peek()) {
		s.advance()
	}
	// A fractional part needs at least one digit after the dot.
	if s.peek() == '.' && isDigit(s.peekAt(1)) {
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	value, err := strconv.ParseFloat(s.source[s.start:s.pos], 64)
	if err != nil {
		s.lexError(s.startLine, s.startCol, "Invalid number literal.")
		return
	}
	s.addToken(token.Number, value)
}

func (s *scanner) scanIdentOrKeyword() {
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}
	s.addToken(token.Lookup(s.source[s.start:s.pos]), nil)
}

func (s *scanner) scanToken() {
	ch := s.advance()
	switch ch {
	case '(':
		s.addToken(token.LeftParen, nil)
	case ')':
		s.addToken(token.RightParen, nil)
	case '{':
		s.addToken(token.LeftBrace, nil)
	case '}':
		s.addToken(token.RightBrace, nil)
	case ',':
		s.addToken(token.Comma, nil)
	case '.':
		s.addToken(token.Dot, nil)
	case '-':
		s.addToken(token.Minus, nil)
	case '+':
		s.addToken(token.Plus, nil)
	case ';':
		s.addToken(token.Semicolon, nil)
	case '*':
		s.addToken(token.Star, nil)
	case '!':
		if s.match('=') {
			s.addToken(token.BangEqual, nil)
		} else {
			s.addToken(token.Bang, nil)
		}
	case '=':
		if s.match('=') {
			s.addToken(token.EqualEqual, nil)
		} else {
			s.addToken(token.Equal, nil)
		}
	case '<':
		if s.match('=') {
			s.addToken(token.LessEqual, nil)
		} else {
			s.addToken(token.Less, nil)
		}
	case '>':
		if s.match('=') {
			s.addToken(token.GreaterEqual, nil)
		} else {
			s.addToken(token.Greater, nil)
		}
	case '/':
		if s.match('/') {
			// Comment runs to end of line
			for !s.atEnd() && s.peek() != '\n' {
				s.advance()
			}
		} else {
			s.addToken(token.Slash, nil)
		}
	case ' ', '\r', '\t', '\n':
	case '"':
		s.scanString()
	default:
		switch {
		case isDigit(ch):
			s.scanNumber()
		case isAlpha(ch):
			s.scanIdentOrKeyword()
		default:
			// Swallow the rest of a multi-byte rune so it is reported once.
			if ch >= utf8.RuneSelf {
				_, size := utf8.DecodeRuneInString(s.source[s.start:])
				for i := 1; i < size && !s.atEnd(); i++ {
					s.advance()
				}
			}
			s.lexError(s.startLine, s.startCol, "Unexpected character.")
		}
	}
}

// Tokenize converts Lox source into tokens. Lexical errors are accumulated
// rather than stopping the scan; the token slice always ends with EOF.
func Tokenize(source, filename string) ([]token.Token, []diagnostics.Diagnostic) {
	s := newScanner(source, filename)
	for !s.atEnd() {
		s.start = s.pos
		s.startLine, s.startCol = s.line, s.col
		s.scanToken()
	}
	s.tokens = append(s.tokens, token.Token{Kind: token.EOF, Line: s.line, Column: s.col})
	return s.tokens, s.diags
}
