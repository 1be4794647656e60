// Package lexer turns Luma source text into a flat token stream.
//
// The scanner is a single forward pass with one character of lookahead
// (two for numeric literals). Lexemes are kept verbatim: string tokens
// include their surrounding quotes and escape sequences are left for the
// parser to process.
package lexer

import (
	"fmt"

	"github.com/luma-lang/luma/pkg/token"
)

// Error is a lexical error with the line it was detected on.
type Error struct {
	Line    int
	Message string
}

func (e *Error) Error() string { return e.Message }

// Lexer scans one source string. Not reusable after ScanTokens.
type Lexer struct {
	source  string
	tokens  []token.Token
	start   int
	current int
	line    int
}

func New(source string) *Lexer {
	return &Lexer{source: source, line: 1}
}

// ScanTokens scans the whole source. Scanning stops at the first lexical
// error; on success the stream always ends with an EOF token.
func (l *Lexer) ScanTokens() ([]token.Token, error) {
	for !l.isAtEnd() {
		l.start = l.current
		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}
	l.tokens = append(l.tokens, token.Token{Type: token.EOF, Lexeme: "", Line: l.line})
	return l.tokens, nil
}

func (l *Lexer) isAtEnd() bool { return l.current >= len(l.source) }

func (l *Lexer) advance() byte {
	c := l.source[l.current]
	l.current++
	return c
}

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.current]
}

func (l *Lexer) peekNext() byte {
	if l.current+1 >= len(l.source) {
		return 0
	}
	return l.source[l.current+1]
}

func (l *Lexer) match(expected byte) bool {
	if l.isAtEnd() || l.source[l.current] != expected {
		return false
	}
	l.current++
	return true
}

func (l *Lexer) addToken(t token.Type) {
	l.tokens = append(l.tokens, token.Token{
		Type:   t,
		Lexeme: l.source[l.start:l.current],
		Line:   l.line,
	})
}

func (l *Lexer) errorf(format string, args ...any) *Error {
	return &Error{Line: l.line, Message: fmt.Sprintf(format, args...)}
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlphaNumeric(c byte) bool { return isAlpha(c) || isDigit(c) }

func (l *Lexer) scanToken() error {
	c := l.advance()
	switch c {
	case '(':
		l.addToken(token.LeftParen)
	case ')':
		l.addToken(token.RightParen)
	case '{':
		l.addToken(token.LeftBrace)
	case '}':
		l.addToken(token.RightBrace)
	case '[':
		l.addToken(token.LeftBracket)
	case ']':
		l.addToken(token.RightBracket)
	case ',':
		l.addToken(token.Comma)
	case '.':
		l.addToken(token.Dot)
	case ';':
		l.addToken(token.Semicolon)
	case ':':
		l.addToken(token.Colon)
	case '@':
		l.addToken(token.At)
	case '+':
		l.addToken(token.Plus)
	case '-':
		l.addToken(token.Minus)
	case '*':
		l.addToken(token.Star)

	case '!':
		if l.match('=') {
			l.addToken(token.BangEqual)
		} else {
			l.addToken(token.Bang)
		}
	case '=':
		if l.match('=') {
			l.addToken(token.EqualEqual)
		} else {
			l.addToken(token.Equal)
		}
	case '<':
		if l.match('-') {
			if l.match('>') {
				l.addToken(token.Swap)
			} else {
				return l.errorf("Unexpected '<-' at line %d, did you mean '<->'?", l.line)
			}
		} else if l.match('=') {
			l.addToken(token.LessEqual)
		} else {
			l.addToken(token.Less)
		}
	case '>':
		if l.match('=') {
			l.addToken(token.GreaterEqual)
		} else {
			l.addToken(token.Greater)
		}

	case '/':
		if l.match('/') {
			for l.peek() != '\n' && !l.isAtEnd() {
				l.advance()
			}
		} else {
			l.addToken(token.Slash)
		}

	case ' ', '\r', '\t':
		// skip
	case '\n':
		l.line++

	case '"':
		return l.stringLiteral()

	default:
		if isDigit(c) {
			l.numberLiteral()
		} else if isAlpha(c) {
			l.identifierOrKeyword()
		} else {
			return l.errorf("Unexpected character at line %d: '%c'", l.line, c)
		}
	}
	return nil
}

func (l *Lexer) stringLiteral() error {
	for l.peek() != '"' && !l.isAtEnd() {
		c := l.advance()
		if c == '\\' && !l.isAtEnd() {
			c = l.advance()
		}
		if c == '\n' {
			l.line++
		}
	}
	if l.isAtEnd() {
		return l.errorf("Unterminated string at line %d", l.line)
	}
	l.advance() // closing quote
	l.addToken(token.String)
	return nil
}

func (l *Lexer) numberLiteral() {
	for isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	l.addToken(token.Number)
}

func (l *Lexer) identifierOrKeyword() {
	for isAlphaNumeric(l.peek()) {
		l.advance()
	}
	text := l.source[l.start:l.current]
	if t, ok := token.Keywords[text]; ok {
		l.addToken(t)
	} else {
		l.addToken(token.Identifier)
	}
}
