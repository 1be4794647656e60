// Package parser builds Luma syntax trees from token streams.
//
// The grammar is parsed by recursive descent with one token of
// lookahead. Statement parsing recovers from errors in panic mode:
// a failed statement is skipped to the next statement boundary and
// parsing continues, so one pass can report several errors.
package parser

import (
	"fmt"
	"strings"

	"github.com/luma-lang/luma/pkg/ast"
	"github.com/luma-lang/luma/pkg/token"
)

// Error is a syntax error anchored to the offending token.
type Error struct {
	Line    int
	Message string
	Got     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("Parse error at line %d: %s (got '%s')", e.Line, e.Message, e.Got)
}

type Parser struct {
	tokens  []token.Token
	current int
	errors  []*Error
}

func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse consumes the whole token stream. The returned statements are
// the ones that parsed cleanly; errors holds every syntax error found.
func (p *Parser) Parse() ([]ast.Statement, []*Error) {
	var statements []ast.Statement
	for !p.isAtEnd() {
		stmt, err := p.declaration()
		if err != nil {
			p.record(err)
			p.synchronize()
			continue
		}
		statements = append(statements, stmt)
	}
	return statements, p.errors
}

// ParseExpression parses a single expression, for REPL echo of bare
// expressions and for tests.
func (p *Parser) ParseExpression() (ast.Expression, error) {
	return p.expression()
}

func (p *Parser) record(err error) {
	if pe, ok := err.(*Error); ok {
		p.errors = append(p.errors, pe)
		return
	}
	p.errors = append(p.errors, &Error{Line: p.peek().Line, Message: err.Error(), Got: p.peek().Lexeme})
}

func (p *Parser) errorAt(tok token.Token, message string) *Error {
	return &Error{Line: tok.Line, Message: message, Got: tok.Lexeme}
}

// synchronize skips tokens until a likely statement boundary: just past
// a semicolon, or just before a statement-starting keyword.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Type == token.Semicolon {
			return
		}
		switch p.peek().Type {
		case token.Def, token.Class, token.If, token.While, token.Until,
			token.Return, token.Print, token.Echo, token.Maybe, token.Else,
			token.Module, token.Use, token.Open, token.Closed:
			return
		}
		p.advance()
	}
}

func (p *Parser) match(types ...token.Type) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(t token.Type) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == t
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool { return p.peek().Type == token.EOF }

func (p *Parser) peek() token.Token { return p.tokens[p.current] }

func (p *Parser) previous() token.Token { return p.tokens[p.current-1] }

func (p *Parser) consume(t token.Type, message string) (token.Token, error) {
	if p.check(t) {
		return p.advance(), nil
	}
	return token.Token{}, p.errorAt(p.peek(), message)
}

// unquote strips the surrounding quotes from a string lexeme and
// processes escape sequences. Unknown escapes keep their backslash.
func unquote(lexeme string) string {
	if len(lexeme) < 2 || lexeme[0] != '"' || lexeme[len(lexeme)-1] != '"' {
		return lexeme
	}
	inner := lexeme[1 : len(lexeme)-1]
	var b strings.Builder
	b.Grow(len(inner))
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' && i+1 < len(inner) {
			switch inner[i+1] {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case '\\':
				b.WriteByte('\\')
			case '"':
				b.WriteByte('"')
			default:
				b.WriteByte('\\')
				b.WriteByte(inner[i+1])
			}
			i++
			continue
		}
		b.WriteByte(inner[i])
	}
	return b.String()
}
