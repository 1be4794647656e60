package parser

import (
	"strconv"

	"github.com/luma-lang/luma/pkg/ast"
	"github.com/luma-lang/luma/pkg/token"
)

// Precedence cascade: or → and → equality → comparison → term → factor
// → unary → call → primary.

func (p *Parser) expression() (ast.Expression, error) {
	return p.logicalOr()
}

func (p *Parser) binaryLevel(operand func() (ast.Expression, error), operators ...token.Type) (ast.Expression, error) {
	expr, err := operand()
	if err != nil {
		return nil, err
	}
	for p.match(operators...) {
		op := p.previous()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) logicalOr() (ast.Expression, error) {
	return p.binaryLevel(p.logicalAnd, token.Or)
}

func (p *Parser) logicalAnd() (ast.Expression, error) {
	return p.binaryLevel(p.equality, token.And)
}

func (p *Parser) equality() (ast.Expression, error) {
	return p.binaryLevel(p.comparison, token.BangEqual, token.EqualEqual)
}

func (p *Parser) comparison() (ast.Expression, error) {
	return p.binaryLevel(p.term, token.Greater, token.GreaterEqual, token.Less, token.LessEqual)
}

func (p *Parser) term() (ast.Expression, error) {
	return p.binaryLevel(p.factor, token.Plus, token.Minus)
}

func (p *Parser) factor() (ast.Expression, error) {
	return p.binaryLevel(p.unary, token.Star, token.Slash)
}

func (p *Parser) unary() (ast.Expression, error) {
	if p.match(token.Bang, token.Minus, token.Not) {
		op := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Operator: op, Right: right}, nil
	}
	return p.call()
}

// call parses a primary followed by any chain of calls, property
// accesses and index expressions.
func (p *Parser) call() (ast.Expression, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.match(token.LeftParen):
			paren := p.previous()
			var args []ast.Expression
			if !p.check(token.RightParen) {
				for {
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
			if _, err := p.consume(token.RightParen, "Expected ')' after arguments."); err != nil {
				return nil, err
			}
			expr = &ast.Call{Callee: expr, Paren: paren, Args: args}
		case p.match(token.Dot):
			name, err := p.consume(token.Identifier, "Expected property name after '.'.")
			if err != nil {
				return nil, err
			}
			expr = &ast.Get{Object: expr, Name: name}
		case p.match(token.LeftBracket):
			bracket := p.previous()
			key, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.consume(token.RightBracket, "Expected ']' after index."); err != nil {
				return nil, err
			}
			expr = &ast.Index{Object: expr, Bracket: bracket, Key: key}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) primary() (ast.Expression, error) {
	switch {
	case p.match(token.Number):
		tok := p.previous()
		v, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, p.errorAt(tok, "Invalid number literal: "+tok.Lexeme)
		}
		return ast.Num(v), nil

	case p.match(token.String):
		return ast.Str(unquote(p.previous().Lexeme)), nil

	case p.match(token.True):
		return ast.Bool(true), nil
	case p.match(token.False):
		return ast.Bool(false), nil
	case p.match(token.Nil):
		return ast.Nil(), nil

	case p.match(token.Identifier):
		return &ast.Variable{Name: p.previous()}, nil

	case p.match(token.This):
		return &ast.This{Keyword: p.previous()}, nil

	case p.match(token.LeftBracket):
		var elements []ast.Expression
		if !p.check(token.RightBracket) {
			for {
				e, err := p.expression()
				if err != nil {
					return nil, err
				}
				elements = append(elements, e)
				if !p.match(token.Comma) {
					break
				}
			}
		}
		if _, err := p.consume(token.RightBracket, "Expected ']' after list elements."); err != nil {
			return nil, err
		}
		return &ast.List{Elements: elements}, nil

	case p.match(token.LeftBrace):
		var keys, values []ast.Expression
		if !p.check(token.RightBrace) {
			for {
				k, err := p.expression()
				if err != nil {
					return nil, err
				}
				keys = append(keys, k)
				if _, err := p.consume(token.Colon, "Expected ':' in map entry."); err != nil {
					return nil, err
				}
				v, err := p.expression()
				if err != nil {
					return nil, err
				}
				values = append(values, v)
				if !p.match(token.Comma) {
					break
				}
			}
		}
		if _, err := p.consume(token.RightBrace, "Expected '}' after map entries."); err != nil {
			return nil, err
		}
		return &ast.Map{Keys: keys, Values: values}, nil

	case p.match(token.LeftParen):
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RightParen, "Expected ')' after expression."); err != nil {
			return nil, err
		}
		return &ast.Grouping{Expr: expr}, nil
	}

	return nil, p.errorAt(p.peek(), "Expected expression.")
}
