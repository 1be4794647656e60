package parser

import (
	"github.com/luma-lang/luma/pkg/ast"
	"github.com/luma-lang/luma/pkg/token"
)

func (p *Parser) declaration() (ast.Statement, error) {
	if p.match(token.Module) {
		return p.moduleDeclaration()
	}
	if p.match(token.Use) {
		return p.useStatement()
	}

	visibility := ast.Closed
	hadOpen := false
	if p.match(token.Open) {
		visibility = ast.Open
		hadOpen = true
	} else if p.match(token.Closed) {
		visibility = ast.Closed
	}

	if p.match(token.Def) {
		return p.functionDeclaration(visibility)
	}
	if p.match(token.Class) {
		return p.classDeclaration(visibility)
	}

	if hadOpen {
		return nil, p.errorAt(p.previous(), "'open' must be followed by 'def' or 'class'.")
	}
	return p.statement()
}

func (p *Parser) statement() (ast.Statement, error) {
	switch {
	case p.match(token.Print):
		return p.printStatement()
	case p.match(token.If):
		return p.ifStatement()
	case p.match(token.While):
		return p.whileStatement()
	case p.match(token.Until):
		return p.untilStatement()
	case p.match(token.Return):
		return p.returnStatement()
	case p.match(token.Echo):
		return p.echoStatement()
	case p.match(token.Maybe):
		return p.maybeStatement()
	}
	// A '{' here starts a map literal expression, not a block: blocks
	// only follow control-flow keywords.
	return p.assignmentOrExprStatement()
}

// parseModuleId parses the dotted path of `@ident(.ident)*`; the '@'
// itself is consumed by the caller.
func (p *Parser) parseModuleId() ([]string, error) {
	first, err := p.consume(token.Identifier, "Expected module name after '@'.")
	if err != nil {
		return nil, err
	}
	path := []string{first.Lexeme}
	for p.match(token.Dot) {
		seg, err := p.consume(token.Identifier, "Expected identifier after '.' in module ID.")
		if err != nil {
			return nil, err
		}
		path = append(path, seg.Lexeme)
	}
	return path, nil
}

func (p *Parser) moduleDeclaration() (ast.Statement, error) {
	at, err := p.consume(token.At, "Expected '@' after 'module'.")
	if err != nil {
		return nil, err
	}
	path, err := p.parseModuleId()
	if err != nil {
		return nil, err
	}
	p.match(token.Semicolon)
	return &ast.ModuleDecl{Path: path, Line: at.Line}, nil
}

func (p *Parser) useStatement() (ast.Statement, error) {
	if _, err := p.consume(token.At, "Expected '@' after 'use'."); err != nil {
		return nil, err
	}
	path, err := p.parseModuleId()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.As, "Expected 'as' after module ID in use statement."); err != nil {
		return nil, err
	}
	alias, err := p.consume(token.Identifier, "Expected alias name after 'as'.")
	if err != nil {
		return nil, err
	}
	p.match(token.Semicolon)
	return &ast.Use{Path: path, Alias: alias}, nil
}

func (p *Parser) functionDeclaration(visibility ast.Visibility) (*ast.FuncDef, error) {
	name, err := p.consume(token.Identifier, "Expected function name after 'def'.")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LeftParen, "Expected '(' after function name."); err != nil {
		return nil, err
	}
	var params []token.Token
	if !p.check(token.RightParen) {
		for {
			param, err := p.consume(token.Identifier, "Expected parameter name.")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.match(token.Comma) {
				break
			}
		}
	}
	if _, err := p.consume(token.RightParen, "Expected ')' after parameters."); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.FuncDef{Name: name, Params: params, Body: body, Visibility: visibility}, nil
}

func (p *Parser) classDeclaration(visibility ast.Visibility) (ast.Statement, error) {
	name, err := p.consume(token.Identifier, "Expected class name.")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LeftBrace, "Expected '{' before class body."); err != nil {
		return nil, err
	}
	var methods []*ast.FuncDef
	for !p.check(token.RightBrace) && !p.isAtEnd() {
		if _, err := p.consume(token.Def, "Expected 'def' to define method."); err != nil {
			return nil, err
		}
		method, err := p.functionDeclaration(ast.Closed)
		if err != nil {
			return nil, err
		}
		methods = append(methods, method)
	}
	if _, err := p.consume(token.RightBrace, "Expected '}' after class body."); err != nil {
		return nil, err
	}
	return &ast.ClassDef{Name: name, Methods: methods, Visibility: visibility}, nil
}

func (p *Parser) printStatement() (ast.Statement, error) {
	if _, err := p.consume(token.LeftParen, "Expected '(' after 'print'."); err != nil {
		return nil, err
	}
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RightParen, "Expected ')' after print expression."); err != nil {
		return nil, err
	}
	p.match(token.Semicolon)
	return &ast.PrintStmt{Expr: value}, nil
}

func (p *Parser) ifStatement() (ast.Statement, error) {
	if _, err := p.consume(token.LeftParen, "Expected '(' after 'if'."); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RightParen, "Expected ')' after if condition."); err != nil {
		return nil, err
	}
	thenBranch, err := p.block()
	if err != nil {
		return nil, err
	}
	var elseBranch ast.Statement
	if p.match(token.Else) {
		if p.match(token.If) {
			elseBranch, err = p.ifStatement()
		} else {
			elseBranch, err = p.block()
		}
		if err != nil {
			return nil, err
		}
	}
	return &ast.If{Condition: cond, ThenBranch: thenBranch, ElseBranch: elseBranch}, nil
}

func (p *Parser) whileStatement() (ast.Statement, error) {
	if _, err := p.consume(token.LeftParen, "Expected '(' after 'while'."); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RightParen, "Expected ')' after while condition."); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.While{Condition: cond, Body: body}, nil
}

func (p *Parser) untilStatement() (ast.Statement, error) {
	if _, err := p.consume(token.LeftParen, "Expected '(' after 'until'."); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RightParen, "Expected ')' after until condition."); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.Until{Condition: cond, Body: body}, nil
}

func (p *Parser) returnStatement() (ast.Statement, error) {
	keyword := p.previous()
	var value ast.Expression
	if !p.check(token.Semicolon) && !p.check(token.RightBrace) && !p.isAtEnd() {
		var err error
		value, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	p.match(token.Semicolon)
	return &ast.Return{Keyword: keyword, Value: value}, nil
}

func (p *Parser) echoStatement() (ast.Statement, error) {
	count, err := p.expression()
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.Echo{Count: count, Body: body}, nil
}

func (p *Parser) maybeStatement() (ast.Statement, error) {
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	var otherwise *ast.Block
	if p.match(token.Otherwise) {
		otherwise, err = p.block()
		if err != nil {
			return nil, err
		}
	}
	return &ast.Maybe{Body: body, Otherwise: otherwise}, nil
}

// assignmentOrExprStatement parses an expression and then decides what
// the statement is by what follows and by the shape of the parsed LHS:
// `a <-> b` becomes a swap, `lhs = value` an assignment (variable,
// property, or index), anything else an expression statement.
func (p *Parser) assignmentOrExprStatement() (ast.Statement, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}

	if p.match(token.Swap) {
		v, ok := expr.(*ast.Variable)
		if !ok {
			return nil, p.errorAt(p.previous(), "Invalid swap target.")
		}
		right, err := p.consume(token.Identifier, "Expected identifier after '<->'.")
		if err != nil {
			return nil, err
		}
		p.match(token.Semicolon)
		return &ast.Swap{Left: v.Name, Right: right}, nil
	}

	if p.match(token.Equal) {
		equals := p.previous()
		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		p.match(token.Semicolon)
		switch lhs := expr.(type) {
		case *ast.Variable:
			return &ast.VarAssign{Name: lhs.Name, Value: value}, nil
		case *ast.Get:
			return &ast.ExpressionStmt{Expr: &ast.Set{Object: lhs.Object, Name: lhs.Name, Value: value}}, nil
		case *ast.Index:
			return &ast.ExpressionStmt{Expr: &ast.IndexSet{Object: lhs.Object, Bracket: lhs.Bracket, Key: lhs.Key, Value: value}}, nil
		}
		return nil, p.errorAt(equals, "Invalid assignment target.")
	}

	p.match(token.Semicolon)
	return &ast.ExpressionStmt{Expr: expr}, nil
}

func (p *Parser) block() (*ast.Block, error) {
	if _, err := p.consume(token.LeftBrace, "Expected '{' to start block."); err != nil {
		return nil, err
	}
	var statements []ast.Statement
	for !p.check(token.RightBrace) && !p.isAtEnd() {
		stmt, err := p.declaration()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	if _, err := p.consume(token.RightBrace, "Expected '}' after block."); err != nil {
		return nil, err
	}
	return &ast.Block{Statements: statements}, nil
}
