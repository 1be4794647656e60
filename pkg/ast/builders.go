package ast

import "github.com/luma-lang/luma/pkg/token"

// Construction helpers, used mostly by tests that build trees by hand.
// Tokens are synthesized on line 1 unless built from real source.

func ident(name string) token.Token {
	return token.Token{Type: token.Identifier, Lexeme: name, Line: 1}
}

func op(t token.Type, lexeme string) token.Token {
	return token.Token{Type: t, Lexeme: lexeme, Line: 1}
}

func Num(v float64) *Literal  { return &Literal{Kind: LiteralNumber, Number: v} }
func Str(v string) *Literal   { return &Literal{Kind: LiteralString, Str: v} }
func Bool(v bool) *Literal    { return &Literal{Kind: LiteralBool, Bool: v} }
func Nil() *Literal           { return &Literal{Kind: LiteralNil} }
func ID(name string) *Variable { return &Variable{Name: ident(name)} }

func Un(t token.Type, lexeme string, right Expression) *Unary {
	return &Unary{Operator: op(t, lexeme), Right: right}
}

func Bin(left Expression, t token.Type, lexeme string, right Expression) *Binary {
	return &Binary{Left: left, Operator: op(t, lexeme), Right: right}
}

func CallExpr(callee Expression, args ...Expression) *Call {
	return &Call{Callee: callee, Paren: op(token.LeftParen, "("), Args: args}
}

func ListExpr(elements ...Expression) *List { return &List{Elements: elements} }

func MapExpr(keys []Expression, values []Expression) *Map {
	return &Map{Keys: keys, Values: values}
}

func Member(object Expression, name string) *Get {
	return &Get{Object: object, Name: ident(name)}
}

func SetMember(object Expression, name string, value Expression) *Set {
	return &Set{Object: object, Name: ident(name), Value: value}
}

func IndexExpr(object, key Expression) *Index {
	return &Index{Object: object, Bracket: op(token.LeftBracket, "["), Key: key}
}

func IndexSetExpr(object, key, value Expression) *IndexSet {
	return &IndexSet{Object: object, Bracket: op(token.LeftBracket, "["), Key: key, Value: value}
}

func ThisExpr() *This { return &This{Keyword: op(token.This, "this")} }

func ExprS(e Expression) *ExpressionStmt { return &ExpressionStmt{Expr: e} }
func Print(e Expression) *PrintStmt      { return &PrintStmt{Expr: e} }

func Assign(name string, value Expression) *VarAssign {
	return &VarAssign{Name: ident(name), Value: value}
}

func Blk(statements ...Statement) *Block { return &Block{Statements: statements} }

func IfS(cond Expression, then *Block, elseBranch Statement) *If {
	return &If{Condition: cond, ThenBranch: then, ElseBranch: elseBranch}
}

func WhileS(cond Expression, body *Block) *While { return &While{Condition: cond, Body: body} }
func UntilS(cond Expression, body *Block) *Until { return &Until{Condition: cond, Body: body} }

func Ret(value Expression) *Return {
	return &Return{Keyword: op(token.Return, "return"), Value: value}
}

func Fn(name string, params []string, body *Block) *FuncDef {
	tokens := make([]token.Token, len(params))
	for i, p := range params {
		tokens[i] = ident(p)
	}
	return &FuncDef{Name: ident(name), Params: tokens, Body: body}
}

func OpenFn(name string, params []string, body *Block) *FuncDef {
	fn := Fn(name, params, body)
	fn.Visibility = Open
	return fn
}

func Cls(name string, methods ...*FuncDef) *ClassDef {
	return &ClassDef{Name: ident(name), Methods: methods}
}

func EchoS(count Expression, body *Block) *Echo { return &Echo{Count: count, Body: body} }

func SwapS(left, right string) *Swap {
	return &Swap{Left: ident(left), Right: ident(right)}
}

func MaybeS(body, otherwise *Block) *Maybe {
	return &Maybe{Body: body, Otherwise: otherwise}
}

func ModDecl(path ...string) *ModuleDecl { return &ModuleDecl{Path: path, Line: 1} }

func UseS(alias string, path ...string) *Use {
	return &Use{Path: path, Alias: ident(alias)}
}
