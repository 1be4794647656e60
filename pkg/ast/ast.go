// Package ast defines the syntax tree for Luma programs.
//
// Statements and expressions form two closed sets. The evaluator's type
// switches enumerate every variant, so adding a node means touching the
// parser, this package, and the interpreter together.
package ast

import "github.com/luma-lang/luma/pkg/token"

// Expression is the marker interface for expression nodes.
type Expression interface {
	exprNode()
}

// Statement is the marker interface for statement nodes.
type Statement interface {
	stmtNode()
}

// Visibility controls whether a top-level declaration is exported from
// its module.
type Visibility int

const (
	Closed Visibility = iota
	Open
)

// ---------- Expressions ----------

// LiteralKind discriminates the scalar literal variants.
type LiteralKind int

const (
	LiteralNumber LiteralKind = iota
	LiteralString
	LiteralBool
	LiteralNil
)

type Literal struct {
	Kind   LiteralKind
	Number float64
	Str    string
	Bool   bool
}

type Variable struct {
	Name token.Token
}

type Grouping struct {
	Expr Expression
}

type Unary struct {
	Operator token.Token
	Right    Expression
}

type Binary struct {
	Left     Expression
	Operator token.Token
	Right    Expression
}

type Call struct {
	Callee Expression
	Paren  token.Token // the '(' — call-site line for errors
	Args   []Expression
}

type List struct {
	Elements []Expression
}

// Map holds parallel key/value slices in source order.
type Map struct {
	Keys   []Expression
	Values []Expression
}

type Get struct {
	Object Expression
	Name   token.Token
}

type Set struct {
	Object Expression
	Name   token.Token
	Value  Expression
}

type Index struct {
	Object  Expression
	Bracket token.Token
	Key     Expression
}

type IndexSet struct {
	Object  Expression
	Bracket token.Token
	Key     Expression
	Value   Expression
}

type This struct {
	Keyword token.Token
}

func (*Literal) exprNode()  {}
func (*Variable) exprNode() {}
func (*Grouping) exprNode() {}
func (*Unary) exprNode()    {}
func (*Binary) exprNode()   {}
func (*Call) exprNode()     {}
func (*List) exprNode()     {}
func (*Map) exprNode()      {}
func (*Get) exprNode()      {}
func (*Set) exprNode()      {}
func (*Index) exprNode()    {}
func (*IndexSet) exprNode() {}
func (*This) exprNode()     {}

// ---------- Statements ----------

type ExpressionStmt struct {
	Expr Expression
}

type PrintStmt struct {
	Expr Expression
}

// VarAssign is both declaration and assignment: the evaluator assigns in
// an enclosing scope when the name exists, otherwise defines locally.
type VarAssign struct {
	Name  token.Token
	Value Expression
}

type Block struct {
	Statements []Statement
}

type If struct {
	Condition  Expression
	ThenBranch *Block
	ElseBranch Statement // nil, *Block, or *If (else-if chain)
}

type While struct {
	Condition Expression
	Body      *Block
}

type Until struct {
	Condition Expression
	Body      *Block
}

type Return struct {
	Keyword token.Token
	Value   Expression // nil for a bare return
}

type FuncDef struct {
	Name       token.Token
	Params     []token.Token
	Body       *Block
	Visibility Visibility
}

type ClassDef struct {
	Name       token.Token
	Methods    []*FuncDef
	Visibility Visibility
}

// Echo repeats its body Count times.
type Echo struct {
	Count Expression
	Body  *Block
}

// Swap exchanges the values of two variables in place.
type Swap struct {
	Left  token.Token
	Right token.Token
}

// Maybe runs its body and, on any runtime error, runs the otherwise
// block instead of propagating.
type Maybe struct {
	Body      *Block
	Otherwise *Block // may be nil
}

// ModuleDecl records the identity of the enclosing module, e.g.
// `module @app.geometry`.
type ModuleDecl struct {
	Path []string // mount first: ["app", "geometry"]
	Line int
}

// Use loads a module and binds its exported namespace to Alias.
type Use struct {
	Path  []string
	Alias token.Token
}

func (*ExpressionStmt) stmtNode() {}
func (*PrintStmt) stmtNode()      {}
func (*VarAssign) stmtNode()      {}
func (*Block) stmtNode()          {}
func (*If) stmtNode()             {}
func (*While) stmtNode()          {}
func (*Until) stmtNode()          {}
func (*Return) stmtNode()         {}
func (*FuncDef) stmtNode()        {}
func (*ClassDef) stmtNode()       {}
func (*Echo) stmtNode()           {}
func (*Swap) stmtNode()           {}
func (*Maybe) stmtNode()          {}
func (*ModuleDecl) stmtNode()     {}
func (*Use) stmtNode()            {}
