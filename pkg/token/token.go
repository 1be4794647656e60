package token

import "fmt"

// Type identifies the lexical category of a token.
type Type int

const (
	// Single-character tokens.
	LeftParen Type = iota
	RightParen
	LeftBrace
	RightBrace
	LeftBracket
	RightBracket
	Comma
	Dot
	Semicolon
	Colon
	At

	Plus
	Minus
	Star
	Slash

	// One- or two-character tokens.
	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual
	Swap // <->

	// Literals.
	Identifier
	Number
	String

	// Keywords.
	And
	Or
	Not
	Def
	Return
	If
	Else
	While
	Until
	Class
	This
	True
	False
	Nil
	Print
	Echo
	Maybe
	Otherwise

	// Module system.
	Module
	Use
	As
	Open
	Closed

	EOF
)

var typeNames = map[Type]string{
	LeftParen:    "LeftParen",
	RightParen:   "RightParen",
	LeftBrace:    "LeftBrace",
	RightBrace:   "RightBrace",
	LeftBracket:  "LeftBracket",
	RightBracket: "RightBracket",
	Comma:        "Comma",
	Dot:          "Dot",
	Semicolon:    "Semicolon",
	Colon:        "Colon",
	At:           "At",
	Plus:         "Plus",
	Minus:        "Minus",
	Star:         "Star",
	Slash:        "Slash",
	Bang:         "Bang",
	BangEqual:    "BangEqual",
	Equal:        "Equal",
	EqualEqual:   "EqualEqual",
	Greater:      "Greater",
	GreaterEqual: "GreaterEqual",
	Less:         "Less",
	LessEqual:    "LessEqual",
	Swap:         "Swap",
	Identifier:   "Identifier",
	Number:       "Number",
	String:       "String",
	And:          "And",
	Or:           "Or",
	Not:          "Not",
	Def:          "Def",
	Return:       "Return",
	If:           "If",
	Else:         "Else",
	While:        "While",
	Until:        "Until",
	Class:        "Class",
	This:         "This",
	True:         "True",
	False:        "False",
	Nil:          "Nil",
	Print:        "Print",
	Echo:         "Echo",
	Maybe:        "Maybe",
	Otherwise:    "Otherwise",
	Module:       "Module",
	Use:          "Use",
	As:           "As",
	Open:         "Open",
	Closed:       "Closed",
	EOF:          "Eof",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Keywords maps reserved words to their token types. Identifier
// classification defers to this table.
var Keywords = map[string]Type{
	"and":       And,
	"or":        Or,
	"not":       Not,
	"def":       Def,
	"return":    Return,
	"if":        If,
	"else":      Else,
	"while":     While,
	"until":     Until,
	"class":     Class,
	"this":      This,
	"true":      True,
	"false":     False,
	"nil":       Nil,
	"print":     Print,
	"echo":      Echo,
	"maybe":     Maybe,
	"otherwise": Otherwise,
	"module":    Module,
	"use":       Use,
	"as":        As,
	"open":      Open,
	"closed":    Closed,
}

// Token is a single lexical token. Immutable once produced.
type Token struct {
	Type   Type
	Lexeme string // exact source text
	Line   int
}

func (t Token) String() string {
	return fmt.Sprintf("%d  %s  %q", t.Line, t.Type, t.Lexeme)
}
