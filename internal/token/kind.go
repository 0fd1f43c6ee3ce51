// Package token describes the token shape the lexer/parser collaborators
// (out of scope for this module) are expected to produce. Only the
// interface the core compiler consumes is defined here: a flat, ordered
// sequence of Tokens, each carrying a Kind and a 1-based line/column.
package token

// Kind identifies the lexical category of a Token.
type Kind uint8

const (
	Invalid Kind = iota

	// Literals.
	Number // numeric literal, lexed as a double
	String
	LowerIdent // lower-identifier: value/function names
	UpperIdent // upper-identifier: type/module names
	True
	False

	// Punctuation.
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	LAngle
	RAngle
	Dot
	Comma
	Colon
	Equal

	// Operators.
	Plus
	Minus
	Star
	Slash

	// Relational.
	EqEq
	NotEq
	LtEq
	GtEq
	Lt
	Gt

	// Arrows and pipe.
	FatArrow // =>
	ThinArrow // ->
	Pipe      // |>

	Newline // significant between top-level and block statements
	Comment // ignorable

	// Keywords.
	KwConst
	KwFn
	KwModule
	KwFrom
	KwAs
	KwImport
	KwExpose
	KwExtern
	KwEnum
	KwType
	KwExporting
	KwReturn
	KwIf
	KwElse
	KwMatch
	KwImpl
	KwAsync
	KwAwait
	KwOffload
	KwSwitch
	KwWhen
	KwCase

	EOF
)

// Keywords maps the reserved-word spellings to their Kind. Fyg's keyword
// set per spec is fixed and small; this is the full table, not a sample.
var Keywords = map[string]Kind{
	"const":     KwConst,
	"fn":        KwFn,
	"module":    KwModule,
	"from":      KwFrom,
	"as":        KwAs,
	"import":    KwImport,
	"expose":    KwExpose,
	"extern":    KwExtern,
	"enum":      KwEnum,
	"type":      KwType,
	"exporting": KwExporting,
	"return":    KwReturn,
	"if":        KwIf,
	"else":      KwElse,
	"match":     KwMatch,
	"impl":      KwImpl,
	"async":     KwAsync,
	"await":     KwAwait,
	"offload":   KwOffload,
	"switch":    KwSwitch,
	"when":      KwWhen,
	"case":      KwCase,
}

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "invalid"
	case Number:
		return "number"
	case String:
		return "string"
	case LowerIdent:
		return "lower-identifier"
	case UpperIdent:
		return "upper-identifier"
	case True, False:
		return "boolean"
	case Newline:
		return "newline"
	case Comment:
		return "comment"
	case EOF:
		return "eof"
	default:
		for spelling, kind := range Keywords {
			if kind == k {
				return spelling
			}
		}
		return "token"
	}
}
