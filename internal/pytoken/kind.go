// Package pytoken defines the token kinds pylex produces and pyparse
// consumes, grounded on the teacher's internal/token package shape (a Kind
// enum plus an IsKeyword/IsPunctOrOp/IsLiteral classification) reduced to
// the source language's indentation-structured grammar.
package pytoken

// Kind enumerates every token kind the lexer emits.
type Kind uint8

const (
	Invalid Kind = iota
	EOF
	Newline
	Indent
	Dedent

	Ident
	Int
	Float
	String
	Bytes

	// Keywords
	KwFalse
	KwNone
	KwTrue
	KwAnd
	KwAs
	KwAssert
	KwAsync
	KwAwait
	KwBreak
	KwClass
	KwContinue
	KwDef
	KwDel
	KwElif
	KwElse
	KwExcept
	KwFinally
	KwFor
	KwFrom
	KwGlobal
	KwIf
	KwImport
	KwIn
	KwIs
	KwLambda
	KwNonlocal
	KwNot
	KwOr
	KwPass
	KwRaise
	KwReturn
	KwTry
	KwWhile
	KwWith
	KwYield

	// Operators and punctuation.
	Plus
	Minus
	Star
	DoubleStar
	Slash
	DoubleSlash
	Percent
	At
	Amp
	Pipe
	Caret
	Tilde
	Shl
	Shr

	Lt
	Gt
	LtEq
	GtEq
	EqEq
	NotEq

	Assign
	PlusAssign
	MinusAssign
	StarAssign
	SlashAssign
	DoubleSlashAssign
	PercentAssign
	DoubleStarAssign
	AmpAssign
	PipeAssign
	CaretAssign
	ShlAssign
	ShrAssign
	AtAssign
	Walrus // :=

	LParen
	RParen
	LBracket
	RBracket
	LBrace
	RBrace

	Comma
	Colon
	Dot
	Ellipsis
	Semicolon
	Arrow
)

var keywords = map[string]Kind{
	"False":    KwFalse,
	"None":     KwNone,
	"True":     KwTrue,
	"and":      KwAnd,
	"as":       KwAs,
	"assert":   KwAssert,
	"async":    KwAsync,
	"await":    KwAwait,
	"break":    KwBreak,
	"class":    KwClass,
	"continue": KwContinue,
	"def":      KwDef,
	"del":      KwDel,
	"elif":     KwElif,
	"else":     KwElse,
	"except":   KwExcept,
	"finally":  KwFinally,
	"for":      KwFor,
	"from":     KwFrom,
	"global":   KwGlobal,
	"if":       KwIf,
	"import":   KwImport,
	"in":       KwIn,
	"is":       KwIs,
	"lambda":   KwLambda,
	"nonlocal": KwNonlocal,
	"not":      KwNot,
	"or":       KwOr,
	"pass":     KwPass,
	"raise":    KwRaise,
	"return":   KwReturn,
	"try":      KwTry,
	"while":    KwWhile,
	"with":     KwWith,
	"yield":    KwYield,
}

// LookupKeyword returns the keyword Kind for text, or (Invalid, false) if
// text is an ordinary identifier.
func LookupKeyword(text string) (Kind, bool) {
	k, ok := keywords[text]
	return k, ok
}

func (k Kind) IsKeyword() bool {
	return k >= KwFalse && k <= KwYield
}

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Newline:
		return "NEWLINE"
	case Indent:
		return "INDENT"
	case Dedent:
		return "DEDENT"
	case Ident:
		return "ident"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Bytes:
		return "bytes"
	default:
		for text, kw := range keywords {
			if kw == k {
				return text
			}
		}
		return "punct"
	}
}
