package diag

import "fmt"

// Code identifies a diagnostic's category, grounded on the teacher's own
// range-based scheme (internal/diag/codes.go): a thousands digit picks the
// pass that raised it, and ID renders that range as a short mnemonic prefix.
// pysema's grammar and resolver only need the Lex/Syn/Sema ranges the
// teacher reserves for its own lexer/parser/checker; the IO/Proj/Obs/Fut/Aln
// ranges cover outer-surface concerns the teacher has and pysema doesn't.
type Code uint16

const (
	UnknownCode Code = 0

	// Lexical errors, raised by internal/pylex.
	LexUnknownChar        Code = 1000
	LexUnterminatedString Code = 1001
	LexBadNumber          Code = 1002

	// Syntax errors, raised by internal/pyparse's panic/recover hard-failure
	// path (§4.7).
	SynUnexpectedToken Code = 2000
	SynExpectedToken   Code = 2001

	// Semantic analysis: C3's binding pass and scope-graph bookkeeping (§7).
	SemaDuplicateSymbol Code = 3000
	SemaShadowSymbol    Code = 3001
	SemaScopeMismatch   Code = 3002

	// Import resolution.
	SemaDuplicateImport       Code = 3100
	SemaUnresolvedImport      Code = 3101
	SemaUnresolvedWildcard    Code = 3102
	SemaRelativeImportTooDeep Code = 3103

	// Class hierarchy.
	SemaUnresolvedBaseClass Code = 3200
)

var codeDescription = map[Code]string{
	UnknownCode: "unknown diagnostic",

	LexUnknownChar:        "unrecognized character",
	LexUnterminatedString: "unterminated string literal",
	LexBadNumber:          "malformed numeric literal",

	SynUnexpectedToken: "unexpected token",
	SynExpectedToken:   "expected a different token",

	SemaDuplicateSymbol: "duplicate symbol in one scope",
	SemaShadowSymbol:    "shadowed symbol",
	SemaScopeMismatch:   "scope mismatch",

	SemaDuplicateImport:       "duplicate import",
	SemaUnresolvedImport:      "unresolved import",
	SemaUnresolvedWildcard:    "unresolved wildcard import",
	SemaRelativeImportTooDeep: "relative import escapes the package root",

	SemaUnresolvedBaseClass: "unresolved base class",
}

// ID renders c as a range-based mnemonic, e.g. "SEM3000", the way the
// teacher's own diag.Code.ID does.
func (c Code) ID() string {
	switch ic := int(c); {
	case ic == 0:
		return "UNK0000"
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	default:
		return fmt.Sprintf("UNK%04d", ic)
	}
}

// Title returns c's human-readable description, falling back to the unknown
// entry for a code with none registered.
func (c Code) Title() string {
	if desc, ok := codeDescription[c]; ok {
		return desc
	}
	return codeDescription[UnknownCode]
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
