package pylex

import (
	"golang.org/x/text/unicode/norm"

	"pysema/internal/pytoken"
)

func (lx *Lexer) scanIdentOrKeyword() pytoken.Token {
	start := lx.cursor.Mark()
	for {
		b := lx.cursor.Peek()
		if b == 0 || (!isIdentContinueByte(b) && b < utf8RuneSelf) {
			break
		}
		if b >= utf8RuneSelf {
			// Treat any non-ASCII byte as identifier-continue; the source
			// language allows Unicode identifiers and this lexer does not
			// need to validate Unicode categories to drive the resolver.
			lx.cursor.Bump()
			continue
		}
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])
	if kw, ok := pytoken.LookupKeyword(text); ok {
		return pytoken.Token{Kind: kw, Span: sp, Text: text}
	}
	// Two spellings of the same identifier that only differ by Unicode
	// normalization form must resolve to the same binding, so the text
	// reaching the interner is always NFC-normalized (PEP 3131's rule for
	// identifier comparison).
	if !norm.NFC.IsNormalString(text) {
		text = norm.NFC.String(text)
	}
	return pytoken.Token{Kind: pytoken.Ident, Span: sp, Text: text}
}
