package pylex

import (
	"pysema/internal/diag"
	"pysema/internal/pytoken"
)

// scanString consumes a (possibly prefixed, possibly triple-quoted) string
// or bytes literal starting at the current quote character. String-prefix
// handling (r/b/f/u, any case, any order) happens in scanIdentOrKeyword's
// caller: the lexer peeks one identifier ahead before committing to an
// ident-vs-string-prefix decision, mirroring the teacher's own lookahead
// style in scan_ops.go's multi-byte operator disambiguation.
func (lx *Lexer) scanString() pytoken.Token {
	return lx.scanStringWithPrefix("")
}

func (lx *Lexer) scanStringWithPrefix(prefix string) pytoken.Token {
	start := lx.cursor.Mark()
	if prefix != "" {
		// The prefix bytes were already consumed by the caller before this
		// Mark, so the span starts at the quote; the prefix is carried only
		// in the token's Text below.
	}
	quote := lx.cursor.Peek()
	triple := false
	closed := false
	content := lx.file.Content
	at3 := func() bool {
		o := int(lx.cursor.Off)
		return o+2 < len(content) && content[o] == quote && content[o+1] == quote && content[o+2] == quote
	}
	if at3() {
		triple = true
		lx.cursor.Bump()
		lx.cursor.Bump()
		lx.cursor.Bump()
	} else {
		lx.cursor.Bump()
	}

	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '\\' {
			lx.cursor.Bump()
			if !lx.cursor.EOF() {
				lx.cursor.Bump()
			}
			continue
		}
		if b == quote {
			if !triple {
				lx.cursor.Bump()
				closed = true
				break
			}
			if at3() {
				lx.cursor.Bump()
				lx.cursor.Bump()
				lx.cursor.Bump()
				closed = true
				break
			}
			lx.cursor.Bump()
			continue
		}
		if b == '\n' && !triple {
			// Unterminated single-line string; stop here, report it, and
			// let the truncated token flow on so the parser still sees a
			// String token at this position instead of desyncing on the
			// newline.
			break
		}
		lx.cursor.Bump()
	}

	sp := lx.cursor.SpanFrom(start)
	if !closed {
		diag.ReportError(lx.reporter, diag.LexUnterminatedString, sp, "pylex: unterminated string literal").Emit()
	}
	kind := pytoken.String
	for _, c := range prefix {
		if c == 'b' || c == 'B' {
			kind = pytoken.Bytes
		}
	}
	return pytoken.Token{Kind: kind, Span: sp, Text: prefix + string(lx.file.Content[sp.Start:sp.End])}
}

// stringPrefixLen returns how many bytes at the cursor form a valid string
// prefix (r, b, f, u, rb, br, rf, fr, any case) immediately followed by a
// quote character, or 0 if none.
func (lx *Lexer) stringPrefixLen() int {
	content := lx.file.Content
	off := int(lx.cursor.Off)
	isQuote := func(i int) bool { return i < len(content) && (content[i] == '"' || content[i] == '\'') }
	if off >= len(content) || !isStringPrefixByte(content[off]) {
		return 0
	}
	if isQuote(off + 1) {
		return 1
	}
	if off+1 < len(content) && isQuote(off+2) {
		switch string([]byte{content[off] | 0x20, content[off+1] | 0x20}) {
		case "rb", "br", "rf", "fr":
			return 2
		}
	}
	return 0
}

func isStringPrefixByte(b byte) bool {
	switch b {
	case 'r', 'R', 'b', 'B', 'f', 'F', 'u', 'U':
		return true
	default:
		return false
	}
}
