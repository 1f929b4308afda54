package pylex

import "pysema/internal/pytoken"

// scanNumber consumes an integer or float literal. It does not evaluate the
// literal's value; the resolver only ever needs the literal kind (§4.6), not
// the numeric value, so the literal text is interned verbatim.
func (lx *Lexer) scanNumber() pytoken.Token {
	start := lx.cursor.Mark()
	isFloat := false

	if lx.cursor.Peek() == '0' {
		if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '0' && (b1 == 'x' || b1 == 'X' || b1 == 'o' || b1 == 'O' || b1 == 'b' || b1 == 'B') {
			lx.cursor.Bump()
			lx.cursor.Bump()
			for isHexDigit(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
				lx.cursor.Bump()
			}
			sp := lx.cursor.SpanFrom(start)
			return pytoken.Token{Kind: pytoken.Int, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
	}

	for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}
	if lx.cursor.Peek() == '.' {
		isFloat = true
		lx.cursor.Bump()
		for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
			lx.cursor.Bump()
		}
	}
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == b && (isDec(b1) || b1 == '+' || b1 == '-') {
			isFloat = true
			lx.cursor.Bump()
			if p := lx.cursor.Peek(); p == '+' || p == '-' {
				lx.cursor.Bump()
			}
			for isDec(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
		}
	}
	if b := lx.cursor.Peek(); b == 'j' || b == 'J' {
		isFloat = true
		lx.cursor.Bump()
	}

	sp := lx.cursor.SpanFrom(start)
	kind := pytoken.Int
	if isFloat {
		kind = pytoken.Float
	}
	return pytoken.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

func (lx *Lexer) isNumberAfterDot() bool {
	_, b1, ok := lx.cursor.Peek2()
	return ok && isDec(b1)
}

func isHexDigit(b byte) bool {
	return isDec(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
