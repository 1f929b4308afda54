package pylex

import "pysema/internal/pytoken"

// scanOperatorOrPunct consumes one operator or punctuation token, always
// preferring the longest match (three-byte, then two-byte, then one-byte),
// grounded on the teacher's internal/lexer/scan_ops.go longest-match style.
func (lx *Lexer) scanOperatorOrPunct() pytoken.Token {
	start := lx.cursor.Mark()
	b0 := lx.cursor.Bump()

	two := func(b byte) bool {
		if lx.cursor.Peek() == b {
			lx.cursor.Bump()
			return true
		}
		return false
	}

	var kind pytoken.Kind
	switch b0 {
	case '+':
		if two('=') {
			kind = pytoken.PlusAssign
		} else {
			kind = pytoken.Plus
		}
	case '-':
		switch {
		case two('='):
			kind = pytoken.MinusAssign
		case two('>'):
			kind = pytoken.Arrow
		default:
			kind = pytoken.Minus
		}
	case '*':
		switch {
		case lx.cursor.Peek() == '*':
			lx.cursor.Bump()
			if two('=') {
				kind = pytoken.DoubleStarAssign
			} else {
				kind = pytoken.DoubleStar
			}
		case two('='):
			kind = pytoken.StarAssign
		default:
			kind = pytoken.Star
		}
	case '/':
		switch {
		case lx.cursor.Peek() == '/':
			lx.cursor.Bump()
			if two('=') {
				kind = pytoken.DoubleSlashAssign
			} else {
				kind = pytoken.DoubleSlash
			}
		case two('='):
			kind = pytoken.SlashAssign
		default:
			kind = pytoken.Slash
		}
	case '%':
		if two('=') {
			kind = pytoken.PercentAssign
		} else {
			kind = pytoken.Percent
		}
	case '@':
		if two('=') {
			kind = pytoken.AtAssign
		} else {
			kind = pytoken.At
		}
	case '&':
		if two('=') {
			kind = pytoken.AmpAssign
		} else {
			kind = pytoken.Amp
		}
	case '|':
		if two('=') {
			kind = pytoken.PipeAssign
		} else {
			kind = pytoken.Pipe
		}
	case '^':
		if two('=') {
			kind = pytoken.CaretAssign
		} else {
			kind = pytoken.Caret
		}
	case '~':
		kind = pytoken.Tilde
	case '<':
		switch {
		case lx.cursor.Peek() == '<':
			lx.cursor.Bump()
			if two('=') {
				kind = pytoken.ShlAssign
			} else {
				kind = pytoken.Shl
			}
		case two('='):
			kind = pytoken.LtEq
		default:
			kind = pytoken.Lt
		}
	case '>':
		switch {
		case lx.cursor.Peek() == '>':
			lx.cursor.Bump()
			if two('=') {
				kind = pytoken.ShrAssign
			} else {
				kind = pytoken.Shr
			}
		case two('='):
			kind = pytoken.GtEq
		default:
			kind = pytoken.Gt
		}
	case '=':
		if two('=') {
			kind = pytoken.EqEq
		} else {
			kind = pytoken.Assign
		}
	case '!':
		if two('=') {
			kind = pytoken.NotEq
		} else {
			kind = pytoken.Invalid
		}
	case '(':
		kind = pytoken.LParen
	case ')':
		kind = pytoken.RParen
	case '[':
		kind = pytoken.LBracket
	case ']':
		kind = pytoken.RBracket
	case '{':
		kind = pytoken.LBrace
	case '}':
		kind = pytoken.RBrace
	case ',':
		kind = pytoken.Comma
	case ':':
		if two('=') {
			kind = pytoken.Walrus
		} else {
			kind = pytoken.Colon
		}
	case ';':
		kind = pytoken.Semicolon
	case '.':
		if b0a, b1a, ok := lx.cursor.Peek2(); ok && b0a == '.' && b1a == '.' {
			lx.cursor.Bump()
			lx.cursor.Bump()
			kind = pytoken.Ellipsis
		} else {
			kind = pytoken.Dot
		}
	case '_':
		kind = pytoken.Ident
	default:
		kind = pytoken.Invalid
	}

	sp := lx.cursor.SpanFrom(start)
	return pytoken.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
