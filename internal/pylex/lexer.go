package pylex

import (
	"pysema/internal/diag"
	"pysema/internal/pytoken"
	"pysema/internal/source"
)

// Lexer turns a source file's bytes into the token stream pyparse consumes,
// grounded on the teacher's internal/lexer.Lexer (a Cursor plus a one-token
// lookahead buffer, §Next() dispatching on the current byte), extended with
// the indentation bookkeeping the source language's grammar needs in place
// of the teacher's brace/semicolon-delimited blocks: a column stack that
// synthesizes INDENT/DEDENT tokens, and parenthesis-depth tracking so
// newlines inside `(...)`/`[...]`/`{...}` are logical whitespace rather than
// statement separators.
type Lexer struct {
	file     *source.File
	cursor   Cursor
	reporter diag.Reporter

	indent []int
	paren  int

	queue []pytoken.Token
	atBOL bool
	// sawContent is false until the first non-blank logical line; a file
	// that is blank/comments-only produces no spurious leading INDENT.
	sawContent bool
	lastKind   pytoken.Kind
	done       bool
}

// New creates a lexer positioned at the start of f. reporter receives the
// handful of lexical diagnostics the lexer can raise on its own (e.g. an
// unterminated single-line string); nil is treated as diag.NopReporter{}.
func New(f *source.File, reporter diag.Reporter) *Lexer {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	return &Lexer{
		file:     f,
		cursor:   NewCursor(f),
		reporter: reporter,
		indent:   []int{0},
		atBOL:    true,
	}
}

// Next returns the next token, synthesizing NEWLINE/INDENT/DEDENT as the
// indentation-structured grammar requires.
func (lx *Lexer) Next() pytoken.Token {
	if len(lx.queue) > 0 {
		tok := lx.queue[0]
		lx.queue = lx.queue[1:]
		lx.lastKind = tok.Kind
		return tok
	}
	if lx.done {
		return lx.eofToken()
	}

	if lx.atBOL && lx.paren == 0 {
		if tok, ok := lx.handleLineStart(); ok {
			lx.lastKind = tok.Kind
			return tok
		}
	}

	lx.skipIntraLineTrivia()

	if lx.cursor.EOF() {
		return lx.finish()
	}

	ch := lx.cursor.Peek()
	var tok pytoken.Token

	switch {
	case ch == '\n':
		lx.cursor.Bump()
		if lx.paren > 0 {
			return lx.Next()
		}
		sp := lx.cursor.SpanFrom(lx.cursor.Mark())
		lx.atBOL = true
		if !lx.sawContent || lx.lastKind == pytoken.Newline {
			return lx.Next()
		}
		tok = pytoken.Token{Kind: pytoken.Newline, Span: sp}

	case ch == '\\':
		if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '\\' && b1 == '\n' {
			lx.cursor.Bump()
			lx.cursor.Bump()
			return lx.Next()
		}
		lx.cursor.Bump()
		tok = pytoken.Token{Kind: pytoken.Invalid, Span: lx.cursor.SpanFrom(lx.cursor.Mark())}

	case isIdentStartByte(ch) || ch >= utf8RuneSelf:
		if n := lx.stringPrefixLen(); n > 0 {
			start := lx.cursor.Mark()
			for i := 0; i < n; i++ {
				lx.cursor.Bump()
			}
			prefix := string(lx.file.Content[start:lx.cursor.Off])
			tok = lx.scanStringWithPrefix(prefix)
			tok.Span.Start = uint32(start)
		} else {
			tok = lx.scanIdentOrKeyword()
		}

	case isDec(ch):
		tok = lx.scanNumber()

	case ch == '.' && lx.isNumberAfterDot():
		tok = lx.scanNumber()

	case ch == '"' || ch == '\'':
		tok = lx.scanString()

	case ch == '#':
		lx.skipComment()
		return lx.Next()

	default:
		tok = lx.scanOperatorOrPunct()
		switch tok.Kind {
		case pytoken.LParen, pytoken.LBracket, pytoken.LBrace:
			lx.paren++
		case pytoken.RParen, pytoken.RBracket, pytoken.RBrace:
			if lx.paren > 0 {
				lx.paren--
			}
		}
	}

	lx.sawContent = true
	lx.lastKind = tok.Kind
	return tok
}

// skipIntraLineTrivia consumes spaces/tabs/CR between tokens on one logical
// line; it does not consume newlines, which Next's main switch handles so it
// can decide whether to emit a NEWLINE token.
func (lx *Lexer) skipIntraLineTrivia() {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == ' ' || b == '\t' || b == '\r' {
			lx.cursor.Bump()
			continue
		}
		if b == '#' {
			lx.skipComment()
			continue
		}
		if b == '\\' {
			if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '\\' && b1 == '\n' {
				lx.cursor.Bump()
				lx.cursor.Bump()
				continue
			}
		}
		break
	}
}

func (lx *Lexer) skipComment() {
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.cursor.Bump()
	}
}

// handleLineStart measures indentation at the start of a logical line,
// skips wholly-blank or comment-only lines without touching the indent
// stack, and queues INDENT/DEDENT tokens when the column changes.
func (lx *Lexer) handleLineStart() (pytoken.Token, bool) {
	for {
		start := lx.cursor.Mark()
		col := 0
		for {
			b := lx.cursor.Peek()
			if b == ' ' {
				col++
				lx.cursor.Bump()
				continue
			}
			if b == '\t' {
				col += 8 - (col % 8)
				lx.cursor.Bump()
				continue
			}
			break
		}
		b := lx.cursor.Peek()
		if b == '\n' || b == '#' || lx.cursor.EOF() {
			// blank or comment-only line: consume it and retry without
			// touching the indent stack.
			if b == '#' {
				lx.skipComment()
			}
			if lx.cursor.Peek() == '\n' {
				lx.cursor.Bump()
				continue
			}
			if lx.cursor.EOF() {
				lx.atBOL = false
				return pytoken.Token{}, false
			}
		}
		_ = start
		lx.atBOL = false
		lx.applyIndent(col)
		if len(lx.queue) > 0 {
			tok := lx.queue[0]
			lx.queue = lx.queue[1:]
			return tok, true
		}
		return pytoken.Token{}, false
	}
}

func (lx *Lexer) applyIndent(col int) {
	top := lx.indent[len(lx.indent)-1]
	sp := source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
	switch {
	case col > top:
		lx.indent = append(lx.indent, col)
		lx.queue = append(lx.queue, pytoken.Token{Kind: pytoken.Indent, Span: sp, Indent: col})
	case col < top:
		for len(lx.indent) > 1 && lx.indent[len(lx.indent)-1] > col {
			lx.indent = lx.indent[:len(lx.indent)-1]
			lx.queue = append(lx.queue, pytoken.Token{Kind: pytoken.Dedent, Span: sp, Indent: lx.indent[len(lx.indent)-1]})
		}
	}
}

// finish is reached once the cursor hits EOF mid-Next: emit a trailing
// NEWLINE if the last logical line had content, then unwind the indent
// stack, then EOF forever after.
func (lx *Lexer) finish() pytoken.Token {
	sp := source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
	if lx.sawContent && lx.lastKind != pytoken.Newline {
		lx.lastKind = pytoken.Newline
		for len(lx.indent) > 1 {
			lx.indent = lx.indent[:len(lx.indent)-1]
			lx.queue = append(lx.queue, pytoken.Token{Kind: pytoken.Dedent, Span: sp})
		}
		lx.done = true
		return pytoken.Token{Kind: pytoken.Newline, Span: sp}
	}
	for len(lx.indent) > 1 {
		lx.indent = lx.indent[:len(lx.indent)-1]
		lx.queue = append(lx.queue, pytoken.Token{Kind: pytoken.Dedent, Span: sp})
	}
	lx.done = true
	if len(lx.queue) > 0 {
		tok := lx.queue[0]
		lx.queue = lx.queue[1:]
		lx.lastKind = tok.Kind
		return tok
	}
	return lx.eofToken()
}

func (lx *Lexer) eofToken() pytoken.Token {
	sp := source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
	return pytoken.Token{Kind: pytoken.EOF, Span: sp}
}
