// Package pyparse is a hand-written recursive-descent parser, grounded on
// the teacher's internal/parser (token lookahead via Peek/Next, per-
// construct parseX functions, panic-based error bailout; a bailout ends the
// file's parse and keeps the top-level statements completed before it)
// reduced to the grammar subset SPEC_FULL.md §4.8 names: module and
// nested def/class/lambda, import forms, assignment forms, for/while/if/
// with/try, global/nonlocal, and comprehensions. It builds directly into
// internal/pytree via pytree.Builder rather than its own AST, since pytree is
// the only tree shape the resolver ever walks.
package pyparse

import (
	"pysema/internal/diag"
	"pysema/internal/pylex"
	"pysema/internal/pytoken"
	"pysema/internal/pytree"
	"pysema/internal/source"
)

// Parser holds the state needed to turn one file's token stream into a
// pytree.File: a two-token lookahead buffer (cur/next), the shared builder
// every parsed node is allocated into, and the shared string interner names
// pass through before becoming pytree.NameIDs.
type Parser struct {
	lex      *pylex.Lexer
	tree     *pytree.Builder
	strings  *source.Interner
	file     source.FileID
	reporter diag.Reporter

	cur  pytoken.Token
	next pytoken.Token
}

// ParseResult is the outcome of parsing one file: the new FileID plus a flag
// reporting whether a hard parse error forced early termination (§4.7 "hard"
// failures may abort the file; the caller decides what to do with a partial
// tree).
type ParseResult struct {
	File     pytree.FileID
	Complete bool
}

// New constructs a Parser over file's token stream. tree and strings are
// shared across every file in a batch so name text interns to the same
// source.StringID everywhere.
func New(file *source.File, tree *pytree.Builder, strings *source.Interner, reporter diag.Reporter) *Parser {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	p := &Parser{
		lex:      pylex.New(file, reporter),
		tree:     tree,
		strings:  strings,
		file:     file.ID,
		reporter: reporter,
	}
	p.cur = p.lex.Next()
	p.next = p.lex.Next()
	return p
}

// ParseFile parses the whole token stream as a module body.
func (p *Parser) ParseFile() (result ParseResult) {
	result.Complete = true
	var body []pytree.StmtID
	defer func() {
		if r := recover(); r != nil {
			// Keep the top-level statements completed before the failure.
			result.Complete = false
			result.File = p.tree.NewFile(p.file, body)
		}
	}()
	p.skipNewlines()
	for !p.at(pytoken.EOF) {
		body = append(body, p.parseStatement()...)
		p.skipNewlines()
	}
	result.File = p.tree.NewFile(p.file, body)
	return result
}

func (p *Parser) advance() pytoken.Token {
	tok := p.cur
	p.cur = p.next
	p.next = p.lex.Next()
	return tok
}

func (p *Parser) at(k pytoken.Kind) bool { return p.cur.Kind == k }

func (p *Parser) atAny(ks ...pytoken.Kind) bool {
	for _, k := range ks {
		if p.cur.Kind == k {
			return true
		}
	}
	return false
}

// expect consumes the current token if it matches k, else reports a hard
// failure per §4.7 and aborts this file's parse via panic/recover at
// ParseFile's boundary, grounded on the teacher's own use of panic/recover
// to convert a per-file parse failure into a reportable result instead of
// crashing the whole run.
func (p *Parser) expect(k pytoken.Kind) pytoken.Token {
	if !p.at(k) {
		diag.ReportError(p.reporter, diag.SynUnexpectedToken, p.cur.Span, "pyparse: unexpected token "+p.cur.Kind.String()+", want "+k.String()).Emit()
		panic("pyparse: unexpected token")
	}
	return p.advance()
}

// reportUnexpected emits a diagnostic for a token that cannot begin want in
// the current grammar position; the caller panics immediately after so
// ParseFile's deferred recover converts it into Complete=false.
func (p *Parser) reportUnexpected(want string) {
	diag.ReportError(p.reporter, diag.SynExpectedToken, p.cur.Span, "pyparse: unexpected token "+p.cur.Kind.String()+" while parsing "+want).Emit()
}

func (p *Parser) span(start pytoken.Token) source.Span {
	return source.Span{File: p.file, Start: start.Span.Start, End: p.cur.Span.Start}
}

func (p *Parser) internName(tok pytoken.Token) pytree.NameID {
	return p.tree.NewName(p.strings.Intern(tok.Text), tok.Span)
}

func (p *Parser) newName(text string, sp source.Span) pytree.NameID {
	return p.tree.NewName(p.strings.Intern(text), sp)
}

// skipNewlines consumes any number of blank NEWLINE tokens, which can appear
// between statements after blank-line-only logical lines collapse.
func (p *Parser) skipNewlines() {
	for p.at(pytoken.Newline) {
		p.advance()
	}
}
