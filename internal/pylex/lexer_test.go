package pylex

import (
	"testing"

	"pysema/internal/pytoken"
	"pysema/internal/source"
)

func createFile(content string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.py", []byte(content))
	return fs.Get(id)
}

func kinds(t *testing.T, src string) []pytoken.Kind {
	t.Helper()
	lx := New(createFile(src), nil)
	var out []pytoken.Kind
	for {
		tok := lx.Next()
		out = append(out, tok.Kind)
		if tok.Kind == pytoken.EOF {
			return out
		}
		if len(out) > 1000 {
			t.Fatalf("lexer did not reach EOF for %q", src)
		}
	}
}

func TestIdentifierAndKeyword(t *testing.T) {
	got := kinds(t, "x = if")
	want := []pytoken.Kind{pytoken.Ident, pytoken.Assign, pytoken.KwIf, pytoken.Newline, pytoken.EOF}
	assertKinds(t, got, want)
}

func TestIndentDedentAroundBlock(t *testing.T) {
	got := kinds(t, "if x:\n    y\nz\n")
	want := []pytoken.Kind{
		pytoken.KwIf, pytoken.Ident, pytoken.Colon, pytoken.Newline,
		pytoken.Indent, pytoken.Ident, pytoken.Newline,
		pytoken.Dedent, pytoken.Ident, pytoken.Newline,
		pytoken.EOF,
	}
	assertKinds(t, got, want)
}

func TestParenSuppressesNewlineAndIndent(t *testing.T) {
	got := kinds(t, "f(a,\n   b)\n")
	want := []pytoken.Kind{
		pytoken.Ident, pytoken.LParen, pytoken.Ident, pytoken.Comma, pytoken.Ident, pytoken.RParen,
		pytoken.Newline, pytoken.EOF,
	}
	assertKinds(t, got, want)
}

func TestBackslashContinuation(t *testing.T) {
	got := kinds(t, "x = 1 + \\\n    2\n")
	want := []pytoken.Kind{
		pytoken.Ident, pytoken.Assign, pytoken.Int, pytoken.Plus, pytoken.Int, pytoken.Newline, pytoken.EOF,
	}
	assertKinds(t, got, want)
}

func TestBlankAndCommentLinesDoNotAffectIndent(t *testing.T) {
	got := kinds(t, "x = 1\n\n# comment\ny = 2\n")
	want := []pytoken.Kind{
		pytoken.Ident, pytoken.Assign, pytoken.Int, pytoken.Newline,
		pytoken.Ident, pytoken.Assign, pytoken.Int, pytoken.Newline,
		pytoken.EOF,
	}
	assertKinds(t, got, want)
}

func TestNumberAndStringLiterals(t *testing.T) {
	got := kinds(t, `x = 1.5 + "hi" + b"y"`)
	want := []pytoken.Kind{
		pytoken.Ident, pytoken.Assign, pytoken.Float, pytoken.Plus, pytoken.String, pytoken.Plus, pytoken.Bytes,
		pytoken.Newline, pytoken.EOF,
	}
	assertKinds(t, got, want)
}

func TestOperatorLongestMatch(t *testing.T) {
	got := kinds(t, "a //= b ** c")
	want := []pytoken.Kind{
		pytoken.Ident, pytoken.DoubleSlashAssign, pytoken.Ident, pytoken.DoubleStar, pytoken.Ident,
		pytoken.Newline, pytoken.EOF,
	}
	assertKinds(t, got, want)
}

func assertKinds(t *testing.T, got, want []pytoken.Kind) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d\ngot:  %v\nwant: %v", len(got), len(want), got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("token[%d] = %v, want %v\ngot:  %v\nwant: %v", i, got[i], want[i], got, want)
		}
	}
}
