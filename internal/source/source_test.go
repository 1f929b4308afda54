package source

import "testing"

func TestInternerDeduplicates(t *testing.T) {
	in := NewInterner()
	a := in.Intern("foo")
	b := in.Intern("foo")
	if a != b {
		t.Fatalf("expected same ID for repeated intern, got %d and %d", a, b)
	}
	if got := in.MustLookup(a); got != "foo" {
		t.Fatalf("MustLookup = %q, want foo", got)
	}
	if in.Intern("") != NoStringID {
		t.Fatalf("interning empty string should return NoStringID")
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 10, End: 20}
	b := Span{File: 1, Start: 5, End: 15}
	got := a.Cover(b)
	if got.Start != 5 || got.End != 20 {
		t.Fatalf("Cover = %+v, want {5 20}", got)
	}
	diffFile := Span{File: 2, Start: 0, End: 1}
	if got := a.Cover(diffFile); got != a {
		t.Fatalf("Cover across files should be a no-op, got %+v", got)
	}
}

func TestFileSetResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("snippet.py", []byte("a = 1\nb = 2\n"))
	start, end := fs.Resolve(Span{File: id, Start: 6, End: 7})
	if start.Line != 2 || start.Col != 1 {
		t.Fatalf("start = %+v, want line 2 col 1", start)
	}
	if end.Line != 2 || end.Col != 2 {
		t.Fatalf("end = %+v, want line 2 col 2", end)
	}
}

func TestFileSetAddAlwaysAllocates(t *testing.T) {
	fs := NewFileSet()
	first := fs.AddVirtual("x.py", []byte("1"))
	second := fs.AddVirtual("x.py", []byte("2"))
	if first == second {
		t.Fatalf("Add should allocate a fresh FileID even for a repeated path")
	}
	f, ok := fs.GetByPath("x.py")
	if !ok || f.ID != second {
		t.Fatalf("GetByPath should resolve to the most recent FileID")
	}
}
