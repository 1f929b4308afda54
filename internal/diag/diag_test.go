package diag

import (
	"testing"

	"pysema/internal/source"
)

func TestBagAddRespectsCapacity(t *testing.T) {
	b := NewBag(1)
	if !b.Add(Diagnostic{Code: SemaDuplicateSymbol}) {
		t.Fatalf("first Add should succeed")
	}
	if b.Add(Diagnostic{Code: SemaShadowSymbol}) {
		t.Fatalf("second Add should be rejected once capacity is reached")
	}
	if b.Len() != 1 {
		t.Fatalf("Len = %d, want 1", b.Len())
	}
}

func TestBagDedup(t *testing.T) {
	b := NewBag(8)
	sp := source.Span{File: 1, Start: 0, End: 3}
	b.Add(Diagnostic{Code: SemaShadowSymbol, Primary: sp})
	b.Add(Diagnostic{Code: SemaShadowSymbol, Primary: sp})
	b.Dedup()
	if b.Len() != 1 {
		t.Fatalf("Dedup: Len = %d, want 1", b.Len())
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(8)
	r := BagReporter{Bag: bag}
	builder := ReportError(r, SemaDuplicateSymbol, source.Span{}, "duplicate")
	builder.WithNote(source.Span{}, "previous declaration here")
	builder.Emit()
	builder.Emit()
	if bag.Len() != 1 {
		t.Fatalf("Emit should be idempotent, got Len = %d", bag.Len())
	}
	if len(bag.Items()[0].Notes) != 1 {
		t.Fatalf("expected the note to be carried onto the diagnostic")
	}
}

func TestHasErrors(t *testing.T) {
	b := NewBag(8)
	b.Add(Diagnostic{Severity: SevWarning})
	if b.HasErrors() {
		t.Fatalf("a warning-only bag should not report HasErrors")
	}
	b.Add(Diagnostic{Severity: SevError})
	if !b.HasErrors() {
		t.Fatalf("expected HasErrors once an error is added")
	}
}
