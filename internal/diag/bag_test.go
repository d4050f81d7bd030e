package diag

import (
	"testing"

	"tails/internal/source"
)

func TestBagLimitAndMerge(t *testing.T) {
	bag := NewBag(2)
	sp := source.Span{File: 1, Start: 0, End: 1}
	if !bag.Add(NewError(SemaTypeMismatch, sp, "a")) || !bag.Add(NewError(SemaTypeMismatch, sp, "b")) {
		t.Fatalf("first two diagnostics must be accepted")
	}
	if bag.Add(NewError(SemaTypeMismatch, sp, "c")) {
		t.Fatalf("third diagnostic must be rejected by limit")
	}

	other := NewBag(0)
	other.Add(New(SevWarning, SemaShadowedBinding, sp, "w"))
	bag.Merge(other)
	if bag.Len() != 3 {
		t.Fatalf("Len() = %d after merge, want 3", bag.Len())
	}
	if !bag.HasErrors() || !bag.HasWarnings() {
		t.Fatalf("expected both errors and warnings")
	}
	if got := bag.Count(SevWarning); got != 1 {
		t.Fatalf("Count(SevWarning) = %d", got)
	}
}

func TestBagSortAndDedup(t *testing.T) {
	bag := NewBag(0)
	bag.Add(NewError(SemaTypeMismatch, source.Span{File: 1, Start: 9, End: 10}, "late"))
	bag.Add(New(SevWarning, SemaShadowedBinding, source.Span{File: 1, Start: 2, End: 3}, "warn"))
	bag.Add(NewError(SemaMissingDeclaration, source.Span{File: 1, Start: 2, End: 3}, "err"))
	bag.Add(NewError(SemaMissingDeclaration, source.Span{File: 1, Start: 2, End: 3}, "err"))
	bag.Dedup()
	bag.Sort()

	items := bag.Items()
	if len(items) != 3 {
		t.Fatalf("Dedup() left %d items, want 3", len(items))
	}
	if items[0].Code != SemaMissingDeclaration || items[1].Code != SemaShadowedBinding || items[2].Message != "late" {
		t.Fatalf("unexpected order: %+v", items)
	}
}

func TestPromoteWarnings(t *testing.T) {
	bag := NewBag(0)
	bag.Add(New(SevWarning, SemaShadowedBinding, source.Span{}, "w"))
	if bag.HasErrors() {
		t.Fatalf("warnings must not count as errors")
	}
	bag.PromoteWarnings()
	if !bag.HasErrors() {
		t.Fatalf("PromoteWarnings() must turn warnings into errors")
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(0)
	b := ReportError(BagReporter{Bag: bag}, SemaDuplicateDefinition, source.Span{File: 1, Start: 4, End: 5}, "dup").
		WithNote(source.Span{File: 1, Start: 0, End: 1}, "previous definition here")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("Emit() must be idempotent, got %d diagnostics", bag.Len())
	}
	if rel := bag.Items()[0].Related(); len(rel) != 1 || rel[0].Start != 0 {
		t.Fatalf("Related() = %v", rel)
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{File: 2, Start: 1, End: 2}
	r.Report(SemaTypeMismatch, SevError, sp, "x", nil)
	r.Report(SemaTypeMismatch, SevError, sp, "x", nil)
	r.Report(SemaTypeMismatch, SevError, sp, "y", nil)
	if bag.Len() != 2 {
		t.Fatalf("DedupReporter forwarded %d, want 2", bag.Len())
	}
}

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.AddVirtual("demo.tails", []byte("a\nbb\n"))
	diags := []Diagnostic{
		NewError(SemaTypeMismatch, source.Span{File: file, Start: 2, End: 4}, "second\nline").
			WithNote(source.Span{File: file, Start: 0, End: 1}, "here"),
		NewError(SemaMissingDeclaration, source.Span{File: 9, Start: 3, End: 5}, "no text"),
	}
	want := "error SEM3004 demo.tails:2:1 second line\n" +
		"note SEM3004 demo.tails:1:1 here\n" +
		"error SEM3002 #9:3-5 no text"
	if got := FormatShort(diags, fs, true); got != want {
		t.Fatalf("FormatShort() =\n%s\nwant\n%s", got, want)
	}
}
