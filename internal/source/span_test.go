package source

import "testing"

func TestSpanCover(t *testing.T) {
	tests := []struct {
		name string
		a, b Span
		want Span
	}{
		{"disjoint", Span{File: 1, Start: 2, End: 4}, Span{File: 1, Start: 8, End: 10}, Span{File: 1, Start: 2, End: 10}},
		{"nested", Span{File: 1, Start: 0, End: 10}, Span{File: 1, Start: 3, End: 4}, Span{File: 1, Start: 0, End: 10}},
		{"other file", Span{File: 1, Start: 0, End: 1}, Span{File: 2, Start: 0, End: 50}, Span{File: 1, Start: 0, End: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cover(tt.b); got != tt.want {
				t.Fatalf("Cover() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpanContains(t *testing.T) {
	outer := Span{File: 3, Start: 10, End: 20}
	if !outer.Contains(Span{File: 3, Start: 10, End: 20}) {
		t.Fatalf("span must contain itself")
	}
	if outer.Contains(Span{File: 3, Start: 9, End: 12}) {
		t.Fatalf("span starting before outer must not be contained")
	}
	if outer.Contains(Span{File: 4, Start: 12, End: 13}) {
		t.Fatalf("span from another file must not be contained")
	}
}

func TestFileSetResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("main.tails", []byte("fn main() {\r\n  return 1\r\n}\n"))
	f := fs.Get(id)
	if f == nil {
		t.Fatalf("file %d not registered", id)
	}
	if f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("expected CRLF normalisation flag")
	}
	start, end, ok := fs.Resolve(Span{File: id, Start: 14, End: 22})
	if !ok {
		t.Fatalf("Resolve() reported unknown file")
	}
	if start != (LineCol{Line: 2, Col: 3}) || end != (LineCol{Line: 2, Col: 11}) {
		t.Fatalf("Resolve() = %v..%v", start, end)
	}
	if got := f.Line(2); got != "  return 1" {
		t.Fatalf("Line(2) = %q", got)
	}
	if _, _, ok := fs.Resolve(Span{File: 42}); ok {
		t.Fatalf("unknown file must not resolve")
	}
}

func TestInternerRoundTrip(t *testing.T) {
	in := NewInterner()
	a := in.Intern("alpha")
	b := in.Intern("beta")
	if a == b || a == NoStringID {
		t.Fatalf("unexpected ids %d %d", a, b)
	}
	if again := in.Intern("alpha"); again != a {
		t.Fatalf("Intern() not stable: %d != %d", again, a)
	}
	if s := in.MustLookup(b); s != "beta" {
		t.Fatalf("MustLookup() = %q", s)
	}
}
